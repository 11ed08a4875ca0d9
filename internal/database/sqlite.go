package database

import (
	"database/sql"
	"strings"
	"sync"

	sqlite3 "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// sqliteDriverName is go-sqlite3 with a LOWER that folds all of Unicode.
// The built-in one only folds ASCII, while ContainsPattern lowercases the
// other side of every LIKE with strings.ToLower.
const sqliteDriverName = "sqlite3_unicode_lower"

var registerSQLiteDriver sync.Once

// SQLite returns a dialector for dsn whose connections override LOWER.
func SQLite(dsn string) gorm.Dialector {
	registerSQLiteDriver.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", strings.ToLower, true)
			},
		})
	})

	return sqlite.New(sqlite.Config{
		DriverName: sqliteDriverName,
		DSN:        dsn,
	})
}
