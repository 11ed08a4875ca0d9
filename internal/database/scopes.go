package database

import (
	"strings"

	"gorm.io/gorm"
)

// NewestFirst orders rows by creation time, newest first, with ascending id
// as the tie-breaker so equal timestamps still produce a stable order.
func NewestFirst(table string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Order(table + ".created_at DESC").Order(table + ".id ASC")
	}
}

// ContainsPattern returns a lower-cased LIKE pattern matching s anywhere.
// LIKE metacharacters in s are escaped with '!'; pair it with LikeEscape.
func ContainsPattern(s string) string {
	r := strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
	return "%" + r.Replace(strings.ToLower(s)) + "%"
}

// LikeEscape is the ESCAPE clause matching ContainsPattern.
const LikeEscape = " ESCAPE '!'"
