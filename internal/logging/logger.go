package logging

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	gormlogger "gorm.io/gorm/logger"
)

// Logger is the process-wide application logger.
var Logger = logrus.New()

var once sync.Once

// Options configures the application logger.
type Options struct {
	Level  string
	Format string
	// File enables a rotating log file in addition to stdout when non-empty.
	File string
}

// Init configures Logger. Only the first call has any effect.
func Init(opts Options) {
	once.Do(func() {
		level, err := logrus.ParseLevel(opts.Level)
		if err != nil {
			level = logrus.InfoLevel
		}
		Logger.SetLevel(level)

		if strings.EqualFold(opts.Format, "json") {
			Logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
		} else {
			Logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true, TimestampFormat: time.RFC3339})
		}

		var out io.Writer = os.Stdout
		if opts.File != "" {
			out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
				Filename:   opts.File,
				MaxSize:    10, // megabytes
				MaxBackups: 3,
				MaxAge:     28, // days
				Compress:   true,
			})
		}
		Logger.SetOutput(out)

		Logger.WithFields(logrus.Fields{
			"level":  level.String(),
			"format": opts.Format,
			"file":   opts.File,
		}).Info("Logger initialized")
	})
}

// NewGormLogger routes gorm's SQL logging through Logger.
func NewGormLogger(level string) gormlogger.Interface {
	return gormlogger.New(Logger, gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  parseGormLevel(level),
		IgnoreRecordNotFoundError: true,
		Colorful:                  false,
	})
}

func parseGormLevel(level string) gormlogger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return gormlogger.Silent
	case "error":
		return gormlogger.Error
	case "info":
		return gormlogger.Info
	default:
		return gormlogger.Warn
	}
}
