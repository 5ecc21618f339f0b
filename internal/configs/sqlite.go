package config

import (
	"fmt"
	"time"

	"github.com/go-pkgz/lgr"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	model "tasker.com/tasker/internal/models"
)

// gormWriter routes gorm's log output through lgr.
type gormWriter struct {
	log lgr.L
}

func (w gormWriter) Printf(format string, args ...interface{}) {
	w.log.Logf("[WARN] "+format, args...)
}

// NewDatabase opens the SQLite store behind dsn and migrates the task table.
func NewDatabase(dsn string, log lgr.L) (*gorm.DB, error) {
	gormLogger := logger.New(gormWriter{log: log}, logger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  logger.Warn,
		IgnoreRecordNotFoundError: true,
	})

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("db open failed: %w", err)
	}

	if err := db.AutoMigrate(&model.Task{}); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return db, nil
}
