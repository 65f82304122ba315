package db

import (
	"time"

	"github.com/taskdeck-io/taskdeck/internal/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// New opens the Postgres connection pool. TranslateError is enabled so
// unique-index violations surface as gorm.ErrDuplicatedKey and can be mapped
// to 409 instead of a generic 500.
func New(cfg *config.Config) (*gorm.DB, error) {
	d, err := gorm.Open(postgres.New(postgres.Config{DSN: cfg.Database.DSN}), &gorm.Config{
		TranslateError: true,
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := d.DB()
	if err != nil {
		return nil, err
	}
	if cfg.Database.MaxOpen > 0 {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpen)
	}
	if cfg.Database.MaxIdle > 0 {
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdle)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return d, nil
}
