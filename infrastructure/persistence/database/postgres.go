package database

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/cheerioo/api/infrastructure/config"
	"github.com/cheerioo/api/infrastructure/logger"
)

var db *gorm.DB

// gormConfig builds the gorm configuration. TranslateError must stay on:
// the repositories branch on gorm.ErrDuplicatedKey for slug conflicts and
// idempotent joins, which the postgres driver only produces when driver
// errors are translated.
func gormConfig(zapLogger *zap.Logger) *gorm.Config {
	return &gorm.Config{
		Logger:         logger.NewGormLogger(zapLogger),
		TranslateError: true,
	}
}

func InitDb(cfg *config.Config, zapLogger *zap.Logger) error {
	gormDb, err := gorm.Open(postgres.Open(cfg.GetPostgresConnectionString()), gormConfig(zapLogger))
	if err != nil {
		return errors.Wrap(err, "open postgres connection")
	}

	sqlDb, err := gormDb.DB()
	if err != nil {
		return errors.Wrap(err, "get sql db handle")
	}

	sqlDb.SetMaxIdleConns(cfg.Postgres.MaxIdleConns)
	sqlDb.SetMaxOpenConns(cfg.Postgres.MaxOpenConns)
	if cfg.Postgres.ConnMaxLifetime > 0 {
		sqlDb.SetConnMaxLifetime(cfg.Postgres.ConnMaxLifetime * time.Minute)
	}

	if err := sqlDb.Ping(); err != nil {
		return errors.Wrap(err, "ping postgres")
	}

	db = gormDb
	return nil
}

func GetDb() *gorm.DB {
	return db
}

func CloseDb() {
	if db == nil {
		return
	}
	if sqlDb, err := db.DB(); err == nil {
		sqlDb.Close()
	}
}
