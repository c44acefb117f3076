package store

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"qcreports/internal/models"
)

// Open connects to Postgres. SQL logging goes through lg at warn level, with
// slow queries reported past one second.
func Open(dsn string, lg *zap.SugaredLogger) (*gorm.DB, error) {
	sqlLog := gormlogger.New(zap.NewStdLog(lg.Desugar().Named("gorm")), gormlogger.Config{
		SlowThreshold:             time.Second,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: sqlLog, TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("db connect: %w", err)
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS pgcrypto").Error; err != nil {
		return fmt.Errorf("enable pgcrypto: %w", err)
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}
