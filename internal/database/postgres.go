// internal/database/postgres.go
package database

import (
	"fleet-orchestrator/internal/config"
	"fleet-orchestrator/internal/models"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN Postgres 접속 문자열
func DSN(cfg *config.Config) string {
	return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort)
}

func NewPostgresDB(cfg *config.Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if cfg.LogLevel != "debug" {
		gormConfig.Logger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(DSN(cfg)), gormConfig)
	if err != nil {
		return nil, err
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate 영속 레코드 테이블 마이그레이션
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.Alarm{},           // 설비 알람
		&models.ChargeHistory{},   // 충전 이력
		&models.WorkOrderRecord{}, // 작업 지시 상태 미러
	); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}
