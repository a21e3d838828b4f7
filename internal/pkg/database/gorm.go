package database

import (
	"Clipper/internal/api/config"
	"Clipper/internal/model"
	"Clipper/internal/pkg/logger"
	"fmt"
	log "log/slog"
	"time"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// NewGormDB 初始化并返回 *gorm.DB 实例，处理连接池配置
func NewGormDB(cfg *config.DBConfig) (*gorm.DB, error) {
	dsnCfg, err := mysqlDriver.ParseDSN(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid database dsn: %w", err)
	}

	db, err := gorm.Open(mysql.Open(cfg.DSN), &gorm.Config{
		Logger:         logger.NewGormLogger("MySQL"),
		PrepareStmt:    true,
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(cfg.MaxIdle)
	sqlDB.SetMaxOpenConns(cfg.MaxOpen)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Minute)

	if err = sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("database connection check failed: %w", err)
	}

	if cfg.AutoMigrate {
		if err = Migrate(db); err != nil {
			return nil, err
		}
	}

	log.Info("Database connection established successfully.", "addr", dsnCfg.Addr, "db", dsnCfg.DBName)
	return db, nil
}

// Migrate 同步表结构
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.All()...); err != nil {
		return fmt.Errorf("auto migrate failed: %w", err)
	}
	return nil
}
