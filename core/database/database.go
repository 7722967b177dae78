package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect establishes a connection to the configured database.
// The driver field selects between MySQL (service deployments) and
// SQLite (local runs and tests). It returns a *gorm.DB connection or
// an error if the connection fails.
func Connect(cfg Config) (*gorm.DB, error) {
	if !cfg.IsValidDriver() {
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}

	// Ensure timeout defaults if not set (Config struct sets default but verifying safety)
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}

	// Suppress GORM logging; the application logger reports at the job level.
	// TranslateError maps driver-specific duplicate-key errors onto
	// gorm.ErrDuplicatedKey so create-if-absent works on both drivers.
	gormConfig := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	}

	var db *gorm.DB
	var err error

	switch cfg.Driver {
	case DriverSQLite:
		db, err = gorm.Open(sqlite.Open(cfg.Name), gormConfig)
	default:
		// Special characters in the password must be URL encoded for the DSN.
		userInfo := url.UserPassword(cfg.User, cfg.Password).String()

		// timeout: connection setup timeout
		// readTimeout: I/O read timeout
		// writeTimeout: I/O write timeout
		dsn := fmt.Sprintf("%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local&timeout=%ds&readTimeout=%ds&writeTimeout=%ds",
			userInfo, cfg.Host, cfg.Port, cfg.Name, timeout, timeout, timeout)
		db, err = gorm.Open(mysql.Open(dsn), gormConfig)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	// Set connection pool settings to avoid typical issues.
	// An in-memory SQLite database lives in a single connection, so the
	// pool must not grow beyond it.
	if cfg.Driver == DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(100)
		sqlDB.SetConnMaxLifetime(time.Hour)
	}

	// Verify connection with context timeout
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(timeout)*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
