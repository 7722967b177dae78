package cmd

import (
	"fmt"

	"football-sync/core/config"
	"football-sync/core/database"
	"football-sync/core/logger"
	"football-sync/feature/football/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// setup loads configuration, builds the logger and opens the database,
// running migrations so every command sees the full schema.
func setup() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := database.Connect(cfg.Database)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := models.Migrate(db); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return cfg, l, db, nil
}
