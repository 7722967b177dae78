// Package football glues the football domain together for the ops
// surfaces: the read-side service behind the HTTP API and the dataset
// exporter behind the export command.
package football

import (
	"context"
	"errors"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"football-sync/core/audit"
	"football-sync/feature/football/models"
)

// Service serves read-side queries over the synchronized store: the
// audit history and past sync jobs.
type Service struct {
	db     *gorm.DB
	logger *zap.Logger
}

// NewService creates a new read-side service.
func NewService(db *gorm.DB, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{db: db, logger: logger}
}

// Changes lists audit change records matching the filter, oldest first.
func (s *Service) Changes(ctx context.Context, filter audit.Filter) ([]audit.ChangeRecord, error) {
	return audit.List(s.db.WithContext(ctx), filter)
}

// Jobs lists the most recent sync jobs, newest first.
func (s *Service) Jobs(ctx context.Context, limit int) ([]models.SyncJob, error) {
	if limit <= 0 {
		limit = 50
	}
	var jobs []models.SyncJob
	err := s.db.WithContext(ctx).
		Order("started_at desc").
		Limit(limit).
		Find(&jobs).Error
	return jobs, err
}

// Job returns one sync job by id, or nil when no such job ran.
func (s *Service) Job(ctx context.Context, id string) (*models.SyncJob, error) {
	var job models.SyncJob
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &job, nil
}
