package repository

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"football-sync/core/engine"
	"football-sync/feature/football/models"
)

// JobStore persists sync job rows so past runs can be listed by the
// jobs command and the ops API.
type JobStore struct {
	db *gorm.DB
}

// NewJobStore wires a job store around an open database handle.
func NewJobStore(db *gorm.DB) *JobStore {
	return &JobStore{db: db}
}

// Begin records the job as running.
func (s *JobStore) Begin(ctx context.Context, job *engine.Job) error {
	row := models.SyncJob{
		ID:        job.ID,
		Kinds:     kindList(job.Kinds),
		Status:    models.JobStatusRunning,
		DryRun:    job.Policy.DryRun,
		StartedAt: job.Started,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("record job start: %w", err)
	}
	return nil
}

// Finish records the job's final counters and status.
func (s *JobStore) Finish(ctx context.Context, job *engine.Job, jobErr error) error {
	status := models.JobStatusCompleted
	errText := ""
	if jobErr != nil {
		status = models.JobStatusFailed
		errText = jobErr.Error()
	}

	updates := map[string]any{
		"status":      status,
		"ended_at":    job.Ended,
		"created":     job.Result.Created,
		"updated":     job.Result.Updated,
		"skipped":     job.Result.Skipped,
		"deactivated": job.Result.Deactivated,
		"failed":      job.Result.Failed,
		"error":       errText,
	}
	err := s.db.WithContext(ctx).
		Model(&models.SyncJob{}).
		Where("id = ?", job.ID).
		Updates(updates).Error
	if err != nil {
		return fmt.Errorf("record job end: %w", err)
	}
	return nil
}

func kindList(kinds []engine.EntityKind) string {
	names := make([]string, len(kinds))
	for i, k := range kinds {
		names[i] = string(k)
	}
	return strings.Join(names, ",")
}
