package models

import "time"

// Sync job lifecycle states.
const (
	JobStatusRunning   = "running"
	JobStatusCompleted = "completed"
	JobStatusFailed    = "failed"
)

// SyncJob is the persisted record of one synchronization run, written
// when the job starts and finalized with its counters when it ends.
type SyncJob struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	Kinds       string    `gorm:"column:kinds;size:255" json:"kinds"`
	Status      string    `gorm:"column:status;size:16;index" json:"status"`
	DryRun      bool      `gorm:"column:dry_run" json:"dry_run"`
	StartedAt   time.Time `gorm:"column:started_at;index" json:"started_at"`
	EndedAt     time.Time `gorm:"column:ended_at" json:"ended_at"`
	Created     int       `gorm:"column:created" json:"created"`
	Updated     int       `gorm:"column:updated" json:"updated"`
	Skipped     int       `gorm:"column:skipped" json:"skipped"`
	Deactivated int       `gorm:"column:deactivated" json:"deactivated"`
	Failed      int       `gorm:"column:failed" json:"failed"`
	Error       string    `gorm:"column:error;type:text" json:"error,omitempty"`
}

// TableName overrides the default table name.
func (SyncJob) TableName() string { return "sync_jobs" }
