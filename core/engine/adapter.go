package engine

import "context"

// Source yields pages of records from the external provider. The cursor
// is an opaque resume position: the empty cursor requests the first page,
// and an empty next cursor reports the final page. Implementations own
// authentication, rate limiting and transport-level retries; errors they
// return are classified through Classify.
type Source interface {
	Fetch(ctx context.Context, kind EntityKind, filter Filter, cursor string) (records []Record, next string, err error)
}

// Entity is the locally persisted counterpart of a fetched record. The
// engine only reads entity state through this interface; storage details
// belong to the Repository.
type Entity interface {
	// LocalID returns the locally assigned identifier.
	LocalID() uint

	// External returns the provider-assigned identifier. It never
	// changes once the entity is created.
	External() int64

	// IsActive reports whether the entity is active. Entities are
	// deactivated by the deactivate-missing pass, never hard-deleted.
	IsActive() bool

	// Snapshot returns the entity's comparable field values keyed by
	// canonical field name, including foreign key slots. Used for no-op
	// update detection.
	Snapshot() map[string]any
}

// Repository provides transactional per-kind persistence keyed by
// external id. Every mutation writes exactly one audit change record in
// the same transaction; a failed audit write fails the mutation.
type Repository interface {
	// FindByExternalID returns the entity, or nil when no row exists.
	FindByExternalID(ctx context.Context, kind EntityKind, externalID int64) (Entity, error)

	// Create inserts a new active entity. Concurrent create attempts for
	// the same (kind, external id) must collapse to a single row: when
	// another writer got there first, the existing entity is returned
	// with created=false.
	Create(ctx context.Context, jobID string, kind EntityKind, externalID int64, fields map[string]any) (entity Entity, created bool, err error)

	// Update applies fields to an existing entity and reactivates it.
	Update(ctx context.Context, jobID string, kind EntityKind, entity Entity, fields map[string]any) error

	// Deactivate marks the entity inactive.
	Deactivate(ctx context.Context, jobID string, kind EntityKind, entity Entity) error

	// ActiveExternalIDs lists the active external ids of the kind within
	// the filter's scope, for the deactivate-missing pass.
	ActiveExternalIDs(ctx context.Context, kind EntityKind, filter Filter) ([]int64, error)
}

// JobStore persists job rows so past runs can be listed by the jobs
// command and the ops API. A nil store disables persistence.
type JobStore interface {
	// Begin records the job as running.
	Begin(ctx context.Context, job *Job) error

	// Finish records the job's final counters and status.
	Finish(ctx context.Context, job *Job, jobErr error) error
}
