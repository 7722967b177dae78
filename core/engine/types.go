package engine

// EntityKind identifies one synchronized entity type (e.g. "team").
// The concrete taxonomy is declared by the feature package that builds
// the dependency graph; the engine treats kinds as opaque.
type EntityKind string

// Record is the decoded provider payload for one entity instance. It is
// ephemeral and lives only for the duration of one sync job.
type Record struct {
	// Kind is the entity kind of the record.
	Kind EntityKind

	// ExternalID is the provider-assigned identifier, unique per kind.
	ExternalID int64

	// Fields maps canonical field names to loosely typed values.
	Fields map[string]any

	// Parents references the entities this record depends on.
	Parents []ParentRef
}

// ParentRef points at a parent entity referenced by a record.
type ParentRef struct {
	// Kind is the parent's entity kind.
	Kind EntityKind

	// ExternalID is the parent's provider-assigned identifier.
	// A zero id means the payload carried no usable reference.
	ExternalID int64

	// Role names the foreign key slot on the child. It defaults to the
	// kind name; a fixture references two teams through the distinct
	// roles "home_team" and "away_team".
	Role string

	// Fields is the minimal payload available for synthesizing the
	// parent when auto-creation is authorized.
	Fields map[string]any

	// Parents carries the parent's own references when the child payload
	// includes enough data to resolve them.
	Parents []ParentRef

	// Optional references never block reconciliation: an unresolved
	// optional parent is simply left unset on the child.
	Optional bool
}

// FieldRole returns the foreign key slot name for the reference.
func (p ParentRef) FieldRole() string {
	if p.Role != "" {
		return p.Role
	}
	return string(p.Kind)
}

// Policy is the immutable reconciliation configuration for one job,
// derived from CLI flags.
type Policy struct {
	// CreateMissing creates entities that have no local counterpart.
	CreateMissing bool

	// UpdateExisting updates entities that already exist locally.
	UpdateExisting bool

	// DeactivateMissing marks local entities inactive when a
	// scope-complete fetch no longer returns them.
	DeactivateMissing bool

	// Force updates existing entities even when UpdateExisting is off,
	// overriding staleness checks.
	Force bool

	// DryRun computes and tallies every decision without invoking the
	// repository for writes.
	DryRun bool

	// AutoCreate authorizes synthesizing missing parents per kind
	// (the --create-teams, --create-countries, --create-seasons flags).
	AutoCreate map[EntityKind]bool
}

// AllowsAutoCreate reports whether missing parents of the kind may be
// created during this run.
func (p Policy) AllowsAutoCreate(kind EntityKind) bool {
	return p.AutoCreate[kind]
}

// Filter narrows a fetch to a provider-side scope. Fields map onto the
// provider's query parameters; the zero value of a field omits it.
type Filter struct {
	// IDs requests explicitly named records (a singleton lookup).
	IDs []int64

	League  int64
	Season  int
	Team    int64
	Player  int64
	Fixture int64
	Venue   int64

	// Date filters (YYYY-MM-DD).
	Date string
	From string
	To   string

	Status string
	Round  string
	Live   string
	Search string

	// Last and Next request the most recent or upcoming N fixtures.
	Last int
	Next int

	// Timezone applied to fetched timestamps. Normalization happens at
	// fetch time so downstream comparisons are timezone-consistent.
	Timezone string

	// Page pins the fetch to a single provider page.
	Page int

	// Limit caps the number of fetched records.
	Limit int

	// All iterates every page with no upper bound, reconciling each page
	// before the next is fetched.
	All bool
}

// Singleton reports whether the filter is a lookup of explicitly named
// records rather than a scope enumeration. Deactivation is refused for
// singleton fetches: absence from a single-record lookup proves nothing.
func (f Filter) Singleton() bool {
	return len(f.IDs) > 0
}

// Action is the decision taken for a single record.
type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionSkip       Action = "skip"
	ActionDeactivate Action = "deactivate"
)

// Result accumulates reconciliation counts for one job.
type Result struct {
	Created     int           `json:"created"`
	Updated     int           `json:"updated"`
	Skipped     int           `json:"skipped"`
	Deactivated int           `json:"deactivated"`
	Failed      int           `json:"failed"`
	Errors      []RecordError `json:"errors,omitempty"`
}

// Total returns the number of outcomes accounted for.
func (r *Result) Total() int {
	return r.Created + r.Updated + r.Skipped + r.Deactivated + r.Failed
}

// RecordError describes one failed record with enough context to re-run
// just the failed subset.
type RecordError struct {
	Kind       EntityKind `json:"kind"`
	ExternalID int64      `json:"external_id"`
	Class      Class      `json:"class"`
	Message    string     `json:"message"`
}
