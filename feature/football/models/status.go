package models

// Fixture status type buckets.
const (
	StatusTypeScheduled = "scheduled"
	StatusTypeInPlay    = "in_play"
	StatusTypeFinished  = "finished"
	StatusTypePostponed = "postponed"
	StatusTypeCancelled = "cancelled"
	StatusTypeAbandoned = "abandoned"
	StatusTypeNotPlayed = "not_played"
)

// FixtureStatus is reference data describing the provider's fixture
// status codes. The table is seeded at migration time and read, never
// synchronized.
type FixtureStatus struct {
	ID        uint   `gorm:"column:id;primaryKey" json:"id"`
	ShortCode string `gorm:"column:short_code;size:10;uniqueIndex" json:"short_code"`
	Long      string `gorm:"column:long_description;size:100" json:"long_description"`
	Type      string `gorm:"column:status_type;size:20;index" json:"status_type"`
}

// TableName overrides the default table name.
func (FixtureStatus) TableName() string { return "fixture_statuses" }

// DefaultFixtureStatuses returns the provider's status taxonomy.
func DefaultFixtureStatuses() []FixtureStatus {
	return []FixtureStatus{
		{ShortCode: "TBD", Long: "Time To Be Defined", Type: StatusTypeScheduled},
		{ShortCode: "NS", Long: "Not Started", Type: StatusTypeScheduled},
		{ShortCode: "1H", Long: "First Half, Kick Off", Type: StatusTypeInPlay},
		{ShortCode: "HT", Long: "Halftime", Type: StatusTypeInPlay},
		{ShortCode: "2H", Long: "Second Half", Type: StatusTypeInPlay},
		{ShortCode: "ET", Long: "Extra Time", Type: StatusTypeInPlay},
		{ShortCode: "BT", Long: "Break Time", Type: StatusTypeInPlay},
		{ShortCode: "P", Long: "Penalty In Progress", Type: StatusTypeInPlay},
		{ShortCode: "SUSP", Long: "Match Suspended", Type: StatusTypeInPlay},
		{ShortCode: "INT", Long: "Match Interrupted", Type: StatusTypeInPlay},
		{ShortCode: "FT", Long: "Match Finished", Type: StatusTypeFinished},
		{ShortCode: "AET", Long: "After Extra Time", Type: StatusTypeFinished},
		{ShortCode: "PEN", Long: "Penalties", Type: StatusTypeFinished},
		{ShortCode: "PST", Long: "Postponed", Type: StatusTypePostponed},
		{ShortCode: "CANC", Long: "Cancelled", Type: StatusTypeCancelled},
		{ShortCode: "ABD", Long: "Abandoned", Type: StatusTypeAbandoned},
		{ShortCode: "AWD", Long: "Technical Loss", Type: StatusTypeNotPlayed},
		{ShortCode: "WO", Long: "Walkover", Type: StatusTypeNotPlayed},
		{ShortCode: "LIVE", Long: "In Progress", Type: StatusTypeInPlay},
	}
}
