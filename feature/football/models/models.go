// Package models declares the gorm entities the sync engine persists,
// one table per synchronized kind, plus the job and reference tables.
package models

import (
	"time"

	"football-sync/core/engine"
)

// Synchronized entity kinds, in dependency order.
const (
	KindCountry         engine.EntityKind = "country"
	KindVenue           engine.EntityKind = "venue"
	KindLeague          engine.EntityKind = "league"
	KindSeason          engine.EntityKind = "season"
	KindTeam            engine.EntityKind = "team"
	KindPlayer          engine.EntityKind = "player"
	KindCoach           engine.EntityKind = "coach"
	KindFixture         engine.EntityKind = "fixture"
	KindEvent           engine.EntityKind = "event"
	KindScore           engine.EntityKind = "score"
	KindStatistic       engine.EntityKind = "statistic"
	KindLineup          engine.EntityKind = "lineup"
	KindPlayerStatistic engine.EntityKind = "player_statistic"
	KindOdds            engine.EntityKind = "odds"
	KindStanding        engine.EntityKind = "standing"
)

// Base carries the bookkeeping columns shared by every synchronized
// entity. ExternalID is the provider-assigned id, unique per table and
// immutable after create. Rows are never hard-deleted; the deactivation
// pass clears Active instead.
type Base struct {
	ID         uint      `gorm:"column:id;primaryKey" json:"id"`
	ExternalID int64     `gorm:"column:external_id;uniqueIndex" json:"external_id"`
	Active     bool      `gorm:"column:active;default:true;index" json:"active"`
	UpdateBy   string    `gorm:"column:update_by;size:64" json:"update_by"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// LocalID returns the locally assigned row id.
func (b *Base) LocalID() uint { return b.ID }

// External returns the provider-assigned id.
func (b *Base) External() int64 { return b.ExternalID }

// IsActive reports whether the row is active.
func (b *Base) IsActive() bool { return b.Active }

// SetExternalID stamps the provider id on a new row.
func (b *Base) SetExternalID(id int64) { b.ExternalID = id }

// SetUpdateBy records which job touched the row last.
func (b *Base) SetUpdateBy(by string) { b.UpdateBy = by }

// SetActive toggles the soft-delete flag.
func (b *Base) SetActive(active bool) { b.Active = active }

// Model is implemented by every synchronized entity. It extends the
// engine's read-side Entity contract with the mutators the repository
// needs when staging writes.
type Model interface {
	engine.Entity

	TableName() string
	SetExternalID(id int64)
	SetUpdateBy(by string)
	SetActive(active bool)
}

// New returns an empty model for the kind, ready to be loaded or
// populated. The boolean reports whether the kind is known.
func New(kind engine.EntityKind) (Model, bool) {
	switch kind {
	case KindCountry:
		return &Country{}, true
	case KindVenue:
		return &Venue{}, true
	case KindLeague:
		return &League{}, true
	case KindSeason:
		return &Season{}, true
	case KindTeam:
		return &Team{}, true
	case KindPlayer:
		return &Player{}, true
	case KindCoach:
		return &Coach{}, true
	case KindFixture:
		return &Fixture{}, true
	case KindEvent:
		return &FixtureEvent{}, true
	case KindScore:
		return &FixtureScore{}, true
	case KindStatistic:
		return &FixtureStatistic{}, true
	case KindLineup:
		return &FixtureLineup{}, true
	case KindPlayerStatistic:
		return &PlayerStatistic{}, true
	case KindOdds:
		return &Odds{}, true
	case KindStanding:
		return &Standing{}, true
	}
	return nil, false
}

// Kinds lists every synchronized kind, parents before children.
func Kinds() []engine.EntityKind {
	return []engine.EntityKind{
		KindCountry,
		KindVenue,
		KindLeague,
		KindSeason,
		KindTeam,
		KindPlayer,
		KindCoach,
		KindFixture,
		KindEvent,
		KindScore,
		KindStatistic,
		KindLineup,
		KindPlayerStatistic,
		KindOdds,
		KindStanding,
	}
}

// TableFor resolves the table name backing a kind.
func TableFor(kind engine.EntityKind) (string, bool) {
	m, ok := New(kind)
	if !ok {
		return "", false
	}
	return m.TableName(), true
}
