// Package repository persists synchronized football entities through
// gorm. Every mutation writes its audit change record inside the same
// transaction, so history and data commit or roll back together.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"football-sync/core/audit"
	"football-sync/core/engine"
	"football-sync/feature/football/models"
)

// Repository implements the sync engine's storage contract over gorm.
type Repository struct {
	db     *gorm.DB
	flight singleflight.Group
	logger *zap.Logger
}

// New wires a repository around an open database handle.
func New(db *gorm.DB, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{db: db, logger: logger}
}

// FindByExternalID returns the entity with the given provider id, or
// nil when no row exists.
func (r *Repository) FindByExternalID(ctx context.Context, kind engine.EntityKind, externalID int64) (engine.Entity, error) {
	m, ok := models.New(kind)
	if !ok {
		return nil, engine.NewConfiguration("no table backs kind %q", kind)
	}

	err := r.db.WithContext(ctx).Where("external_id = ?", externalID).First(m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find %s %d: %w", kind, externalID, err)
	}
	return m, nil
}

type createResult struct {
	entity engine.Entity
	fresh  bool
}

// Create inserts a new active entity and its audit record in one
// transaction. Concurrent attempts for the same (kind, external id)
// collapse onto a single insert; losers of the unique-index race get
// the surviving row back with created=false.
func (r *Repository) Create(ctx context.Context, jobID string, kind engine.EntityKind, externalID int64, fields map[string]any) (engine.Entity, bool, error) {
	key := fmt.Sprintf("%s:%d", kind, externalID)
	v, err, _ := r.flight.Do(key, func() (any, error) {
		entity, fresh, err := r.createOnce(ctx, jobID, kind, externalID, fields)
		if err != nil {
			return nil, err
		}
		return createResult{entity: entity, fresh: fresh}, nil
	})
	if err != nil {
		return nil, false, err
	}
	res := v.(createResult)
	return res.entity, res.fresh, nil
}

func (r *Repository) createOnce(ctx context.Context, jobID string, kind engine.EntityKind, externalID int64, fields map[string]any) (engine.Entity, bool, error) {
	m, ok := models.New(kind)
	if !ok {
		return nil, false, engine.NewConfiguration("no table backs kind %q", kind)
	}

	models.Apply(m, fields)
	m.SetExternalID(externalID)
	m.SetActive(true)
	m.SetUpdateBy(jobID)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(m).Error; err != nil {
			return err
		}
		return audit.Record(tx, &audit.ChangeRecord{
			Table:      m.TableName(),
			RecordID:   m.LocalID(),
			UpdateType: audit.UpdateCreate,
			UpdateBy:   jobID,
			AfterValue: audit.Snapshot(m.Snapshot()),
		})
	})
	if err == nil {
		r.logger.Debug("created entity",
			zap.String("kind", string(kind)),
			zap.Int64("external_id", externalID))
		return m, true, nil
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		existing, findErr := r.FindByExternalID(ctx, kind, externalID)
		if findErr != nil {
			return nil, false, findErr
		}
		if existing != nil {
			return existing, false, nil
		}
	}
	return nil, false, fmt.Errorf("create %s %d: %w", kind, externalID, err)
}

// Update applies the fields to an existing entity, reactivates it and
// records the change. The caller has already decided the write is not
// a no-op.
func (r *Repository) Update(ctx context.Context, jobID string, kind engine.EntityKind, entity engine.Entity, fields map[string]any) error {
	m, ok := entity.(models.Model)
	if !ok {
		return engine.NewConfiguration("entity of kind %s was not loaded by this repository", kind)
	}

	before := audit.Snapshot(m.Snapshot())
	models.Apply(m, fields)
	m.SetActive(true)
	m.SetUpdateBy(jobID)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(m).Error; err != nil {
			return fmt.Errorf("update %s %d: %w", kind, m.External(), err)
		}
		return audit.Record(tx, &audit.ChangeRecord{
			Table:       m.TableName(),
			RecordID:    m.LocalID(),
			UpdateType:  audit.UpdateUpdate,
			UpdateBy:    jobID,
			BeforeValue: before,
			AfterValue:  audit.Snapshot(m.Snapshot()),
		})
	})
}

// Deactivate clears the entity's active flag and records the change.
// Rows are never hard-deleted.
func (r *Repository) Deactivate(ctx context.Context, jobID string, kind engine.EntityKind, entity engine.Entity) error {
	m, ok := entity.(models.Model)
	if !ok {
		return engine.NewConfiguration("entity of kind %s was not loaded by this repository", kind)
	}

	before := audit.Snapshot(m.Snapshot())
	m.SetActive(false)
	m.SetUpdateBy(jobID)

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(m).Error; err != nil {
			return fmt.Errorf("deactivate %s %d: %w", kind, m.External(), err)
		}
		return audit.Record(tx, &audit.ChangeRecord{
			Table:       m.TableName(),
			RecordID:    m.LocalID(),
			UpdateType:  audit.UpdateDeactivate,
			UpdateBy:    jobID,
			BeforeValue: before,
			AfterValue:  audit.Snapshot(m.Snapshot()),
		})
	})
}

// ActiveExternalIDs lists the active external ids of the kind within
// the filter's scope, for the deactivate-missing pass.
func (r *Repository) ActiveExternalIDs(ctx context.Context, kind engine.EntityKind, filter engine.Filter) ([]int64, error) {
	m, ok := models.New(kind)
	if !ok {
		return nil, engine.NewConfiguration("no table backs kind %q", kind)
	}

	q := r.db.WithContext(ctx).Model(m).Where("active = ?", true)
	q, err := r.scope(ctx, q, m, filter)
	if err != nil {
		return nil, err
	}

	var ids []int64
	if err := q.Pluck("external_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list active %s: %w", kind, err)
	}
	return ids, nil
}

// scope narrows the deactivation query to the filter's reach. Only the
// dimensions the kind's table can express are applied; a filter the
// table has no column for leaves the query kind-wide.
func (r *Repository) scope(ctx context.Context, q *gorm.DB, m models.Model, filter engine.Filter) (*gorm.DB, error) {
	columns := m.Snapshot()
	_, hasLeague := columns["league_id"]
	_, hasSeason := columns["season_id"]
	_, hasTeam := columns["team_id"]
	_, hasHomeTeam := columns["home_team_id"]
	_, hasFixture := columns["fixture_id"]
	_, hasYear := columns["year"]

	leagueID, err := r.localID(ctx, models.KindLeague, filter.League)
	if err != nil {
		return nil, err
	}

	if filter.League != 0 && hasLeague {
		q = q.Where("league_id = ?", leagueID)
	}
	if filter.Season != 0 {
		switch {
		case hasYear:
			// Seasons themselves carry the year.
			q = q.Where("year = ?", filter.Season)
			if filter.League != 0 {
				q = q.Where("league_id = ?", leagueID)
			}
		case hasSeason:
			seasonIDs, err := r.seasonLocalIDs(ctx, leagueID, filter.Season)
			if err != nil {
				return nil, err
			}
			q = q.Where("season_id IN ?", seasonIDs)
		}
	}
	if filter.Team != 0 {
		teamID, err := r.localID(ctx, models.KindTeam, filter.Team)
		if err != nil {
			return nil, err
		}
		switch {
		case hasHomeTeam:
			q = q.Where("home_team_id = ? OR away_team_id = ?", teamID, teamID)
		case hasTeam:
			q = q.Where("team_id = ?", teamID)
		}
	}
	if filter.Fixture != 0 && hasFixture {
		fixtureID, err := r.localID(ctx, models.KindFixture, filter.Fixture)
		if err != nil {
			return nil, err
		}
		q = q.Where("fixture_id = ?", fixtureID)
	}
	return q, nil
}

// localID resolves an external id to the local row id, or zero when no
// row exists. Zero never matches a foreign key column, so an unknown
// scope entity yields an empty scope rather than an error.
func (r *Repository) localID(ctx context.Context, kind engine.EntityKind, externalID int64) (uint, error) {
	if externalID == 0 {
		return 0, nil
	}
	entity, err := r.FindByExternalID(ctx, kind, externalID)
	if err != nil {
		return 0, err
	}
	if entity == nil {
		return 0, nil
	}
	return entity.LocalID(), nil
}

// seasonLocalIDs resolves a season year (optionally within a league)
// to local season row ids. The returned slice is never empty so an IN
// clause built from it stays valid.
func (r *Repository) seasonLocalIDs(ctx context.Context, leagueID uint, year int) ([]uint, error) {
	q := r.db.WithContext(ctx).Model(&models.Season{}).Where("year = ?", year)
	if leagueID != 0 {
		q = q.Where("league_id = ?", leagueID)
	}

	var ids []uint
	if err := q.Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("resolve season year %d: %w", year, err)
	}
	if len(ids) == 0 {
		ids = []uint{0}
	}
	return ids, nil
}
