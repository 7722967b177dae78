package models_test

import (
	"testing"
	"time"

	"football-sync/core/database"
	"football-sync/core/utils"
	"football-sync/feature/football/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewKnowsEveryKind(t *testing.T) {
	tables := make(map[string]bool)
	for _, kind := range models.Kinds() {
		m, ok := models.New(kind)
		require.True(t, ok, "kind %s", kind)
		require.NotNil(t, m)

		table := m.TableName()
		assert.NotEmpty(t, table)
		assert.False(t, tables[table], "table %s reused", table)
		tables[table] = true
	}

	_, ok := models.New("referee")
	assert.False(t, ok)
}

func TestTableFor(t *testing.T) {
	table, ok := models.TableFor(models.KindTeam)
	assert.True(t, ok)
	assert.Equal(t, "teams", table)

	_, ok = models.TableFor("referee")
	assert.False(t, ok)
}

func TestApplyCoercesFieldValues(t *testing.T) {
	team := &models.Team{}
	models.Apply(team, map[string]any{
		"name":       "Liverpool",
		"code":       "LIV",
		"founded":    "1892",
		"national":   false,
		"logo":       "https://example.test/liverpool.png",
		"country_id": uint(9),
		"venue_id":   float64(550),
	})

	assert.Equal(t, "Liverpool", team.Name)
	assert.Equal(t, "LIV", team.Code)
	assert.Equal(t, 1892, team.Founded)
	assert.False(t, team.National)
	assert.Equal(t, uint(9), team.CountryID)
	assert.Equal(t, uint(550), team.VenueID)
}

func TestApplyIgnoresUnknownKeys(t *testing.T) {
	country := &models.Country{}
	models.Apply(country, map[string]any{
		"name":     "England",
		"nickname": "Three Lions",
	})

	assert.Equal(t, "England", country.Name)
}

func TestApplyNeverTouchesBookkeeping(t *testing.T) {
	team := &models.Team{}
	team.ID = 7
	team.ExternalID = 40
	team.Active = true
	team.UpdateBy = "job-1"

	models.Apply(team, map[string]any{
		"id":          uint(99),
		"external_id": int64(99),
		"active":      false,
		"update_by":   "intruder",
		"name":        "Everton",
	})

	assert.Equal(t, uint(7), team.ID)
	assert.Equal(t, int64(40), team.ExternalID)
	assert.True(t, team.Active)
	assert.Equal(t, "job-1", team.UpdateBy)
	assert.Equal(t, "Everton", team.Name)
}

func TestApplyParsesTimeFields(t *testing.T) {
	fixture := &models.Fixture{}
	models.Apply(fixture, map[string]any{
		"date":     "2024-08-17T14:00:00+01:00",
		"timezone": "Europe/London",
	})

	want, _ := time.Parse(time.RFC3339, "2024-08-17T14:00:00+01:00")
	assert.True(t, fixture.Date.Equal(want))

	season := &models.Season{}
	models.Apply(season, map[string]any{
		"year":       2024,
		"start_date": "2024-08-01",
		"end_date":   "2025-05-31",
	})
	assert.Equal(t, 2024, season.Year)
	assert.Equal(t, 2024, season.StartDate.Year())
	assert.Equal(t, time.August, season.StartDate.Month())
}

func TestSnapshotCoversAppliedFields(t *testing.T) {
	fields := map[string]any{
		"name":       "Liverpool",
		"code":       "LIV",
		"founded":    1892,
		"national":   false,
		"logo":       "https://example.test/liverpool.png",
		"country_id": uint(9),
		"venue_id":   uint(550),
	}

	team := &models.Team{}
	models.Apply(team, fields)

	snap := team.Snapshot()
	for key, want := range fields {
		got, ok := snap[key]
		require.True(t, ok, "snapshot missing %s", key)
		assert.True(t, utils.SameValue(want, got), "field %s: want %v got %v", key, want, got)
	}
}

func TestSnapshotExcludesBookkeeping(t *testing.T) {
	team := &models.Team{}
	team.ID = 7
	team.ExternalID = 40

	snap := team.Snapshot()
	for _, col := range []string{"id", "external_id", "active", "update_by", "created_at", "updated_at"} {
		_, ok := snap[col]
		assert.False(t, ok, "snapshot leaked %s", col)
	}
}

func TestBaseEntityContract(t *testing.T) {
	venue := &models.Venue{}
	venue.SetExternalID(550)
	venue.SetUpdateBy("job-abc")
	venue.SetActive(true)
	venue.ID = 3

	assert.Equal(t, uint(3), venue.LocalID())
	assert.Equal(t, int64(550), venue.External())
	assert.True(t, venue.IsActive())

	venue.SetActive(false)
	assert.False(t, venue.IsActive())
}

func TestMigrateSeedsFixtureStatuses(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)

	require.NoError(t, models.Migrate(db))

	var count int64
	require.NoError(t, db.Model(&models.FixtureStatus{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.DefaultFixtureStatuses())), count)

	// Running again must not duplicate the seed rows.
	require.NoError(t, models.Migrate(db))
	require.NoError(t, db.Model(&models.FixtureStatus{}).Count(&count).Error)
	assert.Equal(t, int64(len(models.DefaultFixtureStatuses())), count)

	var finished models.FixtureStatus
	require.NoError(t, db.Where("short_code = ?", "FT").First(&finished).Error)
	assert.Equal(t, models.StatusTypeFinished, finished.Type)
}
