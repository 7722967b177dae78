package audit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"football-sync/core/database"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.Connect(database.Config{Driver: database.DriverSQLite, Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&ChangeRecord{}))
	return db
}

func TestRecordAndList(t *testing.T) {
	db := testDB(t)
	base := time.Date(2024, 8, 1, 12, 0, 0, 0, time.UTC)

	changes := []*ChangeRecord{
		{Table: "teams", RecordID: 1, UpdateType: UpdateCreate, UpdateBy: "job-1", AfterValue: `{"name":"Liverpool"}`, Timestamp: base},
		{Table: "teams", RecordID: 1, UpdateType: UpdateUpdate, UpdateBy: "job-2", BeforeValue: `{"name":"Liverpool"}`, AfterValue: `{"name":"Liverpool FC"}`, Timestamp: base.Add(time.Hour)},
		{Table: "leagues", RecordID: 7, UpdateType: UpdateCreate, UpdateBy: "job-1", AfterValue: `{"name":"Premier League"}`, Timestamp: base.Add(2 * time.Hour)},
	}
	for _, change := range changes {
		require.NoError(t, Record(db, change))
	}

	t.Run("All Oldest First", func(t *testing.T) {
		records, err := List(db, Filter{})
		require.NoError(t, err)
		require.Len(t, records, 3)
		assert.Equal(t, UpdateCreate, records[0].UpdateType)
		assert.Equal(t, "leagues", records[2].Table)
	})

	t.Run("By Target", func(t *testing.T) {
		records, err := List(db, Filter{Table: "teams", RecordID: 1})
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, UpdateCreate, records[0].UpdateType)
		assert.Equal(t, UpdateUpdate, records[1].UpdateType)
	})

	t.Run("By Job", func(t *testing.T) {
		records, err := List(db, Filter{JobID: "job-2"})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, `{"name":"Liverpool FC"}`, records[0].AfterValue)
	})

	t.Run("By Time Window", func(t *testing.T) {
		records, err := List(db, Filter{From: base.Add(30 * time.Minute), To: base.Add(90 * time.Minute)})
		require.NoError(t, err)
		require.Len(t, records, 1)
		assert.Equal(t, UpdateUpdate, records[0].UpdateType)
	})

	t.Run("Limited", func(t *testing.T) {
		records, err := List(db, Filter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, records, 2)
	})
}

func TestRecordDefaultsTimestamp(t *testing.T) {
	db := testDB(t)

	change := &ChangeRecord{Table: "teams", RecordID: 5, UpdateType: UpdateDeactivate, UpdateBy: "job-3"}
	require.NoError(t, Record(db, change))

	assert.False(t, change.Timestamp.IsZero())
}

func TestRecordRollsBackWithTransaction(t *testing.T) {
	db := testDB(t)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := Record(tx, &ChangeRecord{Table: "teams", RecordID: 9, UpdateType: UpdateCreate, UpdateBy: "job-4"}); err != nil {
			return err
		}
		return gorm.ErrInvalidData
	})
	require.Error(t, err)

	records, listErr := List(db, Filter{Table: "teams", RecordID: 9})
	require.NoError(t, listErr)
	assert.Empty(t, records, "history must roll back together with the change")
}

func TestSnapshot(t *testing.T) {
	assert.Equal(t, `{"name":"Liverpool"}`, Snapshot(map[string]any{"name": "Liverpool"}))
	assert.Empty(t, Snapshot(nil))
}
