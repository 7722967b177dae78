package football_test

import (
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"football-sync/core/audit"
	"football-sync/core/database"
	"football-sync/feature/football"
	"football-sync/feature/football/models"
)

func testApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()
	db, err := database.Connect(database.Config{
		Driver: database.DriverSQLite,
		Name:   ":memory:",
	})
	require.NoError(t, err)
	require.NoError(t, models.Migrate(db))

	app := fiber.New()
	football.NewHandler(football.NewService(db, nil)).RegisterRoutes(app)
	return app, db
}

func decodeBody(t *testing.T, app *fiber.App, url string, wantStatus int) map[string]any {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, url, nil))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, wantStatus, resp.StatusCode)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body map[string]any
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func seedJob(t *testing.T, db *gorm.DB, id string, started time.Time, status string) {
	t.Helper()
	require.NoError(t, db.Create(&models.SyncJob{
		ID:        id,
		Kinds:     "team",
		Status:    status,
		StartedAt: started,
	}).Error)
}

func TestHandleListJobs(t *testing.T) {
	app, db := testApp(t)
	now := time.Now()
	seedJob(t, db, "job-old", now.Add(-time.Hour), models.JobStatusCompleted)
	seedJob(t, db, "job-new", now, models.JobStatusCompleted)

	body := decodeBody(t, app, "/api/v1/jobs", fiber.StatusOK)
	assert.Equal(t, float64(2), body["count"])

	jobs := body["jobs"].([]any)
	require.Len(t, jobs, 2)
	first := jobs[0].(map[string]any)
	assert.Equal(t, "job-new", first["id"], "jobs list newest first")

	body = decodeBody(t, app, "/api/v1/jobs?limit=1", fiber.StatusOK)
	assert.Equal(t, float64(1), body["count"])
}

func TestHandleGetJob(t *testing.T) {
	app, db := testApp(t)
	seedJob(t, db, "job-1", time.Now(), models.JobStatusRunning)

	body := decodeBody(t, app, "/api/v1/jobs/job-1", fiber.StatusOK)
	assert.Equal(t, "job-1", body["id"])
	assert.Equal(t, models.JobStatusRunning, body["status"])

	decodeBody(t, app, "/api/v1/jobs/nope", fiber.StatusNotFound)
}

func TestHandleListChanges(t *testing.T) {
	app, db := testApp(t)
	now := time.Now()
	for i, change := range []audit.ChangeRecord{
		{Table: "teams", RecordID: 1, UpdateType: audit.UpdateCreate, UpdateBy: "job-1"},
		{Table: "teams", RecordID: 1, UpdateType: audit.UpdateUpdate, UpdateBy: "job-2"},
		{Table: "leagues", RecordID: 7, UpdateType: audit.UpdateCreate, UpdateBy: "job-1"},
	} {
		change.Timestamp = now.Add(time.Duration(i) * time.Second)
		require.NoError(t, db.Create(&change).Error)
	}

	body := decodeBody(t, app, "/api/v1/audit", fiber.StatusOK)
	assert.Equal(t, float64(3), body["count"])

	body = decodeBody(t, app, "/api/v1/audit?table=teams", fiber.StatusOK)
	assert.Equal(t, float64(2), body["count"])
	changes := body["changes"].([]any)
	first := changes[0].(map[string]any)
	assert.Equal(t, audit.UpdateCreate, first["update_type"], "trail is oldest first")

	body = decodeBody(t, app, "/api/v1/audit?job=job-2", fiber.StatusOK)
	assert.Equal(t, float64(1), body["count"])

	decodeBody(t, app, "/api/v1/audit?from=not-a-time", fiber.StatusBadRequest)
}
