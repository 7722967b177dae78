package football

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"football-sync/core/audit"
	"football-sync/core/logger"
)

// Handler exposes the read-side service over HTTP.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the ops API routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	api := app.Group("/api/v1")
	api.Get("/audit", h.HandleListChanges)
	api.Get("/jobs", h.HandleListJobs)
	api.Get("/jobs/:id", h.HandleGetJob)
}

// HandleListChanges lists audit change records filtered by table,
// record id, job id and time range, ordered by timestamp ascending.
func (h *Handler) HandleListChanges(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.service.logger, c)

	filter := audit.Filter{
		Table: c.Query("table"),
		JobID: c.Query("job"),
		Limit: c.QueryInt("limit", 100),
	}
	if record := c.QueryInt("record"); record > 0 {
		filter.RecordID = uint(record)
	}

	var err error
	if filter.From, err = parseTime(c.Query("from")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid from time"})
	}
	if filter.To, err = parseTime(c.Query("to")); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid to time"})
	}

	changes, err := h.service.Changes(c.Context(), filter)
	if err != nil {
		l.Error("audit listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"count": len(changes), "changes": changes})
}

// HandleListJobs lists recent sync jobs, newest first.
func (h *Handler) HandleListJobs(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.service.logger, c)

	jobs, err := h.service.Jobs(c.Context(), c.QueryInt("limit", 50))
	if err != nil {
		l.Error("job listing failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	return c.JSON(fiber.Map{"count": len(jobs), "jobs": jobs})
}

// HandleGetJob returns one sync job by id.
func (h *Handler) HandleGetJob(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.service.logger, c)

	job, err := h.service.Job(c.Context(), c.Params("id"))
	if err != nil {
		l.Error("job lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if job == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}
	return c.JSON(job)
}

// parseTime accepts RFC3339 instants and plain dates.
func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0), nil
	}
	return time.Time{}, fiber.ErrBadRequest
}
