package cmd

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"football-sync/core/logger"
	"football-sync/feature/football"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// serveCmd starts the operational read API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the operational read API",
	Long: `Start the HTTP server exposing the audit trail and sync job history:
GET /health, GET /api/v1/audit, GET /api/v1/jobs, GET /api/v1/jobs/:id.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, logg, db, err := setup()
		if err != nil {
			log.Fatalf("Failed to start: %v", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
		})

		// Request ids first so every log line of a request is traceable.
		app.Use(requestid.New())
		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRequestID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		// Health stays public; the API itself is key-protected when a
		// key is configured.
		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})
		if cfg.Server.ApiKey != "" {
			app.Use(func(c *fiber.Ctx) error {
				if c.Get("X-Api-Key") != cfg.Server.ApiKey {
					return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
						"error": "invalid api key",
					})
				}
				return c.Next()
			})
		}

		service := football.NewService(db, logg)
		football.NewHandler(service).RegisterRoutes(app)

		go func() {
			logg.Info("Starting server", zap.String("port", cfg.Server.Port))
			if err := app.Listen(cfg.Server.Addr()); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		_ = app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(serveCmd)
}
