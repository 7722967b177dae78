// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments (development vs production)
// and integrates with both the CLI sync commands and the Fiber ops API.
//
// # Context Awareness
//
// Every sync job is identified by a job id. The WithJob helper attaches that id to the
// log entry, ensuring that all logs produced by one run can be correlated. For HTTP
// requests, WithRequestID performs the same role using the Fiber request id.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Sync started")
//
//	// Inside a job:
//	l := logger.WithJob(log, job.ID)
//	l.Error("Reconcile failed", zap.Error(err))
package logger
