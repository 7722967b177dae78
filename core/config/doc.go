// Package config provides configuration management for the football sync service.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key)
//   - Provider: upstream football API endpoint, key, and retry policy
//   - Sync: worker count, retry backoff, and default timezone for sync jobs
//   - RateLimit: local request budget towards the upstream API
//   - Database: MySQL connection details
//   - Storage: S3/MinIO credentials and bucket settings for dataset exports
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
