// Package database handles database connections.
//
// It provides a wrapper around GORM (Go Object Relational Mapping) to properly configure
// connections based on the application's configuration. MySQL is the backend for
// service deployments; SQLite serves local runs and tests.
//
// # Connect
//
// The Connect function establishes a connection using the configured driver. It is
// agnostic to the football schema: table definitions live in feature/football/models
// and are migrated there, not here.
//
// Duplicate-key errors are translated to gorm.ErrDuplicatedKey on both drivers, which
// the repository layer relies on for its transactional create-if-absent operation.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
package database
