// Package database handles connections to the batch record store.
//
// It provides a wrapper around GORM to configure MySQL connections based on
// the application's configuration, with a sqlite driver available for tests
// and small single-node deployments.
//
// # Schema Inspection
//
// The package also includes a light schema inspector used as a startup
// sanity check: the portal only reads batch records, so it verifies the
// tables it consumes carry the expected columns instead of running
// migrations of its own.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Fatal("Database connection failed", err)
//	}
//
//	missing, err := database.MissingColumns(db, "batches", []string{"hole_id"})
package database
