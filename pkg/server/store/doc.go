// Package store provides storage abstractions for the intake server.
//
// This package defines interfaces for database operations, allowing the
// request handler to be decoupled from the specific database implementation.
//
// # Available Stores
//
//   - RecordStore: schema setup and append-only inserts into person_data
//   - HealthStore: connectivity check for the health endpoint
//
// # Implementations
//
//   - store/sqlite: database/sql on a local sqlite file (default)
//   - store/gorm: GORM on PostgreSQL
//
// # Usage
//
//	records := sqlite.NewRecordStore("data.db")
//	if err := records.EnsureSchema(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	id, err := records.Insert(ctx, &rec)
//	if err != nil {
//	    var perr *store.PersistenceError
//	    if errors.As(err, &perr) {
//	        // storage unavailable or write failed
//	    }
//	}
package store
