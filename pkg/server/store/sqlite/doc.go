// Package sqlite implements the store interfaces on a local sqlite file
// using database/sql and the pure-Go modernc.org/sqlite driver.
//
// No connection is kept between calls: every operation opens the file,
// runs its statement and closes it again. Concurrent writers are
// serialized by sqlite's file lock, with a busy timeout so that a writer
// waits for the lock instead of failing immediately.
package sqlite
