// Package intake orchestrates one identity-text submission: extract the
// five fields, store the record, then relay it by email.
//
// Process runs the steps in order and stops at the first fatal failure:
//
//   - blank text returns ErrNoText
//   - a missing, empty or malformed field returns ErrIncomplete
//   - a store failure returns the *store.PersistenceError and skips the
//     notification
//
// Notification failures are not fatal. They are logged, counted and
// reported in Result.Notification, and Process still succeeds.
//
// # Known Limitations
//
// A record that is stored but whose notification fails (or whose process
// dies between the two steps) stays stored without having been relayed.
// Nothing retries or reconciles it.
package intake
