// Package gorm provides GORM-based implementations of the store interfaces
// defined in the parent store package.
//
// The implementations target PostgreSQL. Each operation opens a handle
// through the configured Opener and closes it before returning, so no
// connection outlives a request.
package gorm
