// Package db carries the versioned schema migrations, one directory per
// database driver.
package db

import "embed"

//go:embed migrations
var Migrations embed.FS
