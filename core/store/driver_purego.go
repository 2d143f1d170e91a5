//go:build !cgo_sqlite

// Pure Go SQLite driver via modernc.org/sqlite. This is the default build;
// no CGO toolchain is required.
package store

import (
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

const (
	driverName = "sqlite"
	driverType = "purego"
)
