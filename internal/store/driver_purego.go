// ABOUTME: SQLite driver for CGO_ENABLED=0 builds.
// ABOUTME: Uses the pure Go modernc.org/sqlite port.

//go:build !cgo

package store

import _ "modernc.org/sqlite" // pure go sqlite driver

const sqliteDriver = "sqlite"
