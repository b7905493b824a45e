// ABOUTME: SQLite driver for cgo-enabled builds.
// ABOUTME: Uses mattn/go-sqlite3.

//go:build cgo

package store

import _ "github.com/mattn/go-sqlite3"

const sqliteDriver = "sqlite3"
