//go:build cgo && sqlite3_cgo

package db

import (
	_ "github.com/mattn/go-sqlite3"
)

// Linked against a C SQLite. Opt in with -tags sqlite3_cgo where the
// wasm build is not an option.
const (
	driverName = "sqlite3"
	driverID   = "mattn/go-sqlite3"
)
