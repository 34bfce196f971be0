//go:build !sqlite3_cgo

package db

import (
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// Pure-Go driver with an embedded SQLite build, so cross compiling the
// gateway stays a plain go build.
const (
	driverName = "sqlite3"
	driverID   = "ncruces/go-sqlite3"
)
