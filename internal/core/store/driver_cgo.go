//go:build cgo

package store

import (
	// Registers the libsql database/sql driver; the library requires cgo.
	_ "github.com/tursodatabase/go-libsql"
)
