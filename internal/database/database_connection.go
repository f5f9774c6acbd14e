// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"runtime"
	"time"
)

// configureConnectionPool sizes the pool for the dialect.
//
// DuckDB runs in process, so the pool mainly bounds concurrent readers.
// PostgreSQL connections are remote and recycled hourly.
func (db *DB) configureConnectionPool() {
	maxOpen := db.cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = runtime.NumCPU() * 2
	}

	db.conn.SetMaxOpenConns(maxOpen)
	db.conn.SetMaxIdleConns(2)
	db.conn.SetConnMaxIdleTime(5 * time.Minute)

	if db.dialect == DialectPostgres {
		db.conn.SetConnMaxLifetime(time.Hour)
	}
}
