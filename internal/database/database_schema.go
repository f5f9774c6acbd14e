// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
database_schema.go - Database Schema Management

Tables:
  - movies: one row per distinct title
  - reviews: immutable ratings with free text and a sentiment label
  - dataset_version: single-row counter bumped on every review write

Id generation is dialect specific. DuckDB uses explicit sequences, PostgreSQL
uses BIGSERIAL. Everything else is shared.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core database tables
func (db *DB) createTables(ctx context.Context) error {
	for _, query := range db.getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}
	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func (db *DB) getTableCreationQueries() []string {
	var queries []string

	switch db.dialect {
	case DialectPostgres:
		queries = []string{
			`CREATE TABLE IF NOT EXISTS movies (
				id BIGSERIAL PRIMARY KEY,
				title TEXT NOT NULL UNIQUE,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE TABLE IF NOT EXISTS reviews (
				id BIGSERIAL PRIMARY KEY,
				movie_id BIGINT NOT NULL REFERENCES movies(id),
				user_id BIGINT NOT NULL,
				rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 10),
				review_text TEXT NOT NULL,
				sentiment TEXT NOT NULL CHECK (sentiment IN ('positive', 'neutral', 'negative')),
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		}
	default:
		queries = []string{
			`CREATE SEQUENCE IF NOT EXISTS movies_id_seq START 1`,
			`CREATE TABLE IF NOT EXISTS movies (
				id BIGINT PRIMARY KEY DEFAULT nextval('movies_id_seq'),
				title TEXT NOT NULL UNIQUE,
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
			`CREATE SEQUENCE IF NOT EXISTS reviews_id_seq START 1`,
			`CREATE TABLE IF NOT EXISTS reviews (
				id BIGINT PRIMARY KEY DEFAULT nextval('reviews_id_seq'),
				movie_id BIGINT NOT NULL REFERENCES movies(id),
				user_id BIGINT NOT NULL,
				rating INTEGER NOT NULL CHECK (rating BETWEEN 1 AND 10),
				review_text TEXT NOT NULL,
				sentiment TEXT NOT NULL CHECK (sentiment IN ('positive', 'neutral', 'negative')),
				created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
			)`,
		}
	}

	return append(queries,
		`CREATE TABLE IF NOT EXISTS dataset_version (
			id INTEGER PRIMARY KEY,
			version BIGINT NOT NULL
		)`,
		`INSERT INTO dataset_version (id, version) VALUES (1, 0) ON CONFLICT DO NOTHING`,
	)
}

// createIndexes creates the secondary indexes used by listing and
// recommendation reads.
func (db *DB) createIndexes(ctx context.Context) error {
	indexes := []string{
		`CREATE INDEX IF NOT EXISTS idx_reviews_movie_id ON reviews(movie_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_user_id ON reviews(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reviews_sentiment ON reviews(sentiment)`,
	}
	for _, idx := range indexes {
		if _, err := db.conn.ExecContext(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index: %s: %w", idx, err)
		}
	}
	return nil
}
