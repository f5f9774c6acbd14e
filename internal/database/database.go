// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	_ "github.com/lib/pq"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/events"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// Dialect identifies the SQL engine behind a DB.
type Dialect string

const (
	// DialectDuckDB is the embedded default.
	DialectDuckDB Dialect = "duckdb"
	// DialectPostgres is an external PostgreSQL server.
	DialectPostgres Dialect = "postgres"
)

// Classifier assigns a sentiment to review text at write time.
type Classifier interface {
	Classify(ctx context.Context, text string) (recommend.Sentiment, error)
}

// Publisher announces committed review writes.
type Publisher interface {
	PublishReviewCreated(ctx context.Context, ev events.ReviewCreated) error
}

// DB wraps the SQL connection and provides data access methods
type DB struct {
	conn         *sql.DB
	dialect      Dialect
	cfg          *config.DatabaseConfig
	queryTimeout time.Duration

	classifier Classifier
	publisher  Publisher

	// DuckDB allows one writer; all write transactions take writeMu
	writeMu sync.Mutex
}

// Option configures optional collaborators of a DB.
type Option func(*DB)

// WithClassifier sets the sentiment classifier used by CreateReview.
func WithClassifier(c Classifier) Option {
	return func(db *DB) { db.classifier = c }
}

// WithPublisher sets the publisher notified after each committed review.
func WithPublisher(p Publisher) Option {
	return func(db *DB) { db.publisher = p }
}

// New opens the configured database and creates the schema.
func New(cfg *config.DatabaseConfig, opts ...Option) (*DB, error) {
	dialect := Dialect(strings.ToLower(cfg.Driver))
	if dialect == "" {
		dialect = DialectDuckDB
	}

	var (
		conn *sql.DB
		err  error
	)
	switch dialect {
	case DialectDuckDB:
		conn, err = openDuckDB(cfg)
	case DialectPostgres:
		conn, err = sql.Open("postgres", cfg.PostgresDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := &DB{
		conn:         conn,
		dialect:      dialect,
		cfg:          cfg,
		queryTimeout: cfg.QueryTimeout,
	}
	for _, opt := range opts {
		opt(db)
	}

	db.configureConnectionPool()

	if err := db.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	logging.Info().
		Str("dialect", string(dialect)).
		Msg("Review store ready")

	return db, nil
}

// openDuckDB opens an embedded database, creating the parent directory of
// file-backed databases.
func openDuckDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	path := cfg.Path
	if path == "" {
		path = ":memory:"
	}

	if path != ":memory:" {
		// 0750 per gosec G301
		if dir := filepath.Dir(path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}

	params := []string{fmt.Sprintf("threads=%d", threads)}
	if cfg.MaxMemory != "" {
		params = append(params, "max_memory="+cfg.MaxMemory)
	}
	return sql.Open("duckdb", path+"?"+strings.Join(params, "&"))
}

// Dialect returns the SQL engine in use.
func (db *DB) Dialect() Dialect {
	return db.dialect
}

// Ping checks if the database connection is alive
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return db.conn.PingContext(ctx)
}

// Close checkpoints a DuckDB database and closes the connection.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	if db.dialect == DialectDuckDB {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if _, err := db.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
			logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
		}
		cancel()
	}
	return db.conn.Close()
}

// withTimeout bounds a single query when a query timeout is configured.
func (db *DB) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if db.queryTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, db.queryTimeout)
}

// initialize creates tables and indexes
func (db *DB) initialize() error {
	ctx, cancel := schemaContext()
	defer cancel()

	if err := db.conn.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	if err := db.createTables(ctx); err != nil {
		return err
	}
	return db.createIndexes(ctx)
}
