// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/cinerec/internal/database/query"
	"github.com/tomtom215/cinerec/internal/metrics"
)

// Movie is a stored movie.
type Movie struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
}

// queryer is satisfied by *sql.DB and *sql.Tx.
type queryer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// GetOrCreateMovie returns the movie with the trimmed title, creating it
// when absent.
func (db *DB) GetOrCreateMovie(ctx context.Context, title string) (*Movie, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: movie title is empty", ErrInvalidReview)
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	start := time.Now()
	m, err := getOrCreateMovie(ctx, db.conn, title)
	metrics.RecordDBQuery("upsert", "movies", time.Since(start), err)
	return m, err
}

func getOrCreateMovie(ctx context.Context, q queryer, title string) (*Movie, error) {
	if _, err := q.ExecContext(ctx,
		`INSERT INTO movies (title) VALUES ($1) ON CONFLICT (title) DO NOTHING`, title); err != nil {
		return nil, fmt.Errorf("insert movie: %w", err)
	}

	var m Movie
	err := q.QueryRowContext(ctx,
		`SELECT id, title, created_at FROM movies WHERE title = $1`, title).
		Scan(&m.ID, &m.Title, &m.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("select movie: %w", err)
	}
	return &m, nil
}

// GetMovie returns a movie by id.
func (db *DB) GetMovie(ctx context.Context, id int64) (*Movie, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	var m Movie
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, title, created_at FROM movies WHERE id = $1`, id).
		Scan(&m.ID, &m.Title, &m.CreatedAt)
	metrics.RecordDBQuery("select", "movies", time.Since(start), ignoreNoRows(err))

	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("movie %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get movie: %w", err)
	}
	return &m, nil
}

// ListMovies returns every movie ordered by id.
func (db *DB) ListMovies(ctx context.Context) ([]Movie, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, `SELECT id, title, created_at FROM movies ORDER BY id`)
	if err != nil {
		metrics.RecordDBQuery("select", "movies", time.Since(start), err)
		return nil, fmt.Errorf("list movies: %w", err)
	}
	defer closeWithLog(rows, "rows")

	movies := []Movie{}
	for rows.Next() {
		var m Movie
		if err := rows.Scan(&m.ID, &m.Title, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		movies = append(movies, m)
	}
	err = rows.Err()
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return movies, nil
}

// FetchMovies implements recommend.RatingStore. Unknown ids are absent
// from the result.
func (db *DB) FetchMovies(ctx context.Context, ids []int64) (map[int64]string, error) {
	out := make(map[int64]string, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	wb := query.NewWhereBuilder().AddInt64In("id", dedupe(ids))
	where, args := wb.BuildWithPrefix()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, "SELECT id, title FROM movies "+where, args...)
	if err != nil {
		metrics.RecordDBQuery("select", "movies", time.Since(start), err)
		return nil, fmt.Errorf("fetch movies: %w", err)
	}
	defer closeWithLog(rows, "rows")

	for rows.Next() {
		var (
			id    int64
			title string
		)
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("scan movie: %w", err)
		}
		out[id] = title
	}
	err = rows.Err()
	metrics.RecordDBQuery("select", "movies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("iterate movies: %w", err)
	}
	return out, nil
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func ignoreNoRows(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	return err
}
