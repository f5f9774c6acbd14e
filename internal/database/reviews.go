// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/tomtom215/cinerec/internal/database/query"
	"github.com/tomtom215/cinerec/internal/events"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// NewReview is the input of CreateReview.
type NewReview struct {
	UserID     int64
	MovieTitle string
	Rating     int
	Text       string
}

// ReviewRecord is a stored review joined with its movie title.
type ReviewRecord struct {
	ID         int64               `json:"id"`
	MovieID    int64               `json:"movie_id"`
	MovieTitle string              `json:"movie_title"`
	UserID     int64               `json:"user_id"`
	Rating     int                 `json:"rating"`
	Text       string              `json:"review_text"`
	Sentiment  recommend.Sentiment `json:"sentiment"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ReviewFilter selects reviews for ListReviews. Zero values disable a
// filter. Movie matches titles case-insensitively by substring.
type ReviewFilter struct {
	Movie     string
	Sentiment string
	Limit     int
	Offset    int
}

const selectReviewColumns = `SELECT r.id, r.movie_id, m.title, r.user_id, r.rating, r.review_text, r.sentiment, r.created_at
	FROM reviews r JOIN movies m ON m.id = r.movie_id `

// CreateReview classifies and stores a review, bumps the dataset version
// and publishes a ReviewCreated event.
//
// A classifier failure wraps recommend.ErrCollaborator and stores nothing.
//
//nolint:gocritic // hugeParam: in passed by value for immutability
func (db *DB) CreateReview(ctx context.Context, in NewReview) (*ReviewRecord, error) {
	in.MovieTitle = strings.TrimSpace(in.MovieTitle)
	if err := validateNewReview(in); err != nil {
		return nil, err
	}
	if db.classifier == nil {
		return nil, errors.New("no sentiment classifier configured")
	}

	sentiment, err := db.classifier.Classify(ctx, in.Text)
	if err != nil {
		return nil, recommend.CollaboratorError("sentiment classifier", err)
	}

	rec, version, err := db.insertReview(ctx, in, sentiment)
	if err != nil {
		return nil, err
	}

	db.publish(ctx, rec, version)
	return rec, nil
}

//nolint:gocritic // hugeParam: in passed by value for immutability
func validateNewReview(in NewReview) error {
	switch {
	case in.MovieTitle == "":
		return fmt.Errorf("%w: movie title is empty", ErrInvalidReview)
	case strings.TrimSpace(in.Text) == "":
		return fmt.Errorf("%w: review text is empty", ErrInvalidReview)
	case in.Rating < 1 || in.Rating > 10:
		return fmt.Errorf("%w: rating %d outside [1, 10]", ErrInvalidReview, in.Rating)
	}
	return nil
}

// insertReview runs the write transaction and returns the new dataset
// version.
//
//nolint:gocritic // hugeParam: in passed by value for immutability
func (db *DB) insertReview(ctx context.Context, in NewReview, sentiment recommend.Sentiment) (*ReviewRecord, int64, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	db.writeMu.Lock()
	defer db.writeMu.Unlock()

	start := time.Now()
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("begin transaction: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	movie, err := getOrCreateMovie(ctx, tx, in.MovieTitle)
	if err != nil {
		return nil, 0, err
	}

	rec := &ReviewRecord{
		MovieID:    movie.ID,
		MovieTitle: movie.Title,
		UserID:     in.UserID,
		Rating:     in.Rating,
		Text:       in.Text,
		Sentiment:  sentiment,
	}
	err = tx.QueryRowContext(ctx,
		`INSERT INTO reviews (movie_id, user_id, rating, review_text, sentiment)
		 VALUES ($1, $2, $3, $4, $5) RETURNING id, created_at`,
		movie.ID, in.UserID, in.Rating, in.Text, string(sentiment)).
		Scan(&rec.ID, &rec.CreatedAt)
	if err != nil {
		return nil, 0, fmt.Errorf("insert review: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE dataset_version SET version = version + 1 WHERE id = 1`); err != nil {
		return nil, 0, fmt.Errorf("bump dataset version: %w", err)
	}
	var version int64
	if err := tx.QueryRowContext(ctx, `SELECT version FROM dataset_version WHERE id = 1`).Scan(&version); err != nil {
		return nil, 0, fmt.Errorf("read dataset version: %w", err)
	}

	err = tx.Commit()
	metrics.RecordDBQuery("insert", "reviews", time.Since(start), err)
	if err != nil {
		return nil, 0, fmt.Errorf("commit review: %w", err)
	}
	committed = true

	return rec, version, nil
}

func (db *DB) publish(ctx context.Context, rec *ReviewRecord, version int64) {
	if db.publisher == nil {
		return
	}
	ev := events.ReviewCreated{
		ReviewID:       rec.ID,
		MovieID:        rec.MovieID,
		UserID:         rec.UserID,
		Sentiment:      string(rec.Sentiment),
		DatasetVersion: version,
		CreatedAt:      rec.CreatedAt,
	}
	if err := db.publisher.PublishReviewCreated(ctx, ev); err != nil {
		logging.Ctx(ctx).Warn().Err(err).
			Int64("review_id", rec.ID).
			Msg("Failed to publish review event")
	}
}

// ListReviews returns reviews matching filter ordered by id. An unknown
// sentiment value yields an empty list, not an error.
func (db *DB) ListReviews(ctx context.Context, filter ReviewFilter) ([]ReviewRecord, error) {
	wb := query.NewWhereBuilder()
	wb.AddTitleContains("m.title", filter.Movie)
	if filter.Sentiment != "" {
		s, ok := recommend.ParseSentiment(filter.Sentiment)
		if !ok {
			return []ReviewRecord{}, nil
		}
		wb.AddEquals("r.sentiment", string(s))
	}
	where, _ := wb.BuildWithPrefix()
	page := wb.Paginate(filter.Limit, filter.Offset)

	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx, selectReviewColumns+where+" ORDER BY r.id"+page, wb.Args()...)
	if err != nil {
		metrics.RecordDBQuery("select", "reviews", time.Since(start), err)
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out := []ReviewRecord{}
	for rows.Next() {
		var (
			r         ReviewRecord
			sentiment string
		)
		if err := rows.Scan(&r.ID, &r.MovieID, &r.MovieTitle, &r.UserID, &r.Rating, &r.Text, &sentiment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.Sentiment = recommend.Sentiment(sentiment)
		out = append(out, r)
	}
	err = rows.Err()
	metrics.RecordDBQuery("select", "reviews", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return out, nil
}

// FetchAllReviews implements recommend.RatingStore.
func (db *DB) FetchAllReviews(ctx context.Context) ([]recommend.Review, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	start := time.Now()
	rows, err := db.conn.QueryContext(ctx,
		`SELECT id, movie_id, user_id, rating, review_text, sentiment, created_at FROM reviews ORDER BY id`)
	if err != nil {
		metrics.RecordDBQuery("select", "reviews", time.Since(start), err)
		return nil, fmt.Errorf("fetch reviews: %w", err)
	}
	defer closeWithLog(rows, "rows")

	out := []recommend.Review{}
	for rows.Next() {
		var (
			r         recommend.Review
			sentiment string
		)
		if err := rows.Scan(&r.ID, &r.MovieID, &r.UserID, &r.Rating, &r.Text, &sentiment, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan review: %w", err)
		}
		r.Sentiment = recommend.Sentiment(sentiment)
		out = append(out, r)
	}
	err = rows.Err()
	metrics.RecordDBQuery("select", "reviews", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("iterate reviews: %w", err)
	}
	return out, nil
}

// DatasetVersion implements recommend.VersionSource.
func (db *DB) DatasetVersion(ctx context.Context) (int64, error) {
	ctx, cancel := db.withTimeout(ctx)
	defer cancel()

	var version int64
	if err := db.conn.QueryRowContext(ctx, `SELECT version FROM dataset_version WHERE id = 1`).Scan(&version); err != nil {
		return 0, fmt.Errorf("read dataset version: %w", err)
	}
	return version, nil
}

// Compile-time interface checks.
var (
	_ recommend.RatingStore   = (*DB)(nil)
	_ recommend.VersionSource = (*DB)(nil)
)
