// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"time"

	"github.com/tomtom215/cinerec/internal/database"
	"github.com/tomtom215/cinerec/internal/middleware"
	"github.com/tomtom215/cinerec/internal/recommend"
)

// ReviewStore is the part of *database.DB the handlers use.
type ReviewStore interface {
	CreateReview(ctx context.Context, in database.NewReview) (*database.ReviewRecord, error)
	ListReviews(ctx context.Context, filter database.ReviewFilter) ([]database.ReviewRecord, error)
	ListMovies(ctx context.Context) ([]database.Movie, error)
	GetMovie(ctx context.Context, id int64) (*database.Movie, error)
	Ping(ctx context.Context) error
}

// Recommender is the part of *recommend.Engine the handlers use.
type Recommender interface {
	ClusterMovies(ctx context.Context, k int) (map[int][]string, error)
	CollaborativeRecommend(ctx context.Context, userID int64, params recommend.CFParams) ([]string, error)
	SemanticRecommend(ctx context.Context, userID int64, topK int) ([]string, error)
	PopularRecommend(ctx context.Context, userID int64, topK int) ([]string, error)
	Config() *recommend.Config
	Stats() recommend.Stats
}

// Handler serves the review and recommendation endpoints.
//
// Handler methods are split across files:
//   - handlers_health.go: liveness, readiness and stats
//   - handlers_reviews.go: review and movie endpoints
//   - handlers_recommend.go: the four recommendation strategies
type Handler struct {
	store     ReviewStore
	engine    Recommender
	perfMon   *middleware.PerformanceMonitor
	version   string
	startTime time.Time
}

// HandlerOption configures optional Handler dependencies.
type HandlerOption func(*Handler)

// WithPerformanceMonitor exposes the monitor's latency stats on /stats.
func WithPerformanceMonitor(pm *middleware.PerformanceMonitor) HandlerOption {
	return func(h *Handler) { h.perfMon = pm }
}

// WithVersion sets the build version reported by /health/live.
func WithVersion(v string) HandlerOption {
	return func(h *Handler) { h.version = v }
}

// NewHandler creates the API handler.
func NewHandler(store ReviewStore, engine Recommender, opts ...HandlerOption) *Handler {
	h := &Handler{
		store:     store,
		engine:    engine,
		version:   "dev",
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}
