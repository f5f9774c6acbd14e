// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
)

// Request structs carry go-playground/validator tags; field names in
// error messages come from the json tags.

// CreateReviewRequest is the body of POST /reviews.
type CreateReviewRequest struct {
	UserID     int64  `json:"user_id" validate:"gte=1"`
	MovieTitle string `json:"movie_title" validate:"required,notblank,max=500"`
	ReviewText string `json:"review_text" validate:"required,notblank,max=20000"`
	Rating     int    `json:"rating" validate:"gte=1,lte=10"`
}

// ListReviewsRequest holds the GET /reviews query. Limit 0 returns every
// matching review.
type ListReviewsRequest struct {
	Movie     string `json:"movie" validate:"max=500"`
	Sentiment string `json:"sentiment" validate:"omitempty,sentiment"`
	Limit     int    `json:"limit" validate:"gte=0,lte=1000"`
	Offset    int    `json:"offset" validate:"gte=0"`
}

// ClustersRequest holds the GET /recommendations/clusters query.
type ClustersRequest struct {
	K int `json:"k" validate:"gte=1,lte=100"`
}

// CollaborativeRequest holds the collaborative filter query.
type CollaborativeRequest struct {
	TopN                int     `json:"top_n" validate:"gte=1,lte=100"`
	SimilarityThreshold float64 `json:"threshold" validate:"gte=-1,lte=1"`
	MinUserRatings      int     `json:"min_user_ratings" validate:"gte=0,lte=10000"`
	MinMovieRatings     int     `json:"min_movie_ratings" validate:"gte=0,lte=10000"`
}

// TopKRequest holds the semantic and popular query.
type TopKRequest struct {
	TopK int `json:"top_k" validate:"gte=1,lte=100"`
}

// paramError is an unparseable query or path parameter.
type paramError struct {
	name  string
	value string
	want  string
}

func (e *paramError) Error() string {
	return fmt.Sprintf("%s must be %s, got %q", e.name, e.want, e.value)
}

// queryParams parses typed query parameters, remembering the first
// failure so a handler can check once after reading all of them.
type queryParams struct {
	r   *http.Request
	err *paramError
}

func newQueryParams(r *http.Request) *queryParams {
	return &queryParams{r: r}
}

func (q *queryParams) raw(key string) (string, bool) {
	v := strings.TrimSpace(q.r.URL.Query().Get(key))
	return v, v != ""
}

func (q *queryParams) fail(name, value, want string) {
	if q.err == nil {
		q.err = &paramError{name: name, value: value, want: want}
	}
}

// Int returns the integer value of key, or def when absent.
func (q *queryParams) Int(key string, def int) int {
	v, ok := q.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		q.fail(key, v, "an integer")
		return def
	}
	return n
}

// Float returns the float value of key, or def when absent.
func (q *queryParams) Float(key string, def float64) float64 {
	v, ok := q.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		q.fail(key, v, "a number")
		return def
	}
	return f
}

// String returns the trimmed value of key.
func (q *queryParams) String(key string) string {
	v, _ := q.raw(key)
	return v
}

// Err returns the first parse failure, or nil.
func (q *queryParams) Err() error {
	if q.err == nil {
		return nil
	}
	return q.err
}

// int64Param parses an integer path segment.
func int64Param(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, &paramError{name: name, value: raw, want: "an integer"}
	}
	return id, nil
}

// userIDParam parses the {userID} path segment.
func userIDParam(r *http.Request) (int64, error) {
	return int64Param(r, "userID")
}
