// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"net/http"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerec/internal/database"
	"github.com/tomtom215/cinerec/internal/logging"
)

// maxReviewBodyBytes bounds POST /reviews bodies.
const maxReviewBodyBytes = 64 << 10

// CreateReview handles POST /reviews. The review is classified by the
// sentiment service before it is stored; a classifier outage is a 502
// and nothing is written.
func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	var req CreateReviewRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxReviewBodyBytes))
	if err := dec.Decode(&req); err != nil {
		rw.BadRequest("Invalid JSON body: " + err.Error())
		return
	}

	if !validated(rw, &req) {
		return
	}

	rec, err := h.store.CreateReview(r.Context(), database.NewReview{
		UserID:     req.UserID,
		MovieTitle: req.MovieTitle,
		Rating:     req.Rating,
		Text:       req.ReviewText,
	})
	if err != nil {
		writeServiceError(rw, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Int64("review_id", rec.ID).
		Int64("movie_id", rec.MovieID).
		Str("sentiment", string(rec.Sentiment)).
		Msg("Review created")

	rw.Created(rec)
}

// ListReviews handles GET /reviews?movie=&sentiment=&limit=&offset=.
// An unknown sentiment value is a 400.
func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := newQueryParams(r)
	req := ListReviewsRequest{
		Movie:     q.String("movie"),
		Sentiment: q.String("sentiment"),
		Limit:     q.Int("limit", 0),
		Offset:    q.Int("offset", 0),
	}

	if err := q.Err(); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validated(rw, &req) {
		return
	}

	reviews, err := h.store.ListReviews(r.Context(), database.ReviewFilter{
		Movie:     req.Movie,
		Sentiment: req.Sentiment,
		Limit:     req.Limit,
		Offset:    req.Offset,
	})
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	if reviews == nil {
		reviews = []database.ReviewRecord{}
	}

	rw.SuccessWithPagination(reviews, &PaginationMeta{
		Count:   len(reviews),
		Limit:   req.Limit,
		Offset:  req.Offset,
		HasMore: req.Limit > 0 && len(reviews) == req.Limit,
	})
}

// ListMovies handles GET /movies.
func (h *Handler) ListMovies(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	movies, err := h.store.ListMovies(r.Context())
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	if movies == nil {
		movies = []database.Movie{}
	}
	rw.Success(movies)
}

// GetMovie handles GET /movies/{movieID}.
func (h *Handler) GetMovie(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	id, err := int64Param(r, "movieID")
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	movie, err := h.store.GetMovie(r.Context(), id)
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Success(movie)
}
