// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"net/http"

	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/validation"
)

// ClustersResponse is the body of GET /recommendations/clusters. Every
// cluster id in [0, k) is present; empty clusters map to [].
type ClustersResponse struct {
	K        int              `json:"k"`
	Clusters map[int][]string `json:"clusters"`
}

// TitlesResponse is the body of the per-user recommendation endpoints.
type TitlesResponse struct {
	UserID   int64    `json:"user_id"`
	Strategy string   `json:"strategy"`
	Titles   []string `json:"titles"`
}

// validated reports a validation failure on rw and returns false, or
// returns true when v is valid.
func validated(rw *ResponseWriter, v interface{}) bool {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return true
	}
	apiErr := verr.ToAPIError()
	rw.ValidationError(apiErr.Message, apiErr.Details)
	return false
}

// Clusters handles GET /recommendations/clusters?k=5.
func (h *Handler) Clusters(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	q := newQueryParams(r)
	req := ClustersRequest{K: q.Int("k", h.engine.Config().Clustering.NumClusters)}
	if err := q.Err(); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validated(rw, &req) {
		return
	}

	clusters, err := h.engine.ClusterMovies(r.Context(), req.K)
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Success(ClustersResponse{K: req.K, Clusters: clusters})
}

// Collaborative handles
// GET /recommendations/users/{userID}/collaborative?top_n=&threshold=&min_user_ratings=&min_movie_ratings=.
func (h *Handler) Collaborative(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)
	userID, err := userIDParam(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	def := h.engine.Config().Collaborative
	q := newQueryParams(r)
	req := CollaborativeRequest{
		TopN:                q.Int("top_n", def.TopN),
		SimilarityThreshold: q.Float("threshold", def.SimilarityThreshold),
		MinUserRatings:      q.Int("min_user_ratings", def.MinUserRatings),
		MinMovieRatings:     q.Int("min_movie_ratings", def.MinMovieRatings),
	}
	if err := q.Err(); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validated(rw, &req) {
		return
	}

	titles, err := h.engine.CollaborativeRecommend(r.Context(), userID, recommend.CFParams{
		TopN:                req.TopN,
		SimilarityThreshold: req.SimilarityThreshold,
		MinUserRatings:      req.MinUserRatings,
		MinMovieRatings:     req.MinMovieRatings,
	})
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Success(TitlesResponse{UserID: userID, Strategy: recommend.StrategyCollaborative, Titles: nonNil(titles)})
}

// Semantic handles GET /recommendations/users/{userID}/semantic?top_k=.
func (h *Handler) Semantic(w http.ResponseWriter, r *http.Request) {
	h.topK(w, r, recommend.StrategySemantic, h.engine.Config().Semantic.TopK, h.engine.SemanticRecommend)
}

// Popular handles GET /recommendations/users/{userID}/popular?top_k=.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	h.topK(w, r, recommend.StrategyPopular, h.engine.Config().Popular.TopK, h.engine.PopularRecommend)
}

type topKFunc func(ctx context.Context, userID int64, topK int) ([]string, error)

func (h *Handler) topK(w http.ResponseWriter, r *http.Request, strategy string, def int, fn topKFunc) {
	rw := NewResponseWriter(w, r)
	userID, err := userIDParam(r)
	if err != nil {
		rw.BadRequest(err.Error())
		return
	}

	q := newQueryParams(r)
	req := TopKRequest{TopK: q.Int("top_k", def)}
	if err := q.Err(); err != nil {
		rw.BadRequest(err.Error())
		return
	}
	if !validated(rw, &req) {
		return
	}

	titles, err := fn(r.Context(), userID, req.TopK)
	if err != nil {
		writeServiceError(rw, err)
		return
	}
	rw.Success(TitlesResponse{UserID: userID, Strategy: strategy, Titles: nonNil(titles)})
}

func nonNil(titles []string) []string {
	if titles == nil {
		return []string{}
	}
	return titles
}
