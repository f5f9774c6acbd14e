// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
)

// unmatchedRoute labels requests chi did not route (404/405).
const unmatchedRoute = "unmatched"

// RoutePattern returns the chi route pattern of r, e.g.
// "/api/v1/recommendations/users/{userID}/semantic". User IDs never reach
// metric labels this way. Call it after the handler has run; chi fills
// the pattern in while routing.
func RoutePattern(r *http.Request) string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		return r.URL.Path
	}
	if pattern := rctx.RoutePattern(); pattern != "" {
		return pattern
	}
	return unmatchedRoute
}

// statusOf returns the written status, 200 when the handler wrote a body
// without calling WriteHeader.
func statusOf(ww chimiddleware.WrapResponseWriter) int {
	if s := ww.Status(); s != 0 {
		return s
	}
	return http.StatusOK
}
