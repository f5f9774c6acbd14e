// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/cinerec/internal/middleware"
	"github.com/tomtom215/cinerec/internal/recommend"
)

const readinessTimeout = 2 * time.Second

// HealthLive handles GET /health/live. It reports that the process is up
// without touching any dependency.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	NewResponseWriter(w, r).Success(map[string]interface{}{
		"alive":          true,
		"version":        h.version,
		"uptime_seconds": time.Since(h.startTime).Seconds(),
	})
}

// HealthReady handles GET /health/ready. It returns 503 until the review
// store answers a ping.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	rw := NewResponseWriter(w, r)

	ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
	defer cancel()

	if h.store == nil {
		rw.ServiceUnavailable("Review store not configured")
		return
	}
	if err := h.store.Ping(ctx); err != nil {
		rw.ServiceUnavailable("Review store unreachable")
		return
	}

	rw.Success(map[string]interface{}{
		"ready":    true,
		"database": "connected",
	})
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Engine    recommend.Stats            `json:"engine"`
	Endpoints []middleware.EndpointStats `json:"endpoints"`
}

// Stats handles GET /stats: engine counters and per-endpoint latency.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	resp := StatsResponse{
		Engine:    h.engine.Stats(),
		Endpoints: []middleware.EndpointStats{},
	}
	if h.perfMon != nil {
		resp.Endpoints = h.perfMon.Stats()
	}
	NewResponseWriter(w, r).Success(resp)
}
