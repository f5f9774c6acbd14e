// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	"github.com/tomtom215/cinerec/internal/logging"
)

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		wantKeep bool
	}{
		{"generated when absent", "", false},
		{"upstream id kept", "req-abc-123", true},
		{"spaces rejected", "bad id", false},
		{"newline rejected", "evil\nline", false},
		{"too long rejected", strings.Repeat("x", maxRequestIDLen+1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var ctxID, chiID, correlationID string
			h := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				ctxID = GetRequestID(r.Context())
				chiID = chimiddleware.GetReqID(r.Context())
				correlationID = logging.CorrelationIDFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/movies", nil)
			if tt.header != "" {
				req.Header.Set(HeaderRequestID, tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			got := rec.Header().Get(HeaderRequestID)
			if tt.wantKeep {
				if got != tt.header {
					t.Errorf("X-Request-ID = %q, want %q", got, tt.header)
				}
			} else if _, err := uuid.Parse(got); err != nil {
				t.Errorf("X-Request-ID = %q, want generated UUID", got)
			}
			if ctxID != got {
				t.Errorf("context request id = %q, want %q", ctxID, got)
			}
			if chiID != got {
				t.Errorf("chi request id = %q, want %q", chiID, got)
			}
			if correlationID == "" {
				t.Error("correlation id missing from context")
			}
		})
	}
}

func newTestRouter(mw ...func(http.Handler) http.Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Use(mw...)
	r.Get("/api/v1/recommendations/users/{userID}/semantic", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	r.Post("/api/v1/reviews", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	return r
}

func TestRoutePattern(t *testing.T) {
	var pattern string
	capture := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			pattern = RoutePattern(r)
		})
	}
	router := newTestRouter(capture)

	tests := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodGet, "/api/v1/recommendations/users/42/semantic", "/api/v1/recommendations/users/{userID}/semantic"},
		{http.MethodGet, "/api/v1/recommendations/users/7/semantic", "/api/v1/recommendations/users/{userID}/semantic"},
		{http.MethodGet, "/nope", unmatchedRoute},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(tt.method, tt.path, nil))
			if pattern != tt.want {
				t.Errorf("RoutePattern() = %q, want %q", pattern, tt.want)
			}
		})
	}

	bare := httptest.NewRequest(http.MethodGet, "/raw/path", nil)
	if got := RoutePattern(bare); got != "/raw/path" {
		t.Errorf("RoutePattern(no chi context) = %q, want /raw/path", got)
	}
}

func TestPrometheusMetrics_PassesThrough(t *testing.T) {
	router := newTestRouter(PrometheusMetrics)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/api/v1/recommendations/users/1/semantic", http.StatusOK},
		{http.MethodPost, "/api/v1/reviews", http.StatusBadGateway},
		{http.MethodGet, "/missing", http.StatusNotFound},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		if rec.Code != tt.want {
			t.Errorf("%s %s status = %d, want %d", tt.method, tt.path, rec.Code, tt.want)
		}
	}
}

func TestPerformanceMonitor_Stats(t *testing.T) {
	pm := NewPerformanceMonitor(10, time.Hour)
	for _, d := range []int64{10, 20, 30, 40} {
		pm.Record(RequestSample{Route: "/a", Method: http.MethodGet, DurationMS: d, StatusCode: http.StatusOK})
	}
	pm.Record(RequestSample{Route: "/b", Method: http.MethodPost, DurationMS: 5, StatusCode: http.StatusInternalServerError})

	stats := pm.Stats()
	if len(stats) != 2 {
		t.Fatalf("len(Stats()) = %d, want 2", len(stats))
	}

	a := stats[0]
	if a.Endpoint != "GET /a" {
		t.Errorf("busiest endpoint = %q, want GET /a", a.Endpoint)
	}
	if a.RequestCount != 4 {
		t.Errorf("RequestCount = %d, want 4", a.RequestCount)
	}
	if a.AvgDuration != 25 {
		t.Errorf("AvgDuration = %v, want 25", a.AvgDuration)
	}
	if a.P50Duration != 20 {
		t.Errorf("P50Duration = %d, want 20", a.P50Duration)
	}
	if a.MaxDuration != 40 {
		t.Errorf("MaxDuration = %d, want 40", a.MaxDuration)
	}
	if stats[1].ErrorCount != 1 {
		t.Errorf("POST /b ErrorCount = %d, want 1", stats[1].ErrorCount)
	}
}

func TestPerformanceMonitor_RingBuffer(t *testing.T) {
	pm := NewPerformanceMonitor(3, time.Hour)
	for i := 0; i < 5; i++ {
		pm.Record(RequestSample{Route: "/r", Method: http.MethodGet, DurationMS: int64(i)})
	}

	if got := pm.Len(); got != 3 {
		t.Errorf("Len() = %d, want 3", got)
	}
	stats := pm.Stats()
	if stats[0].MaxDuration != 4 {
		t.Errorf("MaxDuration = %d, want 4", stats[0].MaxDuration)
	}
	if stats[0].P50Duration != 3 {
		t.Errorf("P50Duration = %d, want 3 (oldest samples evicted)", stats[0].P50Duration)
	}
}

func TestPerformanceMonitor_Middleware(t *testing.T) {
	pm := NewPerformanceMonitor(100, 0)
	router := newTestRouter(pm.Middleware)

	for _, id := range []string{"1", "2", "3"} {
		router.ServeHTTP(httptest.NewRecorder(),
			httptest.NewRequest(http.MethodGet, "/api/v1/recommendations/users/"+id+"/semantic", nil))
	}
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/v1/reviews", nil))

	stats := pm.Stats()
	if len(stats) != 2 {
		t.Fatalf("len(Stats()) = %d, want 2: %+v", len(stats), stats)
	}
	if want := "GET /api/v1/recommendations/users/{userID}/semantic"; stats[0].Endpoint != want {
		t.Errorf("Endpoint = %q, want %q", stats[0].Endpoint, want)
	}
	if stats[0].RequestCount != 3 {
		t.Errorf("RequestCount = %d, want 3", stats[0].RequestCount)
	}
	if stats[1].ErrorCount != 1 {
		t.Errorf("ErrorCount = %d, want 1 for 502", stats[1].ErrorCount)
	}
}

func TestPercentile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []int64
		p      float64
		want   int64
	}{
		{"empty", nil, 0.5, 0},
		{"single", []int64{7}, 0.99, 7},
		{"p50", []int64{1, 2, 3, 4, 5}, 0.5, 3},
		{"p99", []int64{1, 2, 3, 4, 5}, 0.99, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := percentile(tt.sorted, tt.p); got != tt.want {
				t.Errorf("percentile() = %d, want %d", got, tt.want)
			}
		})
	}
}
