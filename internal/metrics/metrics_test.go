// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package metrics

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
)

func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		err       error
		wantErrs  float64
	}{
		{"successful select", "select", "reviews", nil, 0},
		{"failed insert", "insert", "movies", errors.New("constraint violated"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			RecordDBQuery(tt.operation, tt.table, 5*time.Millisecond, tt.err)
			if tt.err == nil {
				return
			}
			got := testutil.ToFloat64(DBQueryErrors.WithLabelValues(tt.operation, tt.table, truncateError(tt.err)))
			if got < tt.wantErrs {
				t.Errorf("DBQueryErrors = %v, want >= %v", got, tt.wantErrs)
			}
		})
	}
}

func TestTruncateError(t *testing.T) {
	long := errors.New(strings.Repeat("x", 80))
	if got := truncateError(long); len(got) != 50 {
		t.Errorf("len(truncateError()) = %d, want 50", len(got))
	}
	if got := truncateError(errors.New("short")); got != "short" {
		t.Errorf("truncateError() = %q, want short", got)
	}
}

func TestRecordRecommendation(t *testing.T) {
	tests := []struct {
		name       string
		strategy   string
		results    int
		err        error
		wantStatus string
	}{
		{"non-empty result", "semantic_test", 3, nil, "ok"},
		{"empty result", "collaborative_test", 0, nil, "empty"},
		{"collaborator failure", "clustering_test", 0, errors.New("embedding down"), "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := testutil.ToFloat64(RecommendRequests.WithLabelValues(tt.strategy, tt.wantStatus))
			RecordRecommendation(tt.strategy, 10*time.Millisecond, tt.results, tt.err)
			after := testutil.ToFloat64(RecommendRequests.WithLabelValues(tt.strategy, tt.wantStatus))
			if after-before != 1 {
				t.Errorf("RecommendRequests{%s,%s} delta = %v, want 1", tt.strategy, tt.wantStatus, after-before)
			}
		})
	}
}

func TestRecordCacheLookup(t *testing.T) {
	hits := testutil.ToFloat64(CacheHits.WithLabelValues("lookup_test"))
	misses := testutil.ToFloat64(CacheMisses.WithLabelValues("lookup_test"))

	RecordCacheLookup("lookup_test", true)
	RecordCacheLookup("lookup_test", false)
	RecordCacheLookup("lookup_test", false)

	if got := testutil.ToFloat64(CacheHits.WithLabelValues("lookup_test")) - hits; got != 1 {
		t.Errorf("hits delta = %v, want 1", got)
	}
	if got := testutil.ToFloat64(CacheMisses.WithLabelValues("lookup_test")) - misses; got != 2 {
		t.Errorf("misses delta = %v, want 2", got)
	}
}

func TestClassifyError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{context.Canceled, "canceled"},
		{fmt.Errorf("embed: %w", context.DeadlineExceeded), "timeout"},
		{errors.New("circuit breaker is open"), "circuit_open"},
		{errors.New("unexpected status 503"), "http_status"},
		{errors.New("dial tcp: connection refused"), "connection"},
		{errors.New("boom"), "other"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := classifyError(tt.err); got != tt.want {
				t.Errorf("classifyError(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestRecordCircuitBreakerTransition(t *testing.T) {
	tests := []struct {
		to   string
		want float64
	}{
		{"open", 2},
		{"half-open", 1},
		{"closed", 0},
	}

	for _, tt := range tests {
		t.Run(tt.to, func(t *testing.T) {
			RecordCircuitBreakerTransition("embedding_test", "closed", tt.to)
			if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("embedding_test")); got != tt.want {
				t.Errorf("CircuitBreakerState = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRecordEventConsumed(t *testing.T) {
	RecordEventConsumed("reviews.test", true)
	RecordEventConsumed("reviews.test", false)

	if got := testutil.ToFloat64(EventsConsumed.WithLabelValues("reviews.test", "nack")); got < 1 {
		t.Errorf("nack count = %v, want >= 1", got)
	}
}

func TestRecordClusterSnapshot(t *testing.T) {
	RecordClusterSnapshot(2*time.Second, nil)

	if got := testutil.ToFloat64(ClusterSnapshotLastSuccess); got <= 0 {
		t.Errorf("ClusterSnapshotLastSuccess = %v, want > 0", got)
	}

	var m dto.Metric
	if err := ClusterSnapshotDuration.Write(&m); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if m.GetHistogram().GetSampleCount() == 0 {
		t.Error("ClusterSnapshotDuration recorded no samples")
	}
}

func TestMetricsLint(t *testing.T) {
	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		if strings.HasPrefix(p.Metric, "go_") || strings.HasPrefix(p.Metric, "process_") {
			continue
		}
		t.Errorf("metric %s: %s", p.Metric, p.Text)
	}
}
