// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package main

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/recommend"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{RequestTimeout: 30 * time.Second},
		Recommend: config.RecommendConfig{
			NumClusters:         5,
			TopN:                5,
			SimilarityThreshold: 0.3,
			MinUserRatings:      2,
			MinMovieRatings:     2,
			TopK:                5,
			OverFetchFactor:     2,
			Seed:                42,
			KMeansRestarts:      10,
			KMeansMaxIter:       300,
		},
		Cache: config.CacheConfig{Backend: "memory", Capacity: 100, TTL: time.Minute},
	}
}

func TestBuildEngineConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Recommend.NumClusters = 7
	cfg.Recommend.TopK = 3

	ec := buildEngineConfig(cfg)

	if err := ec.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if ec.Clustering.NumClusters != 7 {
		t.Errorf("NumClusters = %d, want 7", ec.Clustering.NumClusters)
	}
	if ec.Clustering.Tolerance != 1e-4 {
		t.Errorf("Tolerance = %v, want 1e-4", ec.Clustering.Tolerance)
	}
	want := recommend.CFParams{TopN: 5, SimilarityThreshold: 0.3, MinUserRatings: 2, MinMovieRatings: 2}
	if ec.Collaborative != want {
		t.Errorf("Collaborative = %+v, want %+v", ec.Collaborative, want)
	}
	if ec.Semantic.TopK != 3 || ec.Popular.TopK != 3 {
		t.Errorf("TopK semantic=%d popular=%d, want 3", ec.Semantic.TopK, ec.Popular.TopK)
	}
	if !ec.Cache.Enabled {
		t.Errorf("Cache.Enabled = false, want true for memory backend")
	}
	if ec.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", ec.RequestTimeout)
	}
}

func TestBuildEngineConfigCacheDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Backend = "none"

	if buildEngineConfig(cfg).Cache.Enabled {
		t.Errorf("Cache.Enabled = true, want false for backend none")
	}
}

func TestInitResultCache(t *testing.T) {
	tests := []struct {
		backend  string
		wantName string
		wantErr  bool
	}{
		{"none", "", false},
		{"memory", "memory", false},
		{"memcached", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			c, err := initResultCache(context.Background(), config.CacheConfig{Backend: tt.backend, Capacity: 10})
			if (err != nil) != tt.wantErr {
				t.Fatalf("initResultCache(%q) error = %v, wantErr %v", tt.backend, err, tt.wantErr)
			}
			if tt.wantName == "" {
				if c != nil {
					t.Errorf("cache = %v, want nil", c.Name())
				}
				return
			}
			if c == nil || c.Name() != tt.wantName {
				t.Errorf("cache name = %v, want %q", c, tt.wantName)
			}
		})
	}
}

func TestInitRecommendRegistersStrategies(t *testing.T) {
	engine, err := initRecommend(testConfig(), recommendDeps{}, nil, logging.Nop())
	if err != nil {
		t.Fatalf("initRecommend() error = %v", err)
	}

	got := map[string]bool{}
	for _, name := range engine.Strategies() {
		got[name] = true
	}
	for _, name := range []string{
		recommend.StrategyClustering,
		recommend.StrategyCollaborative,
		recommend.StrategySemantic,
		recommend.StrategyPopular,
	} {
		if !got[name] {
			t.Errorf("strategy %q not registered (have %v)", name, engine.Strategies())
		}
	}
}
