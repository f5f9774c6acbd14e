// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/cinerec/internal/metrics"
)

// ClusterSnapshotter computes topic clusters. Satisfied by
// *recommend.Engine.
type ClusterSnapshotter interface {
	ClusterMovies(ctx context.Context, k int) (map[int][]string, error)
}

// ClusterWarmerConfig configures the topic cluster warmer.
type ClusterWarmerConfig struct {
	// K is the cluster count to precompute.
	K int

	// Interval between snapshots. Default: 15m.
	Interval time.Duration

	// Timeout bounds one snapshot. Default: 5m.
	Timeout time.Duration

	// WarmOnStartup takes a snapshot as soon as the service starts.
	WarmOnStartup bool
}

// ClusterWarmer periodically clusters the whole review corpus. With a
// result cache configured the snapshot primes the cache for the default
// k; either way the cluster sizes are logged and timed.
type ClusterWarmer struct {
	engine ClusterSnapshotter
	config ClusterWarmerConfig
	logger zerolog.Logger
	name   string
}

// NewClusterWarmer creates a cluster warmer.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClusterWarmer(engine ClusterSnapshotter, cfg ClusterWarmerConfig, logger zerolog.Logger) *ClusterWarmer {
	if cfg.Interval <= 0 {
		cfg.Interval = 15 * time.Minute
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Minute
	}
	return &ClusterWarmer{
		engine: engine,
		config: cfg,
		logger: logger.With().Str("service", "cluster-warmer").Logger(),
		name:   "topic-cluster-warmer",
	}
}

// Serve implements suture.Service. Snapshot failures are logged and
// retried on the next tick; they never stop the service.
func (s *ClusterWarmer) Serve(ctx context.Context) error {
	s.logger.Info().
		Int("k", s.config.K).
		Dur("interval", s.config.Interval).
		Bool("warm_on_startup", s.config.WarmOnStartup).
		Msg("cluster warmer starting")

	if s.config.WarmOnStartup {
		s.snapshot(ctx)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("cluster warmer shutting down")
			return ctx.Err()
		case <-ticker.C:
			s.snapshot(ctx)
		}
	}
}

func (s *ClusterWarmer) snapshot(ctx context.Context) {
	snapCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	start := time.Now()
	clusters, err := s.engine.ClusterMovies(snapCtx, s.config.K)
	metrics.RecordClusterSnapshot(time.Since(start), err)
	if err != nil {
		if ctx.Err() == nil {
			s.logger.Warn().Err(err).Msg("cluster snapshot failed")
		}
		return
	}

	sizes := make([]int, s.config.K)
	for id, titles := range clusters {
		if id >= 0 && id < len(sizes) {
			sizes[id] = len(titles)
		}
	}
	s.logger.Info().
		Ints("cluster_sizes", sizes).
		Dur("duration", time.Since(start)).
		Msg("cluster snapshot complete")
}

// String names the service in supervisor logs.
func (s *ClusterWarmer) String() string {
	return s.name
}
