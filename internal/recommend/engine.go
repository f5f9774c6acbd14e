// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/cinerec/internal/metrics"
)

// Engine dispatches recommendation requests to registered strategies.
// It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	strategies map[string]Strategy
	stratMu    sync.RWMutex

	// Optional dataset-version result cache
	cache    ResultCache
	versions VersionSource
	flight   singleflight.Group

	requestCount atomic.Int64
	cacheHits    atomic.Int64
	cacheMisses  atomic.Int64
	errorCount   atomic.Int64
}

// Stats is a snapshot of engine counters.
type Stats struct {
	RequestCount int64    `json:"request_count"`
	CacheHits    int64    `json:"cache_hits"`
	CacheMisses  int64    `json:"cache_misses"`
	ErrorCount   int64    `json:"error_count"`
	Strategies   []string `json:"strategies"`
	CacheBackend string   `json:"cache_backend,omitempty"`
}

// NewEngine creates a new recommendation engine.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &Engine{
		config:     cfg.Clone(),
		logger:     logger.With().Str("component", "recommend").Logger(),
		strategies: make(map[string]Strategy),
	}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() *Config {
	return e.config.Clone()
}

// RegisterStrategy adds a strategy, replacing any with the same name.
func (e *Engine) RegisterStrategy(s Strategy) {
	e.stratMu.Lock()
	defer e.stratMu.Unlock()

	e.strategies[s.Name()] = s
	e.logger.Info().
		Str("strategy", s.Name()).
		Msg("registered strategy")
}

// Strategies returns the registered strategy names in sorted order.
func (e *Engine) Strategies() []string {
	e.stratMu.RLock()
	defer e.stratMu.RUnlock()

	names := make([]string, 0, len(e.strategies))
	for name := range e.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SetResultCache enables result caching keyed by dataset version. Both
// arguments must be non-nil for caching to take effect.
func (e *Engine) SetResultCache(c ResultCache, v VersionSource) {
	e.cache = c
	e.versions = v
}

// InvalidateCache drops every cached result.
func (e *Engine) InvalidateCache(ctx context.Context) error {
	if e.cache == nil {
		return nil
	}
	if err := e.cache.Purge(ctx); err != nil {
		return fmt.Errorf("purge %s cache: %w", e.cache.Name(), err)
	}
	e.logger.Debug().Str("backend", e.cache.Name()).Msg("result cache invalidated")
	return nil
}

// Stats returns a snapshot of engine counters.
func (e *Engine) Stats() Stats {
	s := Stats{
		RequestCount: e.requestCount.Load(),
		CacheHits:    e.cacheHits.Load(),
		CacheMisses:  e.cacheMisses.Load(),
		ErrorCount:   e.errorCount.Load(),
		Strategies:   e.Strategies(),
	}
	if e.cache != nil {
		s.CacheBackend = e.cache.Name()
	}
	return s
}

// Recommend runs the named strategy. Empty input and unknown users yield
// an empty result; collaborator failures yield an error wrapping
// ErrCollaborator.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) Recommend(ctx context.Context, name string, req Request) (*Result, error) {
	start := time.Now()
	e.requestCount.Add(1)

	strategy, ok := e.strategy(name)
	if !ok {
		e.errorCount.Add(1)
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}

	req = e.prepareRequest(name, req)
	logger := e.createRequestLogger(name, req)
	logger.Debug().Msg("processing recommendation request")

	if e.config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.RequestTimeout)
		defer cancel()
	}

	result, err := e.run(ctx, strategy, req, logger)
	if err != nil {
		e.errorCount.Add(1)
		metrics.RecordRecommendation(name, time.Since(start), 0, err)
		logger.Warn().Err(err).Msg("recommendation failed")
		return nil, fmt.Errorf("%s recommend: %w", name, err)
	}

	result.LatencyMS = time.Since(start).Milliseconds()
	metrics.RecordRecommendation(name, time.Since(start), resultSize(result), nil)

	logger.Debug().
		Int("returned", resultSize(result)).
		Bool("cache_hit", result.CacheHit).
		Int64("latency_ms", result.LatencyMS).
		Msg("recommendation complete")

	return result, nil
}

// ClusterMovies groups reviewed movies into k topic clusters.
func (e *Engine) ClusterMovies(ctx context.Context, k int) (map[int][]string, error) {
	if k <= 0 {
		return map[int][]string{}, nil
	}
	res, err := e.Recommend(ctx, StrategyClustering, Request{K: k})
	if err != nil {
		return nil, err
	}
	if res.Clusters == nil {
		return map[int][]string{}, nil
	}
	return res.Clusters, nil
}

// CollaborativeRecommend returns up to params.TopN titles predicted from
// similar users' ratings.
func (e *Engine) CollaborativeRecommend(ctx context.Context, userID int64, params CFParams) ([]string, error) {
	res, err := e.Recommend(ctx, StrategyCollaborative, Request{UserID: userID, Collaborative: &params})
	if err != nil {
		return nil, err
	}
	return titlesOf(res), nil
}

// SemanticRecommend returns up to topK titles close to the user's
// positive reviews in embedding space.
func (e *Engine) SemanticRecommend(ctx context.Context, userID int64, topK int) ([]string, error) {
	if topK <= 0 {
		return []string{}, nil
	}
	res, err := e.Recommend(ctx, StrategySemantic, Request{UserID: userID, K: topK})
	if err != nil {
		return nil, err
	}
	return titlesOf(res), nil
}

// PopularRecommend returns up to topK titles with the most positive
// reviews that the user has not reviewed.
func (e *Engine) PopularRecommend(ctx context.Context, userID int64, topK int) ([]string, error) {
	if topK <= 0 {
		return []string{}, nil
	}
	res, err := e.Recommend(ctx, StrategyPopular, Request{UserID: userID, K: topK})
	if err != nil {
		return nil, err
	}
	return titlesOf(res), nil
}

func (e *Engine) strategy(name string) (Strategy, bool) {
	e.stratMu.RLock()
	defer e.stratMu.RUnlock()
	s, ok := e.strategies[name]
	return s, ok
}

// prepareRequest applies defaults and generates a request ID if needed.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) prepareRequest(name string, req Request) Request {
	if req.RequestID == "" {
		req.RequestID = uuid.New().String()
	}

	switch name {
	case StrategyClustering:
		if req.K == 0 {
			req.K = e.config.Clustering.NumClusters
		}
	case StrategySemantic:
		if req.K == 0 {
			req.K = e.config.Semantic.TopK
		}
	case StrategyPopular:
		if req.K == 0 {
			req.K = e.config.Popular.TopK
		}
	case StrategyCollaborative:
		if req.Collaborative == nil {
			params := e.config.Collaborative
			req.Collaborative = &params
		}
	}

	return req
}

//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) createRequestLogger(name string, req Request) zerolog.Logger {
	return e.logger.With().
		Str("request_id", req.RequestID).
		Str("strategy", name).
		Int64("user_id", req.UserID).
		Int("k", req.K).
		Logger()
}

// run computes the result, consulting the result cache when enabled.
// Cache failures are logged and never fail the request.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func (e *Engine) run(ctx context.Context, s Strategy, req Request, logger zerolog.Logger) (*Result, error) {
	if !e.cacheEnabled() {
		return s.Recommend(ctx, req)
	}

	version, err := e.versions.DatasetVersion(ctx)
	if err != nil {
		logger.Warn().Err(err).Msg("dataset version unavailable, bypassing result cache")
		return s.Recommend(ctx, req)
	}

	key := cacheKey(version, s.Name(), req)
	if cached, ok := e.lookup(ctx, key, logger); ok {
		cached.DatasetVersion = version
		cached.CacheHit = true
		return cached, nil
	}

	// The shared computation outlives any single caller; each caller
	// only stops waiting when its own context ends.
	ch := e.flight.DoChan(key, func() (interface{}, error) {
		fctx := context.WithoutCancel(ctx)
		if e.config.RequestTimeout > 0 {
			var cancel context.CancelFunc
			fctx, cancel = context.WithTimeout(fctx, e.config.RequestTimeout)
			defer cancel()
		}
		res, runErr := s.Recommend(fctx, req)
		if runErr != nil {
			return nil, runErr
		}
		res.DatasetVersion = version
		e.store(fctx, key, res, logger)
		return res, nil
	})

	var r singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-ch:
	}
	if r.Err != nil {
		return nil, r.Err
	}

	res := r.Val.(*Result)
	if r.Shared {
		// Callers sharing a flight must not mutate the same Result
		clone := *res
		res = &clone
	}
	return res, nil
}

func (e *Engine) cacheEnabled() bool {
	return e.config.Cache.Enabled && e.cache != nil && e.versions != nil
}

func (e *Engine) lookup(ctx context.Context, key string, logger zerolog.Logger) (*Result, bool) {
	payload, ok, err := e.cache.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("result cache read failed")
		ok = false
	}
	if !ok {
		e.cacheMisses.Add(1)
		metrics.RecordCacheLookup("results", false)
		return nil, false
	}

	var res Result
	if err := json.Unmarshal(payload, &res); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("discarding undecodable cached result")
		e.cacheMisses.Add(1)
		metrics.RecordCacheLookup("results", false)
		return nil, false
	}

	e.cacheHits.Add(1)
	metrics.RecordCacheLookup("results", true)
	return &res, true
}

func (e *Engine) store(ctx context.Context, key string, res *Result, logger zerolog.Logger) {
	payload, err := json.Marshal(res)
	if err != nil {
		logger.Warn().Err(err).Msg("result encode failed")
		return
	}
	if err := e.cache.Set(ctx, key, payload); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("result cache write failed")
	}
}

// cacheKey identifies a result by dataset version, strategy and the
// parameters that strategy reads.
//
//nolint:gocritic // hugeParam: req passed by value for immutability
func cacheKey(version int64, strategy string, req Request) string {
	switch strategy {
	case StrategyClustering:
		return fmt.Sprintf("v%d:%s:k=%d", version, strategy, req.K)
	case StrategyCollaborative:
		p := req.Collaborative
		return fmt.Sprintf("v%d:%s:u=%d:n=%d:t=%g:mu=%d:mm=%d",
			version, strategy, req.UserID, p.TopN, p.SimilarityThreshold, p.MinUserRatings, p.MinMovieRatings)
	default:
		return fmt.Sprintf("v%d:%s:u=%d:k=%d", version, strategy, req.UserID, req.K)
	}
}

func resultSize(r *Result) int {
	if r.Clusters != nil {
		n := 0
		for _, titles := range r.Clusters {
			n += len(titles)
		}
		return n
	}
	return len(r.Titles)
}

func titlesOf(r *Result) []string {
	if r.Titles == nil {
		return []string{}
	}
	return r.Titles
}
