// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package main

import (
	"fmt"
	"io"

	"github.com/tomtom215/cinerec/internal/cache"
	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/embedding"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/remote"
	"github.com/tomtom215/cinerec/internal/sentiment"
	"github.com/tomtom215/cinerec/internal/textnorm"
)

// Collaborators holds the clients of the three remote services.
type Collaborators struct {
	Normalizer *textnorm.Normalizer
	Embedder   recommend.EmbeddingProvider
	Classifier *sentiment.Client

	closers []io.Closer
}

// Close releases the embedding memo if one was opened.
func (c *Collaborators) Close() error {
	var firstErr error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// initCollaborators builds the lemmatizer, embedding and sentiment
// clients. Each gets its own rate limiter and circuit breaker.
func initCollaborators(cfg *config.Config) (*Collaborators, error) {
	lc := cfg.Collaborators.Lemmatizer
	lemmatizer := textnorm.NewHTTPLemmatizer(remote.New(remote.Config{
		Name:      "lemmatizer",
		BaseURL:   lc.URL,
		Timeout:   lc.Timeout,
		RateLimit: lc.RateLimit,
		Burst:     lc.Burst,
	}))
	lemmas := cache.NewLRU[string, string](cfg.Recommend.LemmaCacheSize, 0)

	ecfg := cfg.Collaborators.Embedding
	var embedder recommend.EmbeddingProvider = embedding.NewClient(remote.New(remote.Config{
		Name:      "embedding",
		BaseURL:   ecfg.URL,
		Timeout:   ecfg.Timeout,
		RateLimit: ecfg.RateLimit,
		Burst:     ecfg.Burst,
	}), ecfg.Model, ecfg.BatchSize)

	c := &Collaborators{
		Normalizer: textnorm.New(lemmatizer, lemmas),
	}

	if path := cfg.EmbeddingStore.Path; path != "" {
		memo, err := embedding.OpenCachedProvider(path, ecfg.Model, cfg.EmbeddingStore.TTL, embedder)
		if err != nil {
			return nil, fmt.Errorf("open embedding store: %w", err)
		}
		c.closers = append(c.closers, memo)
		embedder = memo
		logging.Info().Str("path", path).Dur("ttl", cfg.EmbeddingStore.TTL).Msg("Embedding memo enabled")
	}
	c.Embedder = embedder

	sc := cfg.Collaborators.Sentiment
	c.Classifier = sentiment.NewClient(remote.New(remote.Config{
		Name:      "sentiment",
		BaseURL:   sc.URL,
		Timeout:   sc.Timeout,
		RateLimit: sc.RateLimit,
		Burst:     sc.Burst,
	}))

	logging.Info().
		Str("lemmatizer", lc.URL).
		Str("embedding", ecfg.URL).
		Str("embedding_model", ecfg.Model).
		Str("sentiment", sc.URL).
		Msg("Collaborator clients configured")

	return c, nil
}
