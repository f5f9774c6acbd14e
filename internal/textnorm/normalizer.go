// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package textnorm

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tomtom215/cinerec/internal/cache"
	"github.com/tomtom215/cinerec/internal/metrics"
)

// DefaultLemmaCacheSize is the default lemma memo capacity.
const DefaultLemmaCacheSize = 100_000

var wordRE = regexp.MustCompile(`[а-яё]+`)

// Normalizer implements recommend.TextNormalizer.
type Normalizer struct {
	lemmatizer Lemmatizer
	lemmas     *cache.LRU[string, string]
}

// New creates a normalizer. lemmas memoizes word -> lemma and may be
// shared between normalizers; nil allocates a private cache of
// DefaultLemmaCacheSize entries.
func New(lemmatizer Lemmatizer, lemmas *cache.LRU[string, string]) *Normalizer {
	if lemmas == nil {
		lemmas = cache.NewLRU[string, string](DefaultLemmaCacheSize, 0)
	}
	return &Normalizer{
		lemmatizer: lemmatizer,
		lemmas:     lemmas,
	}
}

// Tokenize lowercases raw and returns its Cyrillic words in order.
func Tokenize(raw string) []string {
	return wordRE.FindAllString(strings.ToLower(raw), -1)
}

// Normalize returns the lemmas of raw with stop-words removed, in text
// order. Words missing from the memo are lemmatized in a single batch.
func (n *Normalizer) Normalize(ctx context.Context, raw string) ([]string, error) {
	words := Tokenize(raw)
	if len(words) == 0 {
		return []string{}, nil
	}

	resolved := make(map[string]string, len(words))
	var missing []string
	for _, w := range words {
		if _, ok := resolved[w]; ok {
			continue
		}
		if lemma, ok := n.lemmas.Get(w); ok {
			resolved[w] = lemma
			metrics.RecordCacheLookup("lemma", true)
			continue
		}
		metrics.RecordCacheLookup("lemma", false)
		resolved[w] = ""
		missing = append(missing, w)
	}

	if len(missing) > 0 {
		lemmas, err := n.lemmatizer.Lemmatize(ctx, missing)
		if err != nil {
			return nil, fmt.Errorf("lemmatize: %w", err)
		}
		for i, w := range missing {
			resolved[w] = lemmas[i]
			n.lemmas.Add(w, lemmas[i])
		}
		metrics.CacheSize.WithLabelValues("lemma").Set(float64(n.lemmas.Len()))
	}

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		lemma := resolved[w]
		if lemma == "" || IsStopWord(lemma) {
			continue
		}
		tokens = append(tokens, lemma)
	}
	return tokens, nil
}

// CacheStats returns lemma memo statistics.
func (n *Normalizer) CacheStats() cache.Stats {
	return n.lemmas.Stats()
}
