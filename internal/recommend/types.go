// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package recommend

import (
	"context"
	"strings"
	"time"
)

// Sentiment is the classifier label attached to every review.
type Sentiment string

const (
	// SentimentPositive marks a review classified as positive.
	SentimentPositive Sentiment = "positive"
	// SentimentNeutral marks a review classified as neutral.
	SentimentNeutral Sentiment = "neutral"
	// SentimentNegative marks a review classified as negative.
	SentimentNegative Sentiment = "negative"
)

// ParseSentiment converts a case-insensitive label to a Sentiment.
// The second return value is false for unknown labels.
func ParseSentiment(s string) (Sentiment, bool) {
	switch Sentiment(strings.ToLower(strings.TrimSpace(s))) {
	case SentimentPositive:
		return SentimentPositive, true
	case SentimentNeutral:
		return SentimentNeutral, true
	case SentimentNegative:
		return SentimentNegative, true
	default:
		return "", false
	}
}

// Valid reports whether s is one of the three known labels.
func (s Sentiment) Valid() bool {
	_, ok := ParseSentiment(string(s))
	return ok
}

// Review is a single rating with free text, as read from the store.
// Reviews are immutable once created.
type Review struct {
	// ID is the review primary key.
	ID int64 `json:"id"`

	// MovieID references the reviewed movie.
	MovieID int64 `json:"movie_id"`

	// UserID is the opaque reviewer identifier.
	UserID int64 `json:"user_id"`

	// Rating is the score in [1, 10].
	Rating int `json:"rating"`

	// Text is the review body.
	Text string `json:"review_text"`

	// Sentiment is the classifier label.
	Sentiment Sentiment `json:"sentiment"`

	// CreatedAt is when the review was stored.
	CreatedAt time.Time `json:"created_at"`
}

// Strategy names accepted by Engine.Recommend.
const (
	StrategyClustering    = "clustering"
	StrategyCollaborative = "collaborative"
	StrategySemantic      = "semantic"
	StrategyPopular       = "popular"
)

// Request carries the parameters of one recommendation call. Strategies
// read only the fields they need; zero values fall back to Config defaults.
type Request struct {
	// UserID is the target user. Ignored by the clustering strategy.
	UserID int64 `json:"user_id"`

	// K is the cluster count for clustering and the result size for the
	// semantic and popular strategies.
	K int `json:"k,omitempty"`

	// Collaborative overrides the collaborative filter parameters.
	// Nil uses Config.Collaborative.
	Collaborative *CFParams `json:"collaborative,omitempty"`

	// RequestID is a unique identifier for tracing.
	RequestID string `json:"request_id,omitempty"`
}

// CFParams are the collaborative filter parameters.
type CFParams struct {
	// TopN is the maximum number of titles returned.
	TopN int `json:"top_n"`

	// SimilarityThreshold is the minimum cosine similarity for a user to
	// contribute to predictions.
	SimilarityThreshold float64 `json:"similarity_threshold"`

	// MinUserRatings drops users with fewer ratings before the matrix is built.
	MinUserRatings int `json:"min_user_ratings"`

	// MinMovieRatings drops movies with fewer ratings before the matrix is built.
	MinMovieRatings int `json:"min_movie_ratings"`
}

// Result is the output of a strategy.
type Result struct {
	// Strategy is the name of the strategy that produced the result.
	Strategy string `json:"strategy"`

	// Titles is the ordered list of recommended titles. Always non-nil
	// for user-targeted strategies.
	Titles []string `json:"titles,omitempty"`

	// Clusters maps cluster id to titles. Set by the clustering strategy only.
	Clusters map[int][]string `json:"clusters,omitempty"`

	// DatasetVersion is the store version the result was computed from,
	// or 0 when no VersionSource is configured.
	DatasetVersion int64 `json:"dataset_version"`

	// CacheHit indicates whether the result was served from cache.
	CacheHit bool `json:"cache_hit"`

	// LatencyMS is the total latency in milliseconds.
	LatencyMS int64 `json:"latency_ms"`
}

// Strategy is one recommendation technique behind the uniform dispatch
// surface of the Engine. Implementations are stateless between calls and
// safe for concurrent use.
type Strategy interface {
	// Name returns the strategy identifier (e.g. "clustering", "semantic").
	Name() string

	// Recommend computes a result from a fresh read of the store.
	Recommend(ctx context.Context, req Request) (*Result, error)
}

// RatingStore is the read side of the review store.
type RatingStore interface {
	// FetchAllReviews returns every stored review ordered by id.
	FetchAllReviews(ctx context.Context) ([]Review, error)

	// FetchMovies returns the titles of the given movie ids. Unknown ids
	// are absent from the map.
	FetchMovies(ctx context.Context, ids []int64) (map[int64]string, error)
}

// TextNormalizer turns raw review text into normalized tokens.
type TextNormalizer interface {
	Normalize(ctx context.Context, raw string) ([]string, error)
}

// EmbeddingProvider produces one dense vector per input text. All vectors
// of a call share the same dimension.
type EmbeddingProvider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// VersionSource reports the current dataset version, a counter bumped on
// every review write.
type VersionSource interface {
	DatasetVersion(ctx context.Context) (int64, error)
}

// ResultCache stores encoded results keyed by dataset version.
// cache.MemoryStore and cache.RedisStore satisfy it.
type ResultCache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, payload []byte) error
	Purge(ctx context.Context) error
	Name() string
}
