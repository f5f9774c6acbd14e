// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package sentiment

import (
	"context"
	"errors"
	"fmt"

	"github.com/tomtom215/cinerec/internal/recommend"
	"github.com/tomtom215/cinerec/internal/remote"
)

// ErrUnknownLabel is returned when the service answers with a label or a
// score vector that does not map to a known sentiment.
var ErrUnknownLabel = errors.New("unknown sentiment label")

// labels is the class order of the score vector.
var labels = [...]recommend.Sentiment{
	recommend.SentimentNegative,
	recommend.SentimentNeutral,
	recommend.SentimentPositive,
}

// Classifier assigns a sentiment to review text.
type Classifier interface {
	Classify(ctx context.Context, text string) (recommend.Sentiment, error)
}

type classifyRequest struct {
	Text string `json:"text"`
}

type classifyResponse struct {
	Label  string    `json:"label,omitempty"`
	Scores []float64 `json:"scores,omitempty"`
}

// Client calls the sentiment model service.
type Client struct {
	remote *remote.Client
}

// NewClient creates a classifier client.
func NewClient(rc *remote.Client) *Client {
	return &Client{remote: rc}
}

// Classify implements Classifier.
func (c *Client) Classify(ctx context.Context, text string) (recommend.Sentiment, error) {
	var resp classifyResponse
	if err := c.remote.PostJSON(ctx, "/classify", classifyRequest{Text: text}, &resp); err != nil {
		return "", err
	}
	return resp.sentiment()
}

func (r *classifyResponse) sentiment() (recommend.Sentiment, error) {
	if r.Label != "" {
		s, ok := recommend.ParseSentiment(r.Label)
		if !ok {
			return "", fmt.Errorf("%w: %q", ErrUnknownLabel, r.Label)
		}
		return s, nil
	}

	if len(r.Scores) != len(labels) {
		return "", fmt.Errorf("%w: got %d scores, want %d", ErrUnknownLabel, len(r.Scores), len(labels))
	}
	best := 0
	for i, p := range r.Scores {
		if p > r.Scores[best] {
			best = i
		}
	}
	return labels[best], nil
}
