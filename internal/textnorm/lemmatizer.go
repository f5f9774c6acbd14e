// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package textnorm

import (
	"context"
	"fmt"

	"github.com/tomtom215/cinerec/internal/remote"
)

// Lemmatizer maps words to their dictionary forms. The result has the
// same length and order as words.
type Lemmatizer interface {
	Lemmatize(ctx context.Context, words []string) ([]string, error)
}

// HTTPLemmatizer calls a morphology service:
//
//	POST {url}/lemmatize {"words": [...]} -> {"lemmas": [...]}
type HTTPLemmatizer struct {
	client *remote.Client
}

type lemmatizeRequest struct {
	Words []string `json:"words"`
}

type lemmatizeResponse struct {
	Lemmas []string `json:"lemmas"`
}

// NewHTTPLemmatizer creates a lemmatizer client.
func NewHTTPLemmatizer(client *remote.Client) *HTTPLemmatizer {
	return &HTTPLemmatizer{client: client}
}

// Lemmatize implements Lemmatizer.
func (h *HTTPLemmatizer) Lemmatize(ctx context.Context, words []string) ([]string, error) {
	if len(words) == 0 {
		return []string{}, nil
	}

	var resp lemmatizeResponse
	if err := h.client.PostJSON(ctx, "/lemmatize", lemmatizeRequest{Words: words}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Lemmas) != len(words) {
		return nil, fmt.Errorf("lemmatizer returned %d lemmas for %d words", len(resp.Lemmas), len(words))
	}
	return resp.Lemmas, nil
}
