// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package embedding

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/cinerec/internal/remote"
)

// DefaultBatchSize is the number of texts per embedding request.
const DefaultBatchSize = 32

// maxConcurrentBatches bounds in-flight batch requests per Embed call.
const maxConcurrentBatches = 4

var (
	// ErrDimensionMismatch is returned when vectors of one call differ in
	// length.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrCountMismatch is returned when the service returns a different
	// number of vectors than texts sent.
	ErrCountMismatch = errors.New("embedding count mismatch")
)

// Provider produces one vector per text.
type Provider interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type embedRequest struct {
	Texts []string `json:"texts"`
	Model string   `json:"model,omitempty"`
}

type embedResponse struct {
	Embeddings [][]float32 `json:"embeddings"`
}

// Client is an HTTP embedding provider.
type Client struct {
	remote    *remote.Client
	model     string
	batchSize int
}

// NewClient creates an embedding client. batchSize <= 0 uses
// DefaultBatchSize.
func NewClient(rc *remote.Client, model string, batchSize int) *Client {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Client{
		remote:    rc,
		model:     model,
		batchSize: batchSize,
	}
}

// Model returns the model name sent with every request.
func (c *Client) Model() string {
	return c.model
}

// Embed implements Provider.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	out := make([][]float32, len(texts))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentBatches)
	for start := 0; start < len(texts); start += c.batchSize {
		end := min(start+c.batchSize, len(texts))
		g.Go(func() error {
			vectors, err := c.embedBatch(gctx, texts[start:end])
			if err != nil {
				return err
			}
			copy(out[start:end], vectors)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := checkDimensions(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) embedBatch(ctx context.Context, batch []string) ([][]float32, error) {
	var resp embedResponse
	if err := c.remote.PostJSON(ctx, "/embed", embedRequest{Texts: batch, Model: c.model}, &resp); err != nil {
		return nil, err
	}
	if len(resp.Embeddings) != len(batch) {
		return nil, fmt.Errorf("%w: sent %d texts, got %d vectors", ErrCountMismatch, len(batch), len(resp.Embeddings))
	}
	return resp.Embeddings, nil
}

// checkDimensions verifies that all vectors share one non-zero length.
func checkDimensions(vectors [][]float32) error {
	if len(vectors) == 0 {
		return nil
	}
	dim := len(vectors[0])
	if dim == 0 {
		return fmt.Errorf("%w: empty vector", ErrDimensionMismatch)
	}
	for i, v := range vectors {
		if len(v) != dim {
			return fmt.Errorf("%w: vector %d has %d dimensions, want %d", ErrDimensionMismatch, i, len(v), dim)
		}
	}
	return nil
}
