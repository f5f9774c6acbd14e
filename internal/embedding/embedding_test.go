// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package embedding

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerec/internal/remote"
)

// lengthServer embeds a text as [len(text), batch position, 1].
func lengthServer(t *testing.T, requests *atomic.Int64, dims func(i int) int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		var req embedRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		if req.Model != "test-model" {
			http.Error(w, "unknown model", http.StatusBadRequest)
			return
		}
		resp := embedResponse{Embeddings: make([][]float32, len(req.Texts))}
		for i, text := range req.Texts {
			v := []float32{float32(len(text)), float32(i), 1}
			if dims != nil {
				v = make([]float32, dims(len(text)))
			}
			resp.Embeddings[i] = v
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func newTestClient(url string, batch int) *Client {
	return NewClient(remote.New(remote.Config{Name: "embedding-test", BaseURL: url}), "test-model", batch)
}

func TestClient_Embed(t *testing.T) {
	var requests atomic.Int64
	srv := lengthServer(t, &requests, nil)
	defer srv.Close()

	c := newTestClient(srv.URL, 2)
	texts := []string{"a", "bb", "ccc", "dddd", "eeeee"}

	got, err := c.Embed(context.Background(), texts)
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(got) != len(texts) {
		t.Fatalf("len = %d, want %d", len(got), len(texts))
	}
	for i, v := range got {
		if int(v[0]) != len(texts[i]) {
			t.Errorf("vector %d belongs to text of length %d, want %d", i, int(v[0]), len(texts[i]))
		}
	}
	if requests.Load() != 3 {
		t.Errorf("requests = %d, want 3 batches", requests.Load())
	}
}

func TestClient_EmbedEmpty(t *testing.T) {
	c := newTestClient("http://127.0.0.1:1", 0)
	got, err := c.Embed(context.Background(), nil)
	if err != nil || len(got) != 0 {
		t.Errorf("Embed(nil) = %v, %v", got, err)
	}
	if c.batchSize != DefaultBatchSize {
		t.Errorf("batchSize = %d, want %d", c.batchSize, DefaultBatchSize)
	}
}

func TestClient_DimensionMismatch(t *testing.T) {
	var requests atomic.Int64
	srv := lengthServer(t, &requests, func(n int) int { return 2 + n%2 })
	defer srv.Close()

	c := newTestClient(srv.URL, 32)
	_, err := c.Embed(context.Background(), []string{"aa", "bbb"})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
}

func TestClient_CountMismatch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(embedResponse{Embeddings: [][]float32{{1, 2}}})
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 32)
	_, err := c.Embed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, ErrCountMismatch) {
		t.Errorf("error = %v, want ErrCountMismatch", err)
	}
}

func TestClient_ServerFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := newTestClient(srv.URL, 32)
	_, err := c.Embed(context.Background(), []string{"a"})
	var se *remote.StatusError
	if !errors.As(err, &se) {
		t.Errorf("error = %v, want StatusError", err)
	}
}

func TestCheckDimensions(t *testing.T) {
	tests := []struct {
		name    string
		in      [][]float32
		wantErr bool
	}{
		{"empty", nil, false},
		{"uniform", [][]float32{{1, 2}, {3, 4}}, false},
		{"ragged", [][]float32{{1, 2}, {3}}, true},
		{"zero length", [][]float32{{}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := checkDimensions(tt.in); (err != nil) != tt.wantErr {
				t.Errorf("checkDimensions() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

// countingProvider records every text it embeds.
type countingProvider struct {
	mu    sync.Mutex
	texts []string
	dim   int
	err   error
}

func (c *countingProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return nil, c.err
	}
	c.texts = append(c.texts, texts...)
	dim := c.dim
	if dim == 0 {
		dim = 3
	}
	out := make([][]float32, len(texts))
	for i, text := range texts {
		v := make([]float32, dim)
		v[0] = float32(len(text))
		v[dim-1] = 0.5
		out[i] = v
	}
	return out, nil
}

func openMemoryBadger(t *testing.T) *badger.DB {
	t.Helper()
	db, err := badger.Open(badger.DefaultOptions("").WithInMemory(true).WithLogger(nil))
	if err != nil {
		t.Fatalf("open badger: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestCachedProvider_Embed(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(openMemoryBadger(t), "test-model", 0, inner)
	ctx := context.Background()

	first, err := p.Embed(ctx, []string{"кот", "собака"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	second, err := p.Embed(ctx, []string{"собака", "мышь", "кот"})
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	if !reflect.DeepEqual(inner.texts, []string{"кот", "собака", "мышь"}) {
		t.Errorf("inner embedded %v, want each text once", inner.texts)
	}
	if !reflect.DeepEqual(second[0], first[1]) || !reflect.DeepEqual(second[2], first[0]) {
		t.Errorf("cached vectors differ from originals: %v vs %v", second, first)
	}
	if len(second[1]) != 3 {
		t.Errorf("fresh vector = %v", second[1])
	}
}

func TestCachedProvider_ModelScopedKeys(t *testing.T) {
	db := openMemoryBadger(t)
	inner := &countingProvider{}
	a := NewCachedProvider(db, "model-a", 0, inner)
	b := NewCachedProvider(db, "model-b", 0, inner)

	if _, err := a.Embed(context.Background(), []string{"фильм"}); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if _, err := b.Embed(context.Background(), []string{"фильм"}); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(inner.texts) != 2 {
		t.Errorf("inner calls = %d, want 2 (keys must include the model)", len(inner.texts))
	}
	if bytes.Equal(a.key("фильм"), b.key("фильм")) {
		t.Error("keys collide across models")
	}
}

func TestCachedProvider_TTL(t *testing.T) {
	inner := &countingProvider{}
	p := NewCachedProvider(openMemoryBadger(t), "test-model", time.Second, inner)

	if _, err := p.Embed(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	time.Sleep(1100 * time.Millisecond)
	if _, err := p.Embed(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(inner.texts) != 2 {
		t.Errorf("inner calls = %d, want 2 after expiry", len(inner.texts))
	}
}

func TestCachedProvider_InnerFailure(t *testing.T) {
	cause := errors.New("service down")
	p := NewCachedProvider(openMemoryBadger(t), "test-model", 0, &countingProvider{err: cause})

	if _, err := p.Embed(context.Background(), []string{"a"}); !errors.Is(err, cause) {
		t.Errorf("error = %v, want %v", err, cause)
	}
}

func TestCachedProvider_StaleDimension(t *testing.T) {
	db := openMemoryBadger(t)
	old := NewCachedProvider(db, "test-model", 0, &countingProvider{dim: 3})
	if _, err := old.Embed(context.Background(), []string{"a"}); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}

	changed := NewCachedProvider(db, "test-model", 0, &countingProvider{dim: 4})
	_, err := changed.Embed(context.Background(), []string{"a", "b"})
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("error = %v, want ErrDimensionMismatch", err)
	}
}

func TestVectorCodec(t *testing.T) {
	in := []float32{0, -1.5, 3.25, 1e-7}
	out, err := decodeVector(encodeVector(in))
	if err != nil {
		t.Fatalf("decodeVector() error = %v", err)
	}
	if !reflect.DeepEqual(in, out) {
		t.Errorf("decodeVector(encodeVector(%v)) = %v", in, out)
	}

	if _, err := decodeVector([]byte{1, 2, 3}); err == nil {
		t.Error("decodeVector() accepted a truncated entry")
	}
}

func TestOpenCachedProvider(t *testing.T) {
	dir := t.TempDir()
	inner := &countingProvider{}

	p, err := OpenCachedProvider(dir, "test-model", 0, inner)
	if err != nil {
		t.Fatalf("OpenCachedProvider() error = %v", err)
	}
	if _, err := p.Embed(context.Background(), []string{"persisted"}); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	reopened, err := OpenCachedProvider(dir, "test-model", 0, inner)
	if err != nil {
		t.Fatalf("reopen error = %v", err)
	}
	defer reopened.Close()

	if _, err := reopened.Embed(context.Background(), []string{"persisted"}); err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(inner.texts) != 1 {
		t.Errorf("inner calls = %d, want 1 across restarts", len(inner.texts))
	}
}
