// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package embedding

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/dgraph-io/badger/v4"
	"golang.org/x/crypto/blake2b"

	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
)

// Key prefix for embedding entries in BadgerDB.
const embeddingKeyPrefix = "emb:"

// CachedProvider memoizes another provider's vectors in BadgerDB.
// It is safe for concurrent use.
type CachedProvider struct {
	db     *badger.DB
	ownsDB bool
	model  string
	ttl    time.Duration
	inner  Provider
}

// OpenCachedProvider opens (or creates) a Badger database at path and
// wraps inner with it. ttl <= 0 keeps entries forever.
func OpenCachedProvider(path, model string, ttl time.Duration, inner Provider) (*CachedProvider, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil
	opts.ValueLogFileSize = 64 << 20

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger db for embeddings: %w", err)
	}

	p := NewCachedProvider(db, model, ttl, inner)
	p.ownsDB = true
	return p, nil
}

// NewCachedProvider wraps inner with an existing Badger database. The
// caller keeps ownership of db.
func NewCachedProvider(db *badger.DB, model string, ttl time.Duration, inner Provider) *CachedProvider {
	return &CachedProvider{
		db:    db,
		model: model,
		ttl:   ttl,
		inner: inner,
	}
}

// Close releases the database if it was opened by OpenCachedProvider.
func (p *CachedProvider) Close() error {
	if !p.ownsDB {
		return nil
	}
	return p.db.Close()
}

// Embed implements Provider. Cached texts are served from Badger; the
// rest are embedded in one inner call and stored. A Badger read failure
// falls back to the inner provider; a write failure is logged.
func (p *CachedProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	out := make([][]float32, len(texts))
	keys := make([][]byte, len(texts))
	for i, text := range texts {
		keys[i] = p.key(text)
	}

	if err := p.load(keys, out); err != nil {
		logging.Warn().Err(err).Msg("embedding cache read failed, embedding all texts")
		clear(out)
	}

	var missIdx []int
	var missTexts []string
	for i, v := range out {
		if v == nil {
			missIdx = append(missIdx, i)
			missTexts = append(missTexts, texts[i])
			metrics.RecordCacheLookup("embedding", false)
		} else {
			metrics.RecordCacheLookup("embedding", true)
		}
	}

	if len(missTexts) > 0 {
		fresh, err := p.inner.Embed(ctx, missTexts)
		if err != nil {
			return nil, err
		}
		if len(fresh) != len(missTexts) {
			return nil, fmt.Errorf("%w: sent %d texts, got %d vectors", ErrCountMismatch, len(missTexts), len(fresh))
		}
		for j, i := range missIdx {
			out[i] = fresh[j]
		}
		if err := p.store(missIdx, keys, out); err != nil {
			logging.Warn().Err(err).Int("vectors", len(missIdx)).Msg("embedding cache write failed")
		}
	}

	// Cached and fresh vectors must agree, e.g. after a model change
	if err := checkDimensions(out); err != nil {
		return nil, err
	}
	return out, nil
}

func (p *CachedProvider) load(keys [][]byte, out [][]float32) error {
	return p.db.View(func(txn *badger.Txn) error {
		for i, key := range keys {
			item, err := txn.Get(key)
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return fmt.Errorf("get embedding: %w", err)
			}
			if err := item.Value(func(val []byte) error {
				v, decErr := decodeVector(val)
				if decErr != nil {
					return decErr
				}
				out[i] = v
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
}

func (p *CachedProvider) store(idx []int, keys [][]byte, vectors [][]float32) error {
	wb := p.db.NewWriteBatch()
	defer wb.Cancel()

	for _, i := range idx {
		entry := badger.NewEntry(keys[i], encodeVector(vectors[i]))
		if p.ttl > 0 {
			entry = entry.WithTTL(p.ttl)
		}
		if err := wb.SetEntry(entry); err != nil {
			return fmt.Errorf("set embedding: %w", err)
		}
	}
	return wb.Flush()
}

// key is the prefixed BLAKE2b-256 digest of model and text. The NUL
// separator keeps ("ab", "c") and ("a", "bc") apart.
func (p *CachedProvider) key(text string) []byte {
	h, _ := blake2b.New256(nil)
	_, _ = h.Write([]byte(p.model))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(text))
	return h.Sum([]byte(embeddingKeyPrefix))
}

// encodeVector serializes v as little-endian float32s.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, x := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(x))
	}
	return buf
}

func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 || len(b) == 0 {
		return nil, fmt.Errorf("corrupt embedding entry of %d bytes", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}
