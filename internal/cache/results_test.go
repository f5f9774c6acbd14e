// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	var store ResultStore = NewMemoryStore(2, time.Minute)

	if store.Name() != "memory" {
		t.Errorf("Name() = %q, want memory", store.Name())
	}

	if _, found, err := store.Get(ctx, "missing"); err != nil || found {
		t.Fatalf("Get(missing) = found %v, err %v; want miss", found, err)
	}

	if err := store.Set(ctx, "k1", []byte(`["a"]`)); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	payload, found, err := store.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if !found {
		t.Fatal("Get(k1) not found")
	}
	if string(payload) != `["a"]` {
		t.Errorf("Get(k1) = %s, want [\"a\"]", payload)
	}

	if err := store.Purge(ctx); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if _, found, _ := store.Get(ctx, "k1"); found {
		t.Error("entry survived Purge")
	}
}

func TestMemoryStore_BoundedByCapacity(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore(2, 0)

	for _, key := range []string{"a", "b", "c"} {
		if err := store.Set(ctx, key, []byte(key)); err != nil {
			t.Fatalf("Set(%q) error = %v", key, err)
		}
	}

	if _, found, _ := store.Get(ctx, "a"); found {
		t.Error("oldest entry should have been evicted")
	}
	if got := store.Stats().Size; got != 2 {
		t.Errorf("Size = %d, want 2", got)
	}
}
