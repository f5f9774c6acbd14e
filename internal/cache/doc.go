// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package cache provides the bounded memoization primitives used by CineRec.

# Overview

Two kinds of caches live here:

  - LRU: a generic, thread-safe, bounded least-recently-used cache with
    optional TTL. It backs the lemma memo of the text normalizer and the
    in-memory result store.
  - ResultStore: serialized recommendation results, either in process
    (MemoryStore) or shared across replicas (RedisStore, go-redis/v9).

# Lemma Memoization

The text normalizer memoizes lemma lookups per distinct token. The cache is
injected into the normalizer rather than held as package state, so tests and
multiple engines can size it independently:

	lemmas := cache.NewLRU[string, string](100_000, 0)
	norm := textnorm.New(lemmatizer, lemmas)

Entries are pure functions of the token, so concurrent callers may race to
compute the same key without affecting results.

# Result Caching

Result keys embed the dataset version (see database.DB.DatasetVersion):

	key := fmt.Sprintf("v%d:collaborative:%d:%d", version, userID, topN)

A review write bumps the version, so stale entries are simply never read
again and age out through LRU eviction or TTL. Correctness never depends on
a cache hit.

# Thread Safety

All types in this package are safe for concurrent use.
*/
package cache
