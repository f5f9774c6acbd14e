// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package embedding provides text embedding for the semantic retriever.

Client calls a sentence-embedding service over HTTP:

	POST {url}/embed {"texts": [...], "model": "all-MiniLM-L6-v2"}
	  -> {"embeddings": [[...], ...]}

Input is split into batches that are sent concurrently. Every returned
vector must have the same dimension; a mismatch fails the whole call with
ErrDimensionMismatch. Vectors are returned as produced by the model and are
not assumed to be unit length.

CachedProvider wraps any provider with a BadgerDB memo keyed by
BLAKE2b-256(model, text), so unchanged reviews are embedded once across
requests and restarts. Entries optionally expire after a TTL.

	client := embedding.NewClient(remoteClient, "all-MiniLM-L6-v2", 32)
	provider, err := embedding.OpenCachedProvider("/data/embeddings", "all-MiniLM-L6-v2", 0, client)
	defer provider.Close()
	vectors, err := provider.Embed(ctx, texts)
*/
package embedding
