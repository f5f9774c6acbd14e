// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package main is the entry point for the CineRec server.

CineRec stores free-text movie reviews, classifies their sentiment and
serves four kinds of recommendations over HTTP: topic clusters of
movies (TF-IDF and k-means over lemmatized review text), collaborative
filtering on ratings, semantic retrieval over review embeddings and a
popularity fallback.

# Application Architecture

Processes run under a Suture v4 supervision tree:

	RootSupervisor ("cinerec")
	├── DataSupervisor ("data-layer")
	│   └── Topic cluster warmer (RECOMMEND_CLUSTER_REFRESH_INTERVAL > 0)
	├── MessagingSupervisor ("messaging-layer")
	│   └── Cache invalidator (review.created consumer)
	└── APISupervisor ("api-layer")
	    └── HTTP server

Initialization order:

 1. Configuration: Koanf v2 defaults, optional YAML file, environment
 2. Logging: zerolog, JSON or console
 3. Collaborators: lemmatizer, embedding and sentiment HTTP clients,
    each rate limited and circuit broken; optional Badger embedding memo
 4. Event bus: in-process GoChannel or NATS (Watermill)
 5. Database: DuckDB (embedded) or PostgreSQL
 6. Result cache: memory, Redis or none
 7. Recommendation engine with all four strategies registered
 8. HTTP API: chi router, CORS, rate limits, Prometheus metrics

# Configuration

Commonly set variables:

	HTTP_PORT                  listen port (default 8000)
	DB_DRIVER                  duckdb or postgres
	DUCKDB_PATH                embedded database file
	DB_HOST, DB_PORT, DB_USER, DB_PASS, DB_NAME
	LEMMATIZER_URL             base URL of the lemmatizer service
	EMBEDDING_URL              base URL of the embedding service
	SENTIMENT_URL              base URL of the sentiment classifier
	CACHE_BACKEND              memory, redis or none
	REDIS_URL                  redis:// URL when CACHE_BACKEND=redis
	EVENTS_BACKEND             memory or nats
	NATS_URL                   NATS server URL when EVENTS_BACKEND=nats
	LOG_LEVEL, LOG_FORMAT

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains
in-flight requests within SHUTDOWN_TIMEOUT, then the event bus,
the database and the embedding memo are closed.

# Example Usage

	export LEMMATIZER_URL=http://lemmatizer:8080
	export EMBEDDING_URL=http://embedder:8080
	export SENTIMENT_URL=http://sentiment:8080
	./cinerec

	curl -s localhost:8000/api/v1/recommendations/users/7/semantic?top_k=3
*/
package main
