// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package config provides centralized configuration management for CineRec.

Configuration is layered with Koanf v2:

 1. Built-in defaults (defaultConfig)
 2. Optional YAML file (CONFIG_PATH, ./config.yaml, /etc/cinerec/config.yaml)
 3. Environment variables, mapped explicitly in envMappings

# Configuration Structure

  - ServerConfig: HTTP listener and request deadlines
  - DatabaseConfig: DuckDB (embedded) or PostgreSQL review store
  - LoggingConfig: zerolog level and format
  - RecommendConfig: algorithm parameters (k, top_n, threshold, top_k, ...)
  - CollaboratorsConfig: lemmatizer, embedding and sentiment services
  - CacheConfig: recommendation result cache (memory, redis, none)
  - EmbeddingStoreConfig: on-disk embedding memo
  - EventsConfig: review event bus (memory, nats)
  - SecurityConfig: CORS and rate limiting

# Environment Variables

The PostgreSQL store keeps the historical DB_HOST, DB_PORT, DB_USER,
DB_PASS and DB_NAME names. Collaborators are located with LEMMATIZER_URL,
EMBEDDING_URL and SENTIMENT_URL.

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(cfg.Server.Addr())

Load validates the result; an invalid configuration is never returned.
*/
package config
