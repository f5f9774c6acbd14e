// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package database is the review store: movies, reviews and the dataset
version counter.

# Dialects

One DB type serves two SQL engines:

  - duckdb (default): embedded, file or :memory:, driver duckdb-go/v2
  - postgres: external server, driver lib/pq, configured through the
    DB_HOST/DB_PORT/DB_USER/DB_PASS/DB_NAME variables

DDL differs per dialect (sequences vs BIGSERIAL). All DML is shared and
uses $n placeholders built by the query subpackage.

# Schema

	movies(id, title UNIQUE, created_at)
	reviews(id, movie_id -> movies.id, user_id, rating 1..10,
	        review_text, sentiment, created_at)
	dataset_version(id = 1, version)

# Read Side

DB implements recommend.RatingStore (FetchAllReviews, FetchMovies) and
recommend.VersionSource (DatasetVersion). The recommendation engine never
writes.

# Write Side

CreateReview classifies the text, then in one transaction finds or creates
the movie, inserts the review and bumps the dataset version. After commit
it publishes a ReviewCreated event. Publish failures are logged; the
review is already stored and cached results are keyed by version.

DuckDB allows a single writer per database, so write transactions are
serialized in process.

# Thread Safety

All methods are safe for concurrent use.
*/
package database
