// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package testinfra provides test infrastructure for integration testing with containers.
//
// This package uses testcontainers-go to start the external services the
// review store and the result cache can run against. Every file carries the
// integration build tag, so the default test run never needs Docker.
//
// # PostgreSQL
//
//	func TestStoreOnPostgres(t *testing.T) {
//	    testinfra.SkipIfNoDocker(t)
//	    ctx := context.Background()
//	    pg, err := testinfra.NewPostgresContainer(ctx)
//	    if err != nil {
//	        t.Fatal(err)
//	    }
//	    defer testinfra.CleanupContainer(t, ctx, pg)
//	    // database.New(&config.DatabaseConfig{Driver: "postgres", Host: pg.Host, ...})
//	}
//
// # Redis
//
//	rc, err := testinfra.NewRedisContainer(ctx)
//	store, err := cache.NewRedisStore(ctx, cache.RedisConfig{URL: rc.URL})
//
// # Running
//
//	go test -tags integration ./...
//
// Tests are skipped gracefully if Docker is unavailable. First run may need
// to download container images.
package testinfra
