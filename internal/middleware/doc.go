// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package middleware provides chi-compatible HTTP middleware.

  - RequestID: X-Request-ID propagation plus logging request/correlation IDs
  - PrometheusMetrics: request count, duration and in-flight gauge
  - PerformanceMonitor: in-process latency percentiles per endpoint
  - AccessLog: one zerolog line per request

All middleware label requests by chi route pattern (RoutePattern), never
by raw path, so per-user recommendation URLs collapse into one series.

Typical stack, outermost first:

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.AccessLog())
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)
*/
package middleware
