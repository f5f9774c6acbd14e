// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package api provides the HTTP REST API of the review and recommendation
service.

Routes live under /api/v1 on a chi router (see Router.Setup). Reviews
are created and listed through the database store; the four
recommendation endpoints call the recommend.Engine strategies.

# Response Envelope

Every response uses one envelope:

	{
	  "success": true,
	  "data": {"user_id": 7, "strategy": "semantic", "titles": ["Солярис"]},
	  "meta": {"request_id": "…", "timestamp": "…", "duration_ms": 41}
	}

Errors carry a machine-readable code and echo the request ID:

	{
	  "success": false,
	  "error": {"code": "EXTERNAL_SERVICE_FAILED", "message": "…", "request_id": "…"},
	  "meta": {…}
	}

# Error Mapping

  - unparseable or out-of-range parameters: 400 BAD_REQUEST / VALIDATION_ERROR
  - unknown movie id: 404 NOT_FOUND
  - lemmatizer, embedding or sentiment service failure: 502 EXTERNAL_SERVICE_FAILED
  - store failure: 500 DATABASE_ERROR
  - deadline exceeded: 504 TIMEOUT
  - rate limit: 429 TOO_MANY_REQUESTS

An unknown user or an empty corpus is not an error: the endpoints return
an empty title list.

# Usage

	handler := api.NewHandler(db, engine, api.WithPerformanceMonitor(perfMon))
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(cfg.Security),
	    api.WithRouterPerformanceMonitor(perfMon))
	server := &http.Server{Addr: cfg.Server.Addr(), Handler: router.Setup()}
*/
package api
