// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package remote provides the resilient JSON-over-HTTP transport shared by the
collaborator clients (lemmatizer, embedding provider, sentiment classifier).

Every call goes through three layers:

  - Rate limiting: a token bucket (golang.org/x/time/rate) bounds outbound
    requests per second. Waiting honors the request context.
  - Circuit breaking: sony/gobreaker opens after repeated server-side
    failures and rejects calls until the remote recovers. Client errors
    (HTTP 4xx) do not count against the breaker.
  - Metrics: call latency, failures and breaker transitions are exported
    through internal/metrics under the collaborator name.

The client never retries. A failed call is returned to the caller, which
fails the recommendation request.

Example:

	c := remote.New(remote.Config{
	    Name:      "embedding",
	    BaseURL:   "http://localhost:8082",
	    Timeout:   30 * time.Second,
	    RateLimit: 20,
	    Burst:     5,
	})
	var resp embedResponse
	err := c.PostJSON(ctx, "/embed", embedRequest{Texts: texts}, &resp)
*/
package remote
