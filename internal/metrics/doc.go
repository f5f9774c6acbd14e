// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package metrics provides Prometheus metrics collection and export for observability.

All collectors are registered on the default registry through promauto and
exposed at /metrics by the API router.

# Available Metrics

HTTP:
  - api_requests_total{method, endpoint, status_code}
  - api_request_duration_seconds{method, endpoint}
  - api_active_requests
  - api_rate_limit_hits_total{endpoint}

Recommendation:
  - recommend_duration_seconds{strategy}
  - recommend_requests_total{strategy, status}
  - recommend_result_size{strategy}

Store:
  - db_query_duration_seconds{operation, table}
  - db_query_errors_total{operation, table, error_type}
  - dataset_version
  - reviews_created_total{sentiment}

Caches (cache_type = results, lemma, embedding):
  - cache_hits_total, cache_misses_total, cache_entries

Collaborators (lemmatizer, embedding, sentiment):
  - collaborator_call_duration_seconds{collaborator}
  - collaborator_errors_total{collaborator, error_type}
  - circuit_breaker_state{name}
  - circuit_breaker_state_transitions_total{name, from_state, to_state}

Events and background work:
  - events_published_total{topic}, events_consumed_total{topic, result}
  - cluster_snapshot_duration_seconds, cluster_snapshot_last_success_timestamp

# Usage

	start := time.Now()
	titles, err := engine.SemanticRecommend(ctx, userID, 5)
	metrics.RecordRecommendation("semantic", time.Since(start), len(titles), err)

Label values are kept low-cardinality: error labels are classified or
truncated to 50 characters.
*/
package metrics
