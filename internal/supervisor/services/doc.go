// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

/*
Package services provides suture.Service wrappers for long-running
components.

Every wrapper implements

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer so suture can name it in logs.

HTTPServerService translates the blocking ListenAndServe of *http.Server
into Serve, shutting down gracefully on context cancellation.

ClusterWarmer re-clusters the review corpus on a ticker, recording the
duration in the cluster_snapshot_* metrics. Failed snapshots are
logged and retried on the next tick.

The review cache invalidator (events.CacheInvalidator) already satisfies
suture.Service and needs no wrapper.
*/
package services
