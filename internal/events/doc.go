// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

// Package events carries review write notifications over Watermill.
//
// Two backends are supported:
//
//   - memory: an in-process gochannel pub/sub (single instance)
//   - nats: core NATS subjects via watermill-nats, fanned out to every
//     replica so each one drops its own cached results
//
// The only topic is TopicReviewCreated. Its payload is a JSON encoded
// ReviewCreated. Delivery is best effort: a lost event only delays cache
// invalidation, and cached results are keyed by dataset version anyway.
//
// # Usage
//
//	bus, err := events.NewBus(cfg.Events, logger)
//	defer bus.Close()
//
//	// write side
//	err = bus.PublishReviewCreated(ctx, events.ReviewCreated{...})
//
//	// read side, usually run under the supervisor
//	inv := events.NewCacheInvalidator(bus, engine)
//	err = inv.Serve(ctx)
package events
