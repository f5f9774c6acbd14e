// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"github.com/tomtom215/cinerec/internal/metrics"
)

// Invalidator drops cached recommendation results.
type Invalidator interface {
	InvalidateCache(ctx context.Context) error
}

// CacheInvalidator consumes TopicReviewCreated and invalidates the result
// cache for every event. It implements suture.Service.
type CacheInvalidator struct {
	bus         *Bus
	invalidator Invalidator
	logger      watermill.LoggerAdapter
}

// NewCacheInvalidator creates the consumer.
func NewCacheInvalidator(bus *Bus, inv Invalidator) *CacheInvalidator {
	return &CacheInvalidator{
		bus:         bus,
		invalidator: inv,
		logger:      bus.logger.With(watermill.LogFields{"consumer": "cache-invalidator"}),
	}
}

// Serve consumes until ctx is canceled. Undecodable payloads are acked and
// dropped; invalidation failures are nacked for redelivery.
func (c *CacheInvalidator) Serve(ctx context.Context) error {
	messages, err := c.bus.Subscribe(ctx, TopicReviewCreated)
	if err != nil {
		return fmt.Errorf("subscribe to %s: %w", TopicReviewCreated, err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return errors.New("review event subscription closed")
			}
			c.process(ctx, msg)
		}
	}
}

func (c *CacheInvalidator) process(ctx context.Context, msg *message.Message) {
	ev, err := UnmarshalReviewCreated(msg.Payload)
	if err != nil {
		c.logger.Error("Dropping malformed review event", err, watermill.LogFields{
			"message_uuid": msg.UUID,
		})
		msg.Ack()
		metrics.RecordEventConsumed(TopicReviewCreated, true)
		return
	}

	if err := c.invalidator.InvalidateCache(ctx); err != nil {
		c.logger.Error("Cache invalidation failed", err, watermill.LogFields{
			"message_uuid": msg.UUID,
			"review_id":    ev.ReviewID,
		})
		msg.Nack()
		metrics.RecordEventConsumed(TopicReviewCreated, false)
		return
	}

	c.logger.Debug("Result cache invalidated", watermill.LogFields{
		"review_id":       ev.ReviewID,
		"dataset_version": ev.DatasetVersion,
		"request_id":      msg.Metadata.Get("request_id"),
	})
	msg.Ack()
	metrics.RecordEventConsumed(TopicReviewCreated, true)
}

// String names the service in supervisor logs.
func (c *CacheInvalidator) String() string {
	return "review-cache-invalidator"
}
