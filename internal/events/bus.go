// CineRec - Movie Review Analytics and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerec

package events

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	wmNats "github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	natsgo "github.com/nats-io/nats.go"

	"github.com/tomtom215/cinerec/internal/config"
	"github.com/tomtom215/cinerec/internal/logging"
	"github.com/tomtom215/cinerec/internal/metrics"
)

// Backend names accepted by NewBus.
const (
	BackendMemory = "memory"
	BackendNATS   = "nats"
)

// Bus bundles a Watermill publisher and subscriber for one backend.
type Bus struct {
	backend    string
	publisher  message.Publisher
	subscriber message.Subscriber
	logger     watermill.LoggerAdapter

	subscriptions atomic.Int32

	mu     sync.RWMutex
	closed bool
}

// NewBus creates a bus for cfg.Backend.
func NewBus(cfg config.EventsConfig, logger watermill.LoggerAdapter) (*Bus, error) {
	if logger == nil {
		logger = logging.NewWatermillAdapter(logging.With().Str("component", "events").Logger())
	}

	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemoryBus(cfg.BufferSize, logger), nil
	case BackendNATS:
		return NewNATSBus(cfg.NATSURL, logger)
	default:
		return nil, fmt.Errorf("unknown events backend %q", cfg.Backend)
	}
}

// NewMemoryBus creates an in-process bus. Messages published before any
// subscription are dropped.
func NewMemoryBus(bufferSize int64, logger watermill.LoggerAdapter) *Bus {
	ch := gochannel.NewGoChannel(gochannel.Config{
		OutputChannelBuffer: bufferSize,
		Persistent:          false,
	}, logger)

	return &Bus{
		backend:    BackendMemory,
		publisher:  ch,
		subscriber: ch,
		logger:     logger,
	}
}

// NewNATSBus connects to a NATS server. JetStream is disabled and no
// queue group is used, so every subscribed replica sees every event.
func NewNATSBus(url string, logger watermill.LoggerAdapter) (*Bus, error) {
	natsOpts := []natsgo.Option{
		natsgo.Name("cinerec"),
		natsgo.RetryOnFailedConnect(true),
		natsgo.MaxReconnects(-1),
		natsgo.ReconnectWait(2 * time.Second),
		natsgo.DisconnectErrHandler(func(_ *natsgo.Conn, err error) {
			if err != nil {
				logger.Error("NATS disconnected", err, nil)
			}
		}),
		natsgo.ReconnectHandler(func(nc *natsgo.Conn) {
			logger.Info("NATS reconnected", watermill.LogFields{
				"url": nc.ConnectedUrl(),
			})
		}),
	}

	pub, err := wmNats.NewPublisher(wmNats.PublisherConfig{
		URL:         url,
		NatsOptions: natsOpts,
		Marshaler:   &wmNats.NATSMarshaler{},
		JetStream:   wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("create nats publisher: %w", err)
	}

	sub, err := wmNats.NewSubscriber(wmNats.SubscriberConfig{
		URL:              url,
		SubscribersCount: 1,
		AckWaitTimeout:   30 * time.Second,
		CloseTimeout:     10 * time.Second,
		NatsOptions:      natsOpts,
		Unmarshaler:      &wmNats.NATSMarshaler{},
		JetStream:        wmNats.JetStreamConfig{Disabled: true},
	}, logger)
	if err != nil {
		_ = pub.Close()
		return nil, fmt.Errorf("create nats subscriber: %w", err)
	}

	return &Bus{
		backend:    BackendNATS,
		publisher:  pub,
		subscriber: sub,
		logger:     logger,
	}, nil
}

// Backend returns the backend name.
func (b *Bus) Backend() string {
	return b.backend
}

// PublishReviewCreated publishes ev on TopicReviewCreated. The request id
// from ctx, if any, travels in the message metadata.
func (b *Bus) PublishReviewCreated(ctx context.Context, ev ReviewCreated) error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return fmt.Errorf("event bus is closed")
	}

	payload, err := ev.Marshal()
	if err != nil {
		return err
	}

	msg := message.NewMessage(watermill.NewUUID(), payload)
	msg.Metadata.Set("review_id", strconv.FormatInt(ev.ReviewID, 10))
	msg.Metadata.Set("dataset_version", strconv.FormatInt(ev.DatasetVersion, 10))
	if id := logging.RequestIDFromContext(ctx); id != "" {
		msg.Metadata.Set("request_id", id)
	}
	msg.SetContext(ctx)

	if err := b.publisher.Publish(TopicReviewCreated, msg); err != nil {
		return fmt.Errorf("publish %s: %w", TopicReviewCreated, err)
	}
	metrics.RecordEventPublished(TopicReviewCreated)
	return nil
}

// Subscribe returns the message channel for topic. The channel closes
// when ctx is canceled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context, topic string) (<-chan *message.Message, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return nil, fmt.Errorf("event bus is closed")
	}
	ch, err := b.subscriber.Subscribe(ctx, topic)
	if err != nil {
		return nil, err
	}
	b.subscriptions.Add(1)
	return ch, nil
}

func (b *Bus) hasSubscriber() bool {
	return b.subscriptions.Load() > 0
}

// Close shuts down both sides of the bus. It is idempotent.
func (b *Bus) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true

	pubErr := b.publisher.Close()
	if b.backend == BackendMemory {
		// gochannel is one object behind both interfaces
		return pubErr
	}
	subErr := b.subscriber.Close()
	if pubErr != nil {
		return pubErr
	}
	return subErr
}
