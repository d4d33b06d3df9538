package events

import (
	"context"
	"log/slog"

	"accessdeck/contexts/identity-access/reconciliation-service/ports"
)

// Bus is the event transport the publisher hands envelopes to.
type Bus interface {
	Publish(ctx context.Context, topic string, event ports.AccessChangedEvent) error
}

// Publisher emits access change events onto the bus. With no bus wired it
// degrades to logging, which keeps the in-memory runtime usable.
type Publisher struct {
	bus    Bus
	topic  string
	logger *slog.Logger
}

func NewPublisher(bus Bus, topic string, logger *slog.Logger) *Publisher {
	if logger == nil {
		logger = slog.Default()
	}
	if topic == "" {
		topic = "access.changed"
	}
	return &Publisher{
		bus:    bus,
		topic:  topic,
		logger: logger,
	}
}

func (p Publisher) PublishAccessChanged(ctx context.Context, event ports.AccessChangedEvent) error {
	if p.bus == nil {
		p.logger.Info("access changed event dropped, no bus wired",
			"event", "recon_event_unrouted",
			"module", "identity-access/reconciliation-service",
			"layer", "adapter",
			"event_id", event.EventID,
			"event_type", event.EventType,
		)
		return nil
	}
	if err := p.bus.Publish(ctx, p.topic, event); err != nil {
		return err
	}
	p.logger.Debug("access changed event published",
		"event", "recon_event_published",
		"module", "identity-access/reconciliation-service",
		"layer", "adapter",
		"topic", p.topic,
		"event_id", event.EventID,
		"event_type", event.EventType,
		"partition_key", event.PartitionKey,
	)
	return nil
}
