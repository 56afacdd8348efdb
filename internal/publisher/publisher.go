package publisher

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dojocycle/dojocycle/internal/config"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/pubsub"
	"github.com/dojocycle/dojocycle/internal/types"
)

// EventPublisher puts membership events on the bus
type EventPublisher interface {
	Publish(ctx context.Context, event *types.MembershipEvent) error
}

type eventPublisher struct {
	pubSub pubsub.PubSub
	config *config.EventsConfig
	logger *logger.Logger
}

// NewEventPublisher returns a publisher over pubSub. With events disabled every
// Publish is a no-op.
func NewEventPublisher(
	pubSub pubsub.PubSub,
	cfg *config.Configuration,
	logger *logger.Logger,
) EventPublisher {
	return &eventPublisher{
		pubSub: pubSub,
		config: &cfg.Events,
		logger: logger,
	}
}

func (p *eventPublisher) Publish(ctx context.Context, event *types.MembershipEvent) error {
	if !p.config.Enabled {
		return nil
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Could not encode event").
			Mark(ierr.ErrSystem)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("tenant_id", event.TenantID)
	msg.Metadata.Set("event_name", event.EventName)
	msg.Metadata.Set("request_id", types.GetRequestID(ctx))

	p.logger.Debugw("publishing membership event",
		"event_id", event.ID,
		"event_name", event.EventName,
		"tenant_id", event.TenantID,
		"member_id", event.MemberID,
		"topic", p.config.Topic,
	)

	if err := p.pubSub.Publish(ctx, p.config.Topic, msg); err != nil {
		p.logger.Errorw("failed to publish membership event",
			"error", err,
			"event_id", event.ID,
			"event_name", event.EventName,
			"tenant_id", event.TenantID,
		)
		return ierr.WithError(err).
			WithHint("Could not publish event").
			Mark(ierr.ErrSystem)
	}

	return nil
}
