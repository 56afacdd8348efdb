package subscriber

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/dojocycle/dojocycle/internal/config"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/pubsub"
	pubsubRouter "github.com/dojocycle/dojocycle/internal/pubsub/router"
	"github.com/dojocycle/dojocycle/internal/service"
	"github.com/dojocycle/dojocycle/internal/types"
)

const handlerName = "membership_events_handler"

// Handler consumes membership events from the bus
type Handler interface {
	RegisterHandler(router *pubsubRouter.Router)
}

type handler struct {
	pubSub   pubsub.PubSub
	config   *config.EventsConfig
	logger   *logger.Logger
	reminder service.ReminderService
}

// NewHandler creates the membership event handler
func NewHandler(
	pubSub pubsub.PubSub,
	cfg *config.Configuration,
	params service.ServiceParams,
) Handler {
	return &handler{
		pubSub:   pubSub,
		config:   &cfg.Events,
		logger:   params.Logger,
		reminder: service.NewReminderService(params),
	}
}

func (h *handler) RegisterHandler(router *pubsubRouter.Router) {
	if !h.config.Enabled {
		h.logger.Info("membership events disabled, handler not registered")
		return
	}

	router.AddNoPublishHandler(
		handlerName,
		h.config.Topic,
		h.pubSub,
		h.processMessage,
	)
}

func (h *handler) processMessage(msg *message.Message) error {
	var event types.MembershipEvent
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		h.logger.Errorw("failed to unmarshal membership event",
			"error", err,
			"message_uuid", msg.UUID,
		)
		return nil // Don't retry on unmarshal errors
	}

	ctx := types.SetTenantID(msg.Context(), event.TenantID)
	ctx = types.SetUserID(ctx, event.UserID)
	if requestID := msg.Metadata.Get("request_id"); requestID != "" {
		ctx = types.SetRequestID(ctx, requestID)
	}

	h.logger.Debugw("processing membership event",
		"event_id", event.ID,
		"event_name", event.EventName,
		"tenant_id", event.TenantID,
		"member_id", event.MemberID,
	)

	switch event.EventName {
	case types.EventPaymentRecorded:
		return h.onPaymentRecorded(ctx, &event)
	case types.EventCheckinDenied:
		h.onCheckinDenied(&event)
	}
	return nil
}

func (h *handler) onPaymentRecorded(ctx context.Context, event *types.MembershipEvent) error {
	var payload types.PaymentRecordedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		h.logger.Errorw("invalid payment.recorded payload",
			"error", err,
			"event_id", event.ID,
		)
		return nil
	}

	// updates to an existing payment are not receipted twice
	if !payload.Created {
		return nil
	}

	return h.reminder.SendReceipt(ctx, event.MemberID, payload)
}

func (h *handler) onCheckinDenied(event *types.MembershipEvent) {
	var payload types.CheckinDeniedPayload
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		h.logger.Errorw("invalid checkin.denied payload",
			"error", err,
			"event_id", event.ID,
		)
		return
	}

	h.logger.Infow("check-in denied",
		"tenant_id", event.TenantID,
		"member_id", event.MemberID,
		"date", payload.Date,
		"state", payload.State,
	)
}
