package service

import (
	"context"

	"github.com/dojocycle/dojocycle/internal/types"
)

// publishEvent emits a membership event after the state change it describes has been stored.
// Publishing failures are logged and never undo or fail the operation.
func (p ServiceParams) publishEvent(ctx context.Context, name, memberID string, payload interface{}) {
	if p.EventPublisher == nil {
		return
	}

	event, err := types.NewMembershipEvent(ctx, name, memberID, payload)
	if err != nil {
		p.Logger.Errorw("failed to build membership event",
			"event_name", name,
			"member_id", memberID,
			"error", err,
		)
		return
	}

	if err := p.EventPublisher.Publish(ctx, event); err != nil {
		p.Logger.Errorw("failed to publish membership event",
			"event_id", event.ID,
			"event_name", name,
			"member_id", memberID,
			"error", err,
		)
	}
}
