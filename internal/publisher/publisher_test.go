package publisher

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/dojocycle/dojocycle/internal/config"
	"github.com/dojocycle/dojocycle/internal/logger"
	"github.com/dojocycle/dojocycle/internal/pubsub/memory"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventPublisher_Publish(t *testing.T) {
	cfg := config.GetDefaultConfig()
	log := logger.NewNopLogger()
	ps := memory.NewPubSub(cfg, log)
	defer ps.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	messages, err := ps.Subscribe(ctx, cfg.Events.Topic)
	require.NoError(t, err)

	ctx = types.SetTenantID(ctx, "tenant_1")
	event, err := types.NewMembershipEvent(ctx, types.EventPaymentRecorded, "30111222", map[string]string{"period": "2024-02"})
	require.NoError(t, err)

	require.NoError(t, NewEventPublisher(ps, cfg, log).Publish(ctx, event))

	select {
	case msg := <-messages:
		msg.Ack()
		assert.Equal(t, "tenant_1", msg.Metadata.Get("tenant_id"))
		assert.Equal(t, types.EventPaymentRecorded, msg.Metadata.Get("event_name"))

		var got types.MembershipEvent
		require.NoError(t, json.Unmarshal(msg.Payload, &got))
		assert.Equal(t, event.ID, got.ID)
		assert.Equal(t, "30111222", got.MemberID)
		assert.JSONEq(t, `{"period":"2024-02"}`, string(got.Payload))
	case <-ctx.Done():
		t.Fatal("event was not delivered")
	}
}

func TestEventPublisher_Disabled(t *testing.T) {
	cfg := config.GetDefaultConfig()
	cfg.Events.Enabled = false
	log := logger.NewNopLogger()
	ps := memory.NewPubSub(cfg, log)
	defer ps.Close()

	event, err := types.NewMembershipEvent(context.Background(), types.EventMemberEnrolled, "30111222", nil)
	require.NoError(t, err)
	assert.NoError(t, NewEventPublisher(ps, cfg, log).Publish(context.Background(), event))
}
