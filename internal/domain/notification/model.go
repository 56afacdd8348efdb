package notification

import (
	"time"

	"github.com/dojocycle/dojocycle/internal/types"
)

// Log is one outbound message attempt. A reminder counts as delivered for a period once a
// sent row exists for the member, so later batches skip that member.
type Log struct {
	ID                string                   `db:"id" json:"id"`
	PeriodKey         string                   `db:"period_key" json:"period"`
	MemberID          string                   `db:"member_id" json:"member_id"`
	Kind              types.NotificationKind   `db:"kind" json:"kind"`
	Phone             string                   `db:"phone" json:"phone"`
	Template          string                   `db:"template" json:"template"`
	Result            types.NotificationStatus `db:"result" json:"result"`
	Error             string                   `db:"error" json:"error,omitempty"`
	ProviderMessageID string                   `db:"provider_message_id" json:"provider_message_id,omitempty"`
	AttemptedAt       time.Time                `db:"attempted_at" json:"attempted_at"`

	types.BaseModel
}

// Summary tallies the logs of one period.
type Summary struct {
	Period  string `json:"period"`
	Sent    int    `json:"sent"`
	Failed  int    `json:"failed"`
	Skipped int    `json:"skipped"`
}
