package types

import (
	"context"
	"encoding/json"
	"time"
)

// Membership event names published on the internal bus.
const (
	EventMemberEnrolled  = "member.enrolled"
	EventMemberRenewed   = "member.renewed"
	EventPeriodCreated   = "period.created"
	EventPaymentRecorded = "payment.recorded"
	EventCheckinDenied   = "checkin.denied"
)

// MembershipEvent is the envelope of every message on the membership topic.
type MembershipEvent struct {
	ID        string          `json:"id"`
	EventName string          `json:"event_name"`
	TenantID  string          `json:"tenant_id"`
	UserID    string          `json:"user_id"`
	MemberID  string          `json:"member_id"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewMembershipEvent stamps an event with the tenant and user of ctx.
func NewMembershipEvent(ctx context.Context, name, memberID string, payload interface{}) (*MembershipEvent, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &MembershipEvent{
		ID:        GenerateUUIDWithPrefix(UUID_PREFIX_EVENT),
		EventName: name,
		TenantID:  GetTenantID(ctx),
		UserID:    GetUserID(ctx),
		MemberID:  memberID,
		Timestamp: time.Now().UTC(),
		Payload:   raw,
	}, nil
}

// PaymentRecordedPayload is the payload of payment.recorded.
type PaymentRecordedPayload struct {
	PaymentID     string        `json:"payment_id"`
	Period        string        `json:"period"`
	Amount        string        `json:"amount"`
	Currency      string        `json:"currency"`
	Method        PaymentMethod `json:"method"`
	ReceiptNumber string        `json:"receipt_number"`
	PaidOn        ISODate       `json:"paid_on"`
	Created       bool          `json:"created"`
}

// PeriodCreatedPayload is the payload of period.created.
type PeriodCreatedPayload struct {
	PeriodID  string  `json:"period_id"`
	Period    string  `json:"period"`
	StartDate ISODate `json:"start_date"`
	EndDate   ISODate `json:"end_date"`
}

// EnrollmentPayload is the payload of member.enrolled and member.renewed.
type EnrollmentPayload struct {
	StartDate    ISODate `json:"start_date"`
	EndDate      ISODate `json:"end_date"`
	PriceApplied string  `json:"price_applied"`
	IsTrial      bool    `json:"is_trial"`
}

// CheckinDeniedPayload is the payload of checkin.denied.
type CheckinDeniedPayload struct {
	Date   ISODate         `json:"date"`
	State  MembershipState `json:"state"`
	Notice StatusNotice    `json:"notice"`
}
