package dto

import (
	"context"
	"strings"
	"time"

	"github.com/dojocycle/dojocycle/internal/domain/billingperiod"
	"github.com/dojocycle/dojocycle/internal/domain/cycle"
	"github.com/dojocycle/dojocycle/internal/domain/payment"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/dojocycle/dojocycle/internal/validator"
	"github.com/shopspring/decimal"
)

// CreatePeriodRequest opens the billing period of a member for a month, if missing.
type CreatePeriodRequest struct {
	Year  int `json:"year" validate:"required,min=2000,max=2100"`
	Month int `json:"month" validate:"required,min=1,max=12"`
}

func (r *CreatePeriodRequest) Validate() error {
	return validator.ValidateRequest(r)
}

func (r *CreatePeriodRequest) Key() types.PeriodKey {
	return types.NewPeriodKey(r.Year, time.Month(r.Month))
}

type BillingPeriodResponse struct {
	*billingperiod.BillingPeriod
	Period string `json:"period"`
}

func NewBillingPeriodResponse(p *billingperiod.BillingPeriod) *BillingPeriodResponse {
	if p == nil {
		return nil
	}
	return &BillingPeriodResponse{BillingPeriod: p, Period: p.PeriodKey.String()}
}

type ListBillingPeriodsResponse = types.ListResponse[*BillingPeriodResponse]

// RecordPaymentRequest settles the period (Year, Month) of a member. Recording the same
// period again updates the stored payment.
type RecordPaymentRequest struct {
	MemberID string              `json:"member_id" validate:"required"`
	Year     int                 `json:"year" validate:"required,min=2000,max=2100"`
	Month    int                 `json:"month" validate:"required,min=1,max=12"`
	Amount   decimal.Decimal     `json:"amount"`
	Currency string              `json:"currency,omitempty" validate:"omitempty,len=3"`
	Method   types.PaymentMethod `json:"method,omitempty"`
	Receipt  string              `json:"receipt,omitempty" validate:"omitempty,max=100"`
	// PaidOn defaults to today.
	PaidOn string `json:"paid_on,omitempty" validate:"omitempty,iso_date"`
}

func (r *RecordPaymentRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if r.Amount.IsNegative() {
		return ierr.NewError("amount must not be negative").
			WithHint("Payment amount cannot be negative").
			WithReportableDetails(map[string]any{
				"amount": r.Amount.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	if r.Method != "" {
		return r.Method.Validate()
	}
	return nil
}

func (r *RecordPaymentRequest) Key() types.PeriodKey {
	return types.NewPeriodKey(r.Year, time.Month(r.Month))
}

// Apply copies the request onto p, filling defaults for method and currency. A payment
// without a date is dated today.
func (r *RecordPaymentRequest) Apply(p *payment.Payment, currency string, today types.ISODate) {
	p.Amount = r.Amount
	p.Method = r.Method
	if p.Method == "" {
		p.Method = types.DefaultPaymentMethod
	}
	p.Currency = strings.ToUpper(r.Currency)
	if p.Currency == "" {
		p.Currency = currency
	}
	p.Receipt = strings.TrimSpace(r.Receipt)
	p.PaidOn = types.ISODate(r.PaidOn)
	if p.PaidOn.IsZero() {
		p.PaidOn = today
	}
}

// ToPayment builds a new payment with a fresh id and receipt number.
func (r *RecordPaymentRequest) ToPayment(ctx context.Context, currency string, today types.ISODate) *payment.Payment {
	p := &payment.Payment{
		ID:            types.GenerateUUIDWithPrefix(types.UUID_PREFIX_PAYMENT),
		MemberID:      strings.TrimSpace(r.MemberID),
		PeriodKey:     r.Key(),
		ReceiptNumber: types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_RECEIPT),
		BaseModel:     types.GetDefaultBaseModel(ctx),
	}
	r.Apply(p, currency, today)
	return p
}

type PaymentResponse struct {
	*payment.Payment
	Period *BillingPeriodResponse `json:"period,omitempty"`
	// Created is false when an existing payment for the period was updated.
	Created bool `json:"created"`
}

type ListPaymentsResponse = types.ListResponse[*PaymentResponse]

// MembershipStatusResponse is the state machine evaluated for a member on a day.
type MembershipStatusResponse struct {
	MemberID string        `json:"member_id"`
	Today    types.ISODate `json:"today"`
	cycle.MembershipStatus
	CurrentPeriod *BillingPeriodResponse `json:"current_period,omitempty"`
}
