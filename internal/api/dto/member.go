package dto

import (
	"context"
	"strings"

	"github.com/dojocycle/dojocycle/internal/domain/cycle"
	"github.com/dojocycle/dojocycle/internal/domain/member"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/dojocycle/dojocycle/internal/validator"
	"github.com/shopspring/decimal"
)

// QuoteRequest previews the price of an enrollment without storing anything.
type QuoteRequest struct {
	StartDate            string          `json:"start_date" validate:"required,iso_date"`
	CouponCode           string          `json:"coupon_code,omitempty" validate:"omitempty,max=50"`
	IsNewMember          bool            `json:"is_new_member"`
	IsFamily             bool            `json:"is_family"`
	ManualDiscountAmount decimal.Decimal `json:"manual_discount_amount"`
}

func (r *QuoteRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return validateManualDiscount(r.ManualDiscountAmount)
}

func (r *QuoteRequest) ToPricingInput() cycle.PricingInput {
	return cycle.PricingInput{
		StartDate:            types.ISODate(r.StartDate),
		CouponCode:           r.CouponCode,
		IsNewMember:          r.IsNewMember,
		IsFamily:             r.IsFamily,
		ManualDiscountAmount: r.ManualDiscountAmount,
	}
}

type QuoteResponse struct {
	*cycle.Quote
}

// EnrollMemberRequest registers a new member and prices their first period.
type EnrollMemberRequest struct {
	ID           string            `json:"id" validate:"required"`
	FirstName    string            `json:"first_name" validate:"required,max=100"`
	LastName     string            `json:"last_name" validate:"required,max=100"`
	Phone        string            `json:"phone,omitempty" validate:"omitempty,max=40"`
	Address      string            `json:"address,omitempty" validate:"omitempty,max=255"`
	ClassGroupID *string           `json:"class_group_id,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`

	QuoteRequest
}

func (r *EnrollMemberRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := member.ValidateID(r.ID); err != nil {
		return err
	}
	return validateManualDiscount(r.ManualDiscountAmount)
}

// ToMember builds the member from the request and the quote it was priced with.
func (r *EnrollMemberRequest) ToMember(ctx context.Context, quote *cycle.Quote) *member.Member {
	end := quote.EndDate
	return &member.Member{
		ID:                   strings.TrimSpace(r.ID),
		FirstName:            strings.TrimSpace(r.FirstName),
		LastName:             strings.TrimSpace(r.LastName),
		Phone:                strings.TrimSpace(r.Phone),
		Address:              strings.TrimSpace(r.Address),
		StartDate:            quote.StartDate,
		PlanEndDate:          &end,
		PlanTotalClasses:     quote.TotalClassDays,
		IsTrial:              quote.IsTrial,
		IsNewMember:          r.IsNewMember,
		IsFamily:             r.IsFamily,
		ManualDiscountAmount: r.ManualDiscountAmount,
		PriceApplied:         quote.PriceApplied,
		ClassGroupID:         emptyToNil(r.ClassGroupID),
		Active:               true,
		Metadata:             r.Metadata,
		BaseModel:            types.GetDefaultBaseModel(ctx),
	}
}

// RenewMemberRequest starts a new plan for an existing member. Coupons and the new member
// discount are not applied unless asked for; the family flag is kept unless overridden.
type RenewMemberRequest struct {
	StartDate            string          `json:"start_date" validate:"required,iso_date"`
	CouponCode           string          `json:"coupon_code,omitempty" validate:"omitempty,max=50"`
	IsNewMember          bool            `json:"is_new_member"`
	IsFamily             *bool           `json:"is_family,omitempty"`
	ManualDiscountAmount decimal.Decimal `json:"manual_discount_amount"`
}

func (r *RenewMemberRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	return validateManualDiscount(r.ManualDiscountAmount)
}

func (r *RenewMemberRequest) ToPricingInput(m *member.Member) cycle.PricingInput {
	isFamily := m.IsFamily
	if r.IsFamily != nil {
		isFamily = *r.IsFamily
	}
	return cycle.PricingInput{
		StartDate:            types.ISODate(r.StartDate),
		CouponCode:           r.CouponCode,
		IsNewMember:          r.IsNewMember,
		IsFamily:             isFamily,
		ManualDiscountAmount: r.ManualDiscountAmount,
	}
}

type UpdateMemberRequest struct {
	FirstName    *string           `json:"first_name,omitempty" validate:"omitempty,min=1,max=100"`
	LastName     *string           `json:"last_name,omitempty" validate:"omitempty,min=1,max=100"`
	Phone        *string           `json:"phone,omitempty" validate:"omitempty,max=40"`
	Address      *string           `json:"address,omitempty" validate:"omitempty,max=255"`
	ClassGroupID *string           `json:"class_group_id,omitempty"`
	Active       *bool             `json:"active,omitempty"`
	Metadata     map[string]string `json:"metadata,omitempty"`
}

func (r *UpdateMemberRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply copies the set fields onto m. An empty class group id clears the group
// and metadata is merged key by key.
func (r *UpdateMemberRequest) Apply(m *member.Member) {
	if r.FirstName != nil {
		m.FirstName = strings.TrimSpace(*r.FirstName)
	}
	if r.LastName != nil {
		m.LastName = strings.TrimSpace(*r.LastName)
	}
	if r.Phone != nil {
		m.Phone = strings.TrimSpace(*r.Phone)
	}
	if r.Address != nil {
		m.Address = strings.TrimSpace(*r.Address)
	}
	if r.ClassGroupID != nil {
		m.ClassGroupID = emptyToNil(r.ClassGroupID)
	}
	if r.Active != nil {
		m.Active = *r.Active
	}
	if r.Metadata != nil {
		m.Metadata = m.Metadata.Merge(r.Metadata)
	}
}

type MemberResponse struct {
	*member.Member
	MembershipStatus *cycle.MembershipStatus `json:"membership_status,omitempty"`
}

// ListMembersResponse represents the response for listing members
type ListMembersResponse = types.ListResponse[*MemberResponse]

// EnrollMemberResponse is returned by enrollment and renewal.
type EnrollMemberResponse struct {
	Member *MemberResponse        `json:"member"`
	Quote  *cycle.Quote           `json:"quote"`
	Period *BillingPeriodResponse `json:"period"`
}

func validateManualDiscount(d decimal.Decimal) error {
	if d.IsNegative() {
		return ierr.NewError("manual discount amount must not be negative").
			WithHint("Manual discount cannot be negative").
			WithReportableDetails(map[string]any{
				"manual_discount_amount": d.String(),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

func emptyToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
