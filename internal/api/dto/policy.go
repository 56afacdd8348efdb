package dto

import (
	"github.com/dojocycle/dojocycle/internal/domain/policy"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/dojocycle/dojocycle/internal/validator"
	"github.com/shopspring/decimal"
)

// UpdatePolicyRequest patches the tenant's billing policy. Absent fields keep their value.
type UpdatePolicyRequest struct {
	DueDay               *int                  `json:"due_day,omitempty" validate:"omitempty,min=1,max=31"`
	WindowEndDay         *int                  `json:"window_end_day,omitempty" validate:"omitempty,min=1,max=31"`
	YellowDaysAfterDue   *int                  `json:"yellow_days_after_due,omitempty" validate:"omitempty,min=0"`
	GraceDaysAfterDue    *int                  `json:"grace_days_after_due,omitempty" validate:"omitempty,min=0"`
	PriceBase            *decimal.Decimal      `json:"price_base,omitempty"`
	Currency             *string               `json:"currency,omitempty" validate:"omitempty,len=3"`
	NewMemberDiscountPct *decimal.Decimal      `json:"new_member_discount_pct,omitempty"`
	FamilyDiscountPct    *decimal.Decimal      `json:"family_discount_pct,omitempty"`
	MidMonthPolicy       *types.MidMonthPolicy `json:"mid_month_policy,omitempty" validate:"omitempty,mid_month_policy"`
	TrialCouponCode      *string               `json:"trial_coupon_code,omitempty" validate:"omitempty,max=50"`
	TrialDays            *int                  `json:"trial_days,omitempty" validate:"omitempty,min=0"`
	NotificationsDay     *int                  `json:"notifications_day,omitempty" validate:"omitempty,min=1,max=31"`
	AutoHour             *string               `json:"auto_hour,omitempty"`
}

func (r *UpdatePolicyRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// Apply returns p with the request's fields merged in. The result still needs Validate.
func (r *UpdatePolicyRequest) Apply(p policy.BillingPolicy) policy.BillingPolicy {
	if r.DueDay != nil {
		p.DueDay = *r.DueDay
	}
	if r.WindowEndDay != nil {
		p.WindowEndDay = *r.WindowEndDay
	}
	if r.YellowDaysAfterDue != nil {
		p.YellowDaysAfterDue = *r.YellowDaysAfterDue
	}
	if r.GraceDaysAfterDue != nil {
		p.GraceDaysAfterDue = *r.GraceDaysAfterDue
	}
	if r.PriceBase != nil {
		p.PriceBase = *r.PriceBase
	}
	if r.Currency != nil {
		p.Currency = *r.Currency
	}
	if r.NewMemberDiscountPct != nil {
		p.NewMemberDiscountPct = *r.NewMemberDiscountPct
	}
	if r.FamilyDiscountPct != nil {
		p.FamilyDiscountPct = *r.FamilyDiscountPct
	}
	if r.MidMonthPolicy != nil {
		p.MidMonthPolicy = *r.MidMonthPolicy
	}
	if r.TrialCouponCode != nil {
		p.TrialCouponCode = *r.TrialCouponCode
	}
	if r.TrialDays != nil {
		p.TrialDays = *r.TrialDays
	}
	if r.NotificationsDay != nil {
		p.NotificationsDay = *r.NotificationsDay
	}
	if r.AutoHour != nil {
		p.AutoHour = *r.AutoHour
	}
	return p
}

type PolicyResponse struct {
	policy.BillingPolicy
	// RefreshedPeriods counts the unpaid periods recomputed by an update.
	RefreshedPeriods int `json:"refreshed_periods,omitempty"`
}
