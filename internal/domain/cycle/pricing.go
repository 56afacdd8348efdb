package cycle

import (
	"github.com/dojocycle/dojocycle/internal/domain/policy"
	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/shopspring/decimal"
)

// AdjustmentKind names one pricing stage.
type AdjustmentKind string

const (
	AdjustmentTrial     AdjustmentKind = "trial"
	AdjustmentProration AdjustmentKind = "proration"
	AdjustmentNewMember AdjustmentKind = "new_member"
	AdjustmentFamily    AdjustmentKind = "family"
	AdjustmentManual    AdjustmentKind = "manual"
)

// Adjustment records what one stage took off the price.
type Adjustment struct {
	Kind       AdjustmentKind  `json:"kind"`
	Amount     decimal.Decimal `json:"amount"`
	PriceAfter decimal.Decimal `json:"price_after"`
}

// PricingInput is an enrollment to price. ManualDiscountAmount must already be validated as non-negative.
type PricingInput struct {
	StartDate            types.ISODate
	CouponCode           string
	IsNewMember          bool
	IsFamily             bool
	ManualDiscountAmount decimal.Decimal
}

// Quote is the priced enrollment.
type Quote struct {
	StartDate               types.ISODate        `json:"start_date"`
	EndDate                 types.ISODate        `json:"end_date"`
	TotalClassDays          int                  `json:"total_class_days"`
	PriceBase               decimal.Decimal      `json:"price_base"`
	PriceBeforeDiscounts    decimal.Decimal      `json:"price_before_discounts"`
	PriceApplied            decimal.Decimal      `json:"price_applied"`
	Currency                string               `json:"currency"`
	IsTrial                 bool                 `json:"is_trial"`
	IsOutOfWindow           bool                 `json:"is_out_of_window"`
	SuggestedProratedPrice  *decimal.Decimal     `json:"suggested_prorated_price,omitempty"`
	SuggestedManualDiscount *decimal.Decimal     `json:"suggested_manual_discount,omitempty"`
	Policy                  types.MidMonthPolicy `json:"mid_month_policy"`
	Adjustments             []Adjustment         `json:"adjustments"`
}

// ResolvePrice prices an enrollment. Stages run in a fixed order and each one rounds its own
// output: trial, proration base, new member discount, family discount, manual discount.
// A trial short-circuits every later stage.
func ResolvePrice(p policy.BillingPolicy, in PricingInput) (*Quote, error) {
	if err := in.StartDate.Validate(); err != nil {
		return nil, err
	}
	if in.ManualDiscountAmount.IsNegative() {
		return nil, ierr.NewError("manual discount amount must not be negative").
			WithHint("Manual discount cannot be negative").
			WithReportableDetails(map[string]any{
				"manual_discount_amount": in.ManualDiscountAmount.String(),
			}).
			Mark(ierr.ErrValidation)
	}

	q := &Quote{
		StartDate:   in.StartDate,
		PriceBase:   p.PriceBase,
		Currency:    p.Currency,
		Policy:      p.MidMonthPolicy,
		Adjustments: []Adjustment{},
	}

	if p.IsTrialCoupon(in.CouponCode) {
		trialDays := p.TrialDays
		if trialDays < 1 {
			trialDays = 1
		}
		q.IsTrial = true
		q.EndDate = types.AddDays(in.StartDate, trialDays)
		q.TotalClassDays = 1
		q.PriceBeforeDiscounts = decimal.Zero
		q.PriceApplied = decimal.Zero
		q.Adjustments = append(q.Adjustments, Adjustment{
			Kind:       AdjustmentTrial,
			Amount:     p.PriceBase,
			PriceAfter: decimal.Zero,
		})
		return q, nil
	}

	q.EndDate = CalcEndDateWithWindow(in.StartDate, p.WindowEndDay)
	q.TotalClassDays = types.CountWeekdaysInRange(in.StartDate, q.EndDate, types.ClassDays)

	pr := Prorate(p.PriceBase, in.StartDate, q.TotalClassDays, p.WindowEndDay, p.MidMonthPolicy)
	q.IsOutOfWindow = pr.OutOfWindow
	q.SuggestedProratedPrice = pr.SuggestedPrice
	q.SuggestedManualDiscount = pr.SuggestedRebate

	price := pr.EffectiveBase
	if pr.ReplacesBase {
		q.Adjustments = append(q.Adjustments, Adjustment{
			Kind:       AdjustmentProration,
			Amount:     p.PriceBase.Sub(price),
			PriceAfter: price,
		})
	}
	q.PriceBeforeDiscounts = price

	if in.IsNewMember && !p.NewMemberDiscountPct.IsZero() {
		price = q.applyPercent(AdjustmentNewMember, price, p.NewMemberDiscountPct)
	}
	if in.IsFamily && !p.FamilyDiscountPct.IsZero() {
		price = q.applyPercent(AdjustmentFamily, price, p.FamilyDiscountPct)
	}
	if p.MidMonthPolicy == types.MidMonthPolicyManual && in.ManualDiscountAmount.IsPositive() {
		next := decimal.Max(decimal.Zero, price.Sub(in.ManualDiscountAmount))
		q.Adjustments = append(q.Adjustments, Adjustment{
			Kind:       AdjustmentManual,
			Amount:     price.Sub(next),
			PriceAfter: next,
		})
		price = next
	}

	q.PriceApplied = price
	return q, nil
}

func (q *Quote) applyPercent(kind AdjustmentKind, price, pct decimal.Decimal) decimal.Decimal {
	factor := decimal.NewFromInt(1).Sub(pct.Div(hundredPct))
	next := RoundHalfUp(price.Mul(factor))
	q.Adjustments = append(q.Adjustments, Adjustment{
		Kind:       kind,
		Amount:     price.Sub(next),
		PriceAfter: next,
	})
	return next
}

var hundredPct = decimal.NewFromInt(100)
