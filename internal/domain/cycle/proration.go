package cycle

import (
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/shopspring/decimal"
)

var half = decimal.NewFromFloat(0.5)

// RoundHalfUp rounds to whole currency units, halves going up.
func RoundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Add(half).Floor()
}

// IsOutOfWindow reports whether an enrollment on startDay missed the billing window.
func IsOutOfWindow(startDay, windowEndDay int) bool {
	return startDay > windowEndDay
}

// BaselineFullPeriodClasses counts the class days of a full reference period anchored at
// min(startDay, windowEndDay): from the anchor in start's month up to, but excluding, the
// anchor in the next month.
func BaselineFullPeriodClasses(start types.ISODate, windowEndDay int) int {
	anchor := start.Day()
	if windowEndDay < anchor {
		anchor = windowEndDay
	}

	from := types.AddMonthsClamped(start.Year(), start.Month(), 0, anchor)
	to := types.AddMonthsClamped(start.Year(), start.Month(), 1, anchor)

	return types.CountWeekdaysInRange(from, types.AddDays(to, -1), types.ClassDays)
}

// ProratedPrice scales priceBase by actual/baseline, capped at the full price.
// A zero baseline is treated as one.
func ProratedPrice(priceBase decimal.Decimal, actual, baseline int) decimal.Decimal {
	if baseline < 1 {
		baseline = 1
	}
	if actual < 0 {
		actual = 0
	}
	if actual >= baseline {
		return RoundHalfUp(priceBase)
	}
	return RoundHalfUp(priceBase.Mul(decimal.NewFromInt(int64(actual))).Div(decimal.NewFromInt(int64(baseline))))
}

// Proration is the outcome of the proration step for one enrollment.
type Proration struct {
	OutOfWindow     bool
	ActualClassDays int
	BaselineClasses int
	SuggestedPrice  *decimal.Decimal
	SuggestedRebate *decimal.Decimal
	ReplacesBase    bool
	EffectiveBase   decimal.Decimal
}

// Prorate evaluates the proration step for a non-trial enrollment. Under the prorate policy an
// out-of-window start replaces the base price; under the manual policy it only yields a suggestion
// and the rebate an operator would have to apply to reach it.
func Prorate(priceBase decimal.Decimal, start types.ISODate, actualClassDays, windowEndDay int, policy types.MidMonthPolicy) Proration {
	res := Proration{
		OutOfWindow:     IsOutOfWindow(start.Day(), windowEndDay),
		ActualClassDays: actualClassDays,
		EffectiveBase:   priceBase,
	}
	if !res.OutOfWindow {
		return res
	}

	res.BaselineClasses = BaselineFullPeriodClasses(start, windowEndDay)
	suggested := ProratedPrice(priceBase, actualClassDays, res.BaselineClasses)
	rebate := decimal.Max(decimal.Zero, priceBase.Sub(suggested))
	res.SuggestedPrice = &suggested
	res.SuggestedRebate = &rebate

	if policy == types.MidMonthPolicyProrate {
		res.ReplacesBase = true
		res.EffectiveBase = suggested
	}
	return res
}
