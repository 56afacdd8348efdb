package policy

import (
	"strings"
	"time"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/shopspring/decimal"
)

const (
	DefaultDueDay             = 10
	DefaultWindowEndDay       = 10
	DefaultYellowDaysAfterDue = 5
	DefaultGraceDaysAfterDue  = 0
	DefaultTrialCouponCode    = "TKDPRUEBA"
	DefaultTrialDays          = 1
	DefaultCurrency           = "ARS"
	DefaultNotificationsDay   = 7
	DefaultAutoHour           = "09:00"
)

// BillingPolicy holds the billing parameters of a school. Core functions take it by value.
type BillingPolicy struct {
	// DueDay is the day of month a billing period ends on, clamped to the month length when used.
	DueDay int `db:"due_day" json:"due_day"`

	// WindowEndDay is the last day of month an enrollment counts as on schedule.
	WindowEndDay int `db:"window_end_day" json:"window_end_day"`

	YellowDaysAfterDue int `db:"yellow_days_after_due" json:"yellow_days_after_due"`
	GraceDaysAfterDue  int `db:"grace_days_after_due" json:"grace_days_after_due"`

	PriceBase decimal.Decimal `db:"price_base" json:"price_base"`
	Currency  string          `db:"currency" json:"currency"`

	NewMemberDiscountPct decimal.Decimal `db:"new_member_discount_pct" json:"new_member_discount_pct"`
	FamilyDiscountPct    decimal.Decimal `db:"family_discount_pct" json:"family_discount_pct"`

	MidMonthPolicy types.MidMonthPolicy `db:"mid_month_policy" json:"mid_month_policy"`

	TrialCouponCode string `db:"trial_coupon_code" json:"trial_coupon_code"`
	TrialDays       int    `db:"trial_days" json:"trial_days"`

	// NotificationsDay and AutoHour drive the monthly reminder batch.
	NotificationsDay int    `db:"notifications_day" json:"notifications_day"`
	AutoHour         string `db:"auto_hour" json:"auto_hour"`
}

// Default returns the policy a school starts with.
func Default() BillingPolicy {
	return BillingPolicy{
		DueDay:               DefaultDueDay,
		WindowEndDay:         DefaultWindowEndDay,
		YellowDaysAfterDue:   DefaultYellowDaysAfterDue,
		GraceDaysAfterDue:    DefaultGraceDaysAfterDue,
		PriceBase:            decimal.NewFromInt(25000),
		Currency:             DefaultCurrency,
		NewMemberDiscountPct: decimal.NewFromInt(10),
		FamilyDiscountPct:    decimal.NewFromInt(20),
		MidMonthPolicy:       types.MidMonthPolicyManual,
		TrialCouponCode:      DefaultTrialCouponCode,
		TrialDays:            DefaultTrialDays,
		NotificationsDay:     DefaultNotificationsDay,
		AutoHour:             DefaultAutoHour,
	}
}

var hundred = decimal.NewFromInt(100)

func (p BillingPolicy) Validate() error {
	details := map[string]any{}

	if p.DueDay < 1 || p.DueDay > 31 {
		details["due_day"] = p.DueDay
	}
	if p.WindowEndDay < 1 || p.WindowEndDay > 31 {
		details["window_end_day"] = p.WindowEndDay
	}
	if p.YellowDaysAfterDue < 0 {
		details["yellow_days_after_due"] = p.YellowDaysAfterDue
	}
	if p.GraceDaysAfterDue < 0 {
		details["grace_days_after_due"] = p.GraceDaysAfterDue
	}
	if p.PriceBase.IsNegative() {
		details["price_base"] = p.PriceBase.String()
	}
	if !isPercentage(p.NewMemberDiscountPct) {
		details["new_member_discount_pct"] = p.NewMemberDiscountPct.String()
	}
	if !isPercentage(p.FamilyDiscountPct) {
		details["family_discount_pct"] = p.FamilyDiscountPct.String()
	}
	if p.TrialDays < 0 {
		details["trial_days"] = p.TrialDays
	}
	if p.NotificationsDay < 1 || p.NotificationsDay > 31 {
		details["notifications_day"] = p.NotificationsDay
	}
	if _, err := time.Parse("15:04", p.AutoHour); err != nil {
		details["auto_hour"] = p.AutoHour
	}

	if len(details) > 0 {
		return ierr.NewError("invalid billing policy").
			WithHint("Days must be within 1-31, windows and prices non-negative, percentages within 0-100 and the reminder hour HH:MM").
			WithReportableDetails(details).
			Mark(ierr.ErrValidation)
	}

	return p.MidMonthPolicy.Validate()
}

// IsTrialCoupon reports whether code redeems the trial, ignoring case and surrounding blanks.
func (p BillingPolicy) IsTrialCoupon(code string) bool {
	code = strings.TrimSpace(code)
	trial := strings.TrimSpace(p.TrialCouponCode)
	return code != "" && trial != "" && strings.EqualFold(code, trial)
}

// AffectsPeriods reports whether switching from p to other changes the derived fields of unpaid periods.
func (p BillingPolicy) AffectsPeriods(other BillingPolicy) bool {
	return p.DueDay != other.DueDay || !p.PriceBase.Equal(other.PriceBase)
}

// ReminderTime returns the hour and minute of AutoHour. Invalid values fall back to the default.
func (p BillingPolicy) ReminderTime() (hour, minute int) {
	t, err := time.Parse("15:04", p.AutoHour)
	if err != nil {
		t, _ = time.Parse("15:04", DefaultAutoHour)
	}
	return t.Hour(), t.Minute()
}

// ReminderDay returns NotificationsDay clamped to the month length.
func (p BillingPolicy) ReminderDay(year int, month time.Month) int {
	return types.ClampDayOfMonth(year, month, p.NotificationsDay)
}

func isPercentage(d decimal.Decimal) bool {
	return !d.IsNegative() && d.LessThanOrEqual(hundred)
}
