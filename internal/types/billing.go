package types

import (
	"fmt"
	"time"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/samber/lo"
)

// MidMonthPolicy controls how a member who starts after the billing window is charged.
type MidMonthPolicy string

const (
	// MidMonthPolicyManual only suggests a prorated price; the operator decides.
	MidMonthPolicyManual MidMonthPolicy = "manual"
	// MidMonthPolicyProrate replaces the base price with the prorated one before discounts.
	MidMonthPolicyProrate MidMonthPolicy = "prorate"
)

func (p MidMonthPolicy) String() string {
	return string(p)
}

func (p MidMonthPolicy) Validate() error {
	allowed := []MidMonthPolicy{MidMonthPolicyManual, MidMonthPolicyProrate}
	if !lo.Contains(allowed, p) {
		return ierr.NewError("invalid mid month policy").
			WithHintf("Mid month policy must be one of %v", allowed).
			WithReportableDetails(map[string]any{
				"mid_month_policy": p,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PeriodStatus is the payment state of a billing period.
type PeriodStatus string

const (
	PeriodStatusUnpaid PeriodStatus = "unpaid"
	PeriodStatusPaid   PeriodStatus = "paid"
)

// MembershipState is the liveness of a membership on a given day.
type MembershipState string

const (
	MembershipStateCurrent MembershipState = "current"
	MembershipStateDueSoon MembershipState = "due_soon"
	MembershipStateLapsed  MembershipState = "lapsed"
)

func (s MembershipState) Validate() error {
	allowed := []MembershipState{MembershipStateCurrent, MembershipStateDueSoon, MembershipStateLapsed}
	if !lo.Contains(allowed, s) {
		return ierr.NewError("invalid membership state").
			WithHintf("Membership state must be one of %v", allowed).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// StatusNotice is the colour hint shown at the front desk and used to pick reminder copy.
type StatusNotice string

const (
	StatusNoticeGreen  StatusNotice = "green"
	StatusNoticeYellow StatusNotice = "yellow"
	StatusNoticeGrace  StatusNotice = "grace"
	StatusNoticeRed    StatusNotice = "red"
)

// PeriodKey identifies a billing period by the calendar month it ends in.
type PeriodKey struct {
	Year  int        `json:"year" db:"period_year"`
	Month time.Month `json:"month" db:"period_month"`
}

func NewPeriodKey(year int, month time.Month) PeriodKey {
	return PeriodKey{Year: year, Month: month}
}

// ParsePeriodKey parses a YYYY-MM string.
func ParsePeriodKey(s string) (PeriodKey, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return PeriodKey{}, ierr.WithError(err).
			WithHintf("invalid period %q, expected YYYY-MM", s).
			Mark(ierr.ErrValidation)
	}
	return PeriodKey{Year: t.Year(), Month: t.Month()}, nil
}

func (k PeriodKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, int(k.Month))
}

func (k PeriodKey) Next() PeriodKey {
	if k.Month == time.December {
		return PeriodKey{Year: k.Year + 1, Month: time.January}
	}
	return PeriodKey{Year: k.Year, Month: k.Month + 1}
}

func (k PeriodKey) Prev() PeriodKey {
	if k.Month == time.January {
		return PeriodKey{Year: k.Year - 1, Month: time.December}
	}
	return PeriodKey{Year: k.Year, Month: k.Month - 1}
}

func (k PeriodKey) Validate() error {
	if k.Year < 1 || k.Month < time.January || k.Month > time.December {
		return ierr.NewError("invalid period").
			WithHint("Period year and month are required, month must be 1-12").
			WithReportableDetails(map[string]any{
				"year":  k.Year,
				"month": int(k.Month),
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// PeriodKeyOf returns the key of the calendar month d falls in.
func PeriodKeyOf(d ISODate) PeriodKey {
	return PeriodKey{Year: d.Year(), Month: d.Month()}
}
