// Package cycle holds the pure billing-cycle calculations: period boundaries, proration,
// price resolution and the membership status state machine. Nothing here performs I/O;
// policy and "today" are always passed in.
package cycle

import (
	"github.com/dojocycle/dojocycle/internal/types"
)

// PeriodBounds is the inclusive date range a billing period covers.
type PeriodBounds struct {
	Start types.ISODate `json:"start_date"`
	End   types.ISODate `json:"end_date"`
}

// Contains reports whether d lies inside the bounds, both ends inclusive.
func (b PeriodBounds) Contains(d types.ISODate) bool {
	return d.Between(b.Start, b.End)
}

// ClassDays counts the class days inside the bounds.
func (b PeriodBounds) ClassDays() int {
	return types.CountWeekdaysInRange(b.Start, b.End, types.ClassDays)
}

// CalcEndDateWithWindow anchors the period end to the enrollment day. A start on or before
// windowEndDay ends on the same day of the next month; a later start ends on windowEndDay of
// the next month. Both are clamped to the next month's length.
func CalcEndDateWithWindow(start types.ISODate, windowEndDay int) types.ISODate {
	startDay := start.Day()
	targetDay := startDay
	if startDay > windowEndDay {
		targetDay = windowEndDay
	}
	return types.AddMonthsClamped(start.Year(), start.Month(), 1, targetDay)
}

// CalcPeriodBounds anchors the period to the due day: it ends on dueDay of the key's month
// and starts the day after dueDay of the previous month.
func CalcPeriodBounds(key types.PeriodKey, dueDay int) PeriodBounds {
	end := types.NewISODate(key.Year, key.Month, types.ClampDayOfMonth(key.Year, key.Month, dueDay))

	prev := key.Prev()
	prevDue := types.NewISODate(prev.Year, prev.Month, types.ClampDayOfMonth(prev.Year, prev.Month, dueDay))

	return PeriodBounds{
		Start: types.AddDays(prevDue, 1),
		End:   end,
	}
}

// CalcEndFromStart returns dueDay of the month following start's month, clamped.
func CalcEndFromStart(start types.ISODate, dueDay int) types.ISODate {
	return types.AddMonthsClamped(start.Year(), start.Month(), 1, dueDay)
}

// GetPeriodFromDate maps d to the key of the period it belongs to. Days after dueDay
// belong to the next month's period.
func GetPeriodFromDate(d types.ISODate, dueDay int) types.PeriodKey {
	key := types.PeriodKeyOf(d)
	if d.Day() > dueDay {
		return key.Next()
	}
	return key
}
