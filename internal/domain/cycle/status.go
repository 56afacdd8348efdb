package cycle

import (
	"github.com/dojocycle/dojocycle/internal/domain/policy"
	"github.com/dojocycle/dojocycle/internal/types"
)

// MembershipStatus is the liveness of a membership on one day. It is never persisted.
type MembershipStatus struct {
	State   types.MembershipState `json:"state"`
	Active  bool                  `json:"active"`
	InGrace bool                  `json:"in_grace"`
	// DaysToEnd is end minus today; negative once the period is over. Zero when there is no end date.
	DaysToEnd int                `json:"days_to_end"`
	Notice    types.StatusNotice `json:"notice"`
	EndDate   *types.ISODate     `json:"end_date,omitempty"`
}

// Admits reports whether the member may enter. Only a lapse past the grace window blocks entry.
func (s MembershipStatus) Admits() bool {
	return !s.HardBlocked()
}

// HardBlocked is a lapse outside the grace window.
func (s MembershipStatus) HardBlocked() bool {
	return s.State == types.MembershipStateLapsed && !s.InGrace
}

// ComputeStatus evaluates the state machine for a membership ending on endDate:
//
//	today <= end                           current
//	end < today <= end+yellow              due_soon
//	end+yellow < today <= end+yellow+grace lapsed, in grace
//	later                                  lapsed, hard block
//
// A nil end date means there is no membership and is treated as a hard lapse.
func ComputeStatus(endDate *types.ISODate, today types.ISODate, p policy.BillingPolicy) MembershipStatus {
	if endDate == nil || endDate.IsZero() {
		return MembershipStatus{
			State:  types.MembershipStateLapsed,
			Notice: types.StatusNoticeRed,
		}
	}

	end := *endDate
	status := MembershipStatus{
		DaysToEnd: types.DiffDays(end, today),
		EndDate:   &end,
	}

	yellowUntil := types.AddDays(end, max(0, p.YellowDaysAfterDue))
	graceUntil := types.AddDays(yellowUntil, max(0, p.GraceDaysAfterDue))

	switch {
	case !today.After(end):
		status.State = types.MembershipStateCurrent
		status.Active = true
		status.Notice = types.StatusNoticeGreen
	case !today.After(yellowUntil):
		status.State = types.MembershipStateDueSoon
		status.Active = true
		status.Notice = types.StatusNoticeYellow
	case !today.After(graceUntil):
		status.State = types.MembershipStateLapsed
		status.InGrace = true
		status.Notice = types.StatusNoticeGrace
	default:
		status.State = types.MembershipStateLapsed
		status.Notice = types.StatusNoticeRed
	}

	return status
}
