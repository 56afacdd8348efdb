package cycle

import (
	"testing"

	"github.com/dojocycle/dojocycle/internal/domain/policy"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
)

func TestComputeStatus(t *testing.T) {
	p := policy.Default()
	p.DueDay = 10
	p.YellowDaysAfterDue = 5
	p.GraceDaysAfterDue = 0

	graced := p
	graced.GraceDaysAfterDue = 3

	end := lo.ToPtr(types.ISODate("2024-01-10"))

	tests := []struct {
		name      string
		policy    policy.BillingPolicy
		today     types.ISODate
		state     types.MembershipState
		active    bool
		inGrace   bool
		notice    types.StatusNotice
		daysToEnd int
	}{
		{name: "before end", policy: p, today: "2024-01-08", state: types.MembershipStateCurrent, active: true, notice: types.StatusNoticeGreen, daysToEnd: 2},
		{name: "on end", policy: p, today: "2024-01-10", state: types.MembershipStateCurrent, active: true, notice: types.StatusNoticeGreen},
		{name: "day after end", policy: p, today: "2024-01-11", state: types.MembershipStateDueSoon, active: true, notice: types.StatusNoticeYellow, daysToEnd: -1},
		{name: "last yellow day", policy: p, today: "2024-01-15", state: types.MembershipStateDueSoon, active: true, notice: types.StatusNoticeYellow, daysToEnd: -5},
		{name: "no grace", policy: p, today: "2024-01-16", state: types.MembershipStateLapsed, notice: types.StatusNoticeRed, daysToEnd: -6},
		{name: "first grace day", policy: graced, today: "2024-01-16", state: types.MembershipStateLapsed, inGrace: true, notice: types.StatusNoticeGrace, daysToEnd: -6},
		{name: "last grace day", policy: graced, today: "2024-01-18", state: types.MembershipStateLapsed, inGrace: true, notice: types.StatusNoticeGrace, daysToEnd: -8},
		{name: "past grace", policy: graced, today: "2024-01-19", state: types.MembershipStateLapsed, notice: types.StatusNoticeRed, daysToEnd: -9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeStatus(end, tt.today, tt.policy)
			assert.Equal(t, tt.state, got.State)
			assert.Equal(t, tt.active, got.Active)
			assert.Equal(t, tt.inGrace, got.InGrace)
			assert.Equal(t, tt.notice, got.Notice)
			assert.Equal(t, tt.daysToEnd, got.DaysToEnd)
		})
	}
}

func TestComputeStatus_NoEndDate(t *testing.T) {
	got := ComputeStatus(nil, "2024-01-10", policy.Default())
	assert.Equal(t, types.MembershipStateLapsed, got.State)
	assert.False(t, got.Active)
	assert.False(t, got.InGrace)
	assert.False(t, got.Admits())

	empty := types.ISODate("")
	assert.True(t, ComputeStatus(&empty, "2024-01-10", policy.Default()).HardBlocked())
}

func TestMembershipStatus_Admits(t *testing.T) {
	p := policy.Default()
	p.GraceDaysAfterDue = 2
	end := lo.ToPtr(types.ISODate("2024-01-10"))

	assert.True(t, ComputeStatus(end, "2024-01-10", p).Admits())
	assert.True(t, ComputeStatus(end, "2024-01-12", p).Admits())
	// in grace: admitted but flagged
	inGrace := ComputeStatus(end, "2024-01-16", p)
	assert.True(t, inGrace.InGrace)
	assert.True(t, inGrace.Admits())
	assert.False(t, ComputeStatus(end, "2024-01-18", p).Admits())
}
