package policy

import (
	"testing"
	"time"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	p := Default()
	assert.NoError(t, p.Validate())
	assert.Equal(t, 10, p.DueDay)
	assert.Equal(t, 10, p.WindowEndDay)
	assert.Equal(t, 5, p.YellowDaysAfterDue)
	assert.Equal(t, 0, p.GraceDaysAfterDue)
	assert.Equal(t, "25000", p.PriceBase.String())
	assert.Equal(t, types.MidMonthPolicyManual, p.MidMonthPolicy)
	assert.Equal(t, "TKDPRUEBA", p.TrialCouponCode)
}

func TestBillingPolicy_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *BillingPolicy)
	}{
		{name: "due day zero", mutate: func(p *BillingPolicy) { p.DueDay = 0 }},
		{name: "due day 32", mutate: func(p *BillingPolicy) { p.DueDay = 32 }},
		{name: "negative yellow", mutate: func(p *BillingPolicy) { p.YellowDaysAfterDue = -1 }},
		{name: "negative grace", mutate: func(p *BillingPolicy) { p.GraceDaysAfterDue = -1 }},
		{name: "negative price", mutate: func(p *BillingPolicy) { p.PriceBase = decimal.NewFromInt(-1) }},
		{name: "discount over 100", mutate: func(p *BillingPolicy) { p.FamilyDiscountPct = decimal.NewFromInt(101) }},
		{name: "negative discount", mutate: func(p *BillingPolicy) { p.NewMemberDiscountPct = decimal.NewFromInt(-5) }},
		{name: "unknown mid month policy", mutate: func(p *BillingPolicy) { p.MidMonthPolicy = "auto" }},
		{name: "bad reminder hour", mutate: func(p *BillingPolicy) { p.AutoHour = "25:00" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(&p)
			err := p.Validate()
			assert.Error(t, err)
			assert.True(t, ierr.IsValidation(err))
		})
	}
}

func TestBillingPolicy_IsTrialCoupon(t *testing.T) {
	p := Default()
	assert.True(t, p.IsTrialCoupon("tkdprueba"))
	assert.True(t, p.IsTrialCoupon(" TKDPRUEBA "))
	assert.False(t, p.IsTrialCoupon(""))
	assert.False(t, p.IsTrialCoupon("TKD"))

	p.TrialCouponCode = ""
	assert.False(t, p.IsTrialCoupon(""))
}

func TestBillingPolicy_Reminders(t *testing.T) {
	p := Default()
	p.NotificationsDay = 31
	assert.Equal(t, 29, p.ReminderDay(2024, time.February))
	assert.Equal(t, 31, p.ReminderDay(2024, time.March))

	h, m := p.ReminderTime()
	assert.Equal(t, 9, h)
	assert.Equal(t, 0, m)
}

func TestBillingPolicy_AffectsPeriods(t *testing.T) {
	p := Default()
	other := p
	other.YellowDaysAfterDue = 8
	assert.False(t, p.AffectsPeriods(other))

	other.DueDay = 5
	assert.True(t, p.AffectsPeriods(other))

	other = p
	other.PriceBase = decimal.NewFromInt(30000)
	assert.True(t, p.AffectsPeriods(other))
}
