package cycle

import (
	"testing"

	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsOutOfWindow(t *testing.T) {
	assert.False(t, IsOutOfWindow(1, 10))
	assert.False(t, IsOutOfWindow(10, 10))
	assert.True(t, IsOutOfWindow(11, 10))
}

func TestBaselineFullPeriodClasses(t *testing.T) {
	// anchored on the window end: 2024-01-10 up to 2024-02-09
	assert.Equal(t, 27, BaselineFullPeriodClasses("2024-01-20", 10))
	// anchored on the start day: 2024-01-05 up to 2024-02-04
	assert.Equal(t, 26, BaselineFullPeriodClasses("2024-01-05", 10))
}

func TestProratedPrice(t *testing.T) {
	tests := []struct {
		name     string
		base     int64
		actual   int
		baseline int
		want     int64
	}{
		{name: "full period", base: 25000, actual: 27, baseline: 27, want: 25000},
		{name: "capped at base", base: 25000, actual: 30, baseline: 27, want: 25000},
		{name: "one third rounds down", base: 1000, actual: 1, baseline: 3, want: 333},
		{name: "two thirds rounds up", base: 1000, actual: 2, baseline: 3, want: 667},
		{name: "half rounds up", base: 5, actual: 1, baseline: 2, want: 3},
		{name: "zero baseline treated as one", base: 25000, actual: 0, baseline: 0, want: 0},
		{name: "zero baseline with classes", base: 25000, actual: 5, baseline: 0, want: 25000},
		{name: "no classes", base: 25000, actual: 0, baseline: 27, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ProratedPrice(decimal.NewFromInt(tt.base), tt.actual, tt.baseline)
			assert.True(t, decimal.NewFromInt(tt.want).Equal(got), "want %d got %s", tt.want, got)
		})
	}
}

func TestProratedPrice_Monotonic(t *testing.T) {
	base := decimal.NewFromInt(25000)
	for _, baseline := range []int{1, 7, 24, 27} {
		prev := decimal.Zero
		for actual := 0; actual <= baseline+5; actual++ {
			got := ProratedPrice(base, actual, baseline)
			assert.True(t, got.GreaterThanOrEqual(prev), "baseline %d actual %d", baseline, actual)
			assert.True(t, got.LessThanOrEqual(base), "baseline %d actual %d", baseline, actual)
			prev = got
		}
	}
}

func TestRoundHalfUp(t *testing.T) {
	assert.Equal(t, "3", RoundHalfUp(decimal.RequireFromString("2.5")).String())
	assert.Equal(t, "2", RoundHalfUp(decimal.RequireFromString("2.4999")).String())
	assert.Equal(t, "720", RoundHalfUp(decimal.RequireFromString("720")).String())
}

func TestProrate(t *testing.T) {
	base := decimal.NewFromInt(25000)

	t.Run("in window", func(t *testing.T) {
		res := Prorate(base, "2024-01-05", 27, 10, types.MidMonthPolicyProrate)
		assert.False(t, res.OutOfWindow)
		assert.Nil(t, res.SuggestedPrice)
		assert.True(t, base.Equal(res.EffectiveBase))
	})

	t.Run("manual only suggests", func(t *testing.T) {
		res := Prorate(base, "2024-01-20", 19, 10, types.MidMonthPolicyManual)
		require.NotNil(t, res.SuggestedPrice)
		assert.True(t, res.OutOfWindow)
		assert.False(t, res.ReplacesBase)
		assert.Equal(t, 27, res.BaselineClasses)
		assert.Equal(t, "17593", res.SuggestedPrice.String())
		assert.Equal(t, "7407", res.SuggestedRebate.String())
		assert.True(t, base.Equal(res.EffectiveBase))
	})

	t.Run("prorate replaces the base", func(t *testing.T) {
		res := Prorate(base, "2024-01-20", 19, 10, types.MidMonthPolicyProrate)
		assert.True(t, res.ReplacesBase)
		assert.Equal(t, "17593", res.EffectiveBase.String())
	})
}
