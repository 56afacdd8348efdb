package cycle

import (
	"testing"
	"time"

	"github.com/dojocycle/dojocycle/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestCalcEndDateWithWindow(t *testing.T) {
	tests := []struct {
		name      string
		start     types.ISODate
		windowEnd int
		want      types.ISODate
	}{
		{name: "inside window keeps start day", start: "2024-01-05", windowEnd: 10, want: "2024-02-05"},
		{name: "start on window end", start: "2024-01-10", windowEnd: 10, want: "2024-02-10"},
		{name: "after window snaps to window end", start: "2024-01-20", windowEnd: 10, want: "2024-02-10"},
		{name: "clamped to leap february", start: "2024-01-31", windowEnd: 31, want: "2024-02-29"},
		{name: "clamped to february", start: "2023-01-31", windowEnd: 31, want: "2023-02-28"},
		{name: "crosses the year", start: "2024-12-15", windowEnd: 10, want: "2025-01-10"},
		{name: "clamped to april", start: "2024-03-31", windowEnd: 31, want: "2024-04-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalcEndDateWithWindow(tt.start, tt.windowEnd))
		})
	}
}

func TestCalcPeriodBounds(t *testing.T) {
	tests := []struct {
		name   string
		key    types.PeriodKey
		dueDay int
		want   PeriodBounds
	}{
		{
			name:   "regular month",
			key:    types.NewPeriodKey(2024, time.February),
			dueDay: 10,
			want:   PeriodBounds{Start: "2024-01-11", End: "2024-02-10"},
		},
		{
			name:   "january starts in previous year",
			key:    types.NewPeriodKey(2024, time.January),
			dueDay: 10,
			want:   PeriodBounds{Start: "2023-12-11", End: "2024-01-10"},
		},
		{
			name:   "due day 31 after leap february",
			key:    types.NewPeriodKey(2024, time.March),
			dueDay: 31,
			want:   PeriodBounds{Start: "2024-03-01", End: "2024-03-31"},
		},
		{
			name:   "due day 30 ending in february",
			key:    types.NewPeriodKey(2024, time.February),
			dueDay: 30,
			want:   PeriodBounds{Start: "2024-01-31", End: "2024-02-29"},
		},
		{
			name:   "due day 30 after short february",
			key:    types.NewPeriodKey(2023, time.March),
			dueDay: 30,
			want:   PeriodBounds{Start: "2023-03-01", End: "2023-03-30"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CalcPeriodBounds(tt.key, tt.dueDay))
		})
	}
}

func TestCalcEndFromStart(t *testing.T) {
	assert.Equal(t, types.ISODate("2024-02-10"), CalcEndFromStart("2024-01-15", 10))
	// unlike the window algorithm, an early start still ends on the due day
	assert.Equal(t, types.ISODate("2024-02-10"), CalcEndFromStart("2024-01-05", 10))
	assert.Equal(t, types.ISODate("2025-01-10"), CalcEndFromStart("2024-12-20", 10))
	assert.Equal(t, types.ISODate("2024-02-29"), CalcEndFromStart("2024-01-20", 31))
}

func TestGetPeriodFromDate(t *testing.T) {
	assert.Equal(t, types.NewPeriodKey(2024, time.January), GetPeriodFromDate("2024-01-10", 10))
	assert.Equal(t, types.NewPeriodKey(2024, time.February), GetPeriodFromDate("2024-01-11", 10))
	assert.Equal(t, types.NewPeriodKey(2025, time.January), GetPeriodFromDate("2024-12-11", 10))
	assert.Equal(t, types.NewPeriodKey(2024, time.December), GetPeriodFromDate("2024-12-01", 10))
}

func TestPeriodRoundTrip(t *testing.T) {
	for dueDay := 1; dueDay <= 31; dueDay++ {
		for _, year := range []int{2023, 2024} {
			for month := time.January; month <= time.December; month++ {
				key := types.NewPeriodKey(year, month)
				bounds := CalcPeriodBounds(key, dueDay)

				assert.False(t, bounds.End.Before(bounds.Start), "%s due %d", key, dueDay)
				for d := bounds.Start; !d.After(bounds.End); d = types.AddDays(d, 1) {
					if !assert.Equal(t, key, GetPeriodFromDate(d, dueDay), "date %s due %d", d, dueDay) {
						return
					}
				}
			}
		}
	}
}

func TestPeriodsAreContiguous(t *testing.T) {
	for _, dueDay := range []int{1, 10, 28, 30, 31} {
		key := types.NewPeriodKey(2023, time.November)
		for i := 0; i < 16; i++ {
			cur := CalcPeriodBounds(key, dueDay)
			next := CalcPeriodBounds(key.Next(), dueDay)
			assert.Equal(t, types.AddDays(cur.End, 1), next.Start, "%s due %d", key, dueDay)
			key = key.Next()
		}
	}
}

func TestPeriodBounds_ClassDays(t *testing.T) {
	b := PeriodBounds{Start: "2024-01-01", End: "2024-01-31"}
	assert.Equal(t, 27, b.ClassDays())
	assert.True(t, b.Contains("2024-01-31"))
	assert.False(t, b.Contains("2024-02-01"))
}
