package types

import (
	"testing"
	"time"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseISODate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    ISODate
		wantErr bool
	}{
		{name: "valid", input: "2024-02-29", want: "2024-02-29"},
		{name: "non leap february 29", input: "2023-02-29", wantErr: true},
		{name: "day 31 in april", input: "2024-04-31", wantErr: true},
		{name: "slashes", input: "2024/01/10", wantErr: true},
		{name: "missing padding", input: "2024-1-10", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseISODate(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ierr.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		name string
		date ISODate
		n    int
		want ISODate
	}{
		{name: "same month", date: "2024-03-10", n: 10, want: "2024-03-20"},
		{name: "cross month boundary", date: "2024-03-31", n: 5, want: "2024-04-05"},
		{name: "cross year boundary", date: "2024-12-29", n: 5, want: "2025-01-03"},
		{name: "leap year february", date: "2024-02-27", n: 3, want: "2024-03-01"},
		{name: "non leap year february", date: "2023-02-27", n: 3, want: "2023-03-02"},
		{name: "negative", date: "2024-03-01", n: -1, want: "2024-02-29"},
		{name: "zero", date: "2024-03-01", n: 0, want: "2024-03-01"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddDays(tt.date, tt.n))
		})
	}
}

func TestDiffDays(t *testing.T) {
	assert.Equal(t, 0, DiffDays("2024-01-10", "2024-01-10"))
	assert.Equal(t, 1, DiffDays("2024-01-11", "2024-01-10"))
	assert.Equal(t, -1, DiffDays("2024-01-10", "2024-01-11"))
	assert.Equal(t, 366, DiffDays("2025-01-01", "2024-01-01"))
	// DST transitions do not exist in civil UTC dates
	assert.Equal(t, 31, DiffDays("2024-04-01", "2024-03-01"))
}

func TestDaysInMonth(t *testing.T) {
	assert.Equal(t, 31, DaysInMonth(2024, time.January))
	assert.Equal(t, 29, DaysInMonth(2024, time.February))
	assert.Equal(t, 28, DaysInMonth(2023, time.February))
	assert.Equal(t, 28, DaysInMonth(1900, time.February))
	assert.Equal(t, 29, DaysInMonth(2000, time.February))
	assert.Equal(t, 30, DaysInMonth(2024, time.April))
	assert.Equal(t, 31, DaysInMonth(2024, time.December))
}

func TestClampDayOfMonth(t *testing.T) {
	t.Run("never exceeds the month length", func(t *testing.T) {
		for _, year := range []int{2023, 2024} {
			for month := time.January; month <= time.December; month++ {
				last := DaysInMonth(year, month)
				for day := 29; day <= 31; day++ {
					got := ClampDayOfMonth(year, month, day)
					assert.LessOrEqual(t, got, last, "%d-%02d day %d", year, month, day)
					if day <= last {
						assert.Equal(t, day, got)
					}
				}
			}
		}
	})

	t.Run("days up to 28 are unchanged", func(t *testing.T) {
		for month := time.January; month <= time.December; month++ {
			for day := 1; day <= 28; day++ {
				assert.Equal(t, day, ClampDayOfMonth(2023, month, day))
			}
		}
	})

	t.Run("examples", func(t *testing.T) {
		assert.Equal(t, 30, ClampDayOfMonth(2024, time.April, 31))
		assert.Equal(t, 29, ClampDayOfMonth(2024, time.February, 31))
		assert.Equal(t, 28, ClampDayOfMonth(2023, time.February, 30))
		assert.Equal(t, 1, ClampDayOfMonth(2023, time.February, 0))
	})
}

func TestAddMonthsClamped(t *testing.T) {
	tests := []struct {
		name   string
		year   int
		month  time.Month
		months int
		day    int
		want   ISODate
	}{
		{name: "january 31 to february leap", year: 2024, month: time.January, months: 1, day: 31, want: "2024-02-29"},
		{name: "january 31 to february", year: 2023, month: time.January, months: 1, day: 31, want: "2023-02-28"},
		{name: "december rolls the year", year: 2024, month: time.December, months: 1, day: 10, want: "2025-01-10"},
		{name: "backwards over the year", year: 2024, month: time.January, months: -1, day: 31, want: "2023-12-31"},
		{name: "thirteen months", year: 2024, month: time.March, months: 13, day: 31, want: "2025-04-30"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AddMonthsClamped(tt.year, tt.month, tt.months, tt.day))
		})
	}
}

func TestCountWeekdaysInRange(t *testing.T) {
	t.Run("single day", func(t *testing.T) {
		// 2024-01-07 is a Sunday, 2024-01-01 through 2024-01-06 are Monday to Saturday
		assert.Equal(t, 0, CountWeekdaysInRange("2024-01-07", "2024-01-07", ClassDays))
		for d := 1; d <= 6; d++ {
			day := NewISODate(2024, time.January, d)
			assert.Equal(t, 1, CountWeekdaysInRange(day, day, ClassDays), day)
		}
	})

	t.Run("end before start", func(t *testing.T) {
		assert.Equal(t, 0, CountWeekdaysInRange("2024-01-10", "2024-01-09", ClassDays))
	})

	t.Run("full month", func(t *testing.T) {
		// January 2024 has four Sundays
		assert.Equal(t, 27, CountWeekdaysInRange("2024-01-01", "2024-01-31", ClassDays))
	})

	t.Run("custom set", func(t *testing.T) {
		set := NewWeekdaySet(time.Monday, time.Wednesday)
		assert.Equal(t, 2, CountWeekdaysInRange("2024-01-01", "2024-01-07", set))
	})
}

func TestISODate_Scan(t *testing.T) {
	var d ISODate
	require.NoError(t, d.Scan(time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, ISODate("2024-03-05"), d)

	require.NoError(t, d.Scan([]byte("2024-03-06T00:00:00Z")))
	assert.Equal(t, ISODate("2024-03-06"), d)

	require.NoError(t, d.Scan(nil))
	assert.True(t, d.IsZero())

	assert.Error(t, d.Scan(42))

	v, err := ISODate("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestISODate_Between(t *testing.T) {
	assert.True(t, ISODate("2024-01-10").Between("2024-01-10", "2024-02-10"))
	assert.True(t, ISODate("2024-02-10").Between("2024-01-10", "2024-02-10"))
	assert.False(t, ISODate("2024-02-11").Between("2024-01-10", "2024-02-10"))
}

func TestPeriodKey(t *testing.T) {
	k := NewPeriodKey(2024, time.December)
	assert.Equal(t, "2024-12", k.String())
	assert.Equal(t, NewPeriodKey(2025, time.January), k.Next())
	assert.Equal(t, NewPeriodKey(2024, time.November), k.Prev())
	assert.Equal(t, NewPeriodKey(2023, time.December), NewPeriodKey(2024, time.January).Prev())

	parsed, err := ParsePeriodKey("2024-03")
	require.NoError(t, err)
	assert.Equal(t, NewPeriodKey(2024, time.March), parsed)

	_, err = ParsePeriodKey("2024-13")
	assert.True(t, ierr.IsValidation(err))
	assert.Error(t, PeriodKey{Year: 2024}.Validate())
}
