package types

import (
	"database/sql/driver"
	"fmt"
	"time"

	ierr "github.com/dojocycle/dojocycle/internal/errors"
)

// ISODateLayout is the only accepted wire and storage format for calendar dates.
const ISODateLayout = "2006-01-02"

// ISODate is a calendar date formatted as YYYY-MM-DD.
// All arithmetic on ISODate happens on civil dates: values are materialised as midnight UTC
// from their year/month/day components, so no time-zone conversion ever shifts a day.
type ISODate string

// ParseISODate validates s and returns it as an ISODate.
func ParseISODate(s string) (ISODate, error) {
	t, err := time.Parse(ISODateLayout, s)
	if err != nil {
		return "", ierr.WithError(err).
			WithHintf("invalid date %q, expected YYYY-MM-DD", s).
			Mark(ierr.ErrValidation)
	}
	return ISODate(t.Format(ISODateLayout)), nil
}

// NewISODate builds a date from its components. Out of range values roll over like time.Date.
func NewISODate(year int, month time.Month, day int) ISODate {
	return ISODate(time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Format(ISODateLayout))
}

// DateOf returns the calendar date of t as seen in t's own location.
func DateOf(t time.Time) ISODate {
	return NewISODate(t.Year(), t.Month(), t.Day())
}

// TodayISO returns the current local calendar date.
func TodayISO() ISODate {
	return DateOf(time.Now())
}

// Time returns the date at midnight UTC. Invalid dates yield the zero time.
func (d ISODate) Time() time.Time {
	t, err := time.Parse(ISODateLayout, string(d))
	if err != nil {
		return time.Time{}
	}
	return t
}

func (d ISODate) String() string {
	return string(d)
}

func (d ISODate) Validate() error {
	_, err := ParseISODate(string(d))
	return err
}

func (d ISODate) IsZero() bool {
	return d == ""
}

func (d ISODate) Year() int {
	return d.Time().Year()
}

func (d ISODate) Month() time.Month {
	return d.Time().Month()
}

// Day returns the day of the month.
func (d ISODate) Day() int {
	return d.Time().Day()
}

func (d ISODate) Weekday() time.Weekday {
	return d.Time().Weekday()
}

func (d ISODate) Before(other ISODate) bool {
	return d.Time().Before(other.Time())
}

func (d ISODate) After(other ISODate) bool {
	return d.Time().After(other.Time())
}

// Between reports whether d lies in [start, end], inclusive on both ends.
func (d ISODate) Between(start, end ISODate) bool {
	return !d.Before(start) && !d.After(end)
}

// Scan implements sql.Scanner. Postgres DATE columns arrive as time.Time.
func (d *ISODate) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = ""
	case time.Time:
		*d = NewISODate(v.Year(), v.Month(), v.Day())
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan %T into ISODate", value)
	}
	return nil
}

func (d *ISODate) scanString(s string) error {
	if len(s) > len(ISODateLayout) {
		s = s[:len(ISODateLayout)]
	}
	parsed, err := ParseISODate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer.
func (d ISODate) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

// AddDays adds n calendar days, rolling over months and years.
func AddDays(d ISODate, n int) ISODate {
	return ISODate(d.Time().AddDate(0, 0, n).Format(ISODateLayout))
}

// DiffDays returns the number of whole days from b to a (a - b).
func DiffDays(a, b ISODate) int {
	return int(a.Time().Sub(b.Time()).Hours() / 24)
}

// DaysInMonth returns the length of the given month, 28 to 31.
func DaysInMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// ClampDayOfMonth returns min(day, DaysInMonth(year, month)), never below 1.
func ClampDayOfMonth(year int, month time.Month, day int) int {
	if day < 1 {
		return 1
	}
	if last := DaysInMonth(year, month); day > last {
		return last
	}
	return day
}

// AddMonthsClamped moves months away from (year, month) and places the result on day,
// clamped to the target month's length. Adding one month to January with day 31 lands on
// the last day of February rather than overflowing into March.
func AddMonthsClamped(year int, month time.Month, months int, day int) ISODate {
	newY := year
	newM := int(month) + months
	for newM > 12 {
		newM -= 12
		newY++
	}
	for newM < 1 {
		newM += 12
		newY--
	}
	return NewISODate(newY, time.Month(newM), ClampDayOfMonth(newY, time.Month(newM), day))
}

// WeekdaySet is a small bitset of weekdays.
type WeekdaySet uint8

func NewWeekdaySet(days ...time.Weekday) WeekdaySet {
	var s WeekdaySet
	for _, d := range days {
		s |= 1 << uint(d)
	}
	return s
}

func (s WeekdaySet) Contains(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

// ClassDays are the days classes are held: Monday to Saturday.
var ClassDays = NewWeekdaySet(
	time.Monday,
	time.Tuesday,
	time.Wednesday,
	time.Thursday,
	time.Friday,
	time.Saturday,
)

// CountWeekdaysInRange counts the days in [start, end] whose weekday is in included.
// It returns 0 when end is before start.
func CountWeekdaysInRange(start, end ISODate, included WeekdaySet) int {
	from, to := start.Time(), end.Time()
	if to.Before(from) {
		return 0
	}

	count := 0
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		if included.Contains(d.Weekday()) {
			count++
		}
	}
	return count
}
