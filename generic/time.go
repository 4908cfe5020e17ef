package generic

import (
	"time"
)

// =============================================================================
// MONTH - Offset from the start of a scheme (month 0 = grant date)
// =============================================================================

// Month is a 0-based month offset from the scheme start.
type Month int

const MonthsPerYear = 12

// IsAnniversary reports whether m is a positive multiple of 12.
func (m Month) IsAnniversary() bool { return m > 0 && m%MonthsPerYear == 0 }

// Year returns the number of whole years elapsed at m.
func (m Month) Year() int { return int(m) / MonthsPerYear }

// YearsToMonths converts whole years to months.
func YearsToMonths(years int) Month { return Month(years * MonthsPerYear) }

// =============================================================================
// TIME POINT - Calendar anchor for a scheme start
// =============================================================================

type TimePoint struct {
	Time time.Time
}

func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseTimePoint parses a YYYY-MM-DD date.
func ParseTimePoint(s string) (TimePoint, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return TimePoint{}, err
	}
	return TimePoint{Time: t.UTC()}, nil
}

// AddMonths clamps to the last day of the target month, so Jan 31 + 1 is Feb 28/29.
func (tp TimePoint) AddMonths(n int) TimePoint {
	first := time.Date(tp.Time.Year(), tp.Time.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, n, 0)
	last := first.AddDate(0, 1, -1).Day()
	day := tp.Time.Day()
	if day > last {
		day = last
	}
	return TimePoint{Time: time.Date(first.Year(), first.Month(), day, 0, 0, 0, 0, time.UTC)}
}

// At returns the calendar date of a month offset.
func (tp TimePoint) At(m Month) TimePoint { return tp.AddMonths(int(m)) }

func (tp TimePoint) String() string {
	return tp.Time.Format("2006-01-02")
}
