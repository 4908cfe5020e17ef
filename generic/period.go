package generic

import "fmt"

// =============================================================================
// PERIOD - A closed range of months
// =============================================================================

// Period is the month range [Start, End], used for yearly breakdowns.
type Period struct {
	Start Month
	End   Month
}

// Contains returns true if the month is within [Start, End]
func (p Period) Contains(m Month) bool {
	return m >= p.Start && m <= p.End
}

// Months returns every month in the period.
func (p Period) Months() []Month {
	var months []Month
	for m := p.Start; m <= p.End; m++ {
		months = append(months, m)
	}
	return months
}

func (p Period) String() string {
	return fmt.Sprintf("[%d, %d]", p.Start, p.End)
}

// YearPeriods splits [0, horizon] into vesting years.
// Year 0 is month 0 alone (the grant date); year n covers (12(n-1), 12n].
// A trailing partial year is included when horizon is not a multiple of 12.
func YearPeriods(horizon Month) []Period {
	periods := []Period{{Start: 0, End: 0}}
	for start := Month(1); start <= horizon; start += MonthsPerYear {
		end := start + MonthsPerYear - 1
		if end > horizon {
			end = horizon
		}
		periods = append(periods, Period{Start: start, End: end})
	}
	return periods
}
