/*
milestone.go - Vesting milestones and bonus milestones

PURPOSE:
  A vesting schedule is a list of (month, percent) pairs. At any month the
  active milestone is the one with the greatest Month <= current month; its
  percent of the grants-to-date is vested.

KEY RULES:
  - The schedule must contain month 0 at 0%
  - Percent is non-decreasing with month and within [0, 100]
  - The horizon of a projection is the greatest milestone month
  - Duplicate months are tolerated: after sorting, the higher percent wins

CUSTOM EVENTS:
  A scheme may carry CustomVestingEvents. They override base milestones that
  share their month and extend the schedule with any new months.

EXAMPLE:
  schedule := generic.VestingSchedule{
      {Month: 0, Percent: decimal.Zero},
      {Month: 60, Percent: decimal.NewFromInt(50)},
      {Month: 120, Percent: decimal.NewFromInt(100)},
  }
  schedule.ActiveAt(72).Percent       // 50
  schedule.AverageVestingPeriod()     // 100
*/
package generic

import (
	"sort"

	"github.com/shopspring/decimal"
)

// =============================================================================
// MILESTONE
// =============================================================================

// Milestone vests Percent of the grants-to-date once Month is reached.
type Milestone struct {
	Month   Month
	Percent decimal.Decimal
	Label   string
}

// NewMilestone is a shorthand for tests and presets.
func NewMilestone(month Month, percent float64) Milestone {
	return Milestone{Month: month, Percent: decimal.NewFromFloat(percent)}
}

// VestingSchedule is an ordered list of milestones.
type VestingSchedule []Milestone

// Sorted returns a copy ordered by month, then percent, so that the last
// milestone of a month is the one with the highest percent.
func (s VestingSchedule) Sorted() VestingSchedule {
	out := make(VestingSchedule, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Month != out[j].Month {
			return out[i].Month < out[j].Month
		}
		return out[i].Percent.LessThan(out[j].Percent)
	})
	return out
}

// Horizon returns the greatest milestone month, or 0 for an empty schedule.
func (s VestingSchedule) Horizon() Month {
	var horizon Month
	for _, m := range s {
		if m.Month > horizon {
			horizon = m.Month
		}
	}
	return horizon
}

// ActiveAt returns the milestone in force at month. The schedule must be
// sorted. Before the first milestone a 0% fallback is returned.
func (s VestingSchedule) ActiveAt(month Month) Milestone {
	active := Milestone{Month: 0, Percent: decimal.Zero, Label: "unvested"}
	for _, m := range s {
		if m.Month > month {
			break
		}
		active = m
	}
	return active
}

// AverageVestingPeriod is the percent-weighted mean of milestone months.
// A schedule whose percents sum to zero averages to 0.
func (s VestingSchedule) AverageVestingPeriod() decimal.Decimal {
	weighted := decimal.Zero
	weights := decimal.Zero
	for _, m := range s {
		weighted = weighted.Add(decimal.NewFromInt(int64(m.Month)).Mul(m.Percent))
		weights = weights.Add(m.Percent)
	}
	if weights.IsZero() {
		return decimal.Zero
	}
	return weighted.Div(weights)
}

// MergeMilestones overlays custom milestones on base. A custom milestone
// replaces every base milestone with the same month.
func MergeMilestones(base, custom VestingSchedule) VestingSchedule {
	if len(custom) == 0 {
		return base.Sorted()
	}

	overridden := make(map[Month]bool, len(custom))
	for _, c := range custom {
		overridden[c.Month] = true
	}

	merged := make(VestingSchedule, 0, len(base)+len(custom))
	for _, b := range base {
		if !overridden[b.Month] {
			merged = append(merged, b)
		}
	}
	merged = append(merged, custom...)
	return merged.Sorted()
}

// =============================================================================
// BONUS MILESTONE
// =============================================================================

// Bonus adds Percent of the balance once Month is reached.
type Bonus struct {
	Month   Month
	Percent decimal.Decimal
	Label   string
}

// BonusBasis selects what an unlocked bonus is computed against.
type BonusBasis string

const (
	// BonusOnGrants: each bonus is Percent of the grants-to-date.
	// Bonuses never feed into each other.
	BonusOnGrants BonusBasis = "grants"

	// BonusOnBalance: bonuses apply in month order, each against the grants
	// plus the bonuses unlocked before it.
	BonusOnBalance BonusBasis = "balance"
)

// bonusAt returns the total bonus unlocked at month for the given grants.
// Bonuses must be sorted by month.
func bonusAt(bonuses []Bonus, basis BonusBasis, month Month, granted Amount) Amount {
	total := granted.Zero()
	for _, b := range bonuses {
		if b.Month > month {
			break
		}
		switch basis {
		case BonusOnBalance:
			total = total.Add(granted.Add(total).Percent(b.Percent))
		default:
			total = total.Add(granted.Percent(b.Percent))
		}
	}
	return total
}

func sortBonuses(bonuses []Bonus) []Bonus {
	out := make([]Bonus, len(bonuses))
	copy(out, bonuses)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}
