package generic

import "sort"

// =============================================================================
// GRANT SCHEDULE - Interface for how the employer balance accumulates
// =============================================================================

// GrantSchedule generates grant events for a month range.
// Implementations define the business logic (upfront, annual, capped, ...).
type GrantSchedule interface {
	// GenerateGrants returns grant events in [from, to].
	GenerateGrants(from, to Month) []GrantEvent
}

// =============================================================================
// UPFRONT GRANT
// =============================================================================

// UpfrontGrant credits the full amount at month 0.
type UpfrontGrant struct {
	Amount Amount
}

func (g *UpfrontGrant) GenerateGrants(from, to Month) []GrantEvent {
	if g.Amount.IsZero() || from > 0 || to < 0 {
		return nil
	}
	return []GrantEvent{{
		Month:  0,
		Amount: g.Amount,
		Type:   GrantInitial,
		Reason: "Initial grant",
	}}
}

// =============================================================================
// ANNUAL GRANT
// =============================================================================

// AnnualGrant credits Amount at each anniversary, for at most MaxYears years.
// MaxYears <= 0 means no cap.
type AnnualGrant struct {
	Amount   Amount
	MaxYears int
}

func (g *AnnualGrant) GenerateGrants(from, to Month) []GrantEvent {
	if g.Amount.IsZero() {
		return nil
	}

	var events []GrantEvent
	first := Month(MonthsPerYear)
	if from > first {
		first = ((from + MonthsPerYear - 1) / MonthsPerYear) * MonthsPerYear
	}

	for m := first; m <= to; m += MonthsPerYear {
		if g.MaxYears > 0 && m.Year() > g.MaxYears {
			break
		}
		events = append(events, GrantEvent{
			Month:  m,
			Amount: g.Amount,
			Type:   GrantAnnual,
			Reason: "Annual grant",
		})
	}
	return events
}

// =============================================================================
// COMPOSITE - Several schedules credited together
// =============================================================================

// CompositeGrant merges the events of several schedules in month order.
type CompositeGrant []GrantSchedule

func (c CompositeGrant) GenerateGrants(from, to Month) []GrantEvent {
	var events []GrantEvent
	for _, s := range c {
		if s == nil {
			continue
		}
		events = append(events, s.GenerateGrants(from, to)...)
	}
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Month < events[j].Month
	})
	return events
}
