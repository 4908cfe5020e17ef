/*
Package analysis provides read-only reports derived from a Projection.

PURPOSE:
  The engine produces one point per month. Most consumers want something
  coarser: a yearly breakdown table, what leaving at each anniversary would
  forfeit, a tax estimate, or how sensitive the outcome is to the growth
  assumption. Each report reads a Projection and never modifies it.

REPORTS:
  Yearly:      month 0, every 12th month, and the final month
  Retention:   unvested amount and its USD value at each anniversary
  Tax:         income tax on value as it vests, per year
  Sensitivity: final outcome across growth rates, with summary statistics

EXAMPLE:
  projection, _ := engine.Calculate(ctx, scheme, market)
  for _, row := range analysis.Yearly(projection) {
      fmt.Println(row.Year, row.VestedAmount, row.USDValue)
  }
*/
package analysis

import (
	"github.com/warp/vesting-engine/generic"
)

// =============================================================================
// YEARLY BREAKDOWN
// =============================================================================

// YearRow is one row of the yearly breakdown table.
type YearRow struct {
	Year  int
	Month generic.Month
	Date  *generic.TimePoint

	EmployerBalance generic.Amount
	VestedAmount    generic.Amount
	VestedPercent   generic.Amount // unit percent

	// Change since the previous row
	GrantedDelta generic.Amount
	VestedDelta  generic.Amount

	PriceUSD generic.Amount
	USDValue generic.Amount
}

// Yearly samples the projection at month 0, every anniversary, and the
// final month when it is not an anniversary. Year is the row index, so a
// partial final year gets its own number.
func Yearly(p *generic.Projection) []YearRow {
	if p == nil || len(p.Points) == 0 {
		return nil
	}

	var rows []YearRow
	var prev *generic.TimelinePoint
	for i := range p.Points {
		pt := p.Points[i]
		if pt.Month%generic.MonthsPerYear != 0 && pt.Month != p.Horizon {
			continue
		}

		row := YearRow{
			Year:            len(rows),
			Month:           pt.Month,
			Date:            pt.Date,
			EmployerBalance: pt.EmployerBalance,
			VestedAmount:    pt.VestedAmount,
			VestedPercent:   generic.NewAmountFromDecimal(pt.VestedPercent, generic.UnitPercent),
			GrantedDelta:    pt.GrantedAmount,
			VestedDelta:     pt.VestedAmount,
			PriceUSD:        pt.PriceUSD,
			USDValue:        pt.USDValue,
		}
		if prev != nil {
			row.GrantedDelta = pt.GrantedAmount.Sub(prev.GrantedAmount)
			row.VestedDelta = pt.VestedAmount.Sub(prev.VestedAmount)
		}
		rows = append(rows, row)
		prev = &p.Points[i]
	}
	return rows
}
