package analysis

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/vesting-engine/generic"
)

// ErrInvalidRate is returned for a tax rate outside [0, 100].
var ErrInvalidRate = errors.New("invalid tax rate")

// TaxRow is the tax due on value that vested during one period.
type TaxRow struct {
	Year   int
	Period generic.Period

	NewlyVested generic.Amount
	IncomeUSD   generic.Amount // newly vested amount valued at the month it vested
	TaxUSD      generic.Amount
}

// TaxReport is the per-year estimate plus totals.
type TaxReport struct {
	RatePercent decimal.Decimal
	Rows        []TaxRow
	TotalIncome generic.Amount
	TotalTax    generic.Amount
}

// Tax estimates income tax on vesting: every month's increase in vested
// amount is valued at that month's price and taxed at ratePercent.
func Tax(p *generic.Projection, ratePercent decimal.Decimal) (*TaxReport, error) {
	if ratePercent.IsNegative() || ratePercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: must be within [0, 100], got %s", ErrInvalidRate, ratePercent)
	}

	report := &TaxReport{
		RatePercent: ratePercent,
		TotalIncome: generic.ZeroAmount(generic.UnitUSD),
		TotalTax:    generic.ZeroAmount(generic.UnitUSD),
	}
	if p == nil || len(p.Points) == 0 {
		return report, nil
	}

	for year, period := range generic.YearPeriods(p.Horizon) {
		row := TaxRow{
			Year:        year,
			Period:      period,
			NewlyVested: generic.ZeroAmount(p.Unit),
			IncomeUSD:   generic.ZeroAmount(generic.UnitUSD),
		}
		for _, m := range period.Months() {
			pt := p.Points[m]
			delta := pt.VestedAmount
			if m > 0 {
				delta = delta.Sub(p.Points[m-1].VestedAmount)
			}
			if !delta.IsPositive() {
				continue
			}
			row.NewlyVested = row.NewlyVested.Add(delta)
			row.IncomeUSD = row.IncomeUSD.Add(delta.Priced(pt.PriceUSD))
		}
		row.TaxUSD = row.IncomeUSD.Percent(ratePercent)

		report.Rows = append(report.Rows, row)
		report.TotalIncome = report.TotalIncome.Add(row.IncomeUSD)
		report.TotalTax = report.TotalTax.Add(row.TaxUSD)
	}
	return report, nil
}
