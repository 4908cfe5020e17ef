/*
engine.go - Month-by-month vesting projection

PURPOSE:
  Turns a Scheme and MarketAssumptions into a Projection: one TimelinePoint
  per month from 0 to the horizon, the grant history, and a Summary.

PROJECTION PROCESS (per month m = 0..horizon):
  1. Credit grants due at m (initial at 0, annual at anniversaries)
  2. Find the active milestone (greatest Month <= m)
  3. Add unlocked bonuses to both balance and vested amount
  4. Project the price: P0 * (1 + rate)^m
  5. Emit the point with usdValue = balance * price

SUMMARY:
  TotalGranted  = grants credited by the horizon (bonuses excluded)
  TotalCostUSD  = TotalGranted * today's price
  AverageVestingPeriodMonths = sum(month * pct) / sum(pct), 0 if sum(pct) == 0

LIMITS:
  Growth that projects a price above 1e200 USD by the horizon, or USD
  values beyond float64 range, fail with ErrInvalidMarket.

CONCURRENCY:
  The engine holds no state. Calculate may be called from any goroutine.
  A context that is already done is honoured before the loop starts; the
  loop itself is bounded by MaxHorizon and is not interrupted.

EXAMPLE:
  engine := generic.NewProjectionEngine()
  projection, err := engine.Calculate(ctx, scheme, market)
  if err != nil {
      return err // *ValidationError for bad input
  }
  for _, p := range projection.Points {
      fmt.Println(p.Month, p.EmployerBalance, p.USDValue)
  }
*/
package generic

import (
	"context"
	"math"

	"github.com/shopspring/decimal"
)

// =============================================================================
// PROJECTION OUTPUT
// =============================================================================

// TimelinePoint is the state of the scheme at one month.
type TimelinePoint struct {
	Month Month
	Date  *TimePoint // set when the scheme has a StartDate

	EmployerBalance Amount // grants + unlocked bonuses
	VestedAmount    Amount
	GrantedAmount   Amount // grants only
	BonusAmount     Amount
	VestedPercent   decimal.Decimal

	PriceUSD Amount
	USDValue Amount // EmployerBalance * PriceUSD
}

// Balance returns the vesting split of the point.
func (p TimelinePoint) Balance() VestingBalance {
	return VestingBalance{Granted: p.GrantedAmount, Bonus: p.BonusAmount, VestedPercent: p.VestedPercent}
}

// VestedUSD values the vested amount at the projected price.
func (p TimelinePoint) VestedUSD() Amount {
	return p.VestedAmount.Priced(p.PriceUSD)
}

// Summary aggregates a projection.
type Summary struct {
	TotalGranted               Amount
	TotalCostUSD               Amount
	AverageVestingPeriodMonths decimal.Decimal

	FinalBalance  Amount
	FinalVested   Amount
	FinalUSDValue Amount
}

// Projection is the result of one Calculate call.
type Projection struct {
	SchemeID SchemeID
	Unit     Unit
	Horizon  Month
	Market   MarketAssumptions
	Schedule VestingSchedule // effective milestones used

	Points  []TimelinePoint // exactly Horizon+1 points, month 0..Horizon
	Grants  Timeline
	Summary Summary
}

// PointAt returns the point for month, or false outside [0, Horizon].
func (p *Projection) PointAt(month Month) (TimelinePoint, bool) {
	if month < 0 || int(month) >= len(p.Points) {
		return TimelinePoint{}, false
	}
	return p.Points[month], true
}

// Final returns the last point.
func (p *Projection) Final() TimelinePoint {
	return p.Points[len(p.Points)-1]
}

// =============================================================================
// PROJECTION ENGINE
// =============================================================================

// ProjectionEngine computes vesting projections. The zero value is ready to use.
type ProjectionEngine struct{}

func NewProjectionEngine() *ProjectionEngine {
	return &ProjectionEngine{}
}

// Calculate projects scheme under market. Input errors are returned as
// *ValidationError before the month loop; USD values that overflow once
// priced are reported the same way after it.
func (pe *ProjectionEngine) Calculate(ctx context.Context, scheme Scheme, market MarketAssumptions) (*Projection, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := scheme.Validate(); err != nil {
		return nil, err
	}
	if err := market.Validate(); err != nil {
		return nil, err
	}

	unit := scheme.AssetUnit()
	schedule := scheme.EffectiveSchedule()
	horizon := scheme.Horizon()
	if err := market.ValidateHorizon(horizon); err != nil {
		return nil, err
	}
	bonuses := sortBonuses(scheme.Bonuses)
	grants := scheme.Grants().GenerateGrants(0, horizon)
	prices := market.PriceSeries(horizon)

	points := make([]TimelinePoint, 0, horizon+1)
	granted := ZeroAmount(unit)
	next := 0

	for m := Month(0); m <= horizon; m++ {
		// 1. Grants due this month
		for next < len(grants) && grants[next].Month <= m {
			granted = granted.Add(grants[next].Amount)
			next++
		}

		// 2-3. Vesting split with bonuses
		balance := VestingBalance{
			Granted:       granted,
			Bonus:         bonusAt(bonuses, scheme.BonusBasis, m, granted),
			VestedPercent: schedule.ActiveAt(m).Percent,
		}

		// 4. Price
		price := prices[m]
		total := balance.Total()

		point := TimelinePoint{
			Month:           m,
			EmployerBalance: total,
			VestedAmount:    balance.Vested(),
			GrantedAmount:   balance.Granted,
			BonusAmount:     balance.Bonus,
			VestedPercent:   balance.VestedPercent,
			PriceUSD:        price,
			USDValue:        total.Priced(price),
		}
		if scheme.StartDate != nil {
			date := scheme.StartDate.At(m)
			point.Date = &date
		}

		// 5. Emit
		points = append(points, point)
	}

	final := points[len(points)-1]
	timeline := Timeline{Events: grants}
	totalGranted := timeline.Total(unit)
	totalCost := totalGranted.Priced(market.CurrentPriceUSD)
	if err := checkFinite(points, totalCost); err != nil {
		return nil, err
	}

	return &Projection{
		SchemeID: scheme.ID,
		Unit:     unit,
		Horizon:  horizon,
		Market:   market,
		Schedule: schedule,
		Points:   points,
		Grants:   timeline,
		Summary: Summary{
			TotalGranted:               totalGranted,
			TotalCostUSD:               totalCost,
			AverageVestingPeriodMonths: schedule.AverageVestingPeriod(),
			FinalBalance:               final.EmployerBalance,
			FinalVested:                final.VestedAmount,
			FinalUSDValue:              final.USDValue,
		},
	}, nil
}

// BalanceAt returns the vesting split at month, or false outside [0, Horizon].
func (p *Projection) BalanceAt(month Month) (VestingBalance, bool) {
	pt, ok := p.PointAt(month)
	if !ok {
		return VestingBalance{}, false
	}
	return pt.Balance(), true
}

// checkFinite rejects projections whose USD values cannot be reported as
// float64. Prices are already bounded by ValidateHorizon, so this only trips
// on grant amounts large enough to overflow once priced.
func checkFinite(points []TimelinePoint, totalCost Amount) error {
	is := &issues{kind: ErrInvalidMarket}
	if !isFinite(totalCost) {
		is.add("total_cost_usd", CodeOutOfRange, "exceeds the float64 range")
	}
	for _, p := range points {
		if !isFinite(p.USDValue) {
			is.add("usd_value", CodeOutOfRange, "exceeds the float64 range at month %d", p.Month)
			break
		}
	}
	return is.err()
}

func isFinite(a Amount) bool {
	f := a.Float64()
	return !math.IsInf(f, 0) && !math.IsNaN(f)
}
