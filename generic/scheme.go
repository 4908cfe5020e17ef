/*
scheme.go - Compensation schemes and market assumptions

PURPOSE:
  Defines the two inputs of a projection: the Scheme (what the employer
  grants and how it vests) and the MarketAssumptions (today's price and the
  expected growth). Both are plain data, validated up front.

GRANT CONTINUATION:
  How long annual grants continue is an explicit field, MaxAnnualGrantYears.
  Zero means "every anniversary up to the horizon". Presets set it directly,
  so adding a scheme never means touching engine code.

PRICE PROJECTION:
  price(m) = CurrentPriceUSD * (1 + AnnualGrowthPercent / 12 / 100)^m

  Growth that would push price(horizon) above 1e200 USD is rejected by
  ValidateHorizon before any price is computed.

EXAMPLE:
  scheme := generic.Scheme{
      ID:                  "builder",
      InitialGrant:        generic.NewAmount(0.015, generic.UnitBTC),
      AnnualGrant:         generic.NewAmount(0.001, generic.UnitBTC),
      MaxAnnualGrantYears: 5,
      VestingSchedule:     defaultMilestones,
  }
  market := generic.MarketAssumptions{
      CurrentPriceUSD:     generic.NewAmount(95000, generic.UnitUSD),
      AnnualGrowthPercent: decimal.NewFromInt(15),
  }
*/
package generic

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

// MaxHorizon bounds the month loop: 100 years of monthly points.
const MaxHorizon Month = 1200

// maxPriceExponent caps the projected price at 1e200 USD, leaving room for
// balances so every reported value stays within float64 range.
const maxPriceExponent = 200

// =============================================================================
// SCHEME
// =============================================================================

// Scheme describes one compensation plan. It is never mutated by the engine.
type Scheme struct {
	ID          SchemeID
	Name        string
	Description string

	// Credited at month 0
	InitialGrant Amount

	// Credited at each anniversary for MaxAnnualGrantYears years (0 = no cap)
	AnnualGrant         Amount
	MaxAnnualGrantYears int

	VestingSchedule     VestingSchedule
	CustomVestingEvents VestingSchedule

	Bonuses    []Bonus
	BonusBasis BonusBasis

	// Optional calendar anchor for month 0
	StartDate *TimePoint
}

// AssetUnit returns the unit the grants are denominated in (btc by default).
func (s Scheme) AssetUnit() Unit {
	if s.InitialGrant.Unit != "" {
		return s.InitialGrant.Unit
	}
	if s.AnnualGrant.Unit != "" {
		return s.AnnualGrant.Unit
	}
	return UnitBTC
}

// HasAnnualGrant reports whether anniversary grants are configured.
func (s Scheme) HasAnnualGrant() bool {
	return s.AnnualGrant.IsPositive()
}

// EffectiveSchedule merges CustomVestingEvents into VestingSchedule.
func (s Scheme) EffectiveSchedule() VestingSchedule {
	return MergeMilestones(s.VestingSchedule, s.CustomVestingEvents)
}

// Horizon is the last month of the projection.
func (s Scheme) Horizon() Month {
	return s.EffectiveSchedule().Horizon()
}

// Grants returns the grant schedule of the scheme.
func (s Scheme) Grants() GrantSchedule {
	unit := s.AssetUnit()
	return CompositeGrant{
		&UpfrontGrant{Amount: Amount{Value: s.InitialGrant.Value, Unit: unit}},
		&AnnualGrant{Amount: Amount{Value: s.AnnualGrant.Value, Unit: unit}, MaxYears: s.MaxAnnualGrantYears},
	}
}

// Validate checks the scheme shape. Every problem is reported at once.
func (s Scheme) Validate() error {
	is := &issues{kind: ErrInvalidScheme}

	if s.InitialGrant.IsNegative() {
		is.add("initial_grant", CodeNegative, "must be >= 0, got %s", s.InitialGrant.Value)
	}
	if s.AnnualGrant.IsNegative() {
		is.add("annual_grant", CodeNegative, "must be >= 0, got %s", s.AnnualGrant.Value)
	}
	if s.InitialGrant.Unit != "" && s.AnnualGrant.Unit != "" && s.InitialGrant.Unit != s.AnnualGrant.Unit {
		is.add("annual_grant", CodeUnitMismatch, "unit %s differs from initial grant unit %s", s.AnnualGrant.Unit, s.InitialGrant.Unit)
	}
	if s.MaxAnnualGrantYears < 0 {
		is.add("max_annual_grant_years", CodeNegative, "must be >= 0, got %d", s.MaxAnnualGrantYears)
	}

	validateMilestones(is, "vesting_schedule", s.VestingSchedule)
	validateMilestones(is, "custom_vesting_events", s.CustomVestingEvents)

	// Custom events amend a schedule, they never stand in for one
	if len(s.VestingSchedule) == 0 {
		is.add("vesting_schedule", CodeEmpty, "must contain at least one milestone")
	}

	effective := s.EffectiveSchedule()
	if len(effective) > 0 {
		if first := effective[0]; first.Month != 0 || !first.Percent.IsZero() {
			is.add("vesting_schedule", CodeMissingZero, "must start with a month 0 milestone at 0%%")
		}
		for i := 1; i < len(effective); i++ {
			if effective[i].Percent.LessThan(effective[i-1].Percent) {
				is.add(fmt.Sprintf("vesting_schedule[month=%d]", effective[i].Month), CodeDecreasing,
					"percent %s is below %s at month %d", effective[i].Percent, effective[i-1].Percent, effective[i-1].Month)
			}
		}
		if h := effective.Horizon(); h > MaxHorizon {
			is.add("vesting_schedule", CodeOutOfRange, "horizon %d exceeds %d months", h, MaxHorizon)
		}
	}

	for i, b := range s.Bonuses {
		field := fmt.Sprintf("bonuses[%d]", i)
		if b.Month < 0 {
			is.add(field+".month", CodeNegative, "must be >= 0, got %d", b.Month)
		}
		if b.Percent.IsNegative() {
			is.add(field+".percent", CodeNegative, "must be >= 0, got %s", b.Percent)
		}
	}

	switch s.BonusBasis {
	case "", BonusOnGrants, BonusOnBalance:
	default:
		is.add("bonus_basis", CodeOutOfRange, "unknown basis %q", s.BonusBasis)
	}

	return is.err()
}

func validateMilestones(is *issues, field string, schedule VestingSchedule) {
	for i, m := range schedule {
		f := fmt.Sprintf("%s[%d]", field, i)
		if m.Month < 0 {
			is.add(f+".month", CodeNegative, "must be >= 0, got %d", m.Month)
		}
		if m.Percent.IsNegative() || m.Percent.GreaterThan(hundred) {
			is.add(f+".percent", CodeOutOfRange, "must be within [0, 100], got %s", m.Percent)
		}
	}
}

// =============================================================================
// MARKET ASSUMPTIONS
// =============================================================================

// MarketAssumptions are the price inputs of a projection.
type MarketAssumptions struct {
	CurrentPriceUSD     Amount
	AnnualGrowthPercent decimal.Decimal
}

var monthsPerYearDec = decimal.NewFromInt(MonthsPerYear)

// Decimal places kept on projected prices and on the running growth factor.
const (
	priceScale  = 12
	growthScale = 24
)

// MonthlyRate is AnnualGrowthPercent / 12 / 100.
func (m MarketAssumptions) MonthlyRate() decimal.Decimal {
	return m.AnnualGrowthPercent.Div(monthsPerYearDec).Div(hundred)
}

// PriceAt projects the USD price at month offset.
func (m MarketAssumptions) PriceAt(month Month) Amount {
	if month < 0 {
		month = 0
	}
	return m.PriceSeries(month)[month]
}

// PriceSeries projects the USD price for months 0..horizon. The growth factor
// is compounded month over month and rounded to growthScale places, which
// keeps long horizons cheap without drifting from P0 * (1 + rate)^m.
func (m MarketAssumptions) PriceSeries(horizon Month) []Amount {
	factor := decimal.NewFromInt(1).Add(m.MonthlyRate())
	growth := decimal.NewFromInt(1)

	prices := make([]Amount, 0, horizon+1)
	for month := Month(0); month <= horizon; month++ {
		if month > 0 {
			growth = growth.Mul(factor).Round(growthScale)
		}
		prices = append(prices, Amount{Value: m.CurrentPriceUSD.Value.Mul(growth).Round(priceScale), Unit: UnitUSD})
	}
	return prices
}

// Validate checks the market assumptions.
func (m MarketAssumptions) Validate() error {
	is := &issues{kind: ErrInvalidMarket}

	if !m.CurrentPriceUSD.IsPositive() {
		is.add("current_price_usd", CodeOutOfRange, "must be > 0, got %s", m.CurrentPriceUSD.Value)
	}
	// (1 + rate) must stay positive for the compounding to mean anything
	if !decimal.NewFromInt(1).Add(m.MonthlyRate()).IsPositive() {
		is.add("annual_growth_percent", CodeOutOfRange, "must be > -1200, got %s", m.AnnualGrowthPercent)
	}

	return is.err()
}

// ValidateHorizon rejects growth that would project a price above 1e200 USD
// by horizon.
func (m MarketAssumptions) ValidateHorizon(horizon Month) error {
	rate := m.MonthlyRate().InexactFloat64()
	if rate <= 0 || horizon <= 0 {
		return nil
	}

	exponent := math.Log10(m.CurrentPriceUSD.Float64()) + float64(horizon)*math.Log1p(rate)/math.Ln10
	if exponent <= maxPriceExponent {
		return nil
	}

	is := &issues{kind: ErrInvalidMarket}
	is.add("annual_growth_percent", CodeOutOfRange,
		"%s%% over %d months projects a price above 1e%d USD", m.AnnualGrowthPercent, horizon, maxPriceExponent)
	return is.err()
}
