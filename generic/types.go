/*
Package generic provides the core vesting projection engine.

PURPOSE:
  This package contains asset-agnostic types and algorithms for projecting
  equity-style grants over time. Whether the grant is Bitcoin, a token, or
  any other asset priced in USD, the same engine handles grant accumulation,
  vesting milestones, bonuses and price projection.

KEY CONCEPTS IN THIS FILE (types.go):
  - Amount: A quantity with a unit (e.g., 0.02 btc, $95,000, 50%)
  - GrantEvent: A credit of the asset at a specific month
  - Timeline: Ordered grant events with a running total
  - SchemeID: Type-safe scheme identifier

DESIGN PRINCIPLES:
  1. Purity: Calculate is a function of its inputs, no shared state
  2. Precision: Uses decimal.Decimal to avoid floating-point drift
  3. Fail fast: Inputs are validated before the month loop starts

USAGE:
  amount := generic.NewAmount(0.02, generic.UnitBTC)
  engine := generic.NewProjectionEngine()
  projection, err := engine.Calculate(ctx, scheme, market)

SEE ALSO:
  - scheme.go: Scheme and MarketAssumptions
  - engine.go: The month-by-month projection
  - errors.go: Validation errors
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// AMOUNT - Quantity with unit
// =============================================================================

type Amount struct {
	Value decimal.Decimal
	Unit  Unit
}

type Unit string

const (
	UnitBTC     Unit = "btc"
	UnitSats    Unit = "sats"
	UnitUSD     Unit = "usd"
	UnitPercent Unit = "percent"
)

// SatsPerBTC is the number of satoshis in one bitcoin.
var SatsPerBTC = decimal.NewFromInt(100_000_000)

func NewAmount(value float64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromFloat(value), Unit: unit}
}

func NewAmountFromInt(value int64, unit Unit) Amount {
	return Amount{Value: decimal.NewFromInt(value), Unit: unit}
}

func NewAmountFromDecimal(value decimal.Decimal, unit Unit) Amount {
	return Amount{Value: value, Unit: unit}
}

// ZeroAmount returns 0 in the given unit.
func ZeroAmount(unit Unit) Amount {
	return Amount{Value: decimal.Zero, Unit: unit}
}

func (a Amount) Zero() Amount                 { return Amount{Value: decimal.Zero, Unit: a.Unit} }
func (a Amount) Add(b Amount) Amount          { return Amount{Value: a.Value.Add(b.Value), Unit: a.Unit} }
func (a Amount) Sub(b Amount) Amount          { return Amount{Value: a.Value.Sub(b.Value), Unit: a.Unit} }
func (a Amount) Mul(s decimal.Decimal) Amount { return Amount{Value: a.Value.Mul(s), Unit: a.Unit} }
func (a Amount) Div(s decimal.Decimal) Amount { return Amount{Value: a.Value.Div(s), Unit: a.Unit} }
func (a Amount) IsNegative() bool             { return a.Value.IsNegative() }
func (a Amount) IsZero() bool                 { return a.Value.IsZero() }
func (a Amount) IsPositive() bool             { return a.Value.IsPositive() }
func (a Amount) GreaterThan(b Amount) bool    { return a.Value.GreaterThan(b.Value) }
func (a Amount) LessThan(b Amount) bool       { return a.Value.LessThan(b.Value) }
func (a Amount) Equal(b Amount) bool          { return a.Value.Equal(b.Value) }
func (a Amount) Float64() float64             { return a.Value.InexactFloat64() }

// Percent returns p% of the amount, keeping the amount's unit.
func (a Amount) Percent(p decimal.Decimal) Amount {
	return Amount{Value: a.Value.Mul(p).Div(hundred), Unit: a.Unit}
}

// Priced converts an asset amount to USD at the given price per whole coin.
// Sats are normalized to btc first.
func (a Amount) Priced(price Amount) Amount {
	return Amount{Value: a.ToBTC().Value.Mul(price.Value), Unit: UnitUSD}
}

// ToBTC normalizes a sats or btc amount to btc. Other units pass through.
func (a Amount) ToBTC() Amount {
	if a.Unit == UnitSats {
		return Amount{Value: a.Value.Div(SatsPerBTC), Unit: UnitBTC}
	}
	return a
}

// ToSats converts a btc amount to satoshis, truncating fractions of a sat.
func (a Amount) ToSats() Amount {
	if a.Unit == UnitBTC {
		return Amount{Value: a.Value.Mul(SatsPerBTC).Truncate(0), Unit: UnitSats}
	}
	return a
}

func (a Amount) String() string {
	return a.Value.String() + " " + string(a.Unit)
}

var hundred = decimal.NewFromInt(100)

// =============================================================================
// IDENTIFIERS
// =============================================================================

// SchemeID identifies a compensation scheme.
type SchemeID string

// =============================================================================
// GRANT EVENTS - Credits to the employer balance
// =============================================================================

type GrantType string

const (
	GrantInitial GrantType = "initial" // Month 0 grant
	GrantAnnual  GrantType = "annual"  // Anniversary grant
)

// GrantEvent is one credit of the asset at a month.
type GrantEvent struct {
	Month  Month
	Amount Amount
	Type   GrantType
	Reason string
}

// Timeline is an ordered list of grant events.
type Timeline struct {
	Events []GrantEvent
}

// Total sums every grant in the timeline.
func (t *Timeline) Total(unit Unit) Amount {
	total := ZeroAmount(unit)
	for _, e := range t.Events {
		total = total.Add(e.Amount)
	}
	return total
}
