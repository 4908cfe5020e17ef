/*
balance.go - Vested / unvested split of the employer balance

PURPOSE:
  Computes what the recipient holds at a given month. This is the central
  calculation that answers "how much of my grant is mine yet?"

BALANCE COMPONENTS:
  Granted:        Grants credited so far (initial + annual)
  Bonus:          Unlocked bonus amount, recomputed every month
  VestedPercent:  Percent of the active milestone

DERIVED AMOUNTS:
  Total    = Granted + Bonus                      (employer balance)
  Vested   = Granted * VestedPercent / 100 + Bonus
  Unvested = Total - Vested

  Bonuses vest immediately. Since VestedPercent <= 100, Vested <= Total
  always holds.

EXAMPLE:
  0.02 btc granted, month 60 of a {0:0, 60:50, 120:100} schedule:

  Total    = 0.02
  Vested   = 0.01
  Unvested = 0.01
*/
package generic

import "github.com/shopspring/decimal"

// VestingBalance is the state of a grant at one month.
type VestingBalance struct {
	Granted       Amount
	Bonus         Amount
	VestedPercent decimal.Decimal
}

// Total is the employer balance including unlocked bonuses.
func (b VestingBalance) Total() Amount {
	return b.Granted.Add(b.Bonus)
}

// Vested is the recipient's share of Total.
func (b VestingBalance) Vested() Amount {
	return b.Granted.Percent(b.VestedPercent).Add(b.Bonus)
}

// Unvested is what would be forfeited at this month.
func (b VestingBalance) Unvested() Amount {
	return b.Total().Sub(b.Vested())
}

// IsFullyVested returns true once the active milestone reaches 100%.
func (b VestingBalance) IsFullyVested() bool {
	return b.VestedPercent.GreaterThanOrEqual(hundred)
}
