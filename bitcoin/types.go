// Package bitcoin implements Bitcoin-denominated compensation schemes.
// It uses the generic engine with bitcoin-specific presets and units.
package bitcoin

import (
	"github.com/shopspring/decimal"
	"github.com/warp/vesting-engine/generic"
)

// =============================================================================
// UNITS
// =============================================================================

const (
	UnitBTC  = generic.UnitBTC
	UnitSats = generic.UnitSats
)

// BTC returns an amount in bitcoin.
func BTC(v float64) generic.Amount {
	return generic.NewAmount(v, UnitBTC)
}

// Sats returns an amount in satoshis.
func Sats(v int64) generic.Amount {
	return generic.NewAmountFromInt(v, UnitSats)
}

// ParseUnit maps a definition unit to a grant unit. Anything unknown is btc.
func ParseUnit(s string) generic.Unit {
	switch s {
	case "sats", "sat", "satoshi", "satoshis":
		return UnitSats
	default:
		return UnitBTC
	}
}

// =============================================================================
// DEFAULT SCHEDULE
// =============================================================================

// DefaultMilestones is the 5-year half / 10-year full schedule used by every
// preset.
func DefaultMilestones() generic.VestingSchedule {
	return generic.VestingSchedule{
		{Month: 0, Percent: decimal.Zero, Label: "grant"},
		{Month: 60, Percent: decimal.NewFromInt(50), Label: "5 years"},
		{Month: 120, Percent: decimal.NewFromInt(100), Label: "10 years"},
	}
}

// DefaultAnnualGrantYears returns how many anniversaries a known preset
// credits its annual grant for.
func DefaultAnnualGrantYears(id generic.SchemeID) (int, bool) {
	switch id {
	case PresetBuilder:
		return 5, true
	case PresetSlowAccumulation:
		return 10, true
	default:
		return 0, false
	}
}
