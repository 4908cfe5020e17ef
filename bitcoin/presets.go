/*
presets.go - Pre-built Bitcoin compensation schemes

PURPOSE:
  Provides ready-to-use schemes. Each preset is a plain generic.Scheme
  with every parameter explicit, including how long annual grants last.

AVAILABLE PRESETS:
  front-loaded:
    - 0.02 BTC granted upfront
    - No annual grants

  builder:
    - 0.015 BTC upfront
    - 0.001 BTC at each anniversary for 5 years

  slow-accumulation:
    - No upfront grant
    - 0.002 BTC at each anniversary for 10 years

  All presets vest 50% at 5 years and 100% at 10 years.

EXAMPLE:
  scheme, ok := bitcoin.Preset("builder")
  projection, err := engine.Calculate(ctx, scheme, market)

SEE ALSO:
  - factory.go: JSON definitions for the scheme catalogue
  - factory/scheme.go: JSON/TOML to Scheme conversion
*/
package bitcoin

import (
	"github.com/warp/vesting-engine/generic"
)

// Preset identifiers.
const (
	PresetFrontLoaded      generic.SchemeID = "front-loaded"
	PresetBuilder          generic.SchemeID = "builder"
	PresetSlowAccumulation generic.SchemeID = "slow-accumulation"
)

// =============================================================================
// FRONT-LOADED
// =============================================================================

// FrontLoadedScheme grants everything on day one.
func FrontLoadedScheme(id generic.SchemeID, name string, initialBTC float64) generic.Scheme {
	return generic.Scheme{
		ID:              id,
		Name:            name,
		Description:     "Entire grant upfront, vesting over 10 years",
		InitialGrant:    BTC(initialBTC),
		VestingSchedule: DefaultMilestones(),
	}
}

// =============================================================================
// BUILDER
// =============================================================================

// BuilderScheme combines an upfront grant with capped annual top-ups.
func BuilderScheme(id generic.SchemeID, name string, initialBTC, annualBTC float64, years int) generic.Scheme {
	return generic.Scheme{
		ID:                  id,
		Name:                name,
		Description:         "Upfront grant plus annual grants for the first years",
		InitialGrant:        BTC(initialBTC),
		AnnualGrant:         BTC(annualBTC),
		MaxAnnualGrantYears: years,
		VestingSchedule:     DefaultMilestones(),
	}
}

// =============================================================================
// SLOW ACCUMULATION
// =============================================================================

// SlowAccumulationScheme grants nothing upfront and accumulates yearly.
func SlowAccumulationScheme(id generic.SchemeID, name string, annualBTC float64, years int) generic.Scheme {
	return generic.Scheme{
		ID:                  id,
		Name:                name,
		Description:         "Annual grants only, building the position over time",
		InitialGrant:        BTC(0),
		AnnualGrant:         BTC(annualBTC),
		MaxAnnualGrantYears: years,
		VestingSchedule:     DefaultMilestones(),
	}
}

// =============================================================================
// CATALOGUE
// =============================================================================

// Presets returns the built-in schemes in display order.
func Presets() []generic.Scheme {
	builderYears, _ := DefaultAnnualGrantYears(PresetBuilder)
	slowYears, _ := DefaultAnnualGrantYears(PresetSlowAccumulation)

	return []generic.Scheme{
		FrontLoadedScheme(PresetFrontLoaded, "Front-loaded", 0.02),
		BuilderScheme(PresetBuilder, "Builder", 0.015, 0.001, builderYears),
		SlowAccumulationScheme(PresetSlowAccumulation, "Slow accumulation", 0.002, slowYears),
	}
}

// Preset returns the built-in scheme with the given id.
func Preset(id generic.SchemeID) (generic.Scheme, bool) {
	for _, s := range Presets() {
		if s.ID == id {
			return s, true
		}
	}
	return generic.Scheme{}, false
}
