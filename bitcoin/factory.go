/*
factory.go - JSON definitions of the Bitcoin presets

These functions build JSON scheme definitions for the catalogue seed. They
construct JSON documents directly to avoid import cycles with the factory
package.

USAGE:
  jsonStr := bitcoin.BuilderJSON("builder", "Builder", 0.015, 0.001, 5)
  scheme, err := factory.NewSchemeFactory().ParseScheme(jsonStr)
*/
package bitcoin

import (
	json "github.com/goccy/go-json"

	"github.com/warp/vesting-engine/generic"
)

// FrontLoadedJSON returns JSON for an upfront-only scheme.
func FrontLoadedJSON(id, name string, initialBTC float64) string {
	return marshal(map[string]interface{}{
		"id":               id,
		"name":             name,
		"unit":             "btc",
		"initial_grant":    initialBTC,
		"vesting_schedule": defaultMilestonesJSON(),
	})
}

// BuilderJSON returns JSON for an upfront grant with capped annual grants.
func BuilderJSON(id, name string, initialBTC, annualBTC float64, years int) string {
	return marshal(map[string]interface{}{
		"id":                     id,
		"name":                   name,
		"unit":                   "btc",
		"initial_grant":          initialBTC,
		"annual_grant":           annualBTC,
		"max_annual_grant_years": years,
		"vesting_schedule":       defaultMilestonesJSON(),
	})
}

// SlowAccumulationJSON returns JSON for an annual-only scheme.
func SlowAccumulationJSON(id, name string, annualBTC float64, years int) string {
	return marshal(map[string]interface{}{
		"id":                     id,
		"name":                   name,
		"unit":                   "btc",
		"annual_grant":           annualBTC,
		"max_annual_grant_years": years,
		"vesting_schedule":       defaultMilestonesJSON(),
	})
}

// PresetJSON returns the JSON definition of a built-in preset.
func PresetJSON(id generic.SchemeID) (string, bool) {
	s, ok := Preset(id)
	if !ok {
		return "", false
	}
	switch id {
	case PresetFrontLoaded:
		return FrontLoadedJSON(string(s.ID), s.Name, s.InitialGrant.Float64()), true
	case PresetBuilder:
		return BuilderJSON(string(s.ID), s.Name, s.InitialGrant.Float64(), s.AnnualGrant.Float64(), s.MaxAnnualGrantYears), true
	default:
		return SlowAccumulationJSON(string(s.ID), s.Name, s.AnnualGrant.Float64(), s.MaxAnnualGrantYears), true
	}
}

func defaultMilestonesJSON() []map[string]interface{} {
	var out []map[string]interface{}
	for _, m := range DefaultMilestones() {
		out = append(out, map[string]interface{}{
			"month":   int(m.Month),
			"percent": m.Percent.InexactFloat64(),
			"label":   m.Label,
		})
	}
	return out
}

func marshal(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
