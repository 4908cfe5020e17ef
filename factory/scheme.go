/*
Package factory provides JSON/TOML to Go scheme conversion.

PURPOSE:
  Converts scheme definitions into generic.Scheme values. This enables
  scheme configuration without code changes: a compensation team can
  define schemes in JSON (API, catalogue) or TOML (CLI files), and the
  factory creates the proper Go structs.

JSON SCHEMA:
  {
    "id": "builder",
    "name": "Builder",
    "unit": "btc",
    "initial_grant": 0.015,
    "annual_grant": 0.001,
    "max_annual_grant_years": 5,
    "vesting_schedule": [
      {"month": 0, "percent": 0},
      {"month": 60, "percent": 50},
      {"month": 120, "percent": 100}
    ],
    "custom_vesting_events": [{"month": 36, "percent": 25}],
    "bonuses": [{"month": 24, "percent": 10}],
    "bonus_basis": "grants",
    "start_date": "2025-01-01"
  }

  The same keys are used in TOML, with [[vesting_schedule]] tables.

KEY FEATURES:
  - unit "sats" takes grants as satoshi counts
  - max_annual_grant_years defaults to the preset value for known ids
  - Shape problems (bad JSON, bad dates) are reported here; business
    rules are left to Scheme.Validate so every caller gets the same errors

USAGE:
  f := factory.NewSchemeFactory()
  scheme, err := f.ParseScheme(jsonString)
  scheme, err := f.ParseSchemeTOML(tomlString)

SEE ALSO:
  - generic/scheme.go: Scheme type definition
  - bitcoin/presets.go: Go-based preset configurations
*/
package factory

import (
	"fmt"

	"github.com/BurntSushi/toml"
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"

	"github.com/warp/vesting-engine/bitcoin"
	"github.com/warp/vesting-engine/generic"
)

// =============================================================================
// DEFINITION TYPES
// =============================================================================

// SchemeJSON is the serialized representation of a scheme.
type SchemeJSON struct {
	ID                  string          `json:"id" toml:"id"`
	Name                string          `json:"name,omitempty" toml:"name"`
	Description         string          `json:"description,omitempty" toml:"description"`
	Unit                string          `json:"unit,omitempty" toml:"unit"` // btc (default) or sats
	InitialGrant        float64         `json:"initial_grant" toml:"initial_grant"`
	AnnualGrant         float64         `json:"annual_grant,omitempty" toml:"annual_grant"`
	MaxAnnualGrantYears *int            `json:"max_annual_grant_years,omitempty" toml:"max_annual_grant_years"`
	VestingSchedule     []MilestoneJSON `json:"vesting_schedule" toml:"vesting_schedule"`
	CustomVestingEvents []MilestoneJSON `json:"custom_vesting_events,omitempty" toml:"custom_vesting_events"`
	Bonuses             []MilestoneJSON `json:"bonuses,omitempty" toml:"bonuses"`
	BonusBasis          string          `json:"bonus_basis,omitempty" toml:"bonus_basis"` // grants (default) or balance
	StartDate           string          `json:"start_date,omitempty" toml:"start_date"`   // YYYY-MM-DD
}

// MilestoneJSON is a (month, percent) pair used for milestones and bonuses.
type MilestoneJSON struct {
	Month   int     `json:"month" toml:"month"`
	Percent float64 `json:"percent" toml:"percent"`
	Label   string  `json:"label,omitempty" toml:"label"`
}

// =============================================================================
// SCHEME FACTORY
// =============================================================================

// SchemeFactory converts scheme definitions to Go structs.
type SchemeFactory struct{}

// NewSchemeFactory creates a new scheme factory.
func NewSchemeFactory() *SchemeFactory {
	return &SchemeFactory{}
}

// ParseScheme parses a JSON string into a Scheme.
func (f *SchemeFactory) ParseScheme(jsonStr string) (generic.Scheme, error) {
	var sj SchemeJSON
	if err := json.Unmarshal([]byte(jsonStr), &sj); err != nil {
		return generic.Scheme{}, fmt.Errorf("failed to parse scheme JSON: %w", err)
	}
	return f.FromJSON(sj)
}

// ParseSchemeTOML parses a TOML document into a Scheme.
func (f *SchemeFactory) ParseSchemeTOML(tomlStr string) (generic.Scheme, error) {
	var sj SchemeJSON
	if _, err := toml.Decode(tomlStr, &sj); err != nil {
		return generic.Scheme{}, fmt.Errorf("failed to parse scheme TOML: %w", err)
	}
	return f.FromJSON(sj)
}

// FromJSON converts SchemeJSON to generic.Scheme.
func (f *SchemeFactory) FromJSON(sj SchemeJSON) (generic.Scheme, error) {
	unit := bitcoin.ParseUnit(sj.Unit)

	scheme := generic.Scheme{
		ID:                  generic.SchemeID(sj.ID),
		Name:                sj.Name,
		Description:         sj.Description,
		InitialGrant:        parseGrant(sj.InitialGrant, unit),
		AnnualGrant:         parseGrant(sj.AnnualGrant, unit),
		VestingSchedule:     parseMilestones(sj.VestingSchedule),
		CustomVestingEvents: parseMilestones(sj.CustomVestingEvents),
	}

	// Explicit value wins, otherwise the preset default for known ids
	if sj.MaxAnnualGrantYears != nil {
		scheme.MaxAnnualGrantYears = *sj.MaxAnnualGrantYears
	} else if years, ok := bitcoin.DefaultAnnualGrantYears(scheme.ID); ok {
		scheme.MaxAnnualGrantYears = years
	}

	for _, bj := range sj.Bonuses {
		scheme.Bonuses = append(scheme.Bonuses, generic.Bonus{
			Month:   generic.Month(bj.Month),
			Percent: decimal.NewFromFloat(bj.Percent),
			Label:   bj.Label,
		})
	}

	scheme.BonusBasis = parseBonusBasis(sj.BonusBasis)

	if sj.StartDate != "" {
		start, err := generic.ParseTimePoint(sj.StartDate)
		if err != nil {
			return generic.Scheme{}, fmt.Errorf("invalid start_date format: %w", err)
		}
		scheme.StartDate = &start
	}

	return scheme, nil
}

// ToJSON converts a Scheme to SchemeJSON.
func (f *SchemeFactory) ToJSON(scheme generic.Scheme) SchemeJSON {
	years := scheme.MaxAnnualGrantYears
	sj := SchemeJSON{
		ID:                  string(scheme.ID),
		Name:                scheme.Name,
		Description:         scheme.Description,
		Unit:                string(scheme.AssetUnit()),
		InitialGrant:        scheme.InitialGrant.Float64(),
		AnnualGrant:         scheme.AnnualGrant.Float64(),
		MaxAnnualGrantYears: &years,
		VestingSchedule:     milestonesToJSON(scheme.VestingSchedule),
		CustomVestingEvents: milestonesToJSON(scheme.CustomVestingEvents),
		BonusBasis:          string(scheme.BonusBasis),
	}
	for _, b := range scheme.Bonuses {
		sj.Bonuses = append(sj.Bonuses, MilestoneJSON{
			Month:   int(b.Month),
			Percent: b.Percent.InexactFloat64(),
			Label:   b.Label,
		})
	}
	if scheme.StartDate != nil {
		sj.StartDate = scheme.StartDate.String()
	}
	return sj
}

// Marshal serializes a Scheme as a JSON document.
func (f *SchemeFactory) Marshal(scheme generic.Scheme) (string, error) {
	b, err := json.Marshal(f.ToJSON(scheme))
	if err != nil {
		return "", fmt.Errorf("failed to marshal scheme: %w", err)
	}
	return string(b), nil
}

// =============================================================================
// PARSING HELPERS
// =============================================================================

func parseGrant(v float64, unit generic.Unit) generic.Amount {
	if unit == generic.UnitSats {
		return generic.NewAmountFromDecimal(decimal.NewFromFloat(v).Truncate(0), unit)
	}
	return generic.NewAmount(v, unit)
}

func parseMilestones(mjs []MilestoneJSON) generic.VestingSchedule {
	if len(mjs) == 0 {
		return nil
	}
	schedule := make(generic.VestingSchedule, 0, len(mjs))
	for _, mj := range mjs {
		schedule = append(schedule, generic.Milestone{
			Month:   generic.Month(mj.Month),
			Percent: decimal.NewFromFloat(mj.Percent),
			Label:   mj.Label,
		})
	}
	return schedule
}

func milestonesToJSON(schedule generic.VestingSchedule) []MilestoneJSON {
	var out []MilestoneJSON
	for _, m := range schedule {
		out = append(out, MilestoneJSON{
			Month:   int(m.Month),
			Percent: m.Percent.InexactFloat64(),
			Label:   m.Label,
		})
	}
	return out
}

// Unknown values pass through so Scheme.Validate reports them.
func parseBonusBasis(s string) generic.BonusBasis {
	if s == "" {
		return generic.BonusOnGrants
	}
	return generic.BonusBasis(s)
}
