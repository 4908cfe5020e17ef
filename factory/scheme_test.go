package factory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/vesting-engine/bitcoin"
	"github.com/warp/vesting-engine/factory"
	"github.com/warp/vesting-engine/generic"
)

func TestParseScheme_FullDefinition(t *testing.T) {
	doc := `{
		"id": "custom",
		"name": "Custom",
		"initial_grant": 0.01,
		"annual_grant": 0.002,
		"max_annual_grant_years": 3,
		"vesting_schedule": [
			{"month": 0, "percent": 0},
			{"month": 48, "percent": 100}
		],
		"custom_vesting_events": [{"month": 24, "percent": 40, "label": "cliff"}],
		"bonuses": [{"month": 12, "percent": 5}],
		"bonus_basis": "balance",
		"start_date": "2025-03-01"
	}`

	scheme, err := factory.NewSchemeFactory().ParseScheme(doc)
	require.NoError(t, err)

	assert.Equal(t, generic.SchemeID("custom"), scheme.ID)
	assert.Equal(t, generic.UnitBTC, scheme.AssetUnit())
	assert.True(t, decimal.RequireFromString("0.01").Equal(scheme.InitialGrant.Value))
	assert.Equal(t, 3, scheme.MaxAnnualGrantYears)
	assert.Len(t, scheme.VestingSchedule, 2)
	assert.Equal(t, "cliff", scheme.CustomVestingEvents[0].Label)
	assert.Len(t, scheme.Bonuses, 1)
	assert.Equal(t, generic.BonusOnBalance, scheme.BonusBasis)
	require.NotNil(t, scheme.StartDate)
	assert.Equal(t, "2025-03-01", scheme.StartDate.String())
	assert.NoError(t, scheme.Validate())
}

func TestParseScheme_KnownID_InfersAnnualYears(t *testing.T) {
	doc := bitcoin.BuilderJSON("builder", "Builder", 0.015, 0.001, 5)
	scheme, err := factory.NewSchemeFactory().ParseScheme(doc)
	require.NoError(t, err)
	assert.Equal(t, 5, scheme.MaxAnnualGrantYears)

	// Same definition without the field
	scheme, err = factory.NewSchemeFactory().ParseScheme(`{"id": "slow-accumulation", "annual_grant": 0.002,
		"vesting_schedule": [{"month": 0, "percent": 0}, {"month": 120, "percent": 100}]}`)
	require.NoError(t, err)
	assert.Equal(t, 10, scheme.MaxAnnualGrantYears)
}

func TestParseScheme_UnknownID_Uncapped(t *testing.T) {
	scheme, err := factory.NewSchemeFactory().ParseScheme(`{"id": "mine", "annual_grant": 0.002,
		"vesting_schedule": [{"month": 0, "percent": 0}]}`)
	require.NoError(t, err)
	assert.Equal(t, 0, scheme.MaxAnnualGrantYears)
	assert.Equal(t, generic.BonusOnGrants, scheme.BonusBasis)
}

func TestParseScheme_Sats(t *testing.T) {
	scheme, err := factory.NewSchemeFactory().ParseScheme(`{"id": "s", "unit": "sats", "initial_grant": 2000000,
		"vesting_schedule": [{"month": 0, "percent": 0}]}`)
	require.NoError(t, err)

	assert.Equal(t, generic.UnitSats, scheme.AssetUnit())
	assert.True(t, decimal.NewFromInt(2_000_000).Equal(scheme.InitialGrant.Value))
}

func TestParseScheme_Malformed(t *testing.T) {
	_, err := factory.NewSchemeFactory().ParseScheme(`{"id": `)
	assert.Error(t, err)

	_, err = factory.NewSchemeFactory().ParseScheme(`{"id": "x", "start_date": "01/02/2025"}`)
	assert.Error(t, err)
}

func TestParseScheme_UnknownBasis_LeftToValidation(t *testing.T) {
	scheme, err := factory.NewSchemeFactory().ParseScheme(`{"id": "x", "bonus_basis": "salary",
		"vesting_schedule": [{"month": 0, "percent": 0}]}`)
	require.NoError(t, err)

	assert.True(t, generic.IsValidation(scheme.Validate()))
}

func TestParseSchemeTOML(t *testing.T) {
	doc := `
id = "front"
name = "Front"
initial_grant = 0.02

[[vesting_schedule]]
month = 0
percent = 0

[[vesting_schedule]]
month = 60
percent = 50

[[vesting_schedule]]
month = 120
percent = 100

[[bonuses]]
month = 24
percent = 10
`
	scheme, err := factory.NewSchemeFactory().ParseSchemeTOML(doc)
	require.NoError(t, err)

	assert.Equal(t, generic.SchemeID("front"), scheme.ID)
	assert.Len(t, scheme.VestingSchedule, 3)
	assert.Equal(t, generic.Month(120), scheme.Horizon())
	assert.Len(t, scheme.Bonuses, 1)
	assert.NoError(t, scheme.Validate())
}

func TestToJSON_ParsesBack(t *testing.T) {
	f := factory.NewSchemeFactory()
	preset, _ := bitcoin.Preset(bitcoin.PresetBuilder)

	doc, err := f.Marshal(preset)
	require.NoError(t, err)

	parsed, err := f.ParseScheme(doc)
	require.NoError(t, err)

	assert.Equal(t, preset.ID, parsed.ID)
	assert.Equal(t, preset.MaxAnnualGrantYears, parsed.MaxAnnualGrantYears)
	assert.True(t, preset.AnnualGrant.Equal(parsed.AnnualGrant))
	assert.Equal(t, preset.Horizon(), parsed.Horizon())
}
