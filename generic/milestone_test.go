package generic_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/vesting-engine/generic"
)

// =============================================================================
// MILESTONES
// =============================================================================

func TestVestingSchedule_ActiveAt(t *testing.T) {
	schedule := defaultSchedule()

	tests := []struct {
		month   generic.Month
		percent int64
	}{
		{0, 0}, {59, 0}, {60, 50}, {119, 50}, {120, 100}, {500, 100},
	}
	for _, tt := range tests {
		assert.True(t, decimal.NewFromInt(tt.percent).Equal(schedule.ActiveAt(tt.month).Percent), "month %d", tt.month)
	}
}

func TestVestingSchedule_DuplicateMonth_HigherPercentWins(t *testing.T) {
	schedule := generic.VestingSchedule{
		generic.NewMilestone(0, 0),
		generic.NewMilestone(12, 40),
		generic.NewMilestone(12, 20),
	}.Sorted()

	assert.True(t, decimal.NewFromInt(40).Equal(schedule.ActiveAt(12).Percent))
}

func TestMergeMilestones_CustomReplacesSameMonth(t *testing.T) {
	merged := generic.MergeMilestones(defaultSchedule(), generic.VestingSchedule{
		{Month: 60, Percent: decimal.NewFromInt(60), Label: "cliff"},
	})

	require.Len(t, merged, 3)
	assert.Equal(t, "cliff", merged[1].Label)
	assert.True(t, decimal.NewFromInt(60).Equal(merged[1].Percent))
}

func TestMergeMilestones_NoCustom_ReturnsSortedCopy(t *testing.T) {
	base := generic.VestingSchedule{generic.NewMilestone(60, 50), generic.NewMilestone(0, 0)}

	merged := generic.MergeMilestones(base, nil)

	assert.Equal(t, generic.Month(0), merged[0].Month)
	assert.Equal(t, generic.Month(60), base[0].Month)
}

func TestAverageVestingPeriod_Empty(t *testing.T) {
	assert.True(t, generic.VestingSchedule{}.AverageVestingPeriod().IsZero())
}

// =============================================================================
// GRANTS
// =============================================================================

func TestAnnualGrant_CappedYears(t *testing.T) {
	grant := &generic.AnnualGrant{Amount: btc(0.002), MaxYears: 3}

	events := grant.GenerateGrants(0, 120)

	require.Len(t, events, 3)
	assert.Equal(t, generic.Month(12), events[0].Month)
	assert.Equal(t, generic.Month(36), events[2].Month)
	assert.Equal(t, generic.GrantAnnual, events[0].Type)
}

func TestAnnualGrant_FromMidYear(t *testing.T) {
	grant := &generic.AnnualGrant{Amount: btc(0.002)}

	events := grant.GenerateGrants(13, 48)

	require.Len(t, events, 3)
	assert.Equal(t, generic.Month(24), events[0].Month)
}

func TestCompositeGrant_OrderedByMonth(t *testing.T) {
	schedule := generic.CompositeGrant{
		&generic.AnnualGrant{Amount: btc(0.001), MaxYears: 2},
		&generic.UpfrontGrant{Amount: btc(0.01)},
	}

	events := schedule.GenerateGrants(0, 60)

	require.Len(t, events, 3)
	assert.Equal(t, generic.GrantInitial, events[0].Type)

	timeline := generic.Timeline{Events: events}
	assertBTC(t, "0.012", timeline.Total(generic.UnitBTC))
}

func TestUpfrontGrant_ZeroAmount_NoEvent(t *testing.T) {
	assert.Empty(t, (&generic.UpfrontGrant{Amount: btc(0)}).GenerateGrants(0, 120))
}

// =============================================================================
// PERIODS AND DATES
// =============================================================================

func TestYearPeriods(t *testing.T) {
	periods := generic.YearPeriods(30)

	require.Len(t, periods, 4)
	assert.Equal(t, generic.Period{Start: 0, End: 0}, periods[0])
	assert.Equal(t, generic.Period{Start: 1, End: 12}, periods[1])
	assert.Equal(t, generic.Period{Start: 25, End: 30}, periods[3])
	assert.True(t, periods[2].Contains(24))
	assert.Len(t, periods[1].Months(), 12)
}

func TestTimePoint_AddMonths_ClampsToMonthEnd(t *testing.T) {
	start := generic.NewTimePoint(2024, time.January, 31)

	assert.Equal(t, "2024-02-29", start.AddMonths(1).String())
	assert.Equal(t, "2024-03-31", start.AddMonths(2).String())
	assert.Equal(t, "2025-01-31", start.At(12).String())
}

func TestMonth_Anniversary(t *testing.T) {
	assert.False(t, generic.Month(0).IsAnniversary())
	assert.True(t, generic.Month(24).IsAnniversary())
	assert.Equal(t, 2, generic.Month(35).Year())
	assert.Equal(t, generic.Month(60), generic.YearsToMonths(5))
}

// =============================================================================
// AMOUNTS
// =============================================================================

func TestAmount_SatsConversion(t *testing.T) {
	sats := btc(0.015).ToSats()

	assert.Equal(t, generic.UnitSats, sats.Unit)
	assert.True(t, decimal.NewFromInt(1_500_000).Equal(sats.Value))
	assertBTC(t, "0.015", sats.ToBTC())
}

func TestAmount_Priced_NormalizesSats(t *testing.T) {
	price := generic.NewAmount(95000, generic.UnitUSD)

	// GIVEN the same holding in btc and in sats
	inBTC := btc(0.02).Priced(price)
	inSats := generic.NewAmountFromInt(2_000_000, generic.UnitSats).Priced(price)

	// THEN both are worth the same number of dollars
	assert.Equal(t, generic.UnitUSD, inSats.Unit)
	assert.True(t, decimal.NewFromInt(1900).Equal(inBTC.Value), "got %s", inBTC.Value)
	assert.True(t, decimal.NewFromInt(1900).Equal(inSats.Value), "got %s", inSats.Value)
}

func TestVestingBalance_Split(t *testing.T) {
	b := generic.VestingBalance{Granted: btc(0.02), Bonus: btc(0.001), VestedPercent: decimal.NewFromInt(50)}

	assertBTC(t, "0.021", b.Total())
	assertBTC(t, "0.011", b.Vested())
	assertBTC(t, "0.01", b.Unvested())
	assert.False(t, b.IsFullyVested())
}
