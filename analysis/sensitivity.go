package analysis

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/montanaflynn/stats"
	"github.com/shopspring/decimal"
	"github.com/warp/vesting-engine/generic"
)

// DefaultGrowthRates is the sweep used when the caller supplies none.
var DefaultGrowthRates = []decimal.Decimal{
	decimal.NewFromInt(-10),
	decimal.NewFromInt(0),
	decimal.NewFromInt(10),
	decimal.NewFromInt(20),
	decimal.NewFromInt(30),
	decimal.NewFromInt(50),
}

// Scenario is the outcome of one growth assumption.
type Scenario struct {
	GrowthPercent  decimal.Decimal
	FinalPriceUSD  generic.Amount
	FinalUSDValue  generic.Amount
	FinalVestedUSD generic.Amount
}

// SensitivityReport summarises the final USD value across scenarios.
type SensitivityReport struct {
	Scenarios []Scenario // ordered by growth rate

	Mean   float64
	Median float64
	StdDev float64
	P10    float64
	P90    float64
}

// Sensitivity projects scheme once per growth rate, concurrently, keeping
// the market's current price.
func Sensitivity(ctx context.Context, engine *generic.ProjectionEngine, scheme generic.Scheme, market generic.MarketAssumptions, growthRates []decimal.Decimal) (*SensitivityReport, error) {
	if len(growthRates) == 0 {
		growthRates = DefaultGrowthRates
	}

	scenarios := make([]Scenario, len(growthRates))
	errs := make([]error, len(growthRates))

	var wg sync.WaitGroup
	for i, rate := range growthRates {
		wg.Add(1)
		go func(i int, rate decimal.Decimal) {
			defer wg.Done()

			m := market
			m.AnnualGrowthPercent = rate
			p, err := engine.Calculate(ctx, scheme, m)
			if err != nil {
				errs[i] = fmt.Errorf("growth %s%%: %w", rate, err)
				return
			}
			final := p.Final()
			scenarios[i] = Scenario{
				GrowthPercent:  rate,
				FinalPriceUSD:  final.PriceUSD,
				FinalUSDValue:  final.USDValue,
				FinalVestedUSD: final.VestedUSD(),
			}
		}(i, rate)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	sort.SliceStable(scenarios, func(i, j int) bool {
		return scenarios[i].GrowthPercent.LessThan(scenarios[j].GrowthPercent)
	})

	values := make(stats.Float64Data, len(scenarios))
	for i, s := range scenarios {
		values[i] = s.FinalUSDValue.Float64()
	}

	report := &SensitivityReport{Scenarios: scenarios}
	var err error
	if report.Mean, err = values.Mean(); err != nil {
		return nil, fmt.Errorf("mean: %w", err)
	}
	if report.Median, err = values.Median(); err != nil {
		return nil, fmt.Errorf("median: %w", err)
	}
	if report.StdDev, err = values.StandardDeviation(); err != nil {
		return nil, fmt.Errorf("stddev: %w", err)
	}
	if report.P10, err = values.Percentile(10); err != nil {
		return nil, fmt.Errorf("p10: %w", err)
	}
	if report.P90, err = values.Percentile(90); err != nil {
		return nil, fmt.Errorf("p90: %w", err)
	}
	return report, nil
}
