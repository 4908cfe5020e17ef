/*
calculate.go - Terminal projection command

USAGE:
  vesting calculate builder
  vesting calculate --file ./scheme.toml --price 120000 --growth 10
  vesting calculate front-loaded --tax 30 --sensitivity
  vesting calculate slow-accumulation --json

SCHEME SOURCE:
  Either a preset id argument or --file. Files ending in .toml are decoded
  as TOML, anything else as JSON. Both use the factory's field names.
*/
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/warp/vesting-engine/analysis"
	"github.com/warp/vesting-engine/bitcoin"
	"github.com/warp/vesting-engine/factory"
	"github.com/warp/vesting-engine/generic"
)

type calculateOptions struct {
	file        string
	asJSON      bool
	taxRate     float64
	sensitivity bool
}

func newCalculateCmd(a *app) *cobra.Command {
	var opts calculateOptions

	cmd := &cobra.Command{
		Use:   "calculate [preset]",
		Short: "Project a vesting scheme",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.calculate(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.file, "file", "f", "", "Scheme definition file (.json or .toml)")
	flags.Float64("price", 95000, "Current BTC price in USD")
	flags.Float64("growth", 15, "Expected annual BTC price growth in percent")
	flags.BoolVar(&opts.asJSON, "json", false, "Print JSON instead of tables")
	flags.Float64Var(&opts.taxRate, "tax", 0, "Flat income tax rate in percent for a tax estimate")
	flags.BoolVar(&opts.sensitivity, "sensitivity", false, "Add a growth-rate sensitivity table")
	_ = a.v.BindPFlag("market.price_usd", flags.Lookup("price"))
	_ = a.v.BindPFlag("market.growth_percent", flags.Lookup("growth"))
	return cmd
}

func (a *app) calculate(cmd *cobra.Command, args []string, opts calculateOptions) error {
	ctx := cmd.Context()

	scheme, err := loadScheme(args, opts.file)
	if err != nil {
		return err
	}
	market := marketFromConfig(a.cfg.Market)

	engine := generic.NewProjectionEngine()
	projection, err := engine.Calculate(ctx, scheme, market)
	if err != nil {
		return err
	}
	a.log.Debug("projection computed",
		zap.String("scheme_id", string(scheme.ID)),
		zap.Int("horizon", int(projection.Horizon)),
	)

	var tax *analysis.TaxReport
	if opts.taxRate != 0 {
		if tax, err = analysis.Tax(projection, decimal.NewFromFloat(opts.taxRate)); err != nil {
			return err
		}
	}
	var sens *analysis.SensitivityReport
	if opts.sensitivity {
		if sens, err = analysis.Sensitivity(ctx, engine, scheme, market, nil); err != nil {
			return err
		}
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		return writeReport(out, scheme, projection, tax, sens)
	}

	name := scheme.Name
	if name == "" {
		name = string(scheme.ID)
	}
	fmt.Fprintln(out, renderProjection(name, projection))
	if tax != nil {
		fmt.Fprint(out, renderTax(tax))
	}
	if sens != nil {
		fmt.Fprint(out, renderSensitivity(sens))
	}
	return nil
}

// loadScheme resolves the scheme from a preset id or a definition file.
func loadScheme(args []string, file string) (generic.Scheme, error) {
	switch {
	case file != "" && len(args) > 0:
		return generic.Scheme{}, fmt.Errorf("pass either a preset id or --file, not both")

	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return generic.Scheme{}, fmt.Errorf("failed to read scheme file: %w", err)
		}
		f := factory.NewSchemeFactory()
		var scheme generic.Scheme
		if strings.EqualFold(filepath.Ext(file), ".toml") {
			scheme, err = f.ParseSchemeTOML(string(data))
		} else {
			scheme, err = f.ParseScheme(string(data))
		}
		if err != nil {
			return generic.Scheme{}, err
		}
		if scheme.ID == "" {
			scheme.ID = generic.SchemeID(strings.TrimSuffix(filepath.Base(file), filepath.Ext(file)))
		}
		return scheme, nil

	case len(args) == 1:
		scheme, ok := bitcoin.Preset(generic.SchemeID(args[0]))
		if !ok {
			return generic.Scheme{}, fmt.Errorf("unknown preset %q (available: %s)", args[0], presetIDs())
		}
		return scheme, nil

	default:
		return generic.Scheme{}, fmt.Errorf("a preset id or --file is required (presets: %s)", presetIDs())
	}
}

func presetIDs() string {
	presets := bitcoin.Presets()
	ids := make([]string, len(presets))
	for i, p := range presets {
		ids[i] = string(p.ID)
	}
	return strings.Join(ids, ", ")
}

// =============================================================================
// JSON OUTPUT
// =============================================================================

type reportYear struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	EmployerBalance float64 `json:"employer_balance"`
	VestedAmount    float64 `json:"vested_amount"`
	VestedPercent   float64 `json:"vested_percent"`
	PriceUSD        float64 `json:"price_usd"`
	USDValue        float64 `json:"usd_value"`
}

type reportScenario struct {
	GrowthPercent float64 `json:"growth_percent"`
	FinalUSDValue float64 `json:"final_usd_value"`
}

type report struct {
	SchemeID                   string           `json:"scheme_id"`
	Unit                       string           `json:"unit"`
	Horizon                    int              `json:"horizon"`
	TotalGranted               float64          `json:"total_granted"`
	TotalCostUSD               float64          `json:"total_cost_usd"`
	AverageVestingPeriodMonths float64          `json:"average_vesting_period_months"`
	FinalUSDValue              float64          `json:"final_usd_value"`
	Yearly                     []reportYear     `json:"yearly"`
	TotalTaxUSD                *float64         `json:"total_tax_usd,omitempty"`
	Sensitivity                []reportScenario `json:"sensitivity,omitempty"`
}

func writeReport(w io.Writer, scheme generic.Scheme, p *generic.Projection, tax *analysis.TaxReport, sens *analysis.SensitivityReport) error {
	r := report{
		SchemeID:                   string(scheme.ID),
		Unit:                       string(p.Unit),
		Horizon:                    int(p.Horizon),
		TotalGranted:               p.Summary.TotalGranted.Float64(),
		TotalCostUSD:               p.Summary.TotalCostUSD.Float64(),
		AverageVestingPeriodMonths: p.Summary.AverageVestingPeriodMonths.InexactFloat64(),
		FinalUSDValue:              p.Summary.FinalUSDValue.Float64(),
	}
	for _, y := range analysis.Yearly(p) {
		r.Yearly = append(r.Yearly, reportYear{
			Year:            y.Year,
			Month:           int(y.Month),
			EmployerBalance: y.EmployerBalance.Float64(),
			VestedAmount:    y.VestedAmount.Float64(),
			VestedPercent:   y.VestedPercent.Float64(),
			PriceUSD:        y.PriceUSD.Float64(),
			USDValue:        y.USDValue.Float64(),
		})
	}
	if tax != nil {
		total := tax.TotalTax.Float64()
		r.TotalTaxUSD = &total
	}
	if sens != nil {
		for _, s := range sens.Scenarios {
			r.Sensitivity = append(r.Sensitivity, reportScenario{
				GrowthPercent: s.GrowthPercent.InexactFloat64(),
				FinalUSDValue: s.FinalUSDValue.Float64(),
			})
		}
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
