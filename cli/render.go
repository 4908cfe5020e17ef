/*
render.go - Terminal rendering for CLI output

PURPOSE:
  Turns projections and analysis reports into bordered tables. Numbers are
  formatted with go-humanize, tables with lipgloss/table.

FORMATTING:
  BTC amounts:  8 decimal places       0.02000000 BTC
  Sats amounts: comma separated        2,000,000 sats
  USD amounts:  comma separated, cents $1,900.5
  Percentages:  one decimal place      50.0%
*/
package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"

	"github.com/warp/vesting-engine/analysis"
	"github.com/warp/vesting-engine/bitcoin"
	"github.com/warp/vesting-engine/generic"
)

var (
	colorBorder = lipgloss.Color("#575653")
	colorAccent = lipgloss.Color("#3AA99F")
	colorText   = lipgloss.Color("#FFFCF0")
	colorMuted  = lipgloss.Color("#6F6E69")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Padding(0, 1)

	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	labelStyle  = lipgloss.NewStyle().Foreground(colorMuted)
)

// =============================================================================
// FORMATTERS
// =============================================================================

// formatAmount renders a BTC or sats amount with its unit.
func formatAmount(a generic.Amount) string {
	if a.Unit == bitcoin.UnitSats {
		return formatSats(a)
	}
	return a.Value.StringFixed(8) + " BTC"
}

func formatSats(a generic.Amount) string {
	return humanize.Comma(a.ToSats().Value.IntPart()) + " sats"
}

func formatUSD(a generic.Amount) string {
	return "$" + humanize.CommafWithDigits(a.Value.Round(2).InexactFloat64(), 2)
}

func formatUSDFloat(v float64) string {
	return "$" + humanize.CommafWithDigits(v, 2)
}

func formatPercent(a generic.Amount) string {
	return a.Value.StringFixed(1) + "%"
}

// =============================================================================
// TABLES
// =============================================================================

func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

func renderTitle(title string) string {
	return titleStyle.Render(title)
}

func renderKV(pairs [][2]string) string {
	var b strings.Builder
	for _, p := range pairs {
		fmt.Fprintf(&b, "  %s %s\n", labelStyle.Render(fmt.Sprintf("%-24s", p[0])), p[1])
	}
	return b.String()
}

// renderProjection renders the summary block and the yearly table.
func renderProjection(name string, p *generic.Projection) string {
	var b strings.Builder

	b.WriteString(renderTitle(fmt.Sprintf("%s  %d months", name, p.Horizon)))
	b.WriteString("\n\n")
	b.WriteString(renderKV([][2]string{
		{"BTC price today", formatUSD(p.Market.CurrentPriceUSD)},
		{"Annual growth", p.Market.AnnualGrowthPercent.StringFixed(1) + "%"},
		{"Total granted", formatAmount(p.Summary.TotalGranted)},
		{"Total granted (sats)", formatSats(p.Summary.TotalGranted)},
		{"Cost at today's price", formatUSD(p.Summary.TotalCostUSD)},
		{"Avg vesting period", p.Summary.AverageVestingPeriodMonths.StringFixed(1) + " months"},
		{"Final value", formatUSD(p.Summary.FinalUSDValue)},
	}))
	b.WriteString("\n")

	rows := analysis.Yearly(p)
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			fmt.Sprintf("%d", r.Year),
			fmt.Sprintf("%d", r.Month),
			formatAmount(r.EmployerBalance),
			formatAmount(r.VestedAmount),
			formatPercent(r.VestedPercent),
			formatUSD(r.PriceUSD),
			formatUSD(r.USDValue),
		})
	}
	b.WriteString(renderTable(
		[]string{"Year", "Month", "Balance", "Vested", "Vested %", "BTC Price", "Value"},
		cells,
	))
	b.WriteString("\n")
	return b.String()
}

func renderTax(report *analysis.TaxReport) string {
	cells := make([][]string, 0, len(report.Rows)+1)
	for _, r := range report.Rows {
		cells = append(cells, []string{
			fmt.Sprintf("%d", r.Year+1),
			fmt.Sprintf("%d-%d", r.Period.Start, r.Period.End),
			formatAmount(r.NewlyVested),
			formatUSD(r.IncomeUSD),
			formatUSD(r.TaxUSD),
		})
	}
	cells = append(cells, []string{"Total", "", "", formatUSD(report.TotalIncome), formatUSD(report.TotalTax)})

	return fmt.Sprintf("\n  Tax at %s%%\n", report.RatePercent.StringFixed(1)) +
		renderTable([]string{"Year", "Months", "Newly Vested", "Income", "Tax"}, cells) + "\n"
}

func renderSensitivity(report *analysis.SensitivityReport) string {
	cells := make([][]string, 0, len(report.Scenarios))
	for _, s := range report.Scenarios {
		cells = append(cells, []string{
			s.GrowthPercent.StringFixed(1) + "%",
			formatUSD(s.FinalPriceUSD),
			formatUSD(s.FinalUSDValue),
			formatUSD(s.FinalVestedUSD),
		})
	}

	var b strings.Builder
	b.WriteString("\n  Growth sensitivity\n")
	b.WriteString(renderTable([]string{"Growth", "Final Price", "Final Value", "Vested Value"}, cells))
	b.WriteString("\n")
	b.WriteString(renderKV([][2]string{
		{"Mean", formatUSDFloat(report.Mean)},
		{"Median", formatUSDFloat(report.Median)},
		{"P10 / P90", formatUSDFloat(report.P10) + " / " + formatUSDFloat(report.P90)},
	}))
	return b.String()
}

func renderPresets(presets []generic.Scheme) string {
	cells := make([][]string, 0, len(presets))
	for _, p := range presets {
		years := "-"
		if p.HasAnnualGrant() {
			years = fmt.Sprintf("%d", p.MaxAnnualGrantYears)
		}
		cells = append(cells, []string{
			string(p.ID),
			p.Name,
			formatAmount(p.InitialGrant),
			formatAmount(p.AnnualGrant),
			years,
		})
	}
	return renderTable([]string{"ID", "Name", "Initial", "Annual", "Years"}, cells) + "\n"
}
