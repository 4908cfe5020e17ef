/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - Decimal amounts exposed as plain JSON numbers
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Schemes:
    SchemeDTO (wraps factory.SchemeJSON), PresetDTO

  Projection:
    MarketDTO, ProjectionRequest, ProjectionResponse,
    TimelinePointDTO, GrantEventDTO, SummaryDTO

  Analysis:
    AnalysisRequest, AnalysisResponse and its row types

VALIDATION:
  Validation is done in handlers and the engine, not in DTOs. DTOs are pure
  data carriers.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/scheme.go: SchemeJSON type
*/
package api

import (
	"github.com/shopspring/decimal"

	"github.com/warp/vesting-engine/analysis"
	"github.com/warp/vesting-engine/factory"
	"github.com/warp/vesting-engine/generic"
)

// =============================================================================
// SCHEMES
// =============================================================================

// SchemeDTO represents a catalogue entry in API responses.
type SchemeDTO struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	Preset    bool               `json:"preset"`
	Version   int                `json:"version"`
	Config    factory.SchemeJSON `json:"config"`
	CreatedAt string             `json:"created_at,omitempty"`
	UpdatedAt string             `json:"updated_at,omitempty"`
}

// PresetDTO represents a built-in scheme.
type PresetDTO struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Config      factory.SchemeJSON `json:"config"`
}

// =============================================================================
// PROJECTION
// =============================================================================

// MarketDTO carries market assumptions. Omitted fields use server defaults.
type MarketDTO struct {
	CurrentPriceUSD     *float64 `json:"current_price_usd,omitempty"`
	AnnualGrowthPercent *float64 `json:"annual_growth_percent,omitempty"`
}

// ProjectionRequest is the body of POST /api/projections.
type ProjectionRequest struct {
	Scheme factory.SchemeJSON `json:"scheme"`
	Market *MarketDTO         `json:"market,omitempty"`
}

// MarketValuesDTO echoes the assumptions a projection used.
type MarketValuesDTO struct {
	CurrentPriceUSD     float64 `json:"current_price_usd"`
	AnnualGrowthPercent float64 `json:"annual_growth_percent"`
}

// TimelinePointDTO is one month of a projection.
type TimelinePointDTO struct {
	Month           int     `json:"month"`
	Date            string  `json:"date,omitempty"`
	EmployerBalance float64 `json:"employer_balance"`
	VestedAmount    float64 `json:"vested_amount"`
	GrantedAmount   float64 `json:"granted_amount"`
	BonusAmount     float64 `json:"bonus_amount"`
	VestedPercent   float64 `json:"vested_percent"`
	PriceUSD        float64 `json:"price_usd"`
	USDValue        float64 `json:"usd_value"`
}

// GrantEventDTO is one credited grant.
type GrantEventDTO struct {
	Month  int     `json:"month"`
	Amount float64 `json:"amount"`
	Type   string  `json:"type"`
	Reason string  `json:"reason,omitempty"`
}

// SummaryDTO aggregates a projection.
type SummaryDTO struct {
	TotalGranted               float64 `json:"total_granted"`
	TotalCostUSD               float64 `json:"total_cost_usd"`
	AverageVestingPeriodMonths float64 `json:"average_vesting_period_months"`
	FinalBalance               float64 `json:"final_balance"`
	FinalVested                float64 `json:"final_vested"`
	FinalUSDValue              float64 `json:"final_usd_value"`
}

// ProjectionResponse is a computed projection. ID identifies the response
// only; projections are not stored.
type ProjectionResponse struct {
	ID          string             `json:"id"`
	SchemeID    string             `json:"scheme_id"`
	Unit        string             `json:"unit"`
	Horizon     int                `json:"horizon"`
	Granularity string             `json:"granularity"`
	Market      MarketValuesDTO    `json:"market"`
	Timeline    []TimelinePointDTO `json:"timeline"`
	Grants      []GrantEventDTO    `json:"grants"`
	Summary     SummaryDTO         `json:"summary"`
	ComputedAt  string             `json:"computed_at"`
}

// =============================================================================
// ANALYSIS
// =============================================================================

// AnalysisRequest is the body of POST /api/schemes/{id}/analysis.
type AnalysisRequest struct {
	Market         *MarketDTO `json:"market,omitempty"`
	TaxRatePercent float64    `json:"tax_rate_percent,omitempty"`
	GrowthRates    []float64  `json:"growth_rates,omitempty"`
}

// YearRowDTO is one row of the yearly breakdown.
type YearRowDTO struct {
	Year            int     `json:"year"`
	Month           int     `json:"month"`
	Date            string  `json:"date,omitempty"`
	EmployerBalance float64 `json:"employer_balance"`
	VestedAmount    float64 `json:"vested_amount"`
	VestedPercent   float64 `json:"vested_percent"`
	GrantedDelta    float64 `json:"granted_delta"`
	VestedDelta     float64 `json:"vested_delta"`
	PriceUSD        float64 `json:"price_usd"`
	USDValue        float64 `json:"usd_value"`
}

// RetentionDTO is the forfeitable value at one anniversary.
type RetentionDTO struct {
	Year        int     `json:"year"`
	Month       int     `json:"month"`
	Unvested    float64 `json:"unvested"`
	UnvestedUSD float64 `json:"unvested_usd"`
	VestedUSD   float64 `json:"vested_usd"`
}

// TaxRowDTO is the tax estimate for one year.
type TaxRowDTO struct {
	Year        int     `json:"year"`
	StartMonth  int     `json:"start_month"`
	EndMonth    int     `json:"end_month"`
	NewlyVested float64 `json:"newly_vested"`
	IncomeUSD   float64 `json:"income_usd"`
	TaxUSD      float64 `json:"tax_usd"`
}

// TaxDTO is the full tax estimate.
type TaxDTO struct {
	RatePercent float64     `json:"rate_percent"`
	Rows        []TaxRowDTO `json:"rows"`
	TotalIncome float64     `json:"total_income_usd"`
	TotalTax    float64     `json:"total_tax_usd"`
}

// ScenarioDTO is one growth assumption of the sensitivity sweep.
type ScenarioDTO struct {
	GrowthPercent  float64 `json:"growth_percent"`
	FinalPriceUSD  float64 `json:"final_price_usd"`
	FinalUSDValue  float64 `json:"final_usd_value"`
	FinalVestedUSD float64 `json:"final_vested_usd"`
}

// SensitivityDTO summarises the sweep.
type SensitivityDTO struct {
	Scenarios []ScenarioDTO `json:"scenarios"`
	Mean      float64       `json:"mean"`
	Median    float64       `json:"median"`
	StdDev    float64       `json:"stddev"`
	P10       float64       `json:"p10"`
	P90       float64       `json:"p90"`
}

// AnalysisResponse bundles every report for one scheme and market.
type AnalysisResponse struct {
	SchemeID    string          `json:"scheme_id"`
	Market      MarketValuesDTO `json:"market"`
	Yearly      []YearRowDTO    `json:"yearly"`
	Retention   []RetentionDTO  `json:"retention"`
	Tax         TaxDTO          `json:"tax"`
	Sensitivity SensitivityDTO  `json:"sensitivity"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details any    `json:"details,omitempty"`
}

// FieldIssueDTO is one validation problem.
type FieldIssueDTO struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// =============================================================================
// CONVERSIONS
// =============================================================================

func toMarketValuesDTO(m generic.MarketAssumptions) MarketValuesDTO {
	return MarketValuesDTO{
		CurrentPriceUSD:     m.CurrentPriceUSD.Float64(),
		AnnualGrowthPercent: m.AnnualGrowthPercent.InexactFloat64(),
	}
}

func toTimelinePointDTO(p generic.TimelinePoint) TimelinePointDTO {
	dto := TimelinePointDTO{
		Month:           int(p.Month),
		EmployerBalance: p.EmployerBalance.Float64(),
		VestedAmount:    p.VestedAmount.Float64(),
		GrantedAmount:   p.GrantedAmount.Float64(),
		BonusAmount:     p.BonusAmount.Float64(),
		VestedPercent:   p.VestedPercent.InexactFloat64(),
		PriceUSD:        p.PriceUSD.Float64(),
		USDValue:        p.USDValue.Float64(),
	}
	if p.Date != nil {
		dto.Date = p.Date.String()
	}
	return dto
}

func toSummaryDTO(s generic.Summary) SummaryDTO {
	return SummaryDTO{
		TotalGranted:               s.TotalGranted.Float64(),
		TotalCostUSD:               s.TotalCostUSD.Float64(),
		AverageVestingPeriodMonths: s.AverageVestingPeriodMonths.InexactFloat64(),
		FinalBalance:               s.FinalBalance.Float64(),
		FinalVested:                s.FinalVested.Float64(),
		FinalUSDValue:              s.FinalUSDValue.Float64(),
	}
}

func toGrantEventDTOs(events []generic.GrantEvent) []GrantEventDTO {
	dtos := make([]GrantEventDTO, len(events))
	for i, e := range events {
		dtos[i] = GrantEventDTO{
			Month:  int(e.Month),
			Amount: e.Amount.Float64(),
			Type:   string(e.Type),
			Reason: e.Reason,
		}
	}
	return dtos
}

func toYearRowDTOs(rows []analysis.YearRow) []YearRowDTO {
	dtos := make([]YearRowDTO, len(rows))
	for i, r := range rows {
		dtos[i] = YearRowDTO{
			Year:            r.Year,
			Month:           int(r.Month),
			EmployerBalance: r.EmployerBalance.Float64(),
			VestedAmount:    r.VestedAmount.Float64(),
			VestedPercent:   r.VestedPercent.Float64(),
			GrantedDelta:    r.GrantedDelta.Float64(),
			VestedDelta:     r.VestedDelta.Float64(),
			PriceUSD:        r.PriceUSD.Float64(),
			USDValue:        r.USDValue.Float64(),
		}
		if r.Date != nil {
			dtos[i].Date = r.Date.String()
		}
	}
	return dtos
}

func toRetentionDTOs(points []analysis.RetentionPoint) []RetentionDTO {
	dtos := make([]RetentionDTO, len(points))
	for i, p := range points {
		dtos[i] = RetentionDTO{
			Year:        p.Year,
			Month:       int(p.Month),
			Unvested:    p.Unvested.Float64(),
			UnvestedUSD: p.UnvestedUSD.Float64(),
			VestedUSD:   p.VestedUSD.Float64(),
		}
	}
	return dtos
}

func toTaxDTO(report *analysis.TaxReport) TaxDTO {
	dto := TaxDTO{
		RatePercent: report.RatePercent.InexactFloat64(),
		Rows:        make([]TaxRowDTO, len(report.Rows)),
		TotalIncome: report.TotalIncome.Float64(),
		TotalTax:    report.TotalTax.Float64(),
	}
	for i, r := range report.Rows {
		dto.Rows[i] = TaxRowDTO{
			Year:        r.Year,
			StartMonth:  int(r.Period.Start),
			EndMonth:    int(r.Period.End),
			NewlyVested: r.NewlyVested.Float64(),
			IncomeUSD:   r.IncomeUSD.Float64(),
			TaxUSD:      r.TaxUSD.Float64(),
		}
	}
	return dto
}

func toSensitivityDTO(report *analysis.SensitivityReport) SensitivityDTO {
	dto := SensitivityDTO{
		Scenarios: make([]ScenarioDTO, len(report.Scenarios)),
		Mean:      report.Mean,
		Median:    report.Median,
		StdDev:    report.StdDev,
		P10:       report.P10,
		P90:       report.P90,
	}
	for i, s := range report.Scenarios {
		dto.Scenarios[i] = ScenarioDTO{
			GrowthPercent:  s.GrowthPercent.InexactFloat64(),
			FinalPriceUSD:  s.FinalPriceUSD.Float64(),
			FinalUSDValue:  s.FinalUSDValue.Float64(),
			FinalVestedUSD: s.FinalVestedUSD.Float64(),
		}
	}
	return dto
}

func toDecimals(values []float64) []decimal.Decimal {
	out := make([]decimal.Decimal, len(values))
	for i, v := range values {
		out[i] = decimal.NewFromFloat(v)
	}
	return out
}
