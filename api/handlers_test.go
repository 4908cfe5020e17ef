/*
handlers_test.go - HTTP tests for the API

Tests for:
- Preset seeding and listing
- Scheme catalogue CRUD
- Projection by id and inline, yearly granularity
- Error mapping (400, 404, 409, 422)
- Analysis reports
*/
package api_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/warp/vesting-engine/api"
	"github.com/warp/vesting-engine/config"
	"github.com/warp/vesting-engine/generic"
	"github.com/warp/vesting-engine/generic/store"
	"github.com/warp/vesting-engine/logger"
	"github.com/warp/vesting-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func defaultMarket() generic.MarketAssumptions {
	return generic.MarketAssumptions{
		CurrentPriceUSD:     generic.NewAmount(95000, generic.UnitUSD),
		AnnualGrowthPercent: decimal.NewFromInt(15),
	}
}

func newTestServer(t *testing.T, schemes generic.SchemeStore) http.Handler {
	t.Helper()
	h := api.NewHandler(schemes, logger.Nop(), defaultMarket())
	require.NoError(t, h.SeedPresets(context.Background()))
	return api.NewRouter(h, api.RouterOptions{})
}

func newSQLiteServer(t *testing.T) http.Handler {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return newTestServer(t, s)
}

func do(t *testing.T, srv http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

const customScheme = `{
	"id": "custom",
	"name": "Custom",
	"initial_grant": 0.01,
	"annual_grant": 0.001,
	"max_annual_grant_years": 2,
	"vesting_schedule": [
		{"month": 0, "percent": 0},
		{"month": 24, "percent": 50},
		{"month": 48, "percent": 100}
	]
}`

// =============================================================================
// HEALTH / PRESETS
// =============================================================================

func TestHealth(t *testing.T) {
	rec := do(t, newSQLiteServer(t), http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
}

func TestRouter_DefaultCORSMatchesConfig(t *testing.T) {
	srv := newTestServer(t, store.NewMemory())

	for _, origin := range config.DefaultAllowedOrigins() {
		req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		srv.ServeHTTP(rec, req)

		assert.Equal(t, origin, rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestListPresets(t *testing.T) {
	rec := do(t, newSQLiteServer(t), http.MethodGet, "/api/presets", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	presets := decode[[]api.PresetDTO](t, rec)
	require.Len(t, presets, 3)
	assert.Equal(t, "front-loaded", presets[0].ID)
	require.NotNil(t, presets[1].Config.MaxAnnualGrantYears)
	assert.Equal(t, 5, *presets[1].Config.MaxAnnualGrantYears)
}

func TestSeedPresets_Idempotent(t *testing.T) {
	mem := store.NewMemory()
	h := api.NewHandler(mem, logger.Nop(), defaultMarket())

	require.NoError(t, h.SeedPresets(context.Background()))
	require.NoError(t, h.SeedPresets(context.Background()))

	recs, err := mem.List(context.Background())
	require.NoError(t, err)
	assert.Len(t, recs, 3)
	assert.Equal(t, 1, recs[0].Version)
	assert.True(t, recs[0].Preset)
}

// =============================================================================
// SCHEME CATALOGUE
// =============================================================================

func TestSchemes_CRUD(t *testing.T) {
	srv := newSQLiteServer(t)

	// Create
	rec := do(t, srv, http.MethodPost, "/api/schemes", customScheme)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[api.SchemeDTO](t, rec)
	assert.Equal(t, "custom", created.ID)
	assert.Equal(t, 1, created.Version)
	assert.False(t, created.Preset)

	// List includes presets
	rec = do(t, srv, http.MethodGet, "/api/schemes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]api.SchemeDTO](t, rec), 4)

	// Replace bumps the version
	rec = do(t, srv, http.MethodPut, "/api/schemes/custom", customScheme)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 2, decode[api.SchemeDTO](t, rec).Version)

	// Get
	rec = do(t, srv, http.MethodGet, "/api/schemes/custom", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0.01, decode[api.SchemeDTO](t, rec).Config.InitialGrant)

	// Delete
	rec = do(t, srv, http.MethodDelete, "/api/schemes/custom", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, srv, http.MethodGet, "/api/schemes/custom", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateScheme_Duplicate(t *testing.T) {
	srv := newSQLiteServer(t)

	require.Equal(t, http.StatusCreated, do(t, srv, http.MethodPost, "/api/schemes", customScheme).Code)

	rec := do(t, srv, http.MethodPost, "/api/schemes", customScheme)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, api.CodeSchemeExists, decode[api.ErrorResponse](t, rec).Code)
}

func TestCreateScheme_Malformed(t *testing.T) {
	rec := do(t, newSQLiteServer(t), http.MethodPost, "/api/schemes", `{"id": `)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, api.CodeMalformedRequest, decode[api.ErrorResponse](t, rec).Code)
}

func TestCreateScheme_Invalid_ReportsFields(t *testing.T) {
	rec := do(t, newSQLiteServer(t), http.MethodPost, "/api/schemes", `{
		"id": "bad",
		"initial_grant": -1,
		"vesting_schedule": []
	}`)

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp struct {
		Code    string              `json:"code"`
		Details []api.FieldIssueDTO `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, api.CodeInvalidScheme, resp.Code)

	codes := map[string]bool{}
	for _, d := range resp.Details {
		codes[d.Code] = true
	}
	assert.True(t, codes[generic.CodeNegative])
	assert.True(t, codes[generic.CodeEmpty])
}

func TestCreateScheme_MissingID(t *testing.T) {
	rec := do(t, newSQLiteServer(t), http.MethodPost, "/api/schemes", `{"initial_grant": 0.01}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

// =============================================================================
// PROJECTIONS
// =============================================================================

func TestProjectScheme_Preset(t *testing.T) {
	rec := do(t, newSQLiteServer(t), http.MethodPost, "/api/schemes/builder/projection", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[api.ProjectionResponse](t, rec)
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, "builder", resp.SchemeID)
	assert.Equal(t, "monthly", resp.Granularity)
	require.Len(t, resp.Timeline, 121)
	assert.InDelta(t, 0.02, resp.Timeline[60].EmployerBalance, 1e-12)
	assert.InDelta(t, 0.01, resp.Timeline[60].VestedAmount, 1e-12)
	assert.InDelta(t, 0.02*95000, resp.Summary.TotalCostUSD, 1e-6)
	assert.InDelta(t, 100, resp.Summary.AverageVestingPeriodMonths, 1e-9)
	assert.Len(t, resp.Grants, 6)
}

func TestProjectScheme_MarketOverride_Yearly(t *testing.T) {
	rec := do(t, newSQLiteServer(t), http.MethodPost, "/api/schemes/front-loaded/projection?granularity=yearly",
		`{"current_price_usd": 100000, "annual_growth_percent": 0}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[api.ProjectionResponse](t, rec)
	assert.Equal(t, "yearly", resp.Granularity)
	require.Len(t, resp.Timeline, 11)
	assert.Equal(t, 120, resp.Timeline[10].Month)
	assert.InDelta(t, 2000, resp.Timeline[10].USDValue, 1e-6)
	assert.Equal(t, 0.0, resp.Market.AnnualGrowthPercent)
}

func TestProjectScheme_NotFound(t *testing.T) {
	rec := do(t, newSQLiteServer(t), http.MethodPost, "/api/schemes/nope/projection", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, api.CodeSchemeNotFound, decode[api.ErrorResponse](t, rec).Code)
}

func TestProjectScheme_InvalidMarket(t *testing.T) {
	rec := do(t, newSQLiteServer(t), http.MethodPost, "/api/schemes/builder/projection", `{"current_price_usd": 0}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, api.CodeInvalidMarket, decode[api.ErrorResponse](t, rec).Code)
}

func TestProject_Inline(t *testing.T) {
	body := `{"scheme": ` + customScheme + `, "market": {"annual_growth_percent": 10}}`

	rec := do(t, newTestServer(t, store.NewMemory()), http.MethodPost, "/api/projections", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[api.ProjectionResponse](t, rec)
	assert.Equal(t, 48, resp.Horizon)
	assert.InDelta(t, 0.012, resp.Summary.TotalGranted, 1e-12)
	assert.InDelta(t, 95000, resp.Market.CurrentPriceUSD, 1e-9)
}

func TestProject_Inline_EmptySchedule(t *testing.T) {
	body := `{"scheme": {"id": "x", "initial_grant": 0.01, "vesting_schedule": []}}`

	rec := do(t, newTestServer(t, store.NewMemory()), http.MethodPost, "/api/projections", body)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, api.CodeInvalidScheme, decode[api.ErrorResponse](t, rec).Code)
}

func TestProject_Inline_ExtremeGrowth_InvalidMarket(t *testing.T) {
	// GIVEN a 100-year schedule and 100000% growth
	body := `{"scheme": {"id": "x", "initial_grant": 0.02, "vesting_schedule": [
		{"month": 0, "percent": 0}, {"month": 1200, "percent": 100}]},
		"market": {"current_price_usd": 95000, "annual_growth_percent": 100000}}`

	// WHEN projected
	rec := do(t, newTestServer(t, store.NewMemory()), http.MethodPost, "/api/projections", body)

	// THEN the market is rejected with field details
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
	resp := decode[api.ErrorResponse](t, rec)
	assert.Equal(t, api.CodeInvalidMarket, resp.Code)
	assert.Contains(t, rec.Body.String(), "annual_growth_percent")
}

func TestProject_Inline_SatsScheme(t *testing.T) {
	body := `{"scheme": {"id": "sats", "unit": "sats", "initial_grant": 2000000, "vesting_schedule": [
		{"month": 0, "percent": 0}, {"month": 60, "percent": 50}, {"month": 120, "percent": 100}]},
		"market": {"current_price_usd": 95000, "annual_growth_percent": 0}}`

	rec := do(t, newTestServer(t, store.NewMemory()), http.MethodPost, "/api/projections", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[api.ProjectionResponse](t, rec)
	assert.InDelta(t, 1900, resp.Summary.TotalCostUSD, 1e-6)
}

// =============================================================================
// ANALYSIS
// =============================================================================

func TestAnalyze(t *testing.T) {
	body := `{"market": {"current_price_usd": 100000, "annual_growth_percent": 0},
		"tax_rate_percent": 30, "growth_rates": [0, 10, 20]}`

	rec := do(t, newSQLiteServer(t), http.MethodPost, "/api/schemes/front-loaded/analysis", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	resp := decode[api.AnalysisResponse](t, rec)
	assert.Len(t, resp.Yearly, 11)
	assert.Len(t, resp.Retention, 10)
	assert.InDelta(t, 600, resp.Tax.TotalTax, 1e-6)
	assert.Len(t, resp.Sensitivity.Scenarios, 3)
	assert.InDelta(t, 2000, resp.Sensitivity.Scenarios[0].FinalUSDValue, 1e-6)
}

func TestAnalyze_InvalidTaxRate(t *testing.T) {
	rec := do(t, newSQLiteServer(t), http.MethodPost, "/api/schemes/front-loaded/analysis", `{"tax_rate_percent": 150}`)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, api.CodeInvalidTaxRate, decode[api.ErrorResponse](t, rec).Code)
}
