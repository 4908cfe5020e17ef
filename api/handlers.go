/*
handlers.go - HTTP API handlers for the vesting projection service

PURPOSE:
  Exposes the projection engine and the scheme catalogue via REST API.
  Handles HTTP request/response, JSON serialization, and delegates to the
  engine and analysis packages.

ENDPOINTS:
  Health:
    GET    /api/health                       Liveness and store check

  Presets:
    GET    /api/presets                      Built-in schemes

  Schemes:
    GET    /api/schemes                      List catalogue
    POST   /api/schemes                      Create scheme from JSON
    GET    /api/schemes/{id}                 Get scheme definition
    PUT    /api/schemes/{id}                 Replace scheme (bumps version)
    DELETE /api/schemes/{id}                 Remove scheme

  Projections:
    POST   /api/schemes/{id}/projection      Project a stored scheme
                                             (?granularity=yearly)
    POST   /api/projections                  Project an inline scheme
    POST   /api/schemes/{id}/analysis        Yearly, retention, tax and
                                             sensitivity reports

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: Scheme catalogue (SQLite or memory)
  - Factory: JSON to Scheme conversion
  - Engine: Stateless projection engine
  - DefaultMarket: Used when a request omits market fields

REQUEST FLOW:
  1. Parse HTTP request
  2. Resolve the scheme (catalogue or inline body)
  3. Run the engine
  4. Serialize response
  5. Handle errors

ERROR HANDLING:
  Errors are returned as JSON {error, code, details}:
  - 400 malformed_request:  Body is not valid JSON
  - 404 scheme_not_found:   No scheme with that id (no data yet)
  - 409 scheme_exists:      Create on an existing id
  - 422 invalid_scheme / invalid_market / invalid_tax_rate:
                            Input rejected before computing, with
                            per-field details
  - 500 internal_error

SECURITY NOTE:
  No authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - presets.go: Catalogue seeding
  - server.go: Router setup and middleware
*/
package api

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/warp/vesting-engine/analysis"
	"github.com/warp/vesting-engine/factory"
	"github.com/warp/vesting-engine/generic"
)

// Error codes returned in ErrorResponse.Code.
const (
	CodeMalformedRequest = "malformed_request"
	CodeSchemeNotFound   = "scheme_not_found"
	CodeSchemeExists     = "scheme_exists"
	CodeInvalidScheme    = "invalid_scheme"
	CodeInvalidMarket    = "invalid_market"
	CodeInvalidTaxRate   = "invalid_tax_rate"
	CodeInternal         = "internal_error"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store         generic.SchemeStore
	Factory       *factory.SchemeFactory
	Engine        *generic.ProjectionEngine
	Logger        *zap.Logger
	DefaultMarket generic.MarketAssumptions

	now func() time.Time
}

// NewHandler creates a new handler with the given store.
func NewHandler(store generic.SchemeStore, logger *zap.Logger, market generic.MarketAssumptions) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:         store,
		Factory:       factory.NewSchemeFactory(),
		Engine:        generic.NewProjectionEngine(),
		Logger:        logger,
		DefaultMarket: market,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// =============================================================================
// HEALTH
// =============================================================================

type pinger interface {
	Ping(ctx context.Context) error
}

// Health reports liveness and, when supported, store reachability.
// GET /api/health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if p, ok := h.Store.(pinger); ok {
		if err := p.Ping(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, "store unavailable", "store_unavailable", err.Error())
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"time":   h.now().Format(time.RFC3339),
	})
}

// =============================================================================
// SCHEME HANDLERS
// =============================================================================

// ListSchemes returns every scheme in the catalogue.
// GET /api/schemes
func (h *Handler) ListSchemes(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.List(r.Context())
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	dtos := make([]SchemeDTO, 0, len(records))
	for _, rec := range records {
		dto, err := toSchemeDTO(rec)
		if err != nil {
			h.Logger.Warn("skipping unreadable scheme", zap.String("scheme_id", string(rec.ID)), zap.Error(err))
			continue
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateScheme adds a scheme to the catalogue.
// POST /api/schemes
func (h *Handler) CreateScheme(w http.ResponseWriter, r *http.Request) {
	var sj factory.SchemeJSON
	if err := decodeJSON(r, &sj, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", CodeMalformedRequest, err.Error())
		return
	}

	rec, err := h.buildRecord(sj)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.Store.Create(r.Context(), rec); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.Logger.Info("scheme created", zap.String("scheme_id", string(rec.ID)))
	h.respondWithRecord(w, r, rec.ID, http.StatusCreated)
}

// GetScheme returns one scheme definition.
// GET /api/schemes/{id}
func (h *Handler) GetScheme(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.Get(r.Context(), schemeIDParam(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	dto, err := toSchemeDTO(*rec)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dto)
}

// UpdateScheme replaces a scheme definition and bumps its version.
// PUT /api/schemes/{id}
func (h *Handler) UpdateScheme(w http.ResponseWriter, r *http.Request) {
	id := schemeIDParam(r)

	var sj factory.SchemeJSON
	if err := decodeJSON(r, &sj, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", CodeMalformedRequest, err.Error())
		return
	}
	sj.ID = string(id)

	rec, err := h.buildRecord(sj)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	if err := h.Store.Save(r.Context(), rec); err != nil {
		h.handleError(w, r, err)
		return
	}

	h.Logger.Info("scheme saved", zap.String("scheme_id", string(id)))
	h.respondWithRecord(w, r, id, http.StatusOK)
}

// DeleteScheme removes a scheme.
// DELETE /api/schemes/{id}
func (h *Handler) DeleteScheme(w http.ResponseWriter, r *http.Request) {
	id := schemeIDParam(r)
	if err := h.Store.Delete(r.Context(), id); err != nil {
		h.handleError(w, r, err)
		return
	}
	h.Logger.Info("scheme deleted", zap.String("scheme_id", string(id)))
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// PROJECTION HANDLERS
// =============================================================================

// ProjectScheme projects a stored scheme. The body holds market
// assumptions and may be empty.
// POST /api/schemes/{id}/projection
func (h *Handler) ProjectScheme(w http.ResponseWriter, r *http.Request) {
	scheme, err := h.loadScheme(r.Context(), schemeIDParam(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var md MarketDTO
	if err := decodeJSON(r, &md, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", CodeMalformedRequest, err.Error())
		return
	}

	h.project(w, r, scheme, h.market(&md))
}

// Project projects an inline scheme without touching the catalogue.
// POST /api/projections
func (h *Handler) Project(w http.ResponseWriter, r *http.Request) {
	var req ProjectionRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", CodeMalformedRequest, err.Error())
		return
	}

	scheme, err := h.Factory.FromJSON(req.Scheme)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid scheme definition", CodeMalformedRequest, err.Error())
		return
	}
	if scheme.ID == "" {
		scheme.ID = "custom"
	}

	h.project(w, r, scheme, h.market(req.Market))
}

func (h *Handler) project(w http.ResponseWriter, r *http.Request, scheme generic.Scheme, market generic.MarketAssumptions) {
	projection, err := h.Engine.Calculate(r.Context(), scheme, market)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	granularity := r.URL.Query().Get("granularity")
	if granularity != "yearly" {
		granularity = "monthly"
	}

	resp := ProjectionResponse{
		ID:          uuid.NewString(),
		SchemeID:    string(projection.SchemeID),
		Unit:        string(projection.Unit),
		Horizon:     int(projection.Horizon),
		Granularity: granularity,
		Market:      toMarketValuesDTO(projection.Market),
		Timeline:    make([]TimelinePointDTO, 0, len(projection.Points)),
		Grants:      toGrantEventDTOs(projection.Grants.Events),
		Summary:     toSummaryDTO(projection.Summary),
		ComputedAt:  h.now().Format(time.RFC3339),
	}
	for _, p := range projection.Points {
		if granularity == "yearly" && p.Month%generic.MonthsPerYear != 0 && p.Month != projection.Horizon {
			continue
		}
		resp.Timeline = append(resp.Timeline, toTimelinePointDTO(p))
	}

	h.Logger.Debug("projection computed",
		zap.String("projection_id", resp.ID),
		zap.String("scheme_id", resp.SchemeID),
		zap.Int("horizon", resp.Horizon),
	)
	writeJSON(w, http.StatusOK, resp)
}

// Analyze runs every analysis report for a stored scheme.
// POST /api/schemes/{id}/analysis
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	scheme, err := h.loadScheme(ctx, schemeIDParam(r))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	var req AnalysisRequest
	if err := decodeJSON(r, &req, true); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", CodeMalformedRequest, err.Error())
		return
	}
	market := h.market(req.Market)

	projection, err := h.Engine.Calculate(ctx, scheme, market)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	tax, err := analysis.Tax(projection, decimal.NewFromFloat(req.TaxRatePercent))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	sensitivity, err := analysis.Sensitivity(ctx, h.Engine, scheme, market, toDecimals(req.GrowthRates))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, AnalysisResponse{
		SchemeID:    string(scheme.ID),
		Market:      toMarketValuesDTO(market),
		Yearly:      toYearRowDTOs(analysis.Yearly(projection)),
		Retention:   toRetentionDTOs(analysis.Retention(projection)),
		Tax:         toTaxDTO(tax),
		Sensitivity: toSensitivityDTO(sensitivity),
	})
}

// =============================================================================
// HELPERS
// =============================================================================

func schemeIDParam(r *http.Request) generic.SchemeID {
	return generic.SchemeID(chi.URLParam(r, "id"))
}

// loadScheme reads and parses a catalogue entry.
func (h *Handler) loadScheme(ctx context.Context, id generic.SchemeID) (generic.Scheme, error) {
	rec, err := h.Store.Get(ctx, id)
	if err != nil {
		return generic.Scheme{}, err
	}
	return h.Factory.ParseScheme(rec.ConfigJSON)
}

// buildRecord validates a definition and serializes it in canonical form.
func (h *Handler) buildRecord(sj factory.SchemeJSON) (generic.SchemeRecord, error) {
	if sj.ID == "" {
		return generic.SchemeRecord{}, &generic.ValidationError{
			Kind:   generic.ErrInvalidScheme,
			Issues: []generic.FieldIssue{{Field: "id", Code: generic.CodeRequired, Message: "must not be empty"}},
		}
	}

	scheme, err := h.Factory.FromJSON(sj)
	if err != nil {
		return generic.SchemeRecord{}, &generic.ValidationError{
			Kind:   generic.ErrInvalidScheme,
			Issues: []generic.FieldIssue{{Field: "start_date", Code: generic.CodeOutOfRange, Message: err.Error()}},
		}
	}
	if err := scheme.Validate(); err != nil {
		return generic.SchemeRecord{}, err
	}

	doc, err := h.Factory.Marshal(scheme)
	if err != nil {
		return generic.SchemeRecord{}, err
	}
	return generic.SchemeRecord{ID: scheme.ID, Name: scheme.Name, ConfigJSON: doc}, nil
}

func (h *Handler) respondWithRecord(w http.ResponseWriter, r *http.Request, id generic.SchemeID, status int) {
	rec, err := h.Store.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	dto, err := toSchemeDTO(*rec)
	if err != nil {
		h.handleError(w, r, err)
		return
	}
	writeJSON(w, status, dto)
}

// market fills omitted fields from the server defaults.
func (h *Handler) market(md *MarketDTO) generic.MarketAssumptions {
	m := h.DefaultMarket
	if md == nil {
		return m
	}
	if md.CurrentPriceUSD != nil {
		m.CurrentPriceUSD = generic.NewAmount(*md.CurrentPriceUSD, generic.UnitUSD)
	}
	if md.AnnualGrowthPercent != nil {
		m.AnnualGrowthPercent = decimal.NewFromFloat(*md.AnnualGrowthPercent)
	}
	return m
}

func toSchemeDTO(rec generic.SchemeRecord) (SchemeDTO, error) {
	var sj factory.SchemeJSON
	if err := json.Unmarshal([]byte(rec.ConfigJSON), &sj); err != nil {
		return SchemeDTO{}, err
	}
	return SchemeDTO{
		ID:        string(rec.ID),
		Name:      rec.Name,
		Preset:    rec.Preset,
		Version:   rec.Version,
		Config:    sj,
		CreatedAt: rec.CreatedAt.Format(time.RFC3339),
		UpdatedAt: rec.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// decodeJSON decodes the request body into v. An empty body is accepted
// when optional is set.
func decodeJSON(r *http.Request, v any, optional bool) error {
	if r.Body == nil {
		if optional {
			return nil
		}
		return io.ErrUnexpectedEOF
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		if optional {
			return nil
		}
		return errors.New("request body is empty")
	}
	return err
}

// handleError maps domain errors to HTTP responses.
func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *generic.ValidationError
	switch {
	case errors.As(err, &verr):
		code := CodeInvalidScheme
		if errors.Is(err, generic.ErrInvalidMarket) {
			code = CodeInvalidMarket
		}
		details := make([]FieldIssueDTO, len(verr.Issues))
		for i, issue := range verr.Issues {
			details[i] = FieldIssueDTO{Field: issue.Field, Code: issue.Code, Message: issue.Message}
		}
		writeError(w, http.StatusUnprocessableEntity, verr.Kind.Error(), code, details)

	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, err.Error(), CodeSchemeNotFound, chi.URLParam(r, "id"))

	case errors.Is(err, generic.ErrDuplicateScheme):
		writeError(w, http.StatusConflict, err.Error(), CodeSchemeExists, nil)

	case errors.Is(err, analysis.ErrInvalidRate):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), CodeInvalidTaxRate, nil)

	case errors.Is(err, generic.ErrInvalidScheme):
		writeError(w, http.StatusUnprocessableEntity, err.Error(), CodeInvalidScheme, nil)

	default:
		h.Logger.Error("request failed",
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		writeError(w, http.StatusInternalServerError, "internal error", CodeInternal, nil)
	}
}

// writeJSON encodes before writing the status so an unencodable body becomes
// a 500 instead of a truncated 200.
func writeJSON(w http.ResponseWriter, status int, data any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(data); err != nil {
		buf.Reset()
		status = http.StatusInternalServerError
		json.NewEncoder(&buf).Encode(ErrorResponse{Error: "internal error", Code: CodeInternal})
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, message, code string, details any) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code, Details: details})
}
