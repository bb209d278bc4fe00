package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/payarrear/arrear-calculator/internal/calculation"
	"github.com/payarrear/arrear-calculator/internal/config"
	"github.com/payarrear/arrear-calculator/internal/domain"
	"github.com/payarrear/arrear-calculator/internal/output"
	"github.com/payarrear/arrear-calculator/internal/store/sqlite"
	"github.com/sirupsen/logrus"
)

// maxBodyBytes bounds request and rate-table uploads.
const maxBodyBytes = 1 << 20

// Store is the persistence the handlers need; *sqlite.Store implements it.
type Store interface {
	LoadRateTables(ctx context.Context) (*domain.RateTables, error)
	ReplaceRateTable(ctx context.Context, category domain.RateCategory, entries []domain.RateEntry) error
	SaveStatement(ctx context.Context, st *domain.Statement) (sqlite.StatementRecord, error)
	GetStatement(ctx context.Context, id string) (*sqlite.StatementRecord, error)
	ListStatements(ctx context.Context, employeeID string) ([]sqlite.StatementRecord, error)
	Ping(ctx context.Context) error
}

// Handler holds the HTTP handlers and their dependencies.
type Handler struct {
	Store       Store
	Engine      *calculation.Engine
	Parser      *config.InputParser
	Progression domain.PayProgression
	Logger      *logrus.Logger
}

// NewHandler wires an engine over the given progression. A nil progression uses the default matrix.
func NewHandler(store Store, progression domain.PayProgression, logger *logrus.Logger) *Handler {
	if progression == nil {
		progression = calculation.DefaultProgression()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetOutput(io.Discard)
	}
	engine := calculation.NewEngineWithProgression(progression)
	engine.SetLogger(logger)
	return &Handler{
		Store:       store,
		Engine:      engine,
		Parser:      config.NewInputParser(),
		Progression: progression,
		Logger:      logger,
	}
}

// =============================================================================
// STATEMENTS
// =============================================================================

// CreateStatement computes a statement from a request document (JSON or YAML) against the
// stored rate tables. With ?archive=true the statement is also saved.
// POST /api/statements
func (h *Handler) CreateStatement(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}
	req, err := h.Parser.ParseRequest(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid arrear request", err)
		return
	}

	rates, err := h.Store.LoadRateTables(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rate tables", err)
		return
	}

	st, err := h.Engine.BuildStatement(req, rates)
	if err != nil {
		h.writeCalculationError(w, err)
		return
	}

	archive, _ := strconv.ParseBool(r.URL.Query().Get("archive"))
	if !archive {
		writeJSON(w, http.StatusOK, StatementResponse{Statement: st})
		return
	}
	rec, err := h.Store.SaveStatement(ctx, st)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to archive statement", err)
		return
	}
	h.Logger.WithFields(logrus.Fields{
		"statement_id": rec.ID,
		"employee_id":  rec.EmployeeID,
		"difference":   rec.DifferenceTotal.String(),
	}).Info("statement archived")
	writeJSON(w, http.StatusCreated, StatementResponse{ID: rec.ID, Statement: st})
}

// ListStatements lists archived statements, optionally for one employee.
// GET /api/statements?employee_id=
func (h *Handler) ListStatements(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListStatements(r.Context(), r.URL.Query().Get("employee_id"))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list statements", err)
		return
	}
	writeJSON(w, http.StatusOK, StatementListResponse{Statements: records})
}

// GetStatement returns one archived statement.
// GET /api/statements/{id}
func (h *Handler) GetStatement(w http.ResponseWriter, r *http.Request) {
	rec, ok := h.loadStatement(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// ExportStatement renders an archived statement with one of the output formatters.
// GET /api/statements/{id}/export/{format}
func (h *Handler) ExportStatement(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if output.GetFormatterByName(format) == nil {
		writeError(w, http.StatusBadRequest, "Unsupported export format", fmt.Errorf("%w: %q", output.ErrUnsupportedFormat, format))
		return
	}

	rec, ok := h.loadStatement(w, r)
	if !ok {
		return
	}
	data, f, err := output.Render(rec.Statement, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to render statement", err)
		return
	}

	w.Header().Set("Content-Type", output.ContentType(f.Name()))
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="arrear_statement_%s.%s"`, rec.ID, output.Extension(f.Name())))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

func (h *Handler) loadStatement(w http.ResponseWriter, r *http.Request) (*sqlite.StatementRecord, bool) {
	id := chi.URLParam(r, "id")
	rec, err := h.Store.GetStatement(r.Context(), id)
	if errors.Is(err, sqlite.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Statement not found", nil)
		return nil, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to get statement", err)
		return nil, false
	}
	return rec, true
}

// =============================================================================
// RATES AND PAY LEVELS
// =============================================================================

// GetRates returns the stored rate tables.
// GET /api/rates
func (h *Handler) GetRates(w http.ResponseWriter, r *http.Request) {
	rates, err := h.Store.LoadRateTables(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rate tables", err)
		return
	}
	writeJSON(w, http.StatusOK, RatesResponse{Rates: rates})
}

// PutRates replaces one category's entries with the list in the body.
// PUT /api/rates/{category}
func (h *Handler) PutRates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category, err := domain.ParseRateCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Unknown rate category", err)
		return
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Failed to read request body", err)
		return
	}
	entries, err := h.Parser.ParseRateEntries(category, body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid rate entries", err)
		return
	}

	if err := h.Store.ReplaceRateTable(ctx, category, entries); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to save rate table", err)
		return
	}
	h.Logger.WithFields(logrus.Fields{"category": category, "entries": len(entries)}).Info("rate table replaced")

	rates, err := h.Store.LoadRateTables(ctx)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load rate tables", err)
		return
	}
	writeJSON(w, http.StatusOK, RatesResponse{Rates: rates})
}

// GetPayLevels returns the pay-level ordering used by range lookups and the levels with a
// progression matrix.
// GET /api/pay-levels
func (h *Handler) GetPayLevels(w http.ResponseWriter, r *http.Request) {
	resp := PayLevelsResponse{
		Levels:      calculation.DefaultPayLevels.Levels(),
		Progression: map[int][]string{},
	}
	for c := range h.Progression {
		resp.Progression[int(c)] = h.Progression.Levels(c)
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health reports whether the store is reachable.
// GET /healthz
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Ping(r.Context()); err != nil {
		h.Logger.WithError(err).Warn("health check failed")
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// HELPERS
// =============================================================================

// writeCalculationError maps engine errors: bad input is 400, an aborted build is 422.
func (h *Handler) writeCalculationError(w http.ResponseWriter, err error) {
	var ve *calculation.ValidationError
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid arrear request", Field: ve.Field, Details: ve.Message})
	case calculation.IsClientError(err):
		writeError(w, http.StatusBadRequest, "Invalid arrear request", err)
	case errors.Is(err, calculation.ErrCalculationFailed):
		h.Logger.WithError(err).Error("statement build aborted")
		writeError(w, http.StatusUnprocessableEntity, "Calculation failed", err)
	default:
		writeError(w, http.StatusInternalServerError, "Internal error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	var ve *calculation.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
