package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/housing-calculator/internal/config"
	"github.com/iwvelando/housing-calculator/internal/scenario"
	"github.com/iwvelando/housing-calculator/internal/storage"
	"github.com/iwvelando/housing-calculator/pkg/constants"
	"github.com/iwvelando/housing-calculator/pkg/output"
	"go.uber.org/zap"
)

// Store is the saved-scenario persistence the API needs.
type Store interface {
	List(ctx context.Context) ([]storage.SavedScenario, error)
	Save(ctx context.Context, name string, data config.Scenarios) (storage.SavedScenario, error)
	Load(ctx context.Context, id string) (storage.SavedScenario, error)
	Delete(ctx context.Context, id string) error
	Export(ctx context.Context) ([]byte, error)
	Import(ctx context.Context, data []byte) (int, error)
}

type handler struct {
	logger      *zap.Logger
	store       Store
	maxBodySize int64
	version     string
}

// NewHandler constructs the HTTP handler that serves the comparison and
// saved-scenario API. A nil limiter disables rate limiting.
func NewHandler(logger *zap.Logger, store Store, maxBodySize int64, version string, limiter *RateLimiter) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	if maxBodySize <= 0 {
		maxBodySize = constants.DefaultMaxBodySizeBytes
	}

	trimmedVersion := strings.TrimSpace(version)
	if trimmedVersion == "" {
		trimmedVersion = "dev"
	}

	h := &handler{logger: logger, store: store, maxBodySize: maxBodySize, version: trimmedVersion}

	mux := http.NewServeMux()

	// Comparison of the three scenarios
	mux.HandleFunc("POST /api/compare", h.handleCompare)

	// Saved scenarios
	mux.HandleFunc("GET /api/scenarios", h.handleListScenarios)
	mux.HandleFunc("POST /api/scenarios", h.handleSaveScenario)
	mux.HandleFunc("GET /api/scenarios/export", h.handleExportScenarios)
	mux.HandleFunc("POST /api/scenarios/import", h.handleImportScenarios)
	mux.HandleFunc("GET /api/scenarios/{id}", h.handleGetScenario)
	mux.HandleFunc("DELETE /api/scenarios/{id}", h.handleDeleteScenario)

	// Version endpoint for UI metadata
	mux.HandleFunc("GET /api/version", h.handleVersion)

	return rateLimitMiddleware(limiter, logger, mux)
}

type compareResponse struct {
	scenario.Comparison
	CSV      string `json:"csv"`
	Duration string `json:"duration"`
}

type saveRequest struct {
	Name string          `json:"name"`
	Data json.RawMessage `json:"data"`
}

func (h *handler) handleCompare(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleCompare"
	start := time.Now()

	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	scenarios, err := decodeScenarios(body)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode scenarios: %v", err), op)
		return
	}

	if err := scenarios.CheckHorizons(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	opts := scenario.Options{IncludeSchedule: queryBool(r, "schedule")}
	comparison := scenario.Compare(h.logger, scenarios, opts)
	elapsed := time.Since(start)

	if problems := comparison.NonFinite(); len(problems) > 0 {
		h.respondErrorWithOp(w, http.StatusUnprocessableEntity,
			"comparison overflowed: "+strings.Join(problems, "; "), op)
		return
	}

	h.logger.Info("comparison computed",
		zap.String("op", op),
		zap.String("cheapest", string(comparison.Cheapest)),
		zap.Int("warnings", len(comparison.Warnings)),
		zap.Duration("duration", elapsed),
	)

	h.writeJSON(w, http.StatusOK, compareResponse{
		Comparison: comparison,
		CSV:        output.CsvString(comparison),
		Duration:   elapsed.String(),
	})
}

func (h *handler) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	all, err := h.store.List(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to list scenarios: %v", err), "server.handleListScenarios")
		return
	}
	h.writeJSON(w, http.StatusOK, all)
}

func (h *handler) handleSaveScenario(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleSaveScenario"

	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	var req saveRequest
	if err := json.Unmarshal(body, &req); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode scenario: %v", err), op)
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		h.respondErrorWithOp(w, http.StatusBadRequest, "scenario name is required", op)
		return
	}
	data, err := decodeScenarios(req.Data)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to decode scenario data: %v", err), op)
		return
	}

	if err := data.CheckHorizons(); err != nil {
		h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
		return
	}

	saved, err := h.store.Save(r.Context(), req.Name, data)
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to save scenario: %v", err), op)
		return
	}
	h.writeJSON(w, http.StatusCreated, saved)
}

func (h *handler) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleGetScenario"

	saved, err := h.store.Load(r.Context(), r.PathValue("id"))
	if err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	h.writeJSON(w, http.StatusOK, saved)
}

func (h *handler) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleDeleteScenario"

	if err := h.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		h.respondStoreError(w, err, op)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *handler) handleExportScenarios(w http.ResponseWriter, r *http.Request) {
	data, err := h.store.Export(r.Context())
	if err != nil {
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to export scenarios: %v", err), "server.handleExportScenarios")
		return
	}

	filename := fmt.Sprintf("%s-%d.json", constants.ScenarioStorageKey, time.Now().Unix())
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.Error("failed to write export", zap.Error(err))
	}
}

func (h *handler) handleImportScenarios(w http.ResponseWriter, r *http.Request) {
	const op = "server.handleImportScenarios"

	body, ok := h.readBody(w, r, op)
	if !ok {
		return
	}

	count, err := h.store.Import(r.Context(), body)
	if err != nil {
		var syntaxErr *json.SyntaxError
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
			h.respondErrorWithOp(w, http.StatusBadRequest, err.Error(), op)
			return
		}
		h.respondErrorWithOp(w, http.StatusInternalServerError, fmt.Sprintf("failed to import scenarios: %v", err), op)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *handler) handleVersion(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{
		"version": h.version,
	})
}

// readBody reads the whole request body within the size limit. It writes the
// error response itself and reports false when the body is unusable.
func (h *handler) readBody(w http.ResponseWriter, r *http.Request, op string) ([]byte, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBodySize)
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			h.respondErrorWithOp(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds limit of %d bytes", h.maxBodySize), op)
			return nil, false
		}
		h.respondErrorWithOp(w, http.StatusBadRequest, fmt.Sprintf("failed to read request body: %v", err), op)
		return nil, false
	}
	return body, true
}

// decodeScenarios overlays the JSON body onto the default scenarios, so
// omitted fields keep their defaults. An empty body yields the defaults.
func decodeScenarios(body []byte) (config.Scenarios, error) {
	scenarios := config.DefaultScenarios()
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return scenarios, nil
	}
	if err := json.Unmarshal(trimmed, &scenarios); err != nil {
		return config.Scenarios{}, err
	}
	return scenarios.Normalize(), nil
}

func queryBool(r *http.Request, key string) bool {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return false
	}
	parsed, err := strconv.ParseBool(raw)
	return err == nil && parsed
}

func (h *handler) respondStoreError(w http.ResponseWriter, err error, op string) {
	if errors.Is(err, storage.ErrNotFound) {
		h.respondErrorWithOp(w, http.StatusNotFound, err.Error(), op)
		return
	}
	h.respondErrorWithOp(w, http.StatusInternalServerError, err.Error(), op)
}

func (h *handler) respondErrorWithOp(w http.ResponseWriter, status int, msg string, op string) {
	h.logger.Error("request failed",
		zap.String("op", op),
		zap.Int("status", status),
		zap.String("error", msg),
	)

	h.writeJSON(w, status, map[string]string{"error": msg})
}

// writeJSON encodes payload before committing the status, so an encoding
// failure still produces a 500 with an error body.
func (h *handler) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("failed to encode JSON response", zap.Int("status", status), zap.Error(err))
		status = http.StatusInternalServerError
		data, _ = json.Marshal(map[string]string{"error": fmt.Sprintf("failed to encode response: %v", err)})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(append(data, '\n')); err != nil {
		h.logger.Error("failed to write JSON response", zap.Error(err))
	}
}
