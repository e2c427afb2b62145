package www

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/max42watt/pv-calculator/database"
)

type apiError struct {
	Field  string `json:"field,omitempty"`
	Reason string `json:"reason"`
}

type errorResponse struct {
	Error apiError `json:"error"`
}

func intOrDefault(value string, def int) int {
	if i, err := strconv.Atoi(value); err == nil {
		return i
	}
	return def
}

func decodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

func writeJSON(logger *slog.Logger, w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("failed to encode response", slog.Any("error", err))
	}
}

func writeError(logger *slog.Logger, w http.ResponseWriter, status int, field, reason string) {
	writeJSON(logger, w, status, errorResponse{Error: apiError{Field: field, Reason: reason}})
}

// saveCalculation records a run for the history endpoint. Failures are
// logged but never surfaced, history is best effort.
func saveCalculation(ctx context.Context, logger *slog.Logger, db *database.Database, kind database.CalculationKind, inputs, result any) {
	inJSON, err := json.Marshal(inputs)
	if err != nil {
		logger.Warn("failed to marshal calculation inputs", slog.Any("error", err))
		return
	}
	outJSON, err := json.Marshal(result)
	if err != nil {
		logger.Warn("failed to marshal calculation result", slog.Any("error", err))
		return
	}
	if _, err := db.SaveCalculation(ctx, kind, inJSON, outJSON); err != nil {
		logger.Warn("failed to save calculation", slog.Any("error", err))
	}
}
