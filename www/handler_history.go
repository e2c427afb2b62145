package www

import (
	"log/slog"
	"net/http"

	"github.com/max42watt/pv-calculator/database"
)

// NewHistoryHandler returns recently saved calculations, newest first.
// Query params: kind (energy|funding, empty for both) and limit.
func NewHistoryHandler(logger *slog.Logger, db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		kind := database.CalculationKind(r.URL.Query().Get("kind"))
		if kind != "" && kind != database.CalculationKindEnergy && kind != database.CalculationKindFunding {
			writeError(logger, w, http.StatusBadRequest, "kind", "unknown_kind")
			return
		}

		limit := intOrDefault(r.URL.Query().Get("limit"), 20)
		rows, err := db.GetCalculations(r.Context(), kind, limit)
		if err != nil {
			logger.Error("failed to fetch calculations", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "", "internal_error")
			return
		}

		if rows == nil {
			rows = []database.CalculationRow{}
		}
		writeJSON(logger, w, http.StatusOK, rows)
	}
}
