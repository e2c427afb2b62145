package www

import (
	"log/slog"
	"net/http"

	"github.com/max42watt/pv-calculator/database"
	"github.com/max42watt/pv-calculator/logging"
)

// NewLogHandler pages through the application log stored in the database.
// Query params: level (minimum, default INFO), page and page_size.
func NewLogHandler(logger *slog.Logger, db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		minLvl := slog.LevelInfo
		if lvl := q.Get("level"); lvl != "" {
			minLvl = logging.LevelFromString(&lvl)
		}
		page := intOrDefault(q.Get("page"), 1)
		pageSize := intOrDefault(q.Get("page_size"), 25)

		entries, err := db.GetLogEntries(r.Context(), minLvl, page, pageSize)
		if err != nil {
			logger.Error("failed to fetch log entries", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "", "internal_error")
			return
		}

		if entries == nil {
			entries = []database.LogEntryRow{}
		}
		writeJSON(logger, w, http.StatusOK, entries)
	}
}
