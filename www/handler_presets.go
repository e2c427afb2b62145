package www

import (
	"log/slog"
	"net/http"

	"github.com/max42watt/pv-calculator/econ"
)

// NewPresetsHandler lists the named carbon price scenarios so the
// presentation layer can offer a picker.
func NewPresetsHandler(logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(logger, w, http.StatusOK, econ.Co2TaxPresets())
	}
}
