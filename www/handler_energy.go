package www

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/max42watt/pv-calculator/database"
	"github.com/max42watt/pv-calculator/econ"
	"github.com/max42watt/pv-calculator/settings"
)

type energyRequest struct {
	Customer econ.CustomerInputs  `json:"customer"`
	Settings *econ.ExpertSettings `json:"settings,omitempty"`
}

// NewEnergyHandler runs the energy-economics engine. Expert settings are
// taken from the request body when present, otherwise from the caller's
// cookie, otherwise from the office defaults.
func NewEnergyHandler(
	logger *slog.Logger,
	db *database.Database,
	defaults *settings.Manager,
	clients *settings.ClientStore,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req energyRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(logger, w, http.StatusBadRequest, "", "malformed_json")
			return
		}

		var expert econ.ExpertSettings
		switch {
		case req.Settings != nil:
			expert = *req.Settings
		default:
			if fromCookie, ok := clients.Get(r); ok {
				expert = fromCookie
			} else {
				expert = defaults.Current()
			}
		}

		result, err := econ.Compute(req.Customer, expert)
		if err != nil {
			var ve *econ.ValidationError
			if errors.As(err, &ve) {
				writeError(logger, w, http.StatusBadRequest, ve.Field, ve.Reason)
				return
			}
			logger.Error("energy calculation failed", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "", "internal_error")
			return
		}

		saveCalculation(r.Context(), logger, db, database.CalculationKindEnergy, req.Customer, result)
		writeJSON(logger, w, http.StatusOK, result)
	}
}
