package www

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/max42watt/pv-calculator/database"
	"github.com/max42watt/pv-calculator/funding"
)

// NewFundingHandler runs the heat-pump funding engine.
func NewFundingHandler(logger *slog.Logger, db *database.Database) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var in funding.Inputs
		if err := decodeJSON(r, &in); err != nil {
			writeError(logger, w, http.StatusBadRequest, "", "malformed_json")
			return
		}

		result, err := funding.Compute(in)
		if err != nil {
			var ve *funding.ValidationError
			if errors.As(err, &ve) {
				writeError(logger, w, http.StatusBadRequest, ve.Field, ve.Reason)
				return
			}
			logger.Error("funding calculation failed", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "", "internal_error")
			return
		}

		saveCalculation(r.Context(), logger, db, database.CalculationKindFunding, in, result)
		writeJSON(logger, w, http.StatusOK, result)
	}
}
