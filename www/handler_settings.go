package www

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/max42watt/pv-calculator/econ"
	"github.com/max42watt/pv-calculator/settings"
)

type settingsResponse struct {
	Source   string              `json:"source"` // "client" or "default"
	Settings econ.ExpertSettings `json:"settings"`
}

// NewSettingsGetHandler returns the expert settings the caller would compute
// with: their own cookie-stored set when present, the office defaults
// otherwise.
func NewSettingsGetHandler(
	logger *slog.Logger,
	defaults *settings.Manager,
	clients *settings.ClientStore,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s, ok := clients.Get(r); ok {
			writeJSON(logger, w, http.StatusOK, settingsResponse{Source: "client", Settings: s})
			return
		}
		writeJSON(logger, w, http.StatusOK, settingsResponse{Source: "default", Settings: defaults.Current()})
	}
}

// NewSettingsPutHandler validates and stores the caller's own expert
// settings in their session cookie.
func NewSettingsPutHandler(logger *slog.Logger, clients *settings.ClientStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var s econ.ExpertSettings
		if err := decodeJSON(r, &s); err != nil {
			writeError(logger, w, http.StatusBadRequest, "", "malformed_json")
			return
		}

		if err := s.Validate(); err != nil {
			var ve *econ.ValidationError
			if errors.As(err, &ve) {
				writeError(logger, w, http.StatusBadRequest, ve.Field, ve.Reason)
				return
			}
			logger.Error("settings validation failed", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "", "internal_error")
			return
		}

		if err := clients.Save(w, r, s); err != nil {
			logger.Error("failed to save client settings", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "", "internal_error")
			return
		}

		writeJSON(logger, w, http.StatusOK, settingsResponse{Source: "client", Settings: s})
	}
}

// NewSettingsResetHandler drops the caller's cookie-stored settings so they
// fall back to the office defaults.
func NewSettingsResetHandler(
	logger *slog.Logger,
	defaults *settings.Manager,
	clients *settings.ClientStore,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := clients.Clear(w, r); err != nil {
			logger.Error("failed to clear client settings", slog.Any("error", err))
			writeError(logger, w, http.StatusInternalServerError, "", "internal_error")
			return
		}
		writeJSON(logger, w, http.StatusOK, settingsResponse{Source: "default", Settings: defaults.Current()})
	}
}
