package www

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/max42watt/pv-calculator/econ"
	"github.com/max42watt/pv-calculator/funding"
)

// The websocket protocol carries the same calculations as the POST
// endpoints, but keyed by a caller-chosen id so the presentation layer can
// match responses to in-flight keystrokes. Runs over the socket are not
// recorded in the history.
type wsRequest struct {
	Id       string               `json:"id"`
	Kind     string               `json:"kind"`
	Customer *econ.CustomerInputs `json:"customer,omitempty"`
	Funding  *funding.Inputs      `json:"funding,omitempty"`
	Settings *econ.ExpertSettings `json:"settings,omitempty"`
}

type wsResponse struct {
	Id     string    `json:"id"`
	Ok     bool      `json:"ok"`
	Result any       `json:"result,omitempty"`
	Error  *apiError `json:"error,omitempty"`
}

func (s *Server) evaluateComputeRequest(msg []byte, cookieSettings econ.ExpertSettings, hasCookie bool) []byte {
	var req wsRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return s.marshalWsResponse(wsResponse{
			Ok:    false,
			Error: &apiError{Reason: "malformed_json"},
		})
	}

	resp := wsResponse{Id: req.Id}

	switch req.Kind {
	case "energy":
		if req.Customer == nil {
			resp.Error = &apiError{Field: "customer", Reason: "missing"}
			break
		}
		var expert econ.ExpertSettings
		switch {
		case req.Settings != nil:
			expert = *req.Settings
		case hasCookie:
			expert = cookieSettings
		default:
			expert = s.defaults.Current()
		}
		result, err := econ.Compute(*req.Customer, expert)
		if err != nil {
			resp.Error = wsComputeError(s.logger, err)
			break
		}
		resp.Ok = true
		resp.Result = result

	case "funding":
		if req.Funding == nil {
			resp.Error = &apiError{Field: "funding", Reason: "missing"}
			break
		}
		result, err := funding.Compute(*req.Funding)
		if err != nil {
			resp.Error = wsComputeError(s.logger, err)
			break
		}
		resp.Ok = true
		resp.Result = result

	default:
		resp.Error = &apiError{Field: "kind", Reason: "unknown_kind"}
	}

	return s.marshalWsResponse(resp)
}

func wsComputeError(logger *slog.Logger, err error) *apiError {
	var econErr *econ.ValidationError
	if errors.As(err, &econErr) {
		return &apiError{Field: econErr.Field, Reason: econErr.Reason}
	}
	var fundErr *funding.ValidationError
	if errors.As(err, &fundErr) {
		return &apiError{Field: fundErr.Field, Reason: fundErr.Reason}
	}
	logger.Error("unexpected compute error", slog.Any("error", err))
	return &apiError{Reason: "internal_error"}
}

func (s *Server) marshalWsResponse(resp wsResponse) []byte {
	buf, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode websocket response", slog.Any("error", err))
		return []byte(`{"ok":false,"error":{"reason":"internal_error"}}`)
	}
	return buf
}
