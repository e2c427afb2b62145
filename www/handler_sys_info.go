package www

import (
	"log/slog"
	"net/http"
	"time"
)

type SysInfo struct {
	Version   string    `json:"version"`
	GoVersion string    `json:"goVersion"`
	StartedAt time.Time `json:"startedAt"`
}

type sysInfoResponse struct {
	SysInfo
	UptimeSeconds int64 `json:"uptimeSeconds"`
}

func NewSysInfoHandler(logger *slog.Logger, info SysInfo) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(logger, w, http.StatusOK, sysInfoResponse{
			SysInfo:       info,
			UptimeSeconds: int64(time.Since(info.StartedAt).Seconds()),
		})
	}
}
