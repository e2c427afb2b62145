package www

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"runtime"
	"slices"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	ws "github.com/gorilla/websocket"
	"github.com/max42watt/pv-calculator/config"
	"github.com/max42watt/pv-calculator/database"
	"github.com/max42watt/pv-calculator/settings"
)

// Server exposes the two calculation engines as a JSON API for the external
// presentation layer, plus a websocket channel for live recomputation.
type Server struct {
	logger   *slog.Logger
	config   config.AppConfigApi
	db       *database.Database
	defaults *settings.Manager
	clients  *settings.ClientStore
	hub      *Hub
	router   *mux.Router
	upgrader ws.Upgrader
	sysInfo  SysInfo
}

func StartServer(
	db *database.Database,
	defaults *settings.Manager,
	clients *settings.ClientStore,
	config config.AppConfigApi,
	version string,
) *Server {
	logger := slog.Default().With("module", "www")

	s := &Server{
		logger:   logger,
		config:   config,
		db:       db,
		defaults: defaults,
		clients:  clients,
		hub:      NewHub(logger),
		sysInfo: SysInfo{
			Version:   version,
			GoVersion: runtime.Version(),
			StartedAt: time.Now(),
		},
	}
	s.upgrader = ws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     s.checkOrigin,
	}

	go s.hub.Run()

	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.logRequest)

	api.Handle("/energy", NewEnergyHandler(
		logger.With(slog.String("handler", "energy")),
		s.db,
		s.defaults,
		s.clients)).Methods(http.MethodPost)

	api.Handle("/funding", NewFundingHandler(
		logger.With(slog.String("handler", "funding")),
		s.db)).Methods(http.MethodPost)

	api.Handle("/settings", NewSettingsGetHandler(
		logger.With(slog.String("handler", "settings")),
		s.defaults,
		s.clients)).Methods(http.MethodGet)

	api.Handle("/settings", NewSettingsPutHandler(
		logger.With(slog.String("handler", "settings")),
		s.clients)).Methods(http.MethodPut)

	api.Handle("/settings", NewSettingsResetHandler(
		logger.With(slog.String("handler", "settings")),
		s.defaults,
		s.clients)).Methods(http.MethodDelete)

	api.Handle("/presets", NewPresetsHandler(
		logger.With(slog.String("handler", "presets")))).Methods(http.MethodGet)

	api.Handle("/history", NewHistoryHandler(
		logger.With(slog.String("handler", "history")),
		s.db)).Methods(http.MethodGet)

	api.Handle("/log", NewLogHandler(
		logger.With(slog.String("handler", "log")),
		s.db)).Methods(http.MethodGet)

	api.Handle("/sys_info", NewSysInfoHandler(
		logger.With(slog.String("handler", "sys_info")),
		s.sysInfo)).Methods(http.MethodGet)

	r.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		client, err := NewClient(s.hub, &s.upgrader, w, r, r.Header.Get("User-Agent"))
		if err != nil {
			s.logger.Error("new websocket client failed", slog.Any("error", err))
			return
		}

		// The cookie is only readable during the upgrade request, so the
		// client's stored settings are resolved once per connection.
		cookieSettings, hasCookie := s.clients.Get(r)
		evaluate := func(msg []byte) []byte {
			return s.evaluateComputeRequest(msg, cookieSettings, hasCookie)
		}

		s.hub.Register <- client
		go client.WritePump()
		go client.ReadPump(evaluate)
	})

	s.router = r
	return s
}

// Handler wraps the router with the CORS policy for the external
// presentation layer.
func (s *Server) Handler() http.Handler {
	return handlers.CORS(
		handlers.AllowedOrigins(s.config.AllowedOrigins),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
		handlers.AllowCredentials(),
	)(s.router)
}

// NotifySettingsUpdated tells connected websocket clients that the office
// defaults changed, so they can rerun whatever the user is looking at.
func (s *Server) NotifySettingsUpdated() {
	s.hub.Broadcast <- []byte(`{"event":"settings_updated"}`)
}

func (s *Server) Run(ctx context.Context) {
	addr := fmt.Sprintf("%s:%d", s.config.Address, s.config.Port)
	s.logger.Info("starting server...", "addr", addr)
	srv := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	srvErrors := make(chan error, 1)

	go func() {
		srvErrors <- srv.ListenAndServe()
	}()

	for {
		select {
		case err := <-srvErrors:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("server error", slog.Any("error", err))
			}

		case <-ctx.Done():
			// The parent context is already canceled, so the drain window
			// needs its own deadline.
			shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				s.logger.Error("server shutdown failed", slog.Any("error", err))
			}
			return
		}
	}
}

func (s *Server) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.logger.Debug("http request",
			slog.String("method", r.Method),
			slog.String("url", r.URL.String()),
			slog.String("remoteAddr", r.RemoteAddr))
		next.ServeHTTP(w, r)
	})
}

// checkOrigin admits same-origin websocket upgrades plus the configured
// presentation-layer origins.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && u.Host == r.Host {
		return true
	}
	if slices.Contains(s.config.AllowedOrigins, "*") {
		return true
	}
	return slices.Contains(s.config.AllowedOrigins, origin)
}
