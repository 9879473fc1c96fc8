package web

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/vbonduro/homestash/internal/auth"
	"github.com/vbonduro/homestash/internal/domain"
	"github.com/vbonduro/homestash/internal/service"
)

type Server struct {
	inventory *service.Inventory
	photos    *service.Photos
	auth      *auth.Service
	router    chi.Router
	logger    *slog.Logger
}

func NewServer(inventory *service.Inventory, photos *service.Photos, authSvc *auth.Service, logger *slog.Logger) *Server {
	s := &Server{
		inventory: inventory,
		photos:    photos,
		auth:      authSvc,
		router:    chi.NewRouter(),
		logger:    logger,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	r := s.router
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(s.requestLogger)
	r.Use(s.auth.Middleware)

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", s.handleRegister)
		r.Post("/login", s.handleLogin)
		r.Post("/logout", s.handleLogout)
		r.Post("/password-reset", s.handlePasswordResetRequest)
		r.Post("/password-reset/confirm", s.handlePasswordResetConfirm)
		r.Get("/me", s.handleMe)

		r.Get("/dashboards", s.handleListDashboards)
		r.Post("/dashboards", s.handleCreateDashboard)
		r.Get("/dashboards/{id}", s.handleGetDashboard)
		r.Put("/dashboards/{id}", s.handleUpdateDashboard)
		r.Delete("/dashboards/{id}", s.handleDeleteDashboard)
		r.Get("/dashboards/{id}/rooms", s.handleListRoomsByDashboard)
		r.Get("/dashboards/{id}/locations", s.handleListLocationsByDashboard)

		r.Post("/rooms", s.handleCreateRoom)
		r.Get("/rooms/{id}", s.handleGetRoom)
		r.Put("/rooms/{id}", s.handleUpdateRoom)
		r.Delete("/rooms/{id}", s.handleDeleteRoom)
		r.Get("/rooms/{id}/locations", s.handleListLocationsByRoom)

		r.Get("/locations", s.handleListLocations)
		r.Post("/locations", s.handleCreateLocation)
		r.Get("/locations/{id}", s.handleGetLocation)
		r.Put("/locations/{id}", s.handleUpdateLocation)
		r.Delete("/locations/{id}", s.handleDeleteLocation)
		r.Get("/locations/{id}/items", s.handleListItemsByLocation)
		r.Post("/locations/{id}/photo", s.handleUploadLocationPhoto)
		r.Get("/locations/{id}/photo", s.handleGetLocationPhoto)

		r.Get("/items", s.handleListItems)
		r.Post("/items", s.handleAddItem)
		r.Get("/items/{id}", s.handleGetItem)
		r.Put("/items/{id}", s.handleUpdateItem)
		r.Delete("/items/{id}", s.handleDeleteItem)

		r.Get("/search", s.handleSearch)
		r.Get("/search/location", s.handleSearchByLocation)
	})
}

// statusRecorder wraps http.ResponseWriter to capture the written status code.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("starting server", "addr", addr)
	srv := &http.Server{
		Addr:         addr,
		Handler:      s,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, msg string) {
	s.respondJSON(w, status, map[string]string{"error": msg})
}

// respondServiceError maps a service-layer failure onto an HTTP status:
// rejected input is the caller's fault, a missing write target is 404, and
// everything else is logged and hidden behind a 500.
func (s *Server) respondServiceError(w http.ResponseWriter, err error, logMsg string) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		s.respondError(w, http.StatusBadRequest, verr.Error())
		return
	}
	if errors.Is(err, domain.ErrNotFound) {
		s.respondError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error(logMsg, "error", err)
	s.respondError(w, http.StatusInternalServerError, logMsg)
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
