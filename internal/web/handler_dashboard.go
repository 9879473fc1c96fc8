package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/homestash/internal/auth"
)

type dashboardRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Server) handleListDashboards(w http.ResponseWriter, r *http.Request) {
	dashboards, err := s.inventory.GetAllDashboards(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err, "failed to list dashboards")
		return
	}
	s.respondJSON(w, http.StatusOK, dashboards)
}

func (s *Server) handleCreateDashboard(w http.ResponseWriter, r *http.Request) {
	var req dashboardRequest
	if !s.decode(w, r, &req) {
		return
	}

	dashboard, err := s.inventory.CreateDashboard(r.Context(), req.Name, req.Description, auth.UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err, "failed to create dashboard")
		return
	}
	s.respondJSON(w, http.StatusCreated, dashboard)
}

func (s *Server) handleGetDashboard(w http.ResponseWriter, r *http.Request) {
	dashboard, err := s.inventory.GetDashboardByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err, "failed to get dashboard")
		return
	}
	if dashboard == nil {
		s.respondError(w, http.StatusNotFound, "dashboard not found")
		return
	}
	s.respondJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleUpdateDashboard(w http.ResponseWriter, r *http.Request) {
	var req dashboardRequest
	if !s.decode(w, r, &req) {
		return
	}

	dashboard, err := s.inventory.UpdateDashboard(r.Context(), chi.URLParam(r, "id"), req.Name, req.Description)
	if err != nil {
		s.respondServiceError(w, err, "failed to update dashboard")
		return
	}
	s.respondJSON(w, http.StatusOK, dashboard)
}

func (s *Server) handleDeleteDashboard(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.DeleteDashboard(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondServiceError(w, err, "failed to delete dashboard")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListRoomsByDashboard(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.inventory.GetRoomsByDashboard(r.Context(), chi.URLParam(r, "id"), auth.UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err, "failed to list rooms")
		return
	}
	s.respondJSON(w, http.StatusOK, rooms)
}

func (s *Server) handleListLocationsByDashboard(w http.ResponseWriter, r *http.Request) {
	locations, err := s.inventory.GetStorageLocationsByDashboard(r.Context(), chi.URLParam(r, "id"), auth.UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err, "failed to list storage locations")
		return
	}
	s.respondJSON(w, http.StatusOK, locations)
}
