package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/homestash/internal/auth"
)

type roomRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	DashboardID string `json:"dashboard_id"`
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if !s.decode(w, r, &req) {
		return
	}

	room, err := s.inventory.CreateRoom(r.Context(), req.Name, req.Description, req.DashboardID, auth.UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err, "failed to create room")
		return
	}
	s.respondJSON(w, http.StatusCreated, room)
}

func (s *Server) handleGetRoom(w http.ResponseWriter, r *http.Request) {
	room, err := s.inventory.GetRoomByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err, "failed to get room")
		return
	}
	if room == nil {
		s.respondError(w, http.StatusNotFound, "room not found")
		return
	}
	s.respondJSON(w, http.StatusOK, room)
}

func (s *Server) handleUpdateRoom(w http.ResponseWriter, r *http.Request) {
	var req roomRequest
	if !s.decode(w, r, &req) {
		return
	}

	room, err := s.inventory.UpdateRoom(r.Context(), chi.URLParam(r, "id"), req.Name, req.Description)
	if err != nil {
		s.respondServiceError(w, err, "failed to update room")
		return
	}
	s.respondJSON(w, http.StatusOK, room)
}

func (s *Server) handleDeleteRoom(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.DeleteRoom(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondServiceError(w, err, "failed to delete room")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListLocationsByRoom(w http.ResponseWriter, r *http.Request) {
	locations, err := s.inventory.GetStorageLocationsByRoom(r.Context(), chi.URLParam(r, "id"), auth.UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err, "failed to list storage locations")
		return
	}
	s.respondJSON(w, http.StatusOK, locations)
}
