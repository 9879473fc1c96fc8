package web

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/homestash/internal/auth"
	"github.com/vbonduro/homestash/internal/service"
)

// itemRequest accepts quantity as either a JSON number or a string; both are
// coerced to text and parsed with a default of 1.
type itemRequest struct {
	Name              string `json:"name"`
	Category          string `json:"category"`
	Description       string `json:"description"`
	Quantity          any    `json:"quantity"`
	PhotoURI          string `json:"photoURI"`
	StorageLocationID string `json:"storageLocationId"`
	RoomID            string `json:"roomId"`
	DashboardID       string `json:"dashboardId"`
}

func quantityText(v any) string {
	switch q := v.(type) {
	case nil:
		return ""
	case string:
		return q
	case float64:
		return fmt.Sprintf("%d", int(q))
	default:
		return fmt.Sprint(q)
	}
}

func (s *Server) handleListItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.inventory.GetAllItems(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err, "failed to list items")
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleAddItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !s.decode(w, r, &req) {
		return
	}

	item, err := s.inventory.AddItem(r.Context(), service.AddItemInput{
		Name:              req.Name,
		Category:          req.Category,
		Description:       req.Description,
		Quantity:          quantityText(req.Quantity),
		PhotoURI:          req.PhotoURI,
		StorageLocationID: req.StorageLocationID,
		RoomID:            req.RoomID,
		DashboardID:       req.DashboardID,
		UserID:            auth.UserID(r.Context()),
	})
	if err != nil {
		s.respondServiceError(w, err, "failed to add item")
		return
	}
	s.respondJSON(w, http.StatusCreated, item)
}

func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.inventory.GetItemByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err, "failed to get item")
		return
	}
	if item == nil {
		s.respondError(w, http.StatusNotFound, "item not found")
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if !s.decode(w, r, &req) {
		return
	}

	item, err := s.inventory.UpdateItem(r.Context(), chi.URLParam(r, "id"),
		req.Name, req.Category, req.Description, quantityText(req.Quantity), req.PhotoURI, req.StorageLocationID)
	if err != nil {
		s.respondServiceError(w, err, "failed to update item")
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.DeleteItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondServiceError(w, err, "failed to delete item")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
