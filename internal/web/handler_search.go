package web

import (
	"net/http"

	"github.com/vbonduro/homestash/internal/auth"
	"github.com/vbonduro/homestash/internal/domain"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		s.respondError(w, http.StatusBadRequest, "missing query parameter q")
		return
	}

	results, err := s.inventory.SearchItemsByNameOrCategory(r.Context(), query, auth.UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err, "failed to search items")
		return
	}
	s.respondJSON(w, http.StatusOK, results)
}

func (s *Server) handleSearchByLocation(w http.ResponseWriter, r *http.Request) {
	photoURI := r.URL.Query().Get("photo")
	if photoURI == "" {
		s.respondError(w, http.StatusBadRequest, "missing query parameter photo")
		return
	}

	items, err := s.inventory.SearchItemsByLocation(r.Context(), photoURI, auth.UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err, "failed to search items by location")
		return
	}
	if items == nil {
		items = []*domain.Item{}
	}
	s.respondJSON(w, http.StatusOK, items)
}
