package web

import (
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vbonduro/homestash/internal/auth"
	"github.com/vbonduro/homestash/internal/domain"
	"github.com/vbonduro/homestash/internal/vision"
)

// maxPhotoBytes caps uploaded photo size at 10 MiB.
const maxPhotoBytes = 10 << 20

type locationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	PhotoURI    string `json:"photoURI"`
	RoomID      string `json:"room_id"`
}

func (s *Server) handleListLocations(w http.ResponseWriter, r *http.Request) {
	owner := auth.UserID(r.Context())

	// ?name= resolves a single location by exact name instead of listing.
	if name := r.URL.Query().Get("name"); name != "" {
		location, err := s.inventory.GetStorageLocationByName(r.Context(), name)
		if err != nil {
			s.respondServiceError(w, err, "failed to look up storage location")
			return
		}
		if location == nil {
			s.respondError(w, http.StatusNotFound, "storage location not found")
			return
		}
		s.respondJSON(w, http.StatusOK, location)
		return
	}

	locations, err := s.inventory.GetAllStorageLocations(r.Context(), owner)
	if err != nil {
		s.respondServiceError(w, err, "failed to list storage locations")
		return
	}
	s.respondJSON(w, http.StatusOK, locations)
}

func (s *Server) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if !s.decode(w, r, &req) {
		return
	}

	location, err := s.inventory.CreateStorageLocation(r.Context(), req.Name, req.Description, req.PhotoURI, req.RoomID, auth.UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err, "failed to create storage location")
		return
	}
	s.respondJSON(w, http.StatusCreated, location)
}

func (s *Server) handleGetLocation(w http.ResponseWriter, r *http.Request) {
	location, err := s.inventory.GetStorageLocationByID(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err, "failed to get storage location")
		return
	}
	if location == nil {
		s.respondError(w, http.StatusNotFound, "storage location not found")
		return
	}
	s.respondJSON(w, http.StatusOK, location)
}

func (s *Server) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	var req locationRequest
	if !s.decode(w, r, &req) {
		return
	}

	location, err := s.inventory.UpdateStorageLocation(r.Context(), chi.URLParam(r, "id"), req.Name, req.Description, req.PhotoURI, req.RoomID)
	if err != nil {
		s.respondServiceError(w, err, "failed to update storage location")
		return
	}
	s.respondJSON(w, http.StatusOK, location)
}

func (s *Server) handleDeleteLocation(w http.ResponseWriter, r *http.Request) {
	if err := s.inventory.DeleteStorageLocation(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondServiceError(w, err, "failed to delete storage location")
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (s *Server) handleListItemsByLocation(w http.ResponseWriter, r *http.Request) {
	items, err := s.inventory.GetItemsByStorageLocation(r.Context(), chi.URLParam(r, "id"), auth.UserID(r.Context()))
	if err != nil {
		s.respondServiceError(w, err, "failed to list items")
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

type photoUploadResponse struct {
	Location    *domain.StorageLocation `json:"location"`
	Suggestions []vision.SuggestedItem  `json:"suggestions"`
}

func (s *Server) handleUploadLocationPhoto(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoBytes)
	if err := r.ParseMultipartForm(maxPhotoBytes); err != nil {
		s.respondError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("photo")
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "missing photo field")
		return
	}
	defer file.Close()

	imageData, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "failed to read photo")
		return
	}

	location, suggestions, err := s.photos.Attach(r.Context(), chi.URLParam(r, "id"), imageData, header.Header.Get("Content-Type"))
	if err != nil {
		s.respondServiceError(w, err, "failed to attach photo")
		return
	}

	if suggestions == nil {
		suggestions = []vision.SuggestedItem{}
	}
	s.respondJSON(w, http.StatusOK, photoUploadResponse{Location: location, Suggestions: suggestions})
}

func (s *Server) handleGetLocationPhoto(w http.ResponseWriter, r *http.Request) {
	reader, mimeType, err := s.photos.Open(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondServiceError(w, err, "failed to open photo")
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", mimeType)
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("failed to stream photo", "error", err)
	}
}
