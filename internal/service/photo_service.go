package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/vbonduro/homestash/internal/domain"
	"github.com/vbonduro/homestash/internal/photostore"
	"github.com/vbonduro/homestash/internal/vision"
)

// Photos manages storage-location photo files and optional vision-assisted
// item suggestions. The analyzer may be nil, in which case uploads succeed
// with no suggestions.
type Photos struct {
	locations locationRepository
	files     photostore.PhotoStore
	analyzer  vision.Analyzer
	logger    *slog.Logger
}

func NewPhotos(locations locationRepository, files photostore.PhotoStore, analyzer vision.Analyzer, logger *slog.Logger) *Photos {
	return &Photos{
		locations: locations,
		files:     files,
		analyzer:  analyzer,
		logger:    logger,
	}
}

// Attach stores the image as the location's photo, replacing any previous
// one, and returns the updated location plus best-effort item suggestions.
// Suggestion failures degrade to an empty list and never fail the upload.
func (s *Photos) Attach(ctx context.Context, locationID string, imageData []byte, mimeType string) (*domain.StorageLocation, []vision.SuggestedItem, error) {
	location, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get storage location: %w", err)
	}
	if location == nil {
		return nil, nil, fmt.Errorf("storage location %w", domain.ErrNotFound)
	}

	key, err := s.files.Save(ctx, "location_"+locationID, mimeType, bytes.NewReader(imageData))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to save photo: %w", err)
	}

	if err := s.locations.SetPhotoURI(ctx, locationID, key); err != nil {
		_ = s.files.Delete(ctx, key)
		return nil, nil, fmt.Errorf("failed to record photo reference: %w", err)
	}

	if location.PhotoURI != "" {
		if err := s.files.Delete(ctx, location.PhotoURI); err != nil {
			s.logger.Warn("failed to delete previous photo file", "location_id", locationID, "photoURI", location.PhotoURI, "error", err)
		}
	}

	var suggestions []vision.SuggestedItem
	if s.analyzer != nil {
		result, err := s.analyzer.Analyze(ctx, bytes.NewReader(imageData), mimeType)
		if err != nil {
			s.logger.Warn("photo analysis failed", "location_id", locationID, "error", err)
		} else {
			suggestions = result.Items
			s.logger.Info("photo analysis complete", "location_id", locationID, "items_suggested", len(suggestions))
		}
	}

	updated, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, suggestions, fmt.Errorf("failed to reload storage location: %w", err)
	}
	return updated, suggestions, nil
}

// Open returns the location's photo content and MIME type for streaming to
// the client.
func (s *Photos) Open(ctx context.Context, locationID string) (io.ReadCloser, string, error) {
	location, err := s.locations.GetByID(ctx, locationID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get storage location: %w", err)
	}
	if location == nil || location.PhotoURI == "" {
		return nil, "", fmt.Errorf("photo %w", domain.ErrNotFound)
	}
	return s.files.Get(ctx, location.PhotoURI)
}
