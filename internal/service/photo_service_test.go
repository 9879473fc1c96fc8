package service

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/homestash/internal/db"
	"github.com/vbonduro/homestash/internal/domain"
	"github.com/vbonduro/homestash/internal/store"
	"github.com/vbonduro/homestash/internal/vision"
)

// stubAnalyzer is a minimal vision.Analyzer for tests.
type stubAnalyzer struct {
	result *vision.Result
	err    error
}

func (s *stubAnalyzer) Analyze(_ context.Context, _ io.Reader, _ string) (*vision.Result, error) {
	return s.result, s.err
}

// stubPhotoStore is a minimal in-memory photostore.PhotoStore for tests.
type stubPhotoStore struct {
	saved   map[string][]byte
	saveErr error
}

func newStubPhotoStore() *stubPhotoStore {
	return &stubPhotoStore{saved: make(map[string][]byte)}
}

func (s *stubPhotoStore) Save(_ context.Context, prefix, _ string, r io.Reader) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	data, _ := io.ReadAll(r)
	key := prefix + ".jpg"
	s.saved[key] = data
	return key, nil
}

func (s *stubPhotoStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	data, ok := s.saved[key]
	if !ok {
		return nil, "", errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), "image/jpeg", nil
}

func (s *stubPhotoStore) Delete(_ context.Context, key string) error {
	delete(s.saved, key)
	return nil
}

func newTestPhotos(t *testing.T, analyzer vision.Analyzer) (*Photos, *store.LocationStore, *stubPhotoStore) {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	locations := store.NewLocationStore(d)
	files := newStubPhotoStore()
	return NewPhotos(locations, files, analyzer, slog.Default()), locations, files
}

func TestPhotosAttach(t *testing.T) {
	suggested := []vision.SuggestedItem{{Name: "Pasta", Quantity: "2", Category: "pantry"}}
	photos, locations, files := newTestPhotos(t, &stubAnalyzer{result: &vision.Result{Items: suggested}})
	ctx := context.Background()

	location, err := locations.Create(ctx, "Shelf", "", "", "room-1", nil, nil)
	require.NoError(t, err)

	updated, suggestions, err := photos.Attach(ctx, location.ID, []byte("image-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, updated.PhotoURI)
	assert.Equal(t, suggested, suggestions)
	assert.Contains(t, files.saved, updated.PhotoURI)
}

func TestPhotosAttachAnalyzerFailureStillSaves(t *testing.T) {
	photos, locations, _ := newTestPhotos(t, &stubAnalyzer{err: errors.New("model offline")})
	ctx := context.Background()

	location, err := locations.Create(ctx, "Shelf", "", "", "room-1", nil, nil)
	require.NoError(t, err)

	updated, suggestions, err := photos.Attach(ctx, location.ID, []byte("image-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, updated.PhotoURI)
	assert.Empty(t, suggestions)
}

func TestPhotosAttachNoAnalyzer(t *testing.T) {
	photos, locations, _ := newTestPhotos(t, nil)
	ctx := context.Background()

	location, err := locations.Create(ctx, "Shelf", "", "", "room-1", nil, nil)
	require.NoError(t, err)

	updated, suggestions, err := photos.Attach(ctx, location.ID, []byte("image-bytes"), "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, updated.PhotoURI)
	assert.Empty(t, suggestions)
}

func TestPhotosAttachMissingLocation(t *testing.T) {
	photos, _, _ := newTestPhotos(t, nil)

	_, _, err := photos.Attach(context.Background(), "no-such-id", []byte("x"), "image/jpeg")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPhotosAttachReplacesPreviousFile(t *testing.T) {
	photos, locations, files := newTestPhotos(t, nil)
	ctx := context.Background()

	location, err := locations.Create(ctx, "Shelf", "", "", "room-1", nil, nil)
	require.NoError(t, err)

	first, _, err := photos.Attach(ctx, location.ID, []byte("one"), "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, first.PhotoURI)

	// The stub keys by prefix, so force a distinct old key before replacing.
	files.saved["old-key.jpg"] = []byte("stale")
	require.NoError(t, locations.SetPhotoURI(ctx, location.ID, "old-key.jpg"))

	second, _, err := photos.Attach(ctx, location.ID, []byte("two"), "image/jpeg")
	require.NoError(t, err)
	assert.NotEmpty(t, second.PhotoURI)
	assert.NotContains(t, files.saved, "old-key.jpg")
}

func TestPhotosOpen(t *testing.T) {
	photos, locations, _ := newTestPhotos(t, nil)
	ctx := context.Background()

	location, err := locations.Create(ctx, "Shelf", "", "", "room-1", nil, nil)
	require.NoError(t, err)

	_, _, err = photos.Attach(ctx, location.ID, []byte("image-bytes"), "image/jpeg")
	require.NoError(t, err)

	reader, mimeType, err := photos.Open(ctx, location.ID)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, []byte("image-bytes"), data)
	assert.Equal(t, "image/jpeg", mimeType)
}

func TestPhotosOpenNoPhoto(t *testing.T) {
	photos, locations, _ := newTestPhotos(t, nil)
	ctx := context.Background()

	location, err := locations.Create(ctx, "Shelf", "", "", "room-1", nil, nil)
	require.NoError(t, err)

	_, _, err = photos.Open(ctx, location.ID)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
