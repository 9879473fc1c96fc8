package web_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vbonduro/homestash/internal/auth"
	"github.com/vbonduro/homestash/internal/db"
	"github.com/vbonduro/homestash/internal/domain"
	"github.com/vbonduro/homestash/internal/service"
	"github.com/vbonduro/homestash/internal/store"
	"github.com/vbonduro/homestash/internal/vision"
	"github.com/vbonduro/homestash/internal/web"
)

// memPhotoStore is a simple in-memory implementation of photostore.PhotoStore.
type memPhotoStore struct {
	mu      sync.Mutex
	data    map[string][]byte
	counter int
}

func newMemPhotoStore() *memPhotoStore {
	return &memPhotoStore{data: make(map[string][]byte)}
}

func (m *memPhotoStore) Save(_ context.Context, prefix, _ string, r io.Reader) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	key := fmt.Sprintf("%s_%d.jpg", prefix, m.counter)
	m.data[key] = b
	return key, nil
}

func (m *memPhotoStore) Get(_ context.Context, key string) (io.ReadCloser, string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[key]
	if !ok {
		return nil, "", errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(b)), "image/jpeg", nil
}

func (m *memPhotoStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}

// fixedAnalyzer always suggests the same items.
type fixedAnalyzer struct {
	items []vision.SuggestedItem
}

func (f *fixedAnalyzer) Analyze(_ context.Context, r io.Reader, _ string) (*vision.Result, error) {
	if _, err := io.ReadAll(r); err != nil {
		return nil, err
	}
	return &vision.Result{Items: f.items}, nil
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	logger := slog.Default()
	locations := store.NewLocationStore(d)

	inventory := service.NewInventory(
		store.NewDashboardStore(d),
		store.NewRoomStore(d),
		locations,
		store.NewItemStore(d),
		logger,
	)
	photos := service.NewPhotos(locations, newMemPhotoStore(), &fixedAnalyzer{
		items: []vision.SuggestedItem{{Name: "Pasta", Quantity: "2", Category: "pantry"}},
	}, logger)
	authSvc := auth.NewService(store.NewUserStore(d), []byte("integration-secret"), time.Hour)

	ts := httptest.NewServer(web.NewServer(inventory, photos, authSvc, logger))
	t.Cleanup(ts.Close)
	return ts
}

func doJSON(t *testing.T, method, url, token string, body any, out any) *http.Response {
	t.Helper()

	var payload io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		payload = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, url, payload)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func registerUser(t *testing.T, ts *httptest.Server, email string) string {
	t.Helper()
	var session struct {
		User  *domain.User `json:"user"`
		Token string       `json:"token"`
	}
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/register", "", map[string]string{
		"email":    email,
		"password": "password123",
	}, &session)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, session.Token)
	return session.Token
}

func TestFullInventoryFlow(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "alex@example.com")

	var dashboard domain.Dashboard
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/dashboards", token,
		map[string]string{"name": "Home", "description": "main house"}, &dashboard)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, "Home", dashboard.Name)

	var room domain.Room
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/rooms", token,
		map[string]string{"name": "Kitchen", "dashboard_id": dashboard.ID}, &room)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, dashboard.ID, room.DashboardID)

	var location domain.StorageLocation
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/locations", token,
		map[string]string{"name": "Pantry Shelf", "room_id": room.ID}, &location)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotNil(t, location.DashboardID)
	assert.Equal(t, dashboard.ID, *location.DashboardID)

	var item domain.Item
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/items", token, map[string]any{
		"name":              "Olive Oil",
		"category":          "pantry",
		"quantity":          2,
		"storageLocationId": location.ID,
		"roomId":            room.ID,
		"dashboardId":       dashboard.ID,
	}, &item)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, 2, item.Quantity)

	// Search finds the item with ancestor names attached.
	var results []domain.EnrichedItem
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/search?q=olive", token, nil, &results)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, results, 1)
	require.NotNil(t, results[0].LocationName)
	assert.Equal(t, "Pantry Shelf", *results[0].LocationName)
	require.NotNil(t, results[0].DashboardName)
	assert.Equal(t, "Home", *results[0].DashboardName)

	// Deleting the location reassigns the item.
	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/locations/"+location.ID, token, nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var reloaded domain.Item
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/items/"+item.ID, token, nil, &reloaded)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, domain.UnassignedID, reloaded.StorageLocationID)
}

func TestOwnerScoping(t *testing.T) {
	ts := newTestServer(t)
	alexToken := registerUser(t, ts, "alex@example.com")
	samToken := registerUser(t, ts, "sam@example.com")

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/dashboards", alexToken,
		map[string]string{"name": "Alex Home"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	// Anonymous dashboards are shared with everyone.
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/dashboards", "",
		map[string]string{"name": "Shared"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var alexSees []domain.Dashboard
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/dashboards", alexToken, nil, &alexSees)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Len(t, alexSees, 2)

	var samSees []domain.Dashboard
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/dashboards", samToken, nil, &samSees)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, samSees, 1)
	assert.Equal(t, "Shared", samSees[0].Name)
}

func TestValidationAndNotFoundStatuses(t *testing.T) {
	ts := newTestServer(t)

	// Blank name is a 400.
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/dashboards", "",
		map[string]string{"name": "   "}, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Unknown ids are 404s.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/dashboards/no-such-id", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, ts.URL+"/api/items/no-such-id", "",
		map[string]string{"name": "X"}, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = doJSON(t, http.MethodDelete, ts.URL+"/api/rooms/no-such-id", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Missing search query is a 400.
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/search", "", nil, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestMeEndpoint(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "alex@example.com")

	var me domain.User
	resp := doJSON(t, http.MethodGet, ts.URL+"/api/me", token, nil, &me)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alex@example.com", me.Email)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/me", "", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPasswordResetEndpoints(t *testing.T) {
	ts := newTestServer(t)
	registerUser(t, ts, "alex@example.com")

	var reset struct {
		ResetToken string `json:"resetToken"`
	}
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/password-reset", "",
		map[string]string{"email": "alex@example.com"}, &reset)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, reset.ResetToken)

	resp = doJSON(t, http.MethodPost, ts.URL+"/api/password-reset/confirm", "",
		map[string]string{"token": reset.ResetToken, "password": "brand-new-pass"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var session struct {
		Token string `json:"token"`
	}
	resp = doJSON(t, http.MethodPost, ts.URL+"/api/login", "",
		map[string]string{"email": "alex@example.com", "password": "brand-new-pass"}, &session)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, session.Token)
}

func TestPhotoUploadAndFetch(t *testing.T) {
	ts := newTestServer(t)
	token := registerUser(t, ts, "alex@example.com")

	var location domain.StorageLocation
	resp := doJSON(t, http.MethodPost, ts.URL+"/api/locations", token,
		map[string]string{"name": "Shelf", "room_id": "room-1"}, &location)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("photo", "shelf.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("fake jpeg bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/locations/"+location.ID+"/photo", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	uploadResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer uploadResp.Body.Close()
	require.Equal(t, http.StatusOK, uploadResp.StatusCode)

	var upload struct {
		Location    *domain.StorageLocation `json:"location"`
		Suggestions []vision.SuggestedItem  `json:"suggestions"`
	}
	require.NoError(t, json.NewDecoder(uploadResp.Body).Decode(&upload))
	require.NotNil(t, upload.Location)
	assert.NotEmpty(t, upload.Location.PhotoURI)
	require.Len(t, upload.Suggestions, 1)
	assert.Equal(t, "Pasta", upload.Suggestions[0].Name)

	// The photo streams back.
	fetch, err := http.Get(ts.URL + "/api/locations/" + location.ID + "/photo")
	require.NoError(t, err)
	defer fetch.Body.Close()
	require.Equal(t, http.StatusOK, fetch.StatusCode)

	data, err := io.ReadAll(fetch.Body)
	require.NoError(t, err)
	assert.Equal(t, []byte("fake jpeg bytes"), data)

	// Search by the stored photo reference lists the location's items.
	doJSON(t, http.MethodPost, ts.URL+"/api/items", token, map[string]any{
		"name":              "Jar",
		"storageLocationId": location.ID,
	}, nil)

	var items []domain.Item
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/search/location?photo="+upload.Location.PhotoURI, token, nil, &items)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, items, 1)
	assert.Equal(t, "Jar", items[0].Name)
}

func TestLocationLookupByName(t *testing.T) {
	ts := newTestServer(t)

	resp := doJSON(t, http.MethodPost, ts.URL+"/api/locations", "",
		map[string]string{"name": "Tool Chest", "room_id": "room-1"}, nil)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var found domain.StorageLocation
	resp = doJSON(t, http.MethodGet, ts.URL+"/api/locations?name=Tool+Chest", "", nil, &found)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Tool Chest", found.Name)

	resp = doJSON(t, http.MethodGet, ts.URL+"/api/locations?name=Nothing", "", nil, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
