package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"medialog/internal/config"
	"medialog/internal/controllers"
	"medialog/internal/models"
	"medialog/internal/services/auth"
	"medialog/internal/services/jikan"
	"medialog/internal/services/rawg"
	"medialog/internal/services/tmdb"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	db, err := models.NewDatabase(filepath.Join(t.TempDir(), "medialog.db"))
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	cfg := &config.Config{
		JWTSecret:      "test-secret",
		JWTExpiryHours: 1,
		TMDBAPIKey:     "test-key",
		RAWGAPIKey:     "test-key",
	}

	authSvc, err := auth.NewService(cfg, db, logger)
	if err != nil {
		t.Fatalf("failed to create auth service: %v", err)
	}

	tmdbClient, err := tmdb.NewClient(cfg, logger)
	if err != nil {
		t.Fatalf("failed to create tmdb client: %v", err)
	}
	rawgClient, err := rawg.NewClient(cfg, logger)
	if err != nil {
		t.Fatalf("failed to create rawg client: %v", err)
	}

	listCtrl := controllers.NewListController(db, logger)
	trendingCtrl := controllers.NewTrendingController(db, time.Minute, logger)
	searchCtrl := controllers.NewSearchController(tmdbClient, jikan.NewClient(logger), rawgClient, time.Minute, logger)

	server := httptest.NewServer(NewRouter(db, authSvc, listCtrl, trendingCtrl, searchCtrl, logger))
	t.Cleanup(server.Close)

	return server
}

func doJSON(t *testing.T, method, url, token string, body interface{}) (*http.Response, map[string]json.RawMessage) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })

	var parsed map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil && err != io.EOF {
		t.Fatalf("failed to decode response: %v", err)
	}

	return resp, parsed
}

func registerAndLogin(t *testing.T, server *httptest.Server) string {
	t.Helper()

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: expected 201, got %d", resp.StatusCode)
	}

	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "hunter22",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login: expected 200, got %d", resp.StatusCode)
	}

	var token string
	if err := json.Unmarshal(body["token"], &token); err != nil || token == "" {
		t.Fatalf("login response carries no token: %s", body["token"])
	}
	return token
}

func TestListRoutesRequireAuth(t *testing.T) {
	server := newTestServer(t)

	resp, _ := doJSON(t, http.MethodGet, server.URL+"/api/list", "", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, server.URL+"/api/list", "garbage-token", nil)
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 with a bad token, got %d", resp.StatusCode)
	}
}

func TestListFlowOverHTTP(t *testing.T) {
	server := newTestServer(t)
	token := registerAndLogin(t, server)

	// add without status lands in the intake bucket
	resp, body := doJSON(t, http.MethodPost, server.URL+"/api/list", token, map[string]interface{}{
		"type": "anime",
		"item": map[string]interface{}{"id": 20, "title": "Naruto"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d (%s)", resp.StatusCode, body["message"])
	}

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/list", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get lists: expected 200, got %d", resp.StatusCode)
	}
	var anime map[string][]models.ListItem
	if err := json.Unmarshal(body["anime"], &anime); err != nil {
		t.Fatalf("failed to parse anime lists: %v", err)
	}
	if len(anime["plan_to_watch"]) != 1 || anime["plan_to_watch"][0].ID != "20" {
		t.Fatalf("expected item under plan_to_watch, got %+v", anime["plan_to_watch"])
	}

	// duplicate add is rejected
	resp, _ = doJSON(t, http.MethodPost, server.URL+"/api/list", token, map[string]interface{}{
		"type": "anime",
		"item": map[string]interface{}{"id": "20", "title": "Naruto"},
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate add: expected 400, got %d", resp.StatusCode)
	}

	// move to watching with a score
	resp, _ = doJSON(t, http.MethodPut, server.URL+"/api/list/anime/20", token, map[string]interface{}{
		"status": "watching",
		"score":  8,
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update: expected 200, got %d", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodGet, server.URL+"/api/list", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get lists: expected 200, got %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body["anime"], &anime); err != nil {
		t.Fatalf("failed to parse anime lists: %v", err)
	}
	if len(anime["plan_to_watch"]) != 0 {
		t.Error("item must leave plan_to_watch after the move")
	}
	if len(anime["watching"]) != 1 || anime["watching"][0].Score == nil || *anime["watching"][0].Score != 8 {
		t.Fatalf("expected item under watching with score 8, got %+v", anime["watching"])
	}

	// remove and confirm it is gone
	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/list/anime/20", token, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("remove: expected 200, got %d", resp.StatusCode)
	}
	resp, _ = doJSON(t, http.MethodDelete, server.URL+"/api/list/anime/20", token, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("second remove: expected 404, got %d", resp.StatusCode)
	}
}

func TestTrendingEndpoint(t *testing.T) {
	server := newTestServer(t)
	token := registerAndLogin(t, server)

	resp, _ := doJSON(t, http.MethodPost, server.URL+"/api/list", token, map[string]interface{}{
		"type":   "movie",
		"status": "completed",
		"item":   map[string]interface{}{"id": 603, "title": "The Matrix"},
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("add: expected 201, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/search/trending/movie?limit=5", nil)
	trendingResp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("trending request failed: %v", err)
	}
	defer trendingResp.Body.Close()

	if trendingResp.StatusCode != http.StatusOK {
		t.Fatalf("trending: expected 200, got %d", trendingResp.StatusCode)
	}

	var entries []models.TrendingEntry
	if err := json.NewDecoder(trendingResp.Body).Decode(&entries); err != nil {
		t.Fatalf("failed to decode trending response: %v", err)
	}
	if len(entries) != 1 || entries[0].Item.ID != "603" || entries[0].Count != 1 {
		t.Fatalf("unexpected trending payload: %+v", entries)
	}
}

func TestHealthAndStatusEndpoints(t *testing.T) {
	server := newTestServer(t)

	for _, path := range []string{"/health", "/status", "/metrics"} {
		resp, err := http.Get(fmt.Sprintf("%s%s", server.URL, path))
		if err != nil {
			t.Fatalf("%s request failed: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
