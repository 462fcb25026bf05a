package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lysyi3m/folio/app/card"
	"github.com/lysyi3m/folio/app/config"
	"github.com/lysyi3m/folio/app/database"
	"github.com/lysyi3m/folio/app/listing"
)

type mockCardRepo struct {
	cards map[string][]card.Card
	err   error
}

func (m *mockCardRepo) ReplaceCollection(ctx context.Context, collection string, kind card.Kind, cards []card.Card) error {
	m.cards[collection] = cards
	return nil
}

func (m *mockCardRepo) Cards(ctx context.Context, collection string) ([]card.Card, error) {
	return m.cards[collection], m.err
}

func (m *mockCardRepo) Card(ctx context.Context, collection, slug string) (*card.Card, error) {
	return nil, nil
}

func (m *mockCardRepo) Stats(ctx context.Context) ([]database.CollectionStats, error) {
	if m.err != nil {
		return nil, m.err
	}
	var stats []database.CollectionStats
	for name, cards := range m.cards {
		stats = append(stats, database.CollectionStats{Name: name, Cards: len(cards), SyncedAt: time.Now()})
	}
	return stats, nil
}

func (m *mockCardRepo) Count(ctx context.Context) (int, error) {
	total := 0
	for _, cards := range m.cards {
		total += len(cards)
	}
	return total, m.err
}

type mockRebuilder struct {
	rebuilds  []string
	refreshes []string
	err       error
}

func (m *mockRebuilder) Rebuild(reason string) error {
	m.rebuilds = append(m.rebuilds, reason)
	return m.err
}

func (m *mockRebuilder) Refresh(reason string) error {
	m.refreshes = append(m.refreshes, reason)
	return m.err
}

func setupServer(t *testing.T, apiKey string) (*gin.Engine, *mockCardRepo, *mockRebuilder, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	site, err := config.NewLoader(filepath.Join(t.TempDir(), "site.yml")).Load()
	if err != nil {
		t.Fatalf("Failed to load site config: %v", err)
	}

	outputDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(outputDir, "projects"), 0755); err != nil {
		t.Fatalf("Failed to create output dir: %v", err)
	}
	os.WriteFile(filepath.Join(outputDir, "index.html"), []byte("<h1>Home</h1>"), 0644)
	os.WriteFile(filepath.Join(outputDir, "projects", "index.html"), []byte("<h1>Projects</h1>"), 0644)

	repo := &mockCardRepo{cards: map[string][]card.Card{
		"projects": {
			{Kind: card.KindProject, Slug: "compiler", Title: "Compiler"},
			{Kind: card.KindProject, Slug: "secret", Title: "Secret", Draft: true},
		},
	}}
	rebuilder := &mockRebuilder{}

	return NewServer(NewHandler(site, repo, rebuilder, outputDir), apiKey), repo, rebuilder, outputDir
}

func serve(r http.Handler, method, path string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _, _, _ := setupServer(t, "")

	w := serve(r, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode body: %v", err)
	}
	if body["cards"] != float64(2) {
		t.Errorf("Expected 2 cards, got %v", body["cards"])
	}
	if body["collections"] != float64(3) {
		t.Errorf("Expected 3 collections, got %v", body["collections"])
	}
}

func TestStats(t *testing.T) {
	r, repo, _, _ := setupServer(t, "")

	w := serve(r, "GET", "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"total":2`) {
		t.Errorf("Expected total 2, got %s", w.Body.String())
	}

	repo.err = errors.New("disk full")
	if w := serve(r, "GET", "/stats", nil); w.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", w.Code)
	}
}

func TestServesStaticSite(t *testing.T) {
	r, _, _, _ := setupServer(t, "")

	w := serve(r, "GET", "/", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Home") {
		t.Errorf("Expected home page, got %d %s", w.Code, w.Body.String())
	}

	w = serve(r, "GET", "/projects/", nil)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "Projects") {
		t.Errorf("Expected projects page, got %d %s", w.Code, w.Body.String())
	}

	if w := serve(r, "GET", "/nope/", nil); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	if w := serve(r, "OPTIONS", "/health", nil); w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204 for preflight, got %d", w.Code)
	}
}

func TestAPIDisabledWithoutKey(t *testing.T) {
	r, _, rebuilder, _ := setupServer(t, "")

	serve(r, "POST", "/api/rebuild", nil)
	if len(rebuilder.rebuilds) != 0 {
		t.Error("Expected rebuild endpoint to be disabled")
	}
}

func TestAPIAuth(t *testing.T) {
	r, _, _, _ := setupServer(t, "secret")

	if w := serve(r, "POST", "/api/rebuild", nil); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 without key, got %d", w.Code)
	}
	if w := serve(r, "POST", "/api/rebuild", map[string]string{"X-API-Key": "wrong"}); w.Code != http.StatusUnauthorized {
		t.Errorf("Expected status 401 with wrong key, got %d", w.Code)
	}
}

func TestAPIRebuildAndRefresh(t *testing.T) {
	r, _, rebuilder, _ := setupServer(t, "secret")

	w := serve(r, "POST", "/api/rebuild", map[string]string{"X-API-Key": "secret"})
	if w.Code != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d", w.Code)
	}
	w = serve(r, "POST", "/api/refresh", map[string]string{"Authorization": "Bearer secret"})
	if w.Code != http.StatusAccepted {
		t.Errorf("Expected status 202, got %d", w.Code)
	}
	if len(rebuilder.rebuilds) != 1 || len(rebuilder.refreshes) != 1 {
		t.Errorf("Expected one rebuild and one refresh, got %v %v", rebuilder.rebuilds, rebuilder.refreshes)
	}

	rebuilder.err = errors.New("task queue is full")
	if w := serve(r, "POST", "/api/rebuild", map[string]string{"X-API-Key": "secret"}); w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", w.Code)
	}
}

func TestAPIGetCollection(t *testing.T) {
	r, _, _, _ := setupServer(t, "secret")
	auth := map[string]string{"X-API-Key": "secret"}

	w := serve(r, "GET", "/api/collections/projects", auth)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if w.Header().Get("X-Collection-Cards") != "1" {
		t.Errorf("Expected X-Collection-Cards 1, got %s", w.Header().Get("X-Collection-Cards"))
	}

	var payload listing.Payload
	if err := json.Unmarshal(w.Body.Bytes(), &payload); err != nil {
		t.Fatalf("Failed to decode payload: %v", err)
	}
	if len(payload.Cards) != 1 || payload.Cards[0].Slug != "compiler" {
		t.Errorf("Expected only the published card, got %+v", payload.Cards)
	}
	if payload.Variant.DefaultPageSize != 6 {
		t.Errorf("Expected default page size 6, got %d", payload.Variant.DefaultPageSize)
	}

	if w := serve(r, "GET", "/api/collections/unknown", auth); w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestMetrics(t *testing.T) {
	r, _, _, _ := setupServer(t, "")

	w := serve(r, "GET", "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "go_goroutines") {
		t.Error("Expected default Go collectors in metrics output")
	}
}
