package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zaddie29/News-aggregator-cli/internal/collector"
	"github.com/zaddie29/News-aggregator-cli/internal/processor"
	"github.com/zaddie29/News-aggregator-cli/internal/storage"
)

func newTestRouter(t *testing.T) (*gin.Engine, *storage.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	store, err := storage.NewStore(filepath.Join(t.TempDir(), "api.db"), "")
	if err != nil {
		t.Fatalf("NewStore error: %v", err)
	}

	r := gin.New()
	NewServer(store).RegisterRoutes(r)
	return r, store
}

func doGet(t *testing.T, r *gin.Engine, path string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	r.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t)
	if w := doGet(t, r, "/health"); w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
}

func TestListHeadlinesReturnsStoredRows(t *testing.T) {
	r, store := newTestRouter(t)
	if err := store.SaveBatch([]processor.Headline{
		{Source: collector.SourceBBC, Title: "Flood hits city", URL: "https://www.bbc.com/news/1", PublishedAt: "2024-01-05T08:00:00Z"},
	}); err != nil {
		t.Fatalf("SaveBatch error: %v", err)
	}

	w := doGet(t, r, "/api/v1/headlines?source=bbc&date=2024-01-05")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Code string             `json:"code"`
		Data []storage.Headline `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Code != "ok" || len(resp.Data) != 1 || resp.Data[0].Title != "Flood hits city" {
		t.Fatalf("unexpected response: %s", w.Body.String())
	}
}

func TestListHeadlinesRejectsBadParams(t *testing.T) {
	r, _ := newTestRouter(t)

	if w := doGet(t, r, "/api/v1/headlines?source=reuters"); w.Code != http.StatusBadRequest {
		t.Fatalf("unknown source should be 400, got %d", w.Code)
	}
	if w := doGet(t, r, "/api/v1/headlines?date=05-01-2024"); w.Code != http.StatusBadRequest {
		t.Fatalf("malformed date should be 400, got %d", w.Code)
	}
}

func TestListSourcesCatalog(t *testing.T) {
	r, _ := newTestRouter(t)

	w := doGet(t, r, "/api/v1/sources")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data []struct {
			Code string `json:"code"`
		} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 3 || resp.Data[0].Code != "newsapi" {
		t.Fatalf("unexpected catalog: %s", w.Body.String())
	}
}

func TestListRunsReturnsReports(t *testing.T) {
	r, store := newTestRouter(t)
	if err := store.SaveRun(storage.NewRun(time.Now(), 10, 8, map[string]string{"cnn": "timeout"})); err != nil {
		t.Fatalf("SaveRun error: %v", err)
	}

	w := doGet(t, r, "/api/v1/runs")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var resp struct {
		Data []storage.CollectionRun `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].Fetched != 10 || resp.Data[0].Kept != 8 {
		t.Fatalf("unexpected runs response: %s", w.Body.String())
	}
}
