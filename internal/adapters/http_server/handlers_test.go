package httpserver_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	server "github.com/ahmed-yasser-taha/egypt-sites-api/internal/adapters/http_server"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/app"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/domain"
)

// ---- fakes ----

type stubStore struct {
	domain.Store // panic on anything untouched by a test

	sites      map[int64]domain.Site
	categories []string

	gotCategory string
	created     *domain.Site
	deleted     []int64
}

func (f *stubStore) ListSites(ctx context.Context, pg domain.PageQuery) ([]domain.Site, error) {
	var out []domain.Site
	for _, s := range f.sites {
		out = append(out, s)
	}
	return out, nil
}

func (f *stubStore) GetSite(ctx context.Context, id int64) (domain.Site, error) {
	s, ok := f.sites[id]
	if !ok {
		return domain.Site{}, domain.ErrNotFound
	}
	return s, nil
}

func (f *stubStore) ListSitesByCategory(ctx context.Context, category string) ([]domain.Site, error) {
	f.gotCategory = category
	var out []domain.Site
	for _, s := range f.sites {
		if s.Category != nil && *s.Category == category {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *stubStore) ListCategories(ctx context.Context) ([]string, error) {
	return f.categories, nil
}

func (f *stubStore) CreateSite(ctx context.Context, s domain.Site) (domain.Site, error) {
	s.ID = 1001
	f.created = &s
	return s, nil
}

func (f *stubStore) DeleteSite(ctx context.Context, id int64) error {
	if _, ok := f.sites[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.sites, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type noopCache struct{}

func (noopCache) Get(ctx context.Context, key string, dst any) (bool, error) { return false, nil }
func (noopCache) Set(ctx context.Context, key string, v any, ttlSec int) error {
	return nil
}
func (noopCache) Del(ctx context.Context, key string) error { return nil }

func newTestServer(st domain.Store) http.Handler {
	srv := server.New()
	q := app.NewQueryService(st, noopCache{}, time.Minute)
	c := app.NewCommandService(st, noopCache{})
	srv.MountHandlers(&server.Handlers{Q: q, C: c})
	return srv.Mux()
}

func doReq(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

// ---- tests ----

func TestListSites_Envelope(t *testing.T) {
	st := &stubStore{sites: map[int64]domain.Site{
		1: {ID: 1, Name: "Giza", ImageLink: []string{"a.jpg"}},
	}}
	rr := doReq(t, newTestServer(st), http.MethodGet, "/v1/sites", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", rr.Code, rr.Body)
	}
	var out struct {
		Status string        `json:"status"`
		Data   []domain.Site `json:"data"`
		Count  int           `json:"count"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Status != "success" || out.Count != 1 || len(out.Data) != 1 {
		t.Fatalf("unexpected envelope: %+v", out)
	}
	if out.Data[0].ImageLink == nil {
		t.Fatalf("image_link must serialize as an array")
	}
}

func TestListSites_InvalidLimit(t *testing.T) {
	rr := doReq(t, newTestServer(&stubStore{}), http.MethodGet, "/v1/sites?limit=9999", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Fatalf("content type: %s", ct)
	}
}

func TestGetSite_NotFound(t *testing.T) {
	rr := doReq(t, newTestServer(&stubStore{sites: map[int64]domain.Site{}}), http.MethodGet, "/v1/sites/77", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: %d", rr.Code)
	}
}

func TestGetSite_ETag304(t *testing.T) {
	st := &stubStore{sites: map[int64]domain.Site{5: {ID: 5, Name: "Dendera"}}}
	h := newTestServer(st)

	first := doReq(t, h, http.MethodGet, "/v1/sites/5", "")
	if first.Code != http.StatusOK {
		t.Fatalf("status: %d", first.Code)
	}
	etag := first.Header().Get("ETag")
	if etag == "" {
		t.Fatalf("missing ETag")
	}

	req := httptest.NewRequest(http.MethodGet, "/v1/sites/5", nil)
	req.Header.Set("If-None-Match", etag)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusNotModified {
		t.Fatalf("want 304, got %d", rr.Code)
	}
}

func TestCategorySlug_Canonicalized(t *testing.T) {
	cat := "Ancient Egypt"
	st := &stubStore{sites: map[int64]domain.Site{
		1: {ID: 1, Name: "Karnak", Category: &cat},
	}}
	rr := doReq(t, newTestServer(st), http.MethodGet, "/v1/categories/ancient_egypt", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", rr.Code, rr.Body)
	}
	if st.gotCategory != "Ancient Egypt" {
		t.Fatalf("slug not canonicalized, store saw %q", st.gotCategory)
	}
}

func TestCategory_EmptyIs404(t *testing.T) {
	st := &stubStore{sites: map[int64]domain.Site{}}
	rr := doReq(t, newTestServer(st), http.MethodGet, "/v1/categories/nubian_forts", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status: %d", rr.Code)
	}
}

func TestCreateSite_Validation(t *testing.T) {
	rr := doReq(t, newTestServer(&stubStore{}), http.MethodPost, "/v1/sites",
		`{"name":"No Coords"}`)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: %d body: %s", rr.Code, rr.Body)
	}
}

func TestCreateSite_Created(t *testing.T) {
	st := &stubStore{}
	rr := doReq(t, newTestServer(st), http.MethodPost, "/v1/sites",
		`{"name":"White Desert","latitude":27.3,"longitude":28.1,"category":"Natural Wonders"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("status: %d body: %s", rr.Code, rr.Body)
	}
	if st.created == nil || st.created.Name != "White Desert" {
		t.Fatalf("store never saw the create: %+v", st.created)
	}
	var out struct {
		Status string      `json:"status"`
		Data   domain.Site `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Data.ID != 1001 {
		t.Fatalf("expected assigned id in response, got %+v", out.Data)
	}
}

func TestDeleteSite(t *testing.T) {
	st := &stubStore{sites: map[int64]domain.Site{9: {ID: 9, Name: "Gone"}}}
	rr := doReq(t, newTestServer(st), http.MethodDelete, "/v1/sites/9", "")
	if rr.Code != http.StatusNoContent {
		t.Fatalf("status: %d", rr.Code)
	}
	rr = doReq(t, newTestServer(st), http.MethodDelete, "/v1/sites/9", "")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("second delete status: %d", rr.Code)
	}
}

func TestIndex_DocumentsEndpoints(t *testing.T) {
	rr := doReq(t, newTestServer(&stubStore{}), http.MethodGet, "/", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	var out map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out["message"] != "Egypt Sites API" {
		t.Fatalf("unexpected index: %v", out)
	}
}
