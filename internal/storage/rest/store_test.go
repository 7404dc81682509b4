package rest_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"

	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/adapters/supabase"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/domain"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/storage/rest"
)

func newStore(t *testing.T, h http.HandlerFunc) *rest.Store {
	t.Helper()
	ts := httptest.NewServer(h)
	t.Cleanup(ts.Close)
	cl, err := supabase.New(ts.URL, "test-key", 100)
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return rest.New(cl)
}

func TestGetSite_NotFound(t *testing.T) {
	st := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]")) // empty result set, not an HTTP 404
	})
	_, err := st.GetSite(context.Background(), 12345)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want domain.ErrNotFound, got %v", err)
	}
}

func TestListCategories_DedupesAndSorts(t *testing.T) {
	st := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("select"); got != "category" {
			t.Errorf("projection = %q, want category", got)
		}
		_, _ = w.Write([]byte(`[
			{"category":"Museums"},
			{"category":"Ancient Egypt"},
			{"category":"Museums"},
			{"category":""},
			{"category":null}
		]`))
	})
	got, err := st.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	want := []string{"Ancient Egypt", "Museums"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("categories = %v, want %v", got, want)
	}
}

func TestDeleteSite_NoMatchIsNotFound(t *testing.T) {
	st := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	if err := st.DeleteSite(context.Background(), 7); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("want domain.ErrNotFound, got %v", err)
	}
}

func TestListSites_HydratesLegacyImageEncodings(t *testing.T) {
	st := newStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte(`[
			{"id":1,"name":"One","latitude":1,"longitude":2,"image_link":["a.jpg"]},
			{"id":2,"name":"Two","latitude":1,"longitude":2,"image_link":"[\"b.jpg\"]"},
			{"id":3,"name":"Three","latitude":1,"longitude":2,"image_link":null}
		]`))
	})
	sites, err := st.ListSites(context.Background(), domain.PageQuery{Limit: 50})
	if err != nil {
		t.Fatalf("err: %v", err)
	}
	if len(sites) != 3 {
		t.Fatalf("want 3 sites, got %d", len(sites))
	}
	if !reflect.DeepEqual(sites[0].ImageLink, []string{"a.jpg"}) ||
		!reflect.DeepEqual(sites[1].ImageLink, []string{"b.jpg"}) ||
		!reflect.DeepEqual(sites[2].ImageLink, []string{}) {
		t.Fatalf("image links: %v %v %v", sites[0].ImageLink, sites[1].ImageLink, sites[2].ImageLink)
	}
}
