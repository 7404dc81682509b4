package rest

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/domain"
)

func TestMapSite_HeterogeneousImageLink(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want []string
	}{
		{"native array", []any{"a.jpg", "b.jpg"}, []string{"a.jpg", "b.jpg"}},
		{"json text array", `["a.jpg","b.jpg"]`, []string{"a.jpg", "b.jpg"}},
		{"bare string", "a.jpg", []string{"a.jpg"}},
		{"null marker", "NULL", []string{}},
		{"missing", nil, []string{}},
		{"numeric column", json.Number("5"), []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			row := map[string]any{
				"id":        json.Number("3"),
				"name":      "Karnak Temple",
				"latitude":  json.Number("25.7188"),
				"longitude": json.Number("32.6573"),
			}
			if tc.raw != nil {
				row["image_link"] = tc.raw
			}
			s := mapSite(row)
			if s.ID != 3 || s.Name != "Karnak Temple" {
				t.Fatalf("identity fields: %+v", s)
			}
			if s.Latitude != 25.7188 || s.Longitude != 32.6573 {
				t.Fatalf("coords: %+v", s)
			}
			if !reflect.DeepEqual(s.ImageLink, tc.want) {
				t.Fatalf("ImageLink = %#v, want %#v", s.ImageLink, tc.want)
			}
		})
	}
}

func TestMapSite_CommaDecimalCoords(t *testing.T) {
	s := mapSite(map[string]any{
		"id":        json.Number("1"),
		"name":      "Abu Simbel",
		"latitude":  "22,3372",
		"longitude": "31,6258",
	})
	if s.Latitude != 22.3372 || s.Longitude != 31.6258 {
		t.Fatalf("legacy comma decimals not parsed: %+v", s)
	}
}

func TestMapSite_OptionalFields(t *testing.T) {
	s := mapSite(map[string]any{
		"id":       json.Number("2"),
		"name":     "Egyptian Museum",
		"category": "Museums",
		"note":     "",
	})
	if s.Category == nil || *s.Category != "Museums" {
		t.Fatalf("category: %+v", s.Category)
	}
	if s.Note != nil {
		t.Fatalf("empty note should hydrate to nil, got %q", *s.Note)
	}
	if s.Governorate != nil {
		t.Fatalf("absent governorate should be nil")
	}
}

func TestMapInstruction(t *testing.T) {
	in := mapInstruction(map[string]any{
		"id":                 json.Number("9"),
		"place":              "Giza Plateau",
		"instructions":       "Arrive before 8am.",
		"source":             "ministry site",
		"is_official_source": true,
	})
	if in.ID != 9 || in.Place == nil || *in.Place != "Giza Plateau" {
		t.Fatalf("unexpected instruction: %+v", in)
	}
	if in.IsOfficialSource == nil || !*in.IsOfficialSource {
		t.Fatalf("official flag lost")
	}
}

func TestMapGalleryEntry(t *testing.T) {
	g := mapGalleryEntry(map[string]any{
		"id":         json.Number("4"),
		"name":       "Sunrise over Philae",
		"created_at": "2024-06-01T09:30:00Z",
		"image_link": `["p1.jpg","p2.jpg"]`,
	})
	if g.ID != 4 || g.Name != "Sunrise over Philae" {
		t.Fatalf("unexpected entry: %+v", g)
	}
	if g.CreatedAt == nil || g.CreatedAt.Year() != 2024 {
		t.Fatalf("created_at not parsed: %+v", g.CreatedAt)
	}
	if !reflect.DeepEqual(g.ImageLink, []string{"p1.jpg", "p2.jpg"}) {
		t.Fatalf("image_link: %#v", g.ImageLink)
	}
}

func TestSiteRow_OmitsEmptyOptionals(t *testing.T) {
	desc := "The last standing wonder."
	row := siteRow(domain.Site{
		Name:        "Great Pyramid",
		Latitude:    29.9792,
		Longitude:   31.1342,
		Description: &desc,
	})
	if _, ok := row["note"]; ok {
		t.Fatalf("empty note should not be sent")
	}
	if row["description"] != desc {
		t.Fatalf("description missing from payload")
	}
	if row["name"] != "Great Pyramid" {
		t.Fatalf("name missing from payload")
	}
}
