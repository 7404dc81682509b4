package rest

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/domain"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/normalize"
)

/********** tiny helpers **********/

func lookupStr(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func ptrStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// getFloat reads a number that may arrive as json.Number, float64, int or a
// string like "29,9" (legacy rows use comma decimals).
func getFloat(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
	}
	return 0
}

func getInt64(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return n
		}
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case string:
		if n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64); err == nil {
			return n
		}
	}
	return 0
}

func getBool(m map[string]any, key string) *bool {
	if v, ok := m[key].(bool); ok {
		b := v
		return &b
	}
	return nil
}

func getTime(m map[string]any, key string) *time.Time {
	s := lookupStr(m, key)
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	return nil
}

/********** row hydration **********/

func mapSite(row map[string]any) domain.Site {
	return domain.Site{
		ID:          getInt64(row, "id"),
		Category:    ptrStr(lookupStr(row, "category")),
		Name:        lookupStr(row, "name"),
		Latitude:    getFloat(row, "latitude"),
		Longitude:   getFloat(row, "longitude"),
		Governorate: ptrStr(lookupStr(row, "governorate")),
		Description: ptrStr(lookupStr(row, "description")),
		Note:        ptrStr(lookupStr(row, "note")),
		Booking:     ptrStr(lookupStr(row, "booking")),
		GMapsLink:   ptrStr(lookupStr(row, "gmaps_link")),
		ImageLink:   normalize.Images(row["image_link"]),
	}
}

func mapInstruction(row map[string]any) domain.Instruction {
	return domain.Instruction{
		ID:               getInt64(row, "id"),
		ImageURL:         ptrStr(lookupStr(row, "image_url")),
		Place:            ptrStr(lookupStr(row, "place")),
		Instructions:     ptrStr(lookupStr(row, "instructions")),
		Source:           ptrStr(lookupStr(row, "source")),
		IsOfficialSource: getBool(row, "is_official_source"),
	}
}

func mapGalleryEntry(row map[string]any) domain.GalleryEntry {
	return domain.GalleryEntry{
		ID:          getInt64(row, "id"),
		Name:        lookupStr(row, "name"),
		Description: ptrStr(lookupStr(row, "description")),
		CreatedAt:   getTime(row, "created_at"),
		ImageLink:   normalize.Images(row["image_link"]),
	}
}

/********** write payloads **********/

func siteRow(s domain.Site) map[string]any {
	row := map[string]any{
		"name":      s.Name,
		"latitude":  s.Latitude,
		"longitude": s.Longitude,
	}
	setIf(row, "category", s.Category)
	setIf(row, "governorate", s.Governorate)
	setIf(row, "description", s.Description)
	setIf(row, "note", s.Note)
	setIf(row, "booking", s.Booking)
	setIf(row, "gmaps_link", s.GMapsLink)
	if s.ImageLink != nil {
		row["image_link"] = s.ImageLink
	}
	return row
}

func instructionRow(in domain.Instruction) map[string]any {
	row := map[string]any{}
	setIf(row, "image_url", in.ImageURL)
	setIf(row, "place", in.Place)
	setIf(row, "instructions", in.Instructions)
	setIf(row, "source", in.Source)
	if in.IsOfficialSource != nil {
		row["is_official_source"] = *in.IsOfficialSource
	}
	return row
}

func galleryRow(g domain.GalleryEntry) map[string]any {
	row := map[string]any{"name": g.Name}
	setIf(row, "description", g.Description)
	if g.ImageLink != nil {
		row["image_link"] = g.ImageLink
	}
	return row
}

func setIf(row map[string]any, key string, v *string) {
	if v != nil && *v != "" {
		row[key] = *v
	}
}
