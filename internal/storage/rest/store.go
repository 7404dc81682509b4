// Package rest implements domain.Store on top of the hosted database's
// PostgREST surface.
package rest

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/adapters/supabase"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/domain"
)

const (
	sitesTable        = "egypt_sites"
	instructionsTable = "places_instructions"
	galleryTable      = "gallery"
)

type Store struct{ c *supabase.Client }

func New(c *supabase.Client) *Store { return &Store{c: c} }

var _ domain.Store = (*Store)(nil)

/********** sites **********/

func (s *Store) ListSites(ctx context.Context, pg domain.PageQuery) ([]domain.Site, error) {
	rows, err := s.c.Select(ctx, sitesTable, supabase.Query{
		Order:  "id.asc",
		Limit:  pg.Limit,
		Offset: pg.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list sites: %w", err)
	}
	out := make([]domain.Site, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapSite(row))
	}
	return out, nil
}

func (s *Store) GetSite(ctx context.Context, id int64) (domain.Site, error) {
	rows, err := s.c.Select(ctx, sitesTable, supabase.Query{
		Filters: []supabase.Filter{supabase.Eq("id", strconv.FormatInt(id, 10))},
	})
	if err != nil {
		return domain.Site{}, fmt.Errorf("get site %d: %w", id, err)
	}
	if len(rows) == 0 {
		return domain.Site{}, domain.ErrNotFound
	}
	return mapSite(rows[0]), nil
}

func (s *Store) ListSitesByCategory(ctx context.Context, category string) ([]domain.Site, error) {
	rows, err := s.c.Select(ctx, sitesTable, supabase.Query{
		Filters: []supabase.Filter{supabase.Eq("category", category)},
		Order:   "id.asc",
	})
	if err != nil {
		return nil, fmt.Errorf("list sites by category %q: %w", category, err)
	}
	out := make([]domain.Site, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapSite(row))
	}
	return out, nil
}

func (s *Store) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := s.c.Select(ctx, sitesTable, supabase.Query{Columns: "category"})
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	seen := make(map[string]struct{}, len(rows))
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		c := lookupStr(row, "category")
		if c == "" {
			continue
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

func (s *Store) CreateSite(ctx context.Context, in domain.Site) (domain.Site, error) {
	rows, err := s.c.Insert(ctx, sitesTable, siteRow(in))
	if err != nil {
		return domain.Site{}, fmt.Errorf("create site: %w", err)
	}
	if len(rows) == 0 {
		return domain.Site{}, fmt.Errorf("create site: empty representation")
	}
	return mapSite(rows[0]), nil
}

func (s *Store) DeleteSite(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, sitesTable, id)
}

/********** instructions **********/

func (s *Store) ListInstructions(ctx context.Context, pg domain.PageQuery) ([]domain.Instruction, error) {
	rows, err := s.c.Select(ctx, instructionsTable, supabase.Query{
		Order:  "id.asc",
		Limit:  pg.Limit,
		Offset: pg.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list instructions: %w", err)
	}
	out := make([]domain.Instruction, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapInstruction(row))
	}
	return out, nil
}

func (s *Store) GetInstruction(ctx context.Context, id int64) (domain.Instruction, error) {
	rows, err := s.c.Select(ctx, instructionsTable, supabase.Query{
		Filters: []supabase.Filter{supabase.Eq("id", strconv.FormatInt(id, 10))},
	})
	if err != nil {
		return domain.Instruction{}, fmt.Errorf("get instruction %d: %w", id, err)
	}
	if len(rows) == 0 {
		return domain.Instruction{}, domain.ErrNotFound
	}
	return mapInstruction(rows[0]), nil
}

func (s *Store) CreateInstruction(ctx context.Context, in domain.Instruction) (domain.Instruction, error) {
	rows, err := s.c.Insert(ctx, instructionsTable, instructionRow(in))
	if err != nil {
		return domain.Instruction{}, fmt.Errorf("create instruction: %w", err)
	}
	if len(rows) == 0 {
		return domain.Instruction{}, fmt.Errorf("create instruction: empty representation")
	}
	return mapInstruction(rows[0]), nil
}

func (s *Store) DeleteInstruction(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, instructionsTable, id)
}

/********** gallery **********/

func (s *Store) ListGallery(ctx context.Context, pg domain.PageQuery) ([]domain.GalleryEntry, error) {
	rows, err := s.c.Select(ctx, galleryTable, supabase.Query{
		Order:  "id.asc",
		Limit:  pg.Limit,
		Offset: pg.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list gallery: %w", err)
	}
	out := make([]domain.GalleryEntry, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapGalleryEntry(row))
	}
	return out, nil
}

func (s *Store) GetGalleryEntry(ctx context.Context, id int64) (domain.GalleryEntry, error) {
	rows, err := s.c.Select(ctx, galleryTable, supabase.Query{
		Filters: []supabase.Filter{supabase.Eq("id", strconv.FormatInt(id, 10))},
	})
	if err != nil {
		return domain.GalleryEntry{}, fmt.Errorf("get gallery entry %d: %w", id, err)
	}
	if len(rows) == 0 {
		return domain.GalleryEntry{}, domain.ErrNotFound
	}
	return mapGalleryEntry(rows[0]), nil
}

func (s *Store) CreateGalleryEntry(ctx context.Context, in domain.GalleryEntry) (domain.GalleryEntry, error) {
	rows, err := s.c.Insert(ctx, galleryTable, galleryRow(in))
	if err != nil {
		return domain.GalleryEntry{}, fmt.Errorf("create gallery entry: %w", err)
	}
	if len(rows) == 0 {
		return domain.GalleryEntry{}, fmt.Errorf("create gallery entry: empty representation")
	}
	return mapGalleryEntry(rows[0]), nil
}

func (s *Store) DeleteGalleryEntry(ctx context.Context, id int64) error {
	return s.deleteByID(ctx, galleryTable, id)
}

// deleteByID relies on Prefer: return=representation — an empty echo means
// nothing matched.
func (s *Store) deleteByID(ctx context.Context, table string, id int64) error {
	rows, err := s.c.Delete(ctx, table, supabase.Eq("id", strconv.FormatInt(id, 10)))
	if err != nil {
		return fmt.Errorf("delete %s %d: %w", table, id, err)
	}
	if len(rows) == 0 {
		return domain.ErrNotFound
	}
	return nil
}
