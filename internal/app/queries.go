package app

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/domain"
)

type QueryService struct {
	store    domain.Store
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(st domain.Store, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{store: st, cache: c, cacheTTL: ttl}
}

func (s *QueryService) GetSite(ctx context.Context, id int64) (domain.Site, error) {
	key := fmt.Sprintf("site:%d", id)
	var out domain.Site
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	site, err := s.store.GetSite(ctx, id)
	if err != nil {
		return domain.Site{}, err
	}
	_ = s.cache.Set(ctx, key, site, int(s.cacheTTL.Seconds()))
	return site, nil
}

func (s *QueryService) ListSites(ctx context.Context, pg domain.PageQuery) ([]domain.Site, error) {
	key := fmt.Sprintf("sites:%d:%d", pg.Limit, pg.Offset)
	return cachedList(ctx, s, key, func() ([]domain.Site, error) {
		return s.store.ListSites(ctx, pg)
	})
}

func (s *QueryService) ListSitesByCategory(ctx context.Context, category string) ([]domain.Site, error) {
	key := "cat:" + category
	return cachedList(ctx, s, key, func() ([]domain.Site, error) {
		return s.store.ListSitesByCategory(ctx, category)
	})
}

func (s *QueryService) ListCategories(ctx context.Context) ([]string, error) {
	const key = "cats"
	return cachedList(ctx, s, key, func() ([]string, error) {
		return s.store.ListCategories(ctx)
	})
}

func (s *QueryService) GetInstruction(ctx context.Context, id int64) (domain.Instruction, error) {
	key := fmt.Sprintf("instr:%d", id)
	var out domain.Instruction
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	instr, err := s.store.GetInstruction(ctx, id)
	if err != nil {
		return domain.Instruction{}, err
	}
	_ = s.cache.Set(ctx, key, instr, int(s.cacheTTL.Seconds()))
	return instr, nil
}

func (s *QueryService) ListInstructions(ctx context.Context, pg domain.PageQuery) ([]domain.Instruction, error) {
	key := fmt.Sprintf("instrs:%d:%d", pg.Limit, pg.Offset)
	return cachedList(ctx, s, key, func() ([]domain.Instruction, error) {
		return s.store.ListInstructions(ctx, pg)
	})
}

func (s *QueryService) GetGalleryEntry(ctx context.Context, id int64) (domain.GalleryEntry, error) {
	key := fmt.Sprintf("gal:%d", id)
	var out domain.GalleryEntry
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	g, err := s.store.GetGalleryEntry(ctx, id)
	if err != nil {
		return domain.GalleryEntry{}, err
	}
	_ = s.cache.Set(ctx, key, g, int(s.cacheTTL.Seconds()))
	return g, nil
}

func (s *QueryService) ListGallery(ctx context.Context, pg domain.PageQuery) ([]domain.GalleryEntry, error) {
	key := fmt.Sprintf("gals:%d:%d", pg.Limit, pg.Offset)
	return cachedList(ctx, s, key, func() ([]domain.GalleryEntry, error) {
		return s.store.ListGallery(ctx, pg)
	})
}

// cachedList is the shared read-through path for list responses. The slice is
// copied before caching so the caller cannot mutate the cached value, and
// oversized pages skip the cache entirely.
func cachedList[T any](ctx context.Context, s *QueryService, key string, load func() ([]T, error)) ([]T, error) {
	var out []T
	if ok, _ := s.cache.Get(ctx, key, &out); ok {
		return out, nil
	}
	items, err := load()
	if err != nil {
		return nil, err
	}
	cp := make([]T, len(items))
	copy(cp, items)
	if b, _ := json.Marshal(cp); len(b) < 1_000_000 {
		_ = s.cache.Set(ctx, key, cp, int(s.cacheTTL.Seconds()))
	}
	return cp, nil
}
