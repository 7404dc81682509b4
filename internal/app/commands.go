package app

import (
	"context"
	"fmt"

	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/domain"
)

// CommandService is the write path. Every mutation invalidates the cache
// entries it can make stale; list pages beyond the common variants age out
// via TTL.
type CommandService struct {
	store domain.Store
	cache domain.Cache
}

func NewCommandService(st domain.Store, c domain.Cache) *CommandService {
	return &CommandService{store: st, cache: c}
}

func (s *CommandService) CreateSite(ctx context.Context, in domain.Site) (domain.Site, error) {
	created, err := s.store.CreateSite(ctx, in)
	if err != nil {
		return domain.Site{}, err
	}
	if s.cache != nil {
		s.invalidateSiteLists(ctx)
		if created.Category != nil {
			_ = s.cache.Del(ctx, "cat:"+*created.Category)
		}
		_ = s.cache.Del(ctx, "cats")
	}
	return created, nil
}

func (s *CommandService) DeleteSite(ctx context.Context, id int64) error {
	// Look up first so the category page can be evicted too; a vanished row
	// is already the outcome the caller asked for.
	var category *string
	if site, err := s.store.GetSite(ctx, id); err == nil {
		category = site.Category
	}

	if err := s.store.DeleteSite(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, fmt.Sprintf("site:%d", id))
		s.invalidateSiteLists(ctx)
		if category != nil {
			_ = s.cache.Del(ctx, "cat:"+*category)
		}
		_ = s.cache.Del(ctx, "cats")
	}
	return nil
}

func (s *CommandService) CreateInstruction(ctx context.Context, in domain.Instruction) (domain.Instruction, error) {
	created, err := s.store.CreateInstruction(ctx, in)
	if err != nil {
		return domain.Instruction{}, err
	}
	if s.cache != nil {
		s.invalidateLists(ctx, "instrs")
	}
	return created, nil
}

func (s *CommandService) DeleteInstruction(ctx context.Context, id int64) error {
	if err := s.store.DeleteInstruction(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, fmt.Sprintf("instr:%d", id))
		s.invalidateLists(ctx, "instrs")
	}
	return nil
}

func (s *CommandService) CreateGalleryEntry(ctx context.Context, in domain.GalleryEntry) (domain.GalleryEntry, error) {
	created, err := s.store.CreateGalleryEntry(ctx, in)
	if err != nil {
		return domain.GalleryEntry{}, err
	}
	if s.cache != nil {
		s.invalidateLists(ctx, "gals")
	}
	return created, nil
}

func (s *CommandService) DeleteGalleryEntry(ctx context.Context, id int64) error {
	if err := s.store.DeleteGalleryEntry(ctx, id); err != nil {
		return err
	}
	if s.cache != nil {
		_ = s.cache.Del(ctx, fmt.Sprintf("gal:%d", id))
		s.invalidateLists(ctx, "gals")
	}
	return nil
}

func (s *CommandService) invalidateSiteLists(ctx context.Context) {
	s.invalidateLists(ctx, "sites")
}

// invalidateLists clears the list-page variants clients actually request.
// The API default is limit=50 offset=0; a couple of larger limits are
// cleared as well.
func (s *CommandService) invalidateLists(ctx context.Context, prefix string) {
	for _, lim := range []int{50, 100, 200} {
		_ = s.cache.Del(ctx, fmt.Sprintf("%s:%d:%d", prefix, lim, 0))
	}
}
