package domain

import "context"

// Store is the database access capability the API is a proxy for. The hosted
// database is reachable either over its REST surface or over a direct SQL
// connection; both adapters implement this port.
type Store interface {
	// Sites
	ListSites(ctx context.Context, pg PageQuery) ([]Site, error)
	GetSite(ctx context.Context, id int64) (Site, error)
	ListSitesByCategory(ctx context.Context, category string) ([]Site, error)
	ListCategories(ctx context.Context) ([]string, error)
	CreateSite(ctx context.Context, s Site) (Site, error)
	DeleteSite(ctx context.Context, id int64) error

	// Instructions
	ListInstructions(ctx context.Context, pg PageQuery) ([]Instruction, error)
	GetInstruction(ctx context.Context, id int64) (Instruction, error)
	CreateInstruction(ctx context.Context, in Instruction) (Instruction, error)
	DeleteInstruction(ctx context.Context, id int64) error

	// Gallery
	ListGallery(ctx context.Context, pg PageQuery) ([]GalleryEntry, error)
	GetGalleryEntry(ctx context.Context, id int64) (GalleryEntry, error)
	CreateGalleryEntry(ctx context.Context, g GalleryEntry) (GalleryEntry, error)
	DeleteGalleryEntry(ctx context.Context, id int64) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// PageQuery is plain limit/offset pagination, matching the upstream
// database's range semantics.
type PageQuery struct {
	Limit  int
	Offset int
}
