// Package postgres implements domain.Store over a direct SQL connection to
// the hosted database, for deployments given the database DSN instead of a
// REST key.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/domain"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/normalize"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}

func nullToPtr(s sql.NullString) *string {
	if !s.Valid || s.String == "" {
		return nil
	}
	v := s.String
	return &v
}

// imageLinkValue renders the canonical encoding written on insert. Reads
// still normalize, so rows written by older tools stay readable.
func imageLinkValue(imgs []string) any {
	if imgs == nil {
		return nil
	}
	b, _ := json.Marshal(imgs)
	return string(b)
}

// hydrateImages maps a scanned image_link column through the normalizer.
func hydrateImages(raw sql.NullString) []string {
	if !raw.Valid {
		return normalize.Images(nil)
	}
	return normalize.Images(raw.String)
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

var _ domain.Store = (*Repo)(nil)

/********** sites **********/

func (r *Repo) ListSites(ctx context.Context, pg domain.PageQuery) ([]domain.Site, error) {
	rows, err := r.db.QueryContext(ctx, listSitesSQL, pg.Limit, pg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetSite(ctx context.Context, id int64) (domain.Site, error) {
	s, err := scanSite(r.db.QueryRowContext(ctx, getSiteSQL, id))
	if err == sql.ErrNoRows {
		return domain.Site{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Site{}, err
	}
	return s, nil
}

func (r *Repo) ListSitesByCategory(ctx context.Context, category string) ([]domain.Site, error) {
	rows, err := r.db.QueryContext(ctx, listSitesByCategorySQL, category)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Site
	for rows.Next() {
		s, err := scanSite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) ListCategories(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, listCategoriesSQL)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) CreateSite(ctx context.Context, s domain.Site) (domain.Site, error) {
	err := r.db.QueryRowContext(ctx, insertSiteSQL,
		valStr(s.Category),
		s.Name,
		s.Latitude,
		s.Longitude,
		valStr(s.Governorate),
		valStr(s.Description),
		valStr(s.Note),
		valStr(s.Booking),
		valStr(s.GMapsLink),
		imageLinkValue(s.ImageLink),
	).Scan(&s.ID)
	if err != nil {
		return domain.Site{}, fmt.Errorf("insert site: %w", err)
	}
	s.ImageLink = normalize.Images(s.ImageLink)
	return s, nil
}

func (r *Repo) DeleteSite(ctx context.Context, id int64) error {
	return r.deleteOne(ctx, deleteSiteSQL, id)
}

type rowScanner interface{ Scan(dst ...any) error }

func scanSite(row rowScanner) (domain.Site, error) {
	var s domain.Site
	var category, governorate, description, note, booking, gmaps sql.NullString
	var images sql.NullString

	if err := row.Scan(
		&s.ID,
		&category,
		&s.Name,
		&s.Latitude,
		&s.Longitude,
		&governorate,
		&description,
		&note,
		&booking,
		&gmaps,
		&images,
	); err != nil {
		return domain.Site{}, err
	}

	s.Category = nullToPtr(category)
	s.Governorate = nullToPtr(governorate)
	s.Description = nullToPtr(description)
	s.Note = nullToPtr(note)
	s.Booking = nullToPtr(booking)
	s.GMapsLink = nullToPtr(gmaps)
	s.ImageLink = hydrateImages(images)
	return s, nil
}

/********** instructions **********/

func (r *Repo) ListInstructions(ctx context.Context, pg domain.PageQuery) ([]domain.Instruction, error) {
	rows, err := r.db.QueryContext(ctx, listInstructionsSQL, pg.Limit, pg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Instruction
	for rows.Next() {
		in, err := scanInstruction(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, in)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetInstruction(ctx context.Context, id int64) (domain.Instruction, error) {
	in, err := scanInstruction(r.db.QueryRowContext(ctx, getInstructionSQL, id))
	if err == sql.ErrNoRows {
		return domain.Instruction{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Instruction{}, err
	}
	return in, nil
}

func (r *Repo) CreateInstruction(ctx context.Context, in domain.Instruction) (domain.Instruction, error) {
	var official any
	if in.IsOfficialSource != nil {
		official = *in.IsOfficialSource
	}
	err := r.db.QueryRowContext(ctx, insertInstructionSQL,
		valStr(in.ImageURL),
		valStr(in.Place),
		valStr(in.Instructions),
		valStr(in.Source),
		official,
	).Scan(&in.ID)
	if err != nil {
		return domain.Instruction{}, fmt.Errorf("insert instruction: %w", err)
	}
	return in, nil
}

func (r *Repo) DeleteInstruction(ctx context.Context, id int64) error {
	return r.deleteOne(ctx, deleteInstructionSQL, id)
}

func scanInstruction(row rowScanner) (domain.Instruction, error) {
	var in domain.Instruction
	var imageURL, place, instructions, source sql.NullString
	var official sql.NullBool

	if err := row.Scan(&in.ID, &imageURL, &place, &instructions, &source, &official); err != nil {
		return domain.Instruction{}, err
	}
	in.ImageURL = nullToPtr(imageURL)
	in.Place = nullToPtr(place)
	in.Instructions = nullToPtr(instructions)
	in.Source = nullToPtr(source)
	if official.Valid {
		b := official.Bool
		in.IsOfficialSource = &b
	}
	return in, nil
}

/********** gallery **********/

func (r *Repo) ListGallery(ctx context.Context, pg domain.PageQuery) ([]domain.GalleryEntry, error) {
	rows, err := r.db.QueryContext(ctx, listGallerySQL, pg.Limit, pg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GalleryEntry
	for rows.Next() {
		g, err := scanGalleryEntry(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *Repo) GetGalleryEntry(ctx context.Context, id int64) (domain.GalleryEntry, error) {
	g, err := scanGalleryEntry(r.db.QueryRowContext(ctx, getGalleryEntrySQL, id))
	if err == sql.ErrNoRows {
		return domain.GalleryEntry{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.GalleryEntry{}, err
	}
	return g, nil
}

func (r *Repo) CreateGalleryEntry(ctx context.Context, g domain.GalleryEntry) (domain.GalleryEntry, error) {
	var created time.Time
	err := r.db.QueryRowContext(ctx, insertGallerySQL,
		g.Name,
		valStr(g.Description),
		imageLinkValue(g.ImageLink),
	).Scan(&g.ID, &created)
	if err != nil {
		return domain.GalleryEntry{}, fmt.Errorf("insert gallery entry: %w", err)
	}
	g.CreatedAt = &created
	g.ImageLink = normalize.Images(g.ImageLink)
	return g, nil
}

func (r *Repo) DeleteGalleryEntry(ctx context.Context, id int64) error {
	return r.deleteOne(ctx, deleteGallerySQL, id)
}

func scanGalleryEntry(row rowScanner) (domain.GalleryEntry, error) {
	var g domain.GalleryEntry
	var description sql.NullString
	var created sql.NullTime
	var images sql.NullString

	if err := row.Scan(&g.ID, &g.Name, &description, &created, &images); err != nil {
		return domain.GalleryEntry{}, err
	}
	g.Description = nullToPtr(description)
	if created.Valid {
		t := created.Time
		g.CreatedAt = &t
	}
	g.ImageLink = hydrateImages(images)
	return g, nil
}

/********** shared **********/

func (r *Repo) deleteOne(ctx context.Context, query string, id int64) error {
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
