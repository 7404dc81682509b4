package postgres

// image_link is TEXT, not an array column: the hosted table accumulated rows
// under several historical encodings (bare URL, JSON array text, "null") and
// was never migrated. Hydration normalizes on the way out.

const listSitesSQL = `
SELECT id, category, name, latitude, longitude, governorate,
       description, note, booking, gmaps_link, image_link
FROM egypt_sites
ORDER BY id
LIMIT $1 OFFSET $2
`

const getSiteSQL = `
SELECT id, category, name, latitude, longitude, governorate,
       description, note, booking, gmaps_link, image_link
FROM egypt_sites
WHERE id = $1
`

const listSitesByCategorySQL = `
SELECT id, category, name, latitude, longitude, governorate,
       description, note, booking, gmaps_link, image_link
FROM egypt_sites
WHERE category = $1
ORDER BY id
`

const listCategoriesSQL = `
SELECT DISTINCT category
FROM egypt_sites
WHERE category IS NOT NULL AND category <> ''
ORDER BY category
`

const insertSiteSQL = `
INSERT INTO egypt_sites
  (category, name, latitude, longitude, governorate, description, note, booking, gmaps_link, image_link)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
RETURNING id
`

const deleteSiteSQL = `DELETE FROM egypt_sites WHERE id = $1`

const listInstructionsSQL = `
SELECT id, image_url, place, instructions, source, is_official_source
FROM places_instructions
ORDER BY id
LIMIT $1 OFFSET $2
`

const getInstructionSQL = `
SELECT id, image_url, place, instructions, source, is_official_source
FROM places_instructions
WHERE id = $1
`

const insertInstructionSQL = `
INSERT INTO places_instructions
  (image_url, place, instructions, source, is_official_source)
VALUES ($1, $2, $3, $4, $5)
RETURNING id
`

const deleteInstructionSQL = `DELETE FROM places_instructions WHERE id = $1`

const listGallerySQL = `
SELECT id, name, description, created_at, image_link
FROM gallery
ORDER BY id
LIMIT $1 OFFSET $2
`

const getGalleryEntrySQL = `
SELECT id, name, description, created_at, image_link
FROM gallery
WHERE id = $1
`

const insertGallerySQL = `
INSERT INTO gallery (name, description, image_link)
VALUES ($1, $2, $3)
RETURNING id, created_at
`

const deleteGallerySQL = `DELETE FROM gallery WHERE id = $1`
