package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"

	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/app"
	"github.com/ahmed-yasser-taha/egypt-sites-api/internal/domain"
)

type Handlers struct {
	Q *app.QueryService
	C *app.CommandService

	validate *validator.Validate
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Response envelopes match the shape the API has always served.
type listEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
	Count  int    `json:"count"`
}

type itemEnvelope struct {
	Status string `json:"status"`
	Data   any    `json:"data"`
}

type categoriesEnvelope struct {
	Status     string   `json:"status"`
	Categories []string `json:"categories"`
	Count      int      `json:"count"`
}

func (s *Server) MountHandlers(h *Handlers) {
	h.validate = validator.New()

	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	s.mux.Get("/", h.index)

	s.mux.Route("/v1", func(r chi.Router) {
		r.Get("/sites", h.listSites)
		r.Post("/sites", h.createSite)
		r.Get("/sites/{id}", h.getSite)
		r.Delete("/sites/{id}", h.deleteSite)

		r.Get("/categories", h.listCategories)
		r.Get("/categories/{name}", h.listSitesByCategory)

		r.Get("/instructions", h.listInstructions)
		r.Post("/instructions", h.createInstruction)
		r.Get("/instructions/{id}", h.getInstruction)
		r.Delete("/instructions/{id}", h.deleteInstruction)

		r.Get("/gallery", h.listGallery)
		r.Post("/gallery", h.createGalleryEntry)
		r.Get("/gallery/{id}", h.getGalleryEntry)
		r.Delete("/gallery/{id}", h.deleteGalleryEntry)
	})
}

/********** helpers **********/

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

func writeStoreErr(w http.ResponseWriter, err error, what string) {
	if errors.Is(err, domain.ErrNotFound) {
		writeProblem(w, http.StatusNotFound, "Not Found", what+" not found")
		return
	}
	log.Error().Err(err).Str("resource", what).Msg("store call failed")
	writeProblem(w, http.StatusBadGateway, "Upstream Error", "database request failed")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeWithETag(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid ID", "id must be a number")
		return 0, false
	}
	return id, true
}

func pageQuery(w http.ResponseWriter, r *http.Request) (domain.PageQuery, bool) {
	pg := domain.PageQuery{Limit: 50}
	if ls := r.URL.Query().Get("limit"); ls != "" {
		l, err := strconv.Atoi(ls)
		if err != nil || l <= 0 || l > 200 {
			writeProblem(w, http.StatusBadRequest, "Invalid limit", "limit must be an integer between 1 and 200")
			return pg, false
		}
		pg.Limit = l
	}
	if os := r.URL.Query().Get("offset"); os != "" {
		o, err := strconv.Atoi(os)
		if err != nil || o < 0 {
			writeProblem(w, http.StatusBadRequest, "Invalid offset", "offset must be a non-negative integer")
			return pg, false
		}
		pg.Offset = o
	}
	return pg, true
}

func (h *Handlers) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", "request body is not valid JSON")
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Body", err.Error())
		return false
	}
	return true
}

// categoryFromSlug converts a URL slug to the stored label:
// "ancient_egypt" -> "Ancient Egypt".
func categoryFromSlug(slug string) string {
	words := strings.Fields(strings.ReplaceAll(slug, "_", " "))
	for i, word := range words {
		rs := []rune(strings.ToLower(word))
		rs[0] = unicode.ToUpper(rs[0])
		words[i] = string(rs)
	}
	return strings.Join(words, " ")
}

/********** index **********/

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":     "Egypt Sites API",
		"version":     "1.2.0",
		"description": "API for Egyptian historical sites, museums, and tourist attractions.",
		"endpoints": map[string]string{
			"GET /":                     "API documentation",
			"GET /v1/sites":             "List sites (supports limit/offset)",
			"POST /v1/sites":            "Create a site",
			"GET /v1/sites/{id}":        "Get a site by ID",
			"DELETE /v1/sites/{id}":     "Delete a site",
			"GET /v1/categories":        "List available categories",
			"GET /v1/categories/{name}": "List sites in a category",
			"GET /v1/instructions":      "List place instructions (supports limit/offset)",
			"GET /v1/gallery":           "List gallery entries (supports limit/offset)",
		},
	})
}

/********** sites **********/

func (h *Handlers) listSites(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageQuery(w, r)
	if !ok {
		return
	}
	sites, err := h.Q.ListSites(r.Context(), pg)
	if err != nil {
		writeStoreErr(w, err, "sites")
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope{Status: "success", Data: sites, Count: len(sites)})
}

func (h *Handlers) getSite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	site, err := h.Q.GetSite(r.Context(), id)
	if err != nil {
		writeStoreErr(w, err, "site")
		return
	}
	writeWithETag(w, r, itemEnvelope{Status: "success", Data: site})
}

type createSiteRequest struct {
	Category    *string  `json:"category"`
	Name        string   `json:"name" validate:"required"`
	Latitude    *float64 `json:"latitude" validate:"required"`
	Longitude   *float64 `json:"longitude" validate:"required"`
	Governorate *string  `json:"governorate"`
	Description *string  `json:"description"`
	Note        *string  `json:"note"`
	Booking     *string  `json:"booking"`
	GMapsLink   *string  `json:"gmaps_link"`
	ImageLink   []string `json:"image_link"`
}

func (h *Handlers) createSite(w http.ResponseWriter, r *http.Request) {
	var req createSiteRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	created, err := h.C.CreateSite(r.Context(), domain.Site{
		Category:    req.Category,
		Name:        req.Name,
		Latitude:    *req.Latitude,
		Longitude:   *req.Longitude,
		Governorate: req.Governorate,
		Description: req.Description,
		Note:        req.Note,
		Booking:     req.Booking,
		GMapsLink:   req.GMapsLink,
		ImageLink:   req.ImageLink,
	})
	if err != nil {
		writeStoreErr(w, err, "site")
		return
	}
	writeJSON(w, http.StatusCreated, itemEnvelope{Status: "success", Data: created})
}

func (h *Handlers) deleteSite(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.C.DeleteSite(r.Context(), id); err != nil {
		writeStoreErr(w, err, "site")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/********** categories **********/

func (h *Handlers) listCategories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.Q.ListCategories(r.Context())
	if err != nil {
		writeStoreErr(w, err, "categories")
		return
	}
	writeJSON(w, http.StatusOK, categoriesEnvelope{Status: "success", Categories: cats, Count: len(cats)})
}

func (h *Handlers) listSitesByCategory(w http.ResponseWriter, r *http.Request) {
	name := categoryFromSlug(chi.URLParam(r, "name"))
	if name == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Category", "category name is empty")
		return
	}
	sites, err := h.Q.ListSitesByCategory(r.Context(), name)
	if err != nil {
		writeStoreErr(w, err, "sites")
		return
	}
	if len(sites) == 0 {
		writeProblem(w, http.StatusNotFound, "Not Found", "no sites found for category: "+name)
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope{Status: "success", Data: sites, Count: len(sites)})
}

/********** instructions **********/

func (h *Handlers) listInstructions(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageQuery(w, r)
	if !ok {
		return
	}
	instrs, err := h.Q.ListInstructions(r.Context(), pg)
	if err != nil {
		writeStoreErr(w, err, "instructions")
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope{Status: "success", Data: instrs, Count: len(instrs)})
}

func (h *Handlers) getInstruction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	instr, err := h.Q.GetInstruction(r.Context(), id)
	if err != nil {
		writeStoreErr(w, err, "instruction")
		return
	}
	writeWithETag(w, r, itemEnvelope{Status: "success", Data: instr})
}

type createInstructionRequest struct {
	ImageURL         *string `json:"image_url"`
	Place            *string `json:"place"`
	Instructions     string  `json:"instructions" validate:"required"`
	Source           *string `json:"source"`
	IsOfficialSource *bool   `json:"is_official_source"`
}

func (h *Handlers) createInstruction(w http.ResponseWriter, r *http.Request) {
	var req createInstructionRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	created, err := h.C.CreateInstruction(r.Context(), domain.Instruction{
		ImageURL:         req.ImageURL,
		Place:            req.Place,
		Instructions:     &req.Instructions,
		Source:           req.Source,
		IsOfficialSource: req.IsOfficialSource,
	})
	if err != nil {
		writeStoreErr(w, err, "instruction")
		return
	}
	writeJSON(w, http.StatusCreated, itemEnvelope{Status: "success", Data: created})
}

func (h *Handlers) deleteInstruction(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.C.DeleteInstruction(r.Context(), id); err != nil {
		writeStoreErr(w, err, "instruction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

/********** gallery **********/

func (h *Handlers) listGallery(w http.ResponseWriter, r *http.Request) {
	pg, ok := pageQuery(w, r)
	if !ok {
		return
	}
	entries, err := h.Q.ListGallery(r.Context(), pg)
	if err != nil {
		writeStoreErr(w, err, "gallery")
		return
	}
	writeJSON(w, http.StatusOK, listEnvelope{Status: "success", Data: entries, Count: len(entries)})
}

func (h *Handlers) getGalleryEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	g, err := h.Q.GetGalleryEntry(r.Context(), id)
	if err != nil {
		writeStoreErr(w, err, "gallery entry")
		return
	}
	writeWithETag(w, r, itemEnvelope{Status: "success", Data: g})
}

type createGalleryRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description *string  `json:"description"`
	ImageLink   []string `json:"image_link"`
}

func (h *Handlers) createGalleryEntry(w http.ResponseWriter, r *http.Request) {
	var req createGalleryRequest
	if !h.decodeBody(w, r, &req) {
		return
	}
	created, err := h.C.CreateGalleryEntry(r.Context(), domain.GalleryEntry{
		Name:        req.Name,
		Description: req.Description,
		ImageLink:   req.ImageLink,
	})
	if err != nil {
		writeStoreErr(w, err, "gallery entry")
		return
	}
	writeJSON(w, http.StatusCreated, itemEnvelope{Status: "success", Data: created})
}

func (h *Handlers) deleteGalleryEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	if err := h.C.DeleteGalleryEntry(r.Context(), id); err != nil {
		writeStoreErr(w, err, "gallery entry")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
