// AngelaMos | 2026
// handler.go

package content

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/angelamos/sitehub/internal/access"
	"github.com/angelamos/sitehub/internal/core"
)

var (
	errOutOfScope        = errors.New("block outside scope")
	errSectionNotManaged = errors.New("section not managed by scope")
)

// Scope limits which sections one hub area may touch. Blocks in other
// sections are reported as not found.
type Scope struct {
	Name           string
	DefaultSection string
	allows         func(section string) bool
	orphans        bool
}

var (
	// ContentScope covers every section except seo. Version history left
	// by deleted blocks is reachable here.
	ContentScope = Scope{
		Name:           "content",
		DefaultSection: DefaultSection,
		allows:         func(s string) bool { return s != SectionSEO },
		orphans:        true,
	}

	SEOScope = Scope{
		Name:           "seo",
		DefaultSection: SectionSEO,
		allows:         func(s string) bool { return s == SectionSEO },
	}
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// RegisterPublicRoutes exposes read-only content to the marketing site.
func (h *Handler) RegisterPublicRoutes(r chi.Router) {
	r.Route("/content", func(r chi.Router) {
		r.Get("/", h.PublicList)
		r.Get("/{key}", h.PublicGet)
	})
}

func (h *Handler) RegisterHubRoutes(
	r chi.Router,
	require func(access.Capability) func(http.Handler) http.Handler,
) {
	r.Route("/content", func(r chi.Router) {
		r.Use(require(access.CapContent))
		h.mountScope(r, ContentScope)
	})

	r.Route("/seo", func(r chi.Router) {
		r.Use(require(access.CapSEO))
		h.mountScope(r, SEOScope)
	})
}

func (h *Handler) mountScope(r chi.Router, scope Scope) {
	sh := &scopedHandler{Handler: h, scope: scope}

	r.Get("/", sh.List)
	r.Post("/", sh.Create)
	r.Put("/", sh.BulkUpdate)
	r.Get("/{key}", sh.Get)
	r.Put("/{key}", sh.Update)
	r.Delete("/{key}", sh.Delete)
	r.Get("/{key}/versions", sh.Versions)
	r.Post("/{key}/rollback/{versionID}", sh.Rollback)
}

func (h *Handler) PublicList(w http.ResponseWriter, r *http.Request) {
	blocks, err := h.service.List(r.Context(), r.URL.Query().Get("section"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToBlockResponseList(blocks))
}

func (h *Handler) PublicGet(w http.ResponseWriter, r *http.Request) {
	block, err := h.service.Get(r.Context(), chi.URLParam(r, "key"))
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToBlockResponse(block))
}

type scopedHandler struct {
	*Handler
	scope Scope
}

func (h *scopedHandler) List(w http.ResponseWriter, r *http.Request) {
	section := r.URL.Query().Get("section")
	if section != "" && !h.scope.allows(sectionOrDefault(section)) {
		core.OK(w, []BlockResponse{})
		return
	}
	if section == "" && h.scope.DefaultSection == SectionSEO {
		section = SectionSEO
	}

	blocks, err := h.service.List(r.Context(), section)
	if err != nil {
		writeError(w, err)
		return
	}

	visible := blocks[:0]
	for _, b := range blocks {
		if h.scope.allows(b.Section) {
			visible = append(visible, b)
		}
	}

	core.OK(w, ToBlockResponseList(visible))
}

func (h *scopedHandler) Get(w http.ResponseWriter, r *http.Request) {
	block, err := h.service.Get(r.Context(), chi.URLParam(r, "key"))
	if err == nil && !h.scope.allows(block.Section) {
		err = errOutOfScope
	}
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToBlockResponse(block))
}

func (h *scopedHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateBlockRequest
	if !h.decode(w, r, &req) {
		return
	}

	if req.Section == "" {
		req.Section = h.scope.DefaultSection
	}
	if !h.scope.allows(sectionOrDefault(req.Section)) {
		writeError(w, errSectionNotManaged)
		return
	}

	block, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ToBlockResponse(block))
}

func (h *scopedHandler) Update(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	var req UpdateBlockRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.admit(r.Context(), key, &req); err != nil {
		writeError(w, err)
		return
	}

	block, err := h.service.Update(r.Context(), key, req)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToBlockResponse(block))
}

func (h *scopedHandler) BulkUpdate(w http.ResponseWriter, r *http.Request) {
	var req BulkUpdateRequest
	if !h.decode(w, r, &req) {
		return
	}

	for i := range req.Blocks {
		entry := &req.Blocks[i]
		if err := h.admit(r.Context(), entry.Key, &entry.UpdateBlockRequest); err != nil {
			writeError(w, err)
			return
		}
	}

	blocks, err := h.service.BulkUpdate(r.Context(), req.Blocks)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToBlockResponseList(blocks))
}

func (h *scopedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := h.checkExisting(r.Context(), key, false); err != nil {
		writeError(w, err)
		return
	}

	if err := h.service.Delete(r.Context(), key); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *scopedHandler) Versions(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	if err := h.checkExisting(r.Context(), key, h.scope.orphans); err != nil {
		writeError(w, err)
		return
	}

	versions, err := h.service.GetVersions(r.Context(), key)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToVersionResponseList(versions))
}

func (h *scopedHandler) Rollback(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	versionID, err := strconv.ParseInt(chi.URLParam(r, "versionID"), 10, 64)
	if err != nil || versionID <= 0 {
		core.BadRequest(w, "versionID must be a positive integer")
		return
	}

	if err := h.checkExisting(r.Context(), key, h.scope.orphans); err != nil {
		writeError(w, err)
		return
	}

	block, err := h.service.Rollback(r.Context(), key, versionID)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToBlockResponse(block))
}

// admit checks that an update through this scope only touches blocks and
// sections the scope owns. A new block lands in the scope's default
// section unless one is given.
func (h *scopedHandler) admit(
	ctx context.Context,
	key string,
	req *UpdateBlockRequest,
) error {
	if req.Section != nil && !h.scope.allows(sectionOrDefault(*req.Section)) {
		return errSectionNotManaged
	}

	existing, err := h.service.Get(ctx, key)
	switch {
	case err == nil:
		if !h.scope.allows(existing.Section) {
			return errOutOfScope
		}
	case errors.Is(err, core.ErrNotFound):
		if req.Section == nil {
			section := h.scope.DefaultSection
			req.Section = &section
		}
	default:
		return err
	}

	return nil
}

func (h *scopedHandler) checkExisting(
	ctx context.Context,
	key string,
	allowMissing bool,
) error {
	existing, err := h.service.Get(ctx, key)
	switch {
	case err == nil:
		if !h.scope.allows(existing.Section) {
			return errOutOfScope
		}
		return nil
	case errors.Is(err, core.ErrNotFound) && allowMissing:
		return nil
	default:
		return err
	}
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		core.BadRequest(w, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return false
	}

	return true
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, errOutOfScope):
		core.NotFound(w, "content block")
	case errors.Is(err, errSectionNotManaged):
		core.BadRequest(w, "section is not managed here")
	case errors.Is(err, ErrInvalidKey):
		core.BadRequest(w, "key must start with a letter or digit and contain only letters, digits, '_', '.' or '-'")
	case errors.Is(err, ErrValueMissing):
		core.BadRequest(w, "value is required")
	case errors.Is(err, ErrInvalidType):
		core.BadRequest(w, "type must be one of: text, rich_text, image")
	case errors.Is(err, ErrNoBlocks):
		core.BadRequest(w, "blocks must contain at least one entry")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "invalid content request")
	case errors.Is(err, core.ErrDuplicateKey):
		core.Conflict(w, "content key")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "content block")
	default:
		core.InternalServerError(w, err)
	}
}
