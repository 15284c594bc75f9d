// AngelaMos | 2026
// handler.go

package media

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/angelamos/sitehub/internal/access"
	"github.com/angelamos/sitehub/internal/core"
	"github.com/angelamos/sitehub/internal/middleware"
)

const formOverhead = 1 << 20

type Handler struct {
	service  *Service
	maxBytes int64
}

func NewHandler(service *Service, maxBytes int64) *Handler {
	return &Handler{
		service:  service,
		maxBytes: maxBytes,
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	require func(access.Capability) func(http.Handler) http.Handler,
) {
	r.Route("/media", func(r chi.Router) {
		r.Use(require(access.CapMedia))

		r.Get("/", h.List)
		r.Post("/", h.Upload)
		r.Get("/{id}", h.Get)
		r.Delete("/{id}", h.Delete)
	})
}

func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+formOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, ErrTooLarge)
			return
		}
		core.BadRequest(w, "multipart field 'file' is required")
		return
	}
	defer file.Close() //nolint:errcheck // read-only multipart part

	asset, duplicate, err := h.service.Store(r.Context(), Upload{
		Filename:   header.Filename,
		Body:       file,
		UploadedBy: middleware.GetSubjectID(r.Context()),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	resp := UploadResponse{
		Asset:     ToAssetResponse(asset),
		Duplicate: duplicate,
	}
	if duplicate {
		core.OK(w, resp)
		return
	}
	core.Created(w, resp)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 50),
	}
	params.Normalize()

	assets, total, err := h.service.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Paginated(
		w,
		ToAssetResponseList(assets),
		params.Page,
		params.PageSize,
		total,
	)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	asset, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToAssetResponse(asset))
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
}

func parseID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		core.BadRequest(w, "id must be a UUID")
		return "", false
	}
	return id.String(), true
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultVal
	}

	parsed, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return parsed
}

func writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrTooLarge):
		core.JSONError(w, core.NewAppError(err, "file too large",
			http.StatusRequestEntityTooLarge, "PAYLOAD_TOO_LARGE"))
	case errors.Is(err, ErrUnsupportedType):
		core.JSONError(w, core.NewAppError(err,
			"only images and PDF documents are accepted",
			http.StatusUnsupportedMediaType, "UNSUPPORTED_MEDIA_TYPE"))
	case errors.Is(err, ErrEmptyUpload):
		core.BadRequest(w, "file is empty")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "media asset")
	default:
		core.InternalServerError(w, err)
	}
}
