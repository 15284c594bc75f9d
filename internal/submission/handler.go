// AngelaMos | 2026
// handler.go

package submission

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/angelamos/sitehub/internal/access"
	"github.com/angelamos/sitehub/internal/core"
	"github.com/angelamos/sitehub/internal/middleware"
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

// RegisterPublicRoutes mounts the lead forms behind limiter.
func (h *Handler) RegisterPublicRoutes(
	r chi.Router,
	limiter func(http.Handler) http.Handler,
) {
	r.Group(func(r chi.Router) {
		r.Use(limiter)

		r.Post("/contact", h.Contact)
		r.Post("/apply", h.Apply)
	})
}

// RegisterHubRoutes mounts the staff inbox for contact leads and the
// applications queue, each behind its own capability.
func (h *Handler) RegisterHubRoutes(
	r chi.Router,
	require func(access.Capability) func(http.Handler) http.Handler,
) {
	r.Route("/inbox", func(r chi.Router) {
		r.Use(require(access.CapInbox))
		h.mountQueue(r, KindContact)
	})

	r.Route("/applications", func(r chi.Router) {
		r.Use(require(access.CapApply))
		h.mountQueue(r, KindApplication)
	})
}

func (h *Handler) mountQueue(r chi.Router, kind Kind) {
	q := &queueHandler{Handler: h, kind: kind}

	r.Get("/", q.List)
	r.Get("/{id}", q.Get)
	r.Patch("/{id}", q.SetStatus)
	r.Delete("/{id}", q.Delete)
}

func (h *Handler) Contact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := h.service.SubmitContact(r.Context(), req, middleware.ClientIP(r)); err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ReceiptResponse{Received: true})
}

func (h *Handler) Apply(w http.ResponseWriter, r *http.Request) {
	var req ApplicationRequest
	if !h.decode(w, r, &req) {
		return
	}

	if _, err := h.service.SubmitApplication(r.Context(), req, middleware.ClientIP(r)); err != nil {
		writeError(w, err)
		return
	}

	core.Created(w, ReceiptResponse{Received: true})
}

type queueHandler struct {
	*Handler
	kind Kind
}

func (q *queueHandler) List(w http.ResponseWriter, r *http.Request) {
	params := ListParams{
		Kind:     q.kind,
		Status:   Status(r.URL.Query().Get("status")),
		Page:     parseIntQuery(r, "page", 1),
		PageSize: parseIntQuery(r, "page_size", 20),
	}
	params.Normalize()

	subs, total, err := q.service.List(r.Context(), params)
	if err != nil {
		writeError(w, err)
		return
	}

	core.Paginated(
		w,
		ToSubmissionResponseList(subs),
		params.Page,
		params.PageSize,
		total,
	)
}

func (q *queueHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	sub, err := q.service.Get(r.Context(), q.kind, id)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToSubmissionResponse(sub))
}

func (q *queueHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	var req UpdateStatusRequest
	if !q.decode(w, r, &req) {
		return
	}

	sub, err := q.service.SetStatus(r.Context(), q.kind, id, req.Status)
	if err != nil {
		writeError(w, err)
		return
	}

	core.OK(w, ToSubmissionResponse(sub))
}

func (q *queueHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(w, r)
	if !ok {
		return
	}

	if err := q.service.Delete(r.Context(), q.kind, id); err != nil {
		writeError(w, err)
		return
	}

	core.NoContent(w)
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
	case errors.Is(err, ErrInvalidStatus):
		core.BadRequest(w, "status must be one of: new, read, archived")
	case errors.Is(err, core.ErrInvalidInput):
		core.BadRequest(w, "name and email are required")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "submission")
	default:
		core.InternalServerError(w, err)
	}
}
