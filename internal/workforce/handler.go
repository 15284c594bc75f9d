// AngelaMos | 2026
// handler.go

package workforce

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

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

// RegisterRoutes mounts the hub identity and workforce endpoints. require
// builds the capability guard for each group.
func (h *Handler) RegisterRoutes(
	r chi.Router,
	require func(access.Capability) func(http.Handler) http.Handler,
) {
	r.With(require(access.CapDashboard)).Get("/me", h.Me)

	r.Route("/workforce", func(r chi.Router) {
		r.Use(require(access.CapWorkforce))

		r.Get("/", h.List)
		r.Put("/{subjectID}", h.Grant)
		r.Delete("/{subjectID}", h.Remove)
	})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	identity := middleware.GetIdentity(r.Context())
	if identity == nil {
		core.JSONError(w, core.UnauthenticatedError())
		return
	}

	core.OK(w, MeResponse{
		SubjectID:    identity.SubjectID,
		Email:        identity.Email,
		Role:         identity.Role,
		Capabilities: access.Capabilities(identity.Role),
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ToMemberResponseList(members))
}

func (h *Handler) Grant(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "subjectID")

	var req GrantRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		core.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		core.BadRequest(w, core.FormatValidationError(err))
		return
	}

	member, err := h.service.Grant(
		r.Context(),
		middleware.GetRole(r.Context()),
		subjectID,
		req,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.OK(w, ToMemberResponse(member))
}

func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	subjectID := chi.URLParam(r, "subjectID")

	err := h.service.Remove(
		r.Context(),
		middleware.GetRole(r.Context()),
		subjectID,
	)
	if err != nil {
		h.writeError(w, err)
		return
	}

	core.NoContent(w)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrRoleNotAssignable):
		core.BadRequest(w, "role must be one of: FOUNDER, TIER2_ADMIN, ADMIN, MODERATOR, CONTENT_WRITER, SEO")
	case errors.Is(err, ErrFounderProtected):
		core.Forbidden(w, "the founder entry cannot be changed or removed")
	case errors.Is(err, ErrFounderRequired):
		core.Forbidden(w, "only the founder can manage founder entries")
	case errors.Is(err, core.ErrDuplicateKey):
		core.Conflict(w, "email")
	case errors.Is(err, core.ErrNotFound):
		core.NotFound(w, "workforce member")
	default:
		core.InternalServerError(w, err)
	}
}
