// AngelaMos | 2026
// handler_test.go

package workforce

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/sitehub/internal/access"
	"github.com/angelamos/sitehub/internal/core"
	"github.com/angelamos/sitehub/internal/middleware"
)

// asRole stands in for the guard: it attaches a fixed identity and applies
// the real role policy.
func asRole(role access.Role) func(access.Capability) func(http.Handler) http.Handler {
	return func(c access.Capability) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if !access.HasCapability(role, c) {
					core.JSONError(w, core.AccessDeniedError())
					return
				}
				ctx := middleware.WithIdentity(r.Context(), &middleware.Identity{
					SubjectID: "actor",
					Email:     "actor@co",
					Role:      role,
				})
				next.ServeHTTP(w, r.WithContext(ctx))
			})
		}
	}
}

func newTestRouter(repo *memRepo, role access.Role) http.Handler {
	r := chi.NewRouter()
	NewHandler(NewService(repo, founderEmail)).RegisterRoutes(r, asRole(role))
	return r
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHandlerMe(t *testing.T) {
	rec := do(newTestRouter(newMemRepo(), access.RoleContentWriter), http.MethodGet, "/me", "")

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data MeResponse `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, access.RoleContentWriter, resp.Data.Role)
	assert.Equal(t, []access.Capability{
		access.CapDashboard,
		access.CapMedia,
		access.CapContent,
	}, resp.Data.Capabilities)
}

func TestHandlerWorkforceNeedsCapability(t *testing.T) {
	rec := do(newTestRouter(newMemRepo(), access.RoleModerator), http.MethodGet, "/workforce/", "")
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandlerGrant(t *testing.T) {
	repo := newMemRepo(Member{SubjectID: "u2", Email: "taken@co", Role: access.RoleSEO})
	h := newTestRouter(repo, access.RoleTier2Admin)

	rec := do(h, http.MethodPut, "/workforce/u5", `{"email":"w@co","role":"CONTENT_WRITER"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, access.RoleContentWriter, repo.members["u5"].Role)

	rec = do(h, http.MethodPut, "/workforce/u6", `{"email":"taken@co","role":"SEO"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(h, http.MethodPut, "/workforce/u6", `{"email":"e@co","role":"EDITOR"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPut, "/workforce/u6", `{"email":"not-an-email","role":"SEO"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(h, http.MethodPut, "/workforce/u6", `{"email":"f2@co","role":"FOUNDER"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestHandlerRemove(t *testing.T) {
	repo := newMemRepo(
		Member{SubjectID: "u1", Email: founderEmail, Role: access.RoleFounder},
		Member{SubjectID: "u3", Email: "mod@co", Role: access.RoleModerator},
	)
	h := newTestRouter(repo, access.RoleFounder)

	assert.Equal(t, http.StatusForbidden, do(h, http.MethodDelete, "/workforce/u1", "").Code)
	assert.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, "/workforce/u3", "").Code)
	assert.Equal(t, http.StatusNotFound, do(h, http.MethodDelete, "/workforce/u3", "").Code)
}

func TestHandlerGrantAcceptsSingleLabelDomains(t *testing.T) {
	repo := newMemRepo()
	h := newTestRouter(repo, access.RoleFounder)

	rec := do(h, http.MethodPut, "/workforce/u1", `{"email":"founder@co","role":"FOUNDER"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, access.RoleFounder, repo.members["u1"].Role)

	rec = do(h, http.MethodPut, "/workforce/u2", `{"email":"writer@studio","role":"CONTENT_WRITER"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
}
