// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelamos/sitehub/internal/access"
	"github.com/angelamos/sitehub/internal/core"
)

type stubVerifier struct {
	creds map[string]Credential
	err   error
}

func (s *stubVerifier) Verify(_ context.Context, token string) (*Credential, error) {
	if s.err != nil {
		return nil, s.err
	}
	cred, ok := s.creds[token]
	if !ok {
		return nil, fmt.Errorf("verify: %w", core.ErrTokenInvalid)
	}
	return &cred, nil
}

type stubResolver struct {
	members map[string]access.Role
	calls   int
	err     error
}

func (s *stubResolver) ResolveIdentity(
	_ context.Context,
	cred Credential,
) (*Identity, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	role, ok := s.members[cred.SubjectID]
	if !ok {
		return nil, nil
	}
	return &Identity{SubjectID: cred.SubjectID, Email: cred.Email, Role: role}, nil
}

func newTestGuard() (*Guard, *stubResolver) {
	verifier := &stubVerifier{creds: map[string]Credential{
		"tok-founder":   {SubjectID: "u1", Email: "founder@co"},
		"tok-moderator": {SubjectID: "u2", Email: "mod@co"},
		"tok-outsider":  {SubjectID: "u3", Email: "who@else"},
	}}
	resolver := &stubResolver{members: map[string]access.Role{
		"u1": access.RoleFounder,
		"u2": access.RoleModerator,
	}}
	return NewGuard(verifier, resolver), resolver
}

func serveGuarded(
	t *testing.T,
	g *Guard,
	capability access.Capability,
	authHeader string,
) (*httptest.ResponseRecorder, *Identity) {
	t.Helper()

	var seen *Identity
	h := g.Require(capability)(http.HandlerFunc(
		func(w http.ResponseWriter, r *http.Request) {
			seen = GetIdentity(r.Context())
			w.WriteHeader(http.StatusOK)
		},
	))

	req := httptest.NewRequest(http.MethodGet, "/v1/hub/x", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	return rec, seen
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) core.ErrorBody {
	t.Helper()

	var resp core.Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	return *resp.Error
}

func TestGuardAllowsCapableMember(t *testing.T) {
	g, _ := newTestGuard()

	rec, identity := serveGuarded(t, g, access.CapWorkforce, "Bearer tok-founder")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, identity)
	assert.Equal(t, "u1", identity.SubjectID)
	assert.Equal(t, access.RoleFounder, identity.Role)
}

func TestGuardMissingCredential(t *testing.T) {
	g, resolver := newTestGuard()

	for _, header := range []string{"", "Basic abc", "Bearer", "Bearer   "} {
		rec, identity := serveGuarded(t, g, access.CapDashboard, header)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, "header %q", header)
		assert.Nil(t, identity)
		assert.Equal(t, "UNAUTHENTICATED", decodeError(t, rec).Code)
	}
	assert.Zero(t, resolver.calls)
}

func TestGuardInvalidCredential(t *testing.T) {
	g, resolver := newTestGuard()

	rec, _ := serveGuarded(t, g, access.CapDashboard, "Bearer forged")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", decodeError(t, rec).Code)
	assert.Zero(t, resolver.calls)
}

func TestGuardExpiredCredential(t *testing.T) {
	g := NewGuard(
		&stubVerifier{err: fmt.Errorf("verify: %w", core.ErrTokenExpired)},
		&stubResolver{},
	)

	rec, _ := serveGuarded(t, g, access.CapDashboard, "Bearer old")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", decodeError(t, rec).Code)
}

func TestGuardDenialsAreIndistinguishable(t *testing.T) {
	g, _ := newTestGuard()

	outsider, _ := serveGuarded(t, g, access.CapWorkforce, "Bearer tok-outsider")
	moderator, _ := serveGuarded(t, g, access.CapWorkforce, "Bearer tok-moderator")

	assert.Equal(t, http.StatusForbidden, outsider.Code)
	assert.Equal(t, http.StatusForbidden, moderator.Code)
	assert.Equal(t, outsider.Body.String(), moderator.Body.String())

	body := decodeError(t, moderator)
	assert.Equal(t, "FORBIDDEN", body.Code)
	assert.Equal(t, "access denied", body.Message)
}

func TestGuardResolverFailureIsInternal(t *testing.T) {
	g := NewGuard(
		&stubVerifier{creds: map[string]Credential{"t": {SubjectID: "u1"}}},
		&stubResolver{err: errors.New("connection reset")},
	)

	rec, identity := serveGuarded(t, g, access.CapDashboard, "Bearer t")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Nil(t, identity)
	assert.Equal(t, "INTERNAL_ERROR", decodeError(t, rec).Code)
}

func TestGuardIsRepeatable(t *testing.T) {
	g, _ := newTestGuard()

	for range 3 {
		rec, _ := serveGuarded(t, g, access.CapInbox, "Bearer tok-moderator")
		assert.Equal(t, http.StatusOK, rec.Code)

		rec, _ = serveGuarded(t, g, access.CapSettings, "Bearer tok-moderator")
		assert.Equal(t, http.StatusForbidden, rec.Code)
	}
}

func TestContextAccessorsWithoutIdentity(t *testing.T) {
	ctx := context.Background()

	assert.Nil(t, GetIdentity(ctx))
	assert.Empty(t, GetSubjectID(ctx))
	assert.Empty(t, GetRole(ctx))

	ctx = WithIdentity(ctx, &Identity{SubjectID: "u9", Role: access.RoleSEO})
	assert.Equal(t, "u9", GetSubjectID(ctx))
	assert.Equal(t, access.RoleSEO, GetRole(ctx))
}
