// AngelaMos | 2026
// auth.go

package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/angelamos/sitehub/internal/access"
	"github.com/angelamos/sitehub/internal/core"
)

const (
	IdentityKey contextKey = "identity"
)

// Credential is what the identity provider vouches for once a bearer token
// has been verified.
type Credential struct {
	SubjectID string
	Email     string
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*Credential, error)
}

// Identity is the resolved workforce member attached to a guarded request.
type Identity struct {
	SubjectID string
	Email     string
	Role      access.Role
}

// IdentityResolver maps a verified credential to a workforce identity. A nil
// identity with a nil error means the caller is not workforce.
type IdentityResolver interface {
	ResolveIdentity(ctx context.Context, cred Credential) (*Identity, error)
}

type Guard struct {
	verifier TokenVerifier
	resolver IdentityResolver
}

func NewGuard(verifier TokenVerifier, resolver IdentityResolver) *Guard {
	return &Guard{
		verifier: verifier,
		resolver: resolver,
	}
}

// Require allows the request through only when the caller holds a valid
// credential, resolves to a workforce member, and that member's role grants
// the capability. Non-members and under-privileged members get the same
// denial.
func (g *Guard) Require(
	capability access.Capability,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractToken(r)
			if token == "" {
				core.JSONError(w, core.UnauthenticatedError())
				return
			}

			cred, err := g.verifier.Verify(r.Context(), token)
			if err != nil {
				handleAuthError(w, err)
				return
			}

			identity, err := g.resolver.ResolveIdentity(r.Context(), *cred)
			if err != nil {
				slog.ErrorContext(r.Context(), "resolve identity",
					"subject_id", cred.SubjectID,
					"error", err,
				)
				core.JSONError(w, err)
				return
			}

			if identity == nil ||
				!access.HasCapability(identity.Role, capability) {
				slog.InfoContext(r.Context(), "access denied",
					"subject_id", cred.SubjectID,
					"capability", string(capability),
					"request_id", GetRequestID(r.Context()),
				)
				core.JSONError(w, core.AccessDeniedError())
				return
			}

			ctx := context.WithValue(r.Context(), IdentityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func ExtractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}

	return strings.TrimSpace(parts[1])
}

func handleAuthError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, core.ErrTokenExpired):
		core.JSONError(w, core.TokenExpiredError())
	default:
		core.JSONError(w, core.TokenInvalidError())
	}
}

func GetIdentity(ctx context.Context) *Identity {
	if identity, ok := ctx.Value(IdentityKey).(*Identity); ok {
		return identity
	}
	return nil
}

func GetSubjectID(ctx context.Context) string {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.SubjectID
	}
	return ""
}

func GetRole(ctx context.Context) access.Role {
	if identity := GetIdentity(ctx); identity != nil {
		return identity.Role
	}
	return ""
}

// WithIdentity returns a copy of ctx carrying identity. Handlers behind the
// guard never need it; it exists for code paths that run outside HTTP.
func WithIdentity(ctx context.Context, identity *Identity) context.Context {
	return context.WithValue(ctx, IdentityKey, identity)
}
