// AngelaMos | 2026
// verifier.go

package auth

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lestrrat-go/httprc/v3"
	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"
	"github.com/lestrrat-go/jwx/v3/jws"
	"github.com/lestrrat-go/jwx/v3/jwt"

	"github.com/angelamos/sitehub/internal/config"
	"github.com/angelamos/sitehub/internal/core"
	"github.com/angelamos/sitehub/internal/middleware"
)

// Verifier checks bearer credentials issued by the identity provider and
// extracts the subject and email claims. An email the provider marks as
// unverified is dropped. It never consults the workforce
// table; that is the resolver's job.
type Verifier struct {
	parseOpts []jwt.ParseOption
}

// NewVerifier builds a verifier from either a PEM public key on disk or a
// remote JWKS endpoint, whichever the config names.
func NewVerifier(ctx context.Context, cfg config.AuthConfig) (*Verifier, error) {
	switch {
	case cfg.PublicKeyPath != "":
		publicKeyPEM, err := os.ReadFile(cfg.PublicKeyPath)
		if err != nil {
			return nil, fmt.Errorf("read public key: %w", err)
		}

		key, err := jwk.ParseKey(publicKeyPEM, jwk.WithPEM(true))
		if err != nil {
			return nil, fmt.Errorf("parse public key: %w", err)
		}

		return NewVerifierWithKey(key, cfg.Issuer, cfg.Audience), nil

	case cfg.JWKSURL != "":
		cache, err := jwk.NewCache(ctx, httprc.NewClient())
		if err != nil {
			return nil, fmt.Errorf("create jwks cache: %w", err)
		}

		if err := cache.Register(ctx, cfg.JWKSURL); err != nil {
			return nil, fmt.Errorf("register jwks url: %w", err)
		}

		set, err := cache.CachedSet(cfg.JWKSURL)
		if err != nil {
			return nil, fmt.Errorf("load jwks: %w", err)
		}

		return NewVerifierWithKeySet(set, cfg.Issuer, cfg.Audience), nil

	default:
		return nil, errors.New("no verification key configured")
	}
}

func NewVerifierWithKey(key jwk.Key, issuer, audience string) *Verifier {
	return &Verifier{
		parseOpts: baseParseOptions(
			jwt.WithKey(jwa.ES256(), key),
			issuer,
			audience,
		),
	}
}

func NewVerifierWithKeySet(set jwk.Set, issuer, audience string) *Verifier {
	return &Verifier{
		parseOpts: baseParseOptions(
			jwt.WithKeySet(set, jws.WithInferAlgorithmFromKey(true)),
			issuer,
			audience,
		),
	}
}

func baseParseOptions(
	keyOpt jwt.ParseOption,
	issuer, audience string,
) []jwt.ParseOption {
	opts := []jwt.ParseOption{keyOpt, jwt.WithValidate(true)}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	return opts
}

func (v *Verifier) Verify(
	ctx context.Context,
	tokenString string,
) (*middleware.Credential, error) {
	if strings.TrimSpace(tokenString) == "" {
		return nil, fmt.Errorf("verify token: empty: %w", core.ErrTokenInvalid)
	}

	token, err := jwt.Parse([]byte(tokenString), v.parseOpts...)
	if err != nil {
		if isTokenExpiredError(err) {
			return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
		}
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}

	subject, ok := token.Subject()
	if !ok || subject == "" {
		return nil, fmt.Errorf(
			"verify token: missing subject: %w",
			core.ErrTokenInvalid,
		)
	}

	var email string
	if token.Has("email") {
		if err := token.Get("email", &email); err != nil {
			return nil, fmt.Errorf(
				"verify token: malformed email claim: %w",
				core.ErrTokenInvalid,
			)
		}
	}

	if email != "" && !emailVerified(token) {
		email = ""
	}

	return &middleware.Credential{
		SubjectID: subject,
		Email:     strings.ToLower(strings.TrimSpace(email)),
	}, nil
}

// emailVerified reports false only when the provider explicitly marks the
// address unverified. Some providers send the flag as a string.
func emailVerified(token jwt.Token) bool {
	if !token.Has("email_verified") {
		return true
	}

	var raw any
	if err := token.Get("email_verified", &raw); err != nil {
		return false
	}

	switch v := raw.(type) {
	case bool:
		return v
	case string:
		verified, err := strconv.ParseBool(v)
		return err == nil && verified
	default:
		return false
	}
}

func isTokenExpiredError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, jwt.TokenExpiredError()) {
		return true
	}
	errStr := err.Error()
	return strings.Contains(errStr, "exp") &&
		strings.Contains(errStr, "not satisfied")
}

var _ middleware.TokenVerifier = (*Verifier)(nil)
