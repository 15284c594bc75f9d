// AngelaMos | 2026
// cors.go

package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/angelamos/sitehub/internal/config"
)

// originMatcher accepts exact origins and single-label wildcard patterns
// such as "https://*.preview.example.com", which cover per-branch preview
// deployments of the site.
type originMatcher struct {
	any      bool
	exact    map[string]struct{}
	patterns []originPattern
}

type originPattern struct {
	scheme string
	suffix string
}

func newOriginMatcher(origins []string) *originMatcher {
	m := &originMatcher{exact: make(map[string]struct{}, len(origins))}

	for _, origin := range origins {
		origin = strings.TrimRight(strings.ToLower(strings.TrimSpace(origin)), "/")
		switch {
		case origin == "":
			continue
		case origin == "*":
			m.any = true
		case strings.Contains(origin, "://*."):
			scheme, host, _ := strings.Cut(origin, "://")
			m.patterns = append(m.patterns, originPattern{
				scheme: scheme,
				suffix: strings.TrimPrefix(host, "*"),
			})
		default:
			m.exact[origin] = struct{}{}
		}
	}

	return m
}

func (m *originMatcher) allowed(origin string) bool {
	if m.any {
		return true
	}

	origin = strings.ToLower(origin)
	if _, ok := m.exact[origin]; ok {
		return true
	}

	scheme, host, ok := strings.Cut(origin, "://")
	if !ok {
		return false
	}

	for _, p := range m.patterns {
		if scheme != p.scheme || !strings.HasSuffix(host, p.suffix) {
			continue
		}
		label := strings.TrimSuffix(host, p.suffix)
		if label != "" && !strings.ContainsAny(label, "./:") {
			return true
		}
	}

	return false
}

func CORS(cfg config.CORSConfig) func(http.Handler) http.Handler {
	matcher := newOriginMatcher(cfg.AllowedOrigins)
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			w.Header().Add("Vary", "Origin")

			if origin == "" || !matcher.allowed(origin) {
				if r.Method == http.MethodOptions &&
					r.Header.Get("Access-Control-Request-Method") != "" {
					w.WriteHeader(http.StatusForbidden)
					return
				}
				next.ServeHTTP(w, r)
				return
			}

			h := w.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			h.Set("Access-Control-Expose-Headers", RequestIDHeader)

			if r.Method == http.MethodOptions &&
				r.Header.Get("Access-Control-Request-Method") != "" {
				h.Add("Vary", "Access-Control-Request-Method")
				h.Add("Vary", "Access-Control-Request-Headers")
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				h.Set("Access-Control-Max-Age", maxAge)
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
