package transport

import (
	"net/http"
	"path"
	"strings"

	"github.com/feedtrack/feedtrack/internal/domain/identity"
)

// Route targets used by guard redirects.
const (
	LoginPath     = "/login"
	RegisterPath  = "/register"
	DashboardPath = "/dashboard"
	DeveloperPath = "/dashboard/developer"
)

// RouteClass classifies a page path for access decisions.
type RouteClass int

const (
	// RoutePublic is reachable only when logged out (login, registration).
	RoutePublic RouteClass = iota
	// RouteDeveloperOnly requires the developer role.
	RouteDeveloperOnly
	// RouteGeneral requires any authenticated identity.
	RouteGeneral
)

// Classify assigns a path to exactly one route class.
func Classify(p string) RouteClass {
	switch {
	case p == LoginPath || p == RegisterPath:
		return RoutePublic
	case strings.HasPrefix(p, DeveloperPath):
		return RouteDeveloperOnly
	default:
		return RouteGeneral
	}
}

// assetExtensions lists static file suffixes the guard never intercepts.
var assetExtensions = map[string]bool{
	".svg":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".webp": true,
	".ico":  true,
	".css":  true,
	".js":   true,
}

// Bypass reports whether the path is outside the guard's inclusion pattern:
// API endpoints and static assets pass straight through.
func Bypass(p string) bool {
	if strings.HasPrefix(p, "/api/") || strings.HasPrefix(p, "/static/") {
		return true
	}
	if p == "/favicon.ico" {
		return true
	}
	return assetExtensions[strings.ToLower(path.Ext(p))]
}

// Decision is the guard's verdict for one request.
type Decision struct {
	Allow      bool
	RedirectTo string
}

var allow = Decision{Allow: true}

func redirectTo(target string) Decision {
	return Decision{RedirectTo: target}
}

// Decide applies the access rules for a page path and an identity (nil when
// unauthenticated). It is pure: the same inputs always produce the same
// decision, and nothing is cached between requests.
func Decide(p string, ident *identity.Identity) Decision {
	class := Classify(p)

	if ident == nil && class != RoutePublic {
		return redirectTo(LoginPath)
	}
	if ident != nil && class == RoutePublic {
		return redirectTo(DashboardPath)
	}
	// Role downgrade, not an auth failure: send to the general dashboard.
	if class == RouteDeveloperOnly && (ident == nil || !ident.IsDeveloper) {
		return redirectTo(DashboardPath)
	}
	return allow
}

// Guard intercepts page requests, resolves the session cookie and enforces
// Decide. Bypassed paths are forwarded untouched.
func Guard(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if Bypass(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ident, err := resolver.Resolve(r.Context(), sessionCredential(r))
			if err != nil {
				// Resolution fails soft; treat as unauthenticated.
				ident = nil
			}

			decision := Decide(r.URL.Path, ident)
			if !decision.Allow {
				http.Redirect(w, r, decision.RedirectTo, http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), ident)))
		})
	}
}
