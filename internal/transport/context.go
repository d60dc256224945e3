package transport

import (
	"context"
	"net/http"
	"time"

	"github.com/feedtrack/feedtrack/internal/domain/identity"
)

// IdentityResolver resolves a session credential to an identity. A nil
// identity with a nil error means unauthenticated.
type IdentityResolver interface {
	Resolve(ctx context.Context, credential string) (*identity.Identity, error)
}

type identityKey struct{}

// IdentityFromContext returns the resolved identity, if present.
func IdentityFromContext(ctx context.Context) (*identity.Identity, bool) {
	ident, ok := ctx.Value(identityKey{}).(*identity.Identity)
	return ident, ok && ident != nil
}

func withIdentity(ctx context.Context, ident *identity.Identity) context.Context {
	if ident == nil {
		return ctx
	}
	return context.WithValue(ctx, identityKey{}, ident)
}

// SessionCookieName is the transport cookie carrying the opaque credential.
const SessionCookieName = "session"

// sessionCredential reads the raw credential from the request cookie, or ""
// when absent.
func sessionCredential(r *http.Request) string {
	cookie, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

func setSessionCookie(w http.ResponseWriter, token string, expires time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})
}

// RequireIdentity guards API endpoints: unauthenticated requests get a 401
// JSON error instead of a redirect.
func RequireIdentity(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, err := resolver.Resolve(r.Context(), sessionCredential(r))
			if err != nil || ident == nil {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}
			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), ident)))
		})
	}
}
