package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/feedtrack/feedtrack/internal/domain/identity"
	"github.com/feedtrack/feedtrack/internal/transport"
)

var (
	anonymous *identity.Identity
	regular   = &identity.Identity{ID: "u1", DisplayName: "Ada"}
	dev       = &identity.Identity{ID: "d1", DisplayName: "Grace", IsDeveloper: true}
)

func TestClassify(t *testing.T) {
	cases := []struct {
		path string
		want transport.RouteClass
	}{
		{"/login", transport.RoutePublic},
		{"/register", transport.RoutePublic},
		{"/dashboard/developer", transport.RouteDeveloperOnly},
		{"/dashboard/developer/triage", transport.RouteDeveloperOnly},
		{"/dashboard", transport.RouteGeneral},
		{"/", transport.RouteGeneral},
		{"/settings", transport.RouteGeneral},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, transport.Classify(tc.path), "path %s", tc.path)
	}
}

func TestBypass(t *testing.T) {
	for _, p := range []string{"/api/feedback", "/api/session", "/static/app.css", "/favicon.ico", "/logo.png", "/images/shot.JPEG"} {
		require.True(t, transport.Bypass(p), "path %s", p)
	}
	for _, p := range []string{"/login", "/dashboard", "/dashboard/developer", "/"} {
		require.False(t, transport.Bypass(p), "path %s", p)
	}
}

func TestDecide(t *testing.T) {
	cases := []struct {
		name  string
		path  string
		ident *identity.Identity
		want  transport.Decision
	}{
		{"anonymous on general page", "/dashboard", anonymous, transport.Decision{RedirectTo: "/login"}},
		{"anonymous on root", "/", anonymous, transport.Decision{RedirectTo: "/login"}},
		{"anonymous on public page", "/login", anonymous, transport.Decision{Allow: true}},
		{"anonymous on register", "/register", anonymous, transport.Decision{Allow: true}},
		{"signed-in on public page", "/login", regular, transport.Decision{RedirectTo: "/dashboard"}},
		{"signed-in on general page", "/dashboard", regular, transport.Decision{Allow: true}},
		{"non-developer on developer page", "/dashboard/developer", regular, transport.Decision{RedirectTo: "/dashboard"}},
		{"anonymous on developer page", "/dashboard/developer", anonymous, transport.Decision{RedirectTo: "/login"}},
		{"developer on developer page", "/dashboard/developer", dev, transport.Decision{Allow: true}},
		{"developer on public page", "/register", dev, transport.Decision{RedirectTo: "/dashboard"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, transport.Decide(tc.path, tc.ident))
		})
	}
}

// stubResolver maps credentials to identities without a backing service.
type stubResolver struct {
	identities map[string]*identity.Identity
}

func (s *stubResolver) Resolve(_ context.Context, credential string) (*identity.Identity, error) {
	return s.identities[credential], nil
}

func guardedMux(t *testing.T, resolver transport.IdentityResolver) http.Handler {
	t.Helper()
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return transport.Guard(resolver)(next)
}

func request(path, credential string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	if credential != "" {
		r.AddCookie(&http.Cookie{Name: transport.SessionCookieName, Value: credential})
	}
	return r
}

func TestGuard_RedirectsAnonymousToLogin(t *testing.T) {
	handler := guardedMux(t, &stubResolver{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("/dashboard", ""))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}

func TestGuard_DowngradesNonDeveloper(t *testing.T) {
	resolver := &stubResolver{identities: map[string]*identity.Identity{"tok": regular}}
	handler := guardedMux(t, resolver)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("/dashboard/developer", "tok"))

	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/dashboard", rec.Header().Get("Location"))
}

func TestGuard_AllowsDeveloper(t *testing.T) {
	resolver := &stubResolver{identities: map[string]*identity.Identity{"tok": dev}}
	handler := guardedMux(t, resolver)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("/dashboard/developer", "tok"))

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGuard_BypassesAPIPaths(t *testing.T) {
	handler := guardedMux(t, &stubResolver{})

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("/api/feedback", ""))

	// No redirect even without a session: the guard never sees /api.
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestGuard_DecidesPerRequest(t *testing.T) {
	resolver := &stubResolver{identities: map[string]*identity.Identity{"tok": regular}}
	handler := guardedMux(t, resolver)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, request("/dashboard", "tok"))
	require.Equal(t, http.StatusOK, rec.Code)

	// Simulate logout between requests: the same path now redirects.
	delete(resolver.identities, "tok")

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, request("/dashboard", "tok"))
	require.Equal(t, http.StatusSeeOther, rec.Code)
	require.Equal(t, "/login", rec.Header().Get("Location"))
}
