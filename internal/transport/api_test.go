package transport_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/feedtrack/feedtrack/internal/domain/feedback"
	"github.com/feedtrack/feedtrack/internal/domain/identity"
	"github.com/feedtrack/feedtrack/internal/domain/project"
	"github.com/feedtrack/feedtrack/internal/files"
	"github.com/feedtrack/feedtrack/internal/realtime"
	"github.com/feedtrack/feedtrack/internal/sqlite"
	"github.com/feedtrack/feedtrack/internal/transport"
)

type testEnv struct {
	server      *httptest.Server
	memberships *sqlite.MembershipRepository
	projects    *project.Service
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sqlite.New(":memory:")
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })

	memberships := sqlite.NewMembershipRepository(db)
	fileStore, err := files.NewStore(t.TempDir(), sqlite.NewFileRepository(db), nil)
	require.NoError(t, err)

	hub := realtime.NewHub(nil)
	identitySvc := identity.NewService(
		sqlite.NewUserRepository(db),
		sqlite.NewSessionRepository(db),
		memberships,
		"developers",
		time.Hour,
		nil,
	)
	projectSvc := project.NewService(sqlite.NewProjectRepository(db), nil)
	feedbackSvc := feedback.NewService(sqlite.NewFeedbackRepository(db), realtime.NewFeedPublisher(hub), nil)

	handlers := transport.NewHandlers(identitySvc, feedbackSvc, projectSvc, fileStore, nil)
	router := transport.NewRouter(identitySvc, handlers, transport.NewEventStream(hub, nil))

	// TLS so the Secure session cookie survives the test client's jar.
	server := httptest.NewTLSServer(router)
	t.Cleanup(server.Close)

	return &testEnv{server: server, memberships: memberships, projects: projectSvc}
}

// apiClient is a cookie-carrying test caller.
type apiClient struct {
	t    *testing.T
	base string
	http *http.Client
}

func (e *testEnv) newClient(t *testing.T) *apiClient {
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	httpClient := &http.Client{
		Transport: e.server.Client().Transport,
		Jar:       jar,
	}
	return &apiClient{t: t, base: e.server.URL, http: httpClient}
}

func (c *apiClient) do(method, path string, body any) *http.Response {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, c.base+path, &buf)
	require.NoError(c.t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := c.http.Do(req)
	require.NoError(c.t, err)
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func (c *apiClient) register(email, name string) identity.User {
	c.t.Helper()
	resp := c.do(http.MethodPost, "/api/register", map[string]string{
		"email": email, "name": name, "password": "correct horse",
	})
	require.Equal(c.t, http.StatusCreated, resp.StatusCode)
	return decode[identity.User](c.t, resp)
}

func TestAPI_RegisterAndMe(t *testing.T) {
	env := newTestEnv(t)
	c := env.newClient(t)

	user := c.register("ada@example.com", "Ada")
	require.Equal(t, "ada@example.com", user.Email)

	resp := c.do(http.MethodGet, "/api/me", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decode[identity.Identity](t, resp)
	require.Equal(t, user.ID, me.ID)
	require.False(t, me.IsDeveloper)
}

func TestAPI_UnauthenticatedGets401(t *testing.T) {
	env := newTestEnv(t)
	c := env.newClient(t)

	resp := c.do(http.MethodGet, "/api/feedback", nil)
	defer resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_SubmitAndListOwnFeedback(t *testing.T) {
	env := newTestEnv(t)

	proj, err := env.projects.Create(context.Background(), project.CreateRequest{Name: "Mobile App"})
	require.NoError(t, err)

	c := env.newClient(t)
	c.register("ada@example.com", "Ada")

	resp := c.do(http.MethodPost, "/api/feedback", feedback.SubmitRequest{
		Title:       "Broken export",
		Description: "Export button does nothing",
		Category:    feedback.CategoryBug,
		ProjectID:   proj.ID,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	item := decode[feedback.Item](t, resp)
	require.Equal(t, feedback.StatusOpen, item.Status)

	resp = c.do(http.MethodGet, "/api/feedback", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decode[[]feedback.Item](t, resp)
	require.Len(t, items, 1)
	require.Equal(t, item.ID, items[0].ID)
}

func TestAPI_StatusUpdateRequiresDeveloper(t *testing.T) {
	env := newTestEnv(t)

	proj, err := env.projects.Create(context.Background(), project.CreateRequest{Name: "Mobile App"})
	require.NoError(t, err)

	submitter := env.newClient(t)
	submitter.register("ada@example.com", "Ada")

	resp := submitter.do(http.MethodPost, "/api/feedback", feedback.SubmitRequest{
		Title:       "Broken export",
		Description: "Details",
		Category:    feedback.CategoryBug,
		ProjectID:   proj.ID,
	})
	item := decode[feedback.Item](t, resp)

	// A regular user may not triage.
	resp = submitter.do(http.MethodPatch, "/api/feedback/"+item.ID+"/status", map[string]string{"status": "closed"})
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	// A member of the developers group may.
	dev := env.newClient(t)
	devUser := dev.register("grace@example.com", "Grace")
	require.NoError(t, env.memberships.AddGroupMember(context.Background(), "developers", devUser.ID))

	resp = dev.do(http.MethodPatch, "/api/feedback/"+item.ID+"/status", map[string]string{"status": "in_progress"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	updated := decode[feedback.Item](t, resp)
	require.Equal(t, feedback.StatusInProgress, updated.Status)
}

func TestAPI_DeveloperSeesAllFeedback(t *testing.T) {
	env := newTestEnv(t)

	proj, err := env.projects.Create(context.Background(), project.CreateRequest{Name: "Mobile App"})
	require.NoError(t, err)

	submitter := env.newClient(t)
	submitter.register("ada@example.com", "Ada")
	resp := submitter.do(http.MethodPost, "/api/feedback", feedback.SubmitRequest{
		Title: "Broken export", Description: "Details", Category: feedback.CategoryBug, ProjectID: proj.ID,
	})
	resp.Body.Close()

	dev := env.newClient(t)
	devUser := dev.register("grace@example.com", "Grace")
	require.NoError(t, env.memberships.AddGroupMember(context.Background(), "developers", devUser.ID))

	resp = dev.do(http.MethodGet, "/api/feedback", nil)
	items := decode[[]feedback.Item](t, resp)
	require.Len(t, items, 1, "developers see everyone's items")
}

func TestAPI_Logout(t *testing.T) {
	env := newTestEnv(t)
	c := env.newClient(t)
	c.register("ada@example.com", "Ada")

	resp := c.do(http.MethodDelete, "/api/session", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = c.do(http.MethodGet, "/api/me", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAPI_PageGuardRedirects(t *testing.T) {
	env := newTestEnv(t)
	c := env.newClient(t)
	c.http.CheckRedirect = func(req *http.Request, via []*http.Request) error {
		return http.ErrUseLastResponse
	}

	resp := c.do(http.MethodGet, "/dashboard", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/login", resp.Header.Get("Location"))

	c.register("ada@example.com", "Ada")

	resp = c.do(http.MethodGet, "/dashboard", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = c.do(http.MethodGet, "/login", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))

	resp = c.do(http.MethodGet, "/dashboard/developer", nil)
	resp.Body.Close()
	require.Equal(t, http.StatusSeeOther, resp.StatusCode)
	require.Equal(t, "/dashboard", resp.Header.Get("Location"))
}
