package transport

import (
	"fmt"
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the page routes behind the guard and the JSON API behind
// session authentication. The guard never sees /api or asset paths.
func NewRouter(resolver IdentityResolver, handlers *Handlers, stream *EventStream) http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/register", handlers.Register).Methods(http.MethodPost)
	api.HandleFunc("/session", handlers.CreateSession).Methods(http.MethodPost)
	api.HandleFunc("/session", handlers.DeleteSession).Methods(http.MethodDelete)

	authed := api.NewRoute().Subrouter()
	authed.Use(RequireIdentity(resolver))
	authed.HandleFunc("/me", handlers.Me).Methods(http.MethodGet)
	authed.HandleFunc("/projects", handlers.ListProjects).Methods(http.MethodGet)
	authed.HandleFunc("/projects", handlers.CreateProject).Methods(http.MethodPost)
	authed.HandleFunc("/feedback", handlers.ListFeedback).Methods(http.MethodGet)
	authed.HandleFunc("/feedback", handlers.SubmitFeedback).Methods(http.MethodPost)
	authed.HandleFunc("/feedback/{id}/status", handlers.UpdateFeedbackStatus).Methods(http.MethodPatch)
	authed.Handle("/feedback/events", stream).Methods(http.MethodGet)
	authed.HandleFunc("/files/{bucket}", handlers.UploadFile).Methods(http.MethodPost)
	authed.HandleFunc("/files/{bucket}/{id}/view", handlers.ViewFile).Methods(http.MethodGet)

	pages := r.NewRoute().Subrouter()
	pages.Use(Guard(resolver))
	pages.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
	})
	pages.HandleFunc(LoginPath, pageShell("Sign in"))
	pages.HandleFunc(RegisterPath, pageShell("Create an account"))
	pages.HandleFunc(DeveloperPath, pageShell("Developer dashboard"))
	pages.HandleFunc(DashboardPath, pageShell("My feedback"))

	return r
}

// pageShell serves a minimal HTML shell. Rendering proper is out of scope;
// the shells exist so the guarded page routes are real endpoints.
func pageShell(title string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprintf(w, "<!DOCTYPE html><html><head><title>%s</title></head><body><h1>%s</h1></body></html>\n", title, title)
	}
}
