package transport

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/feedtrack/feedtrack/internal/domain/feedback"
	"github.com/feedtrack/feedtrack/internal/domain/identity"
	"github.com/feedtrack/feedtrack/internal/domain/project"
	"github.com/feedtrack/feedtrack/internal/files"
)

// Handlers holds the HTTP endpoints of the JSON API.
type Handlers struct {
	identity *identity.Service
	feedback *feedback.Service
	projects *project.Service
	files    *files.Store
	logger   *slog.Logger
}

// NewHandlers creates the API handler set.
func NewHandlers(
	identitySvc *identity.Service,
	feedbackSvc *feedback.Service,
	projectSvc *project.Service,
	fileStore *files.Store,
	logger *slog.Logger,
) *Handlers {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Handlers{
		identity: identitySvc,
		feedback: feedbackSvc,
		projects: projectSvc,
		files:    fileStore,
		logger:   logger,
	}
}

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type registerRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// Register creates an account and logs it straight in.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	user, err := h.identity.Register(r.Context(), req.Email, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, identity.ErrInvalidInput):
			writeError(w, http.StatusBadRequest, "email, name and a password of at least 8 characters are required")
		case errors.Is(err, identity.ErrEmailTaken):
			writeError(w, http.StatusConflict, "email already registered")
		default:
			h.logger.Error("registration failed", "error", err)
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	sess, err := h.identity.CreateSession(r.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Error("post-registration login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "registration succeeded but login failed")
		return
	}
	setSessionCookie(w, sess.Token, sess.ExpiresAt)
	writeJSON(w, http.StatusCreated, user)
}

// CreateSession logs a user in and sets the session cookie.
func (h *Handlers) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	sess, err := h.identity.CreateSession(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.logger.Error("login failed", "error", err)
		writeError(w, http.StatusInternalServerError, "login failed")
		return
	}

	setSessionCookie(w, sess.Token, sess.ExpiresAt)
	ident, _ := h.identity.Resolve(r.Context(), sess.Token)
	writeJSON(w, http.StatusCreated, ident)
}

// DeleteSession logs the caller out and clears the cookie.
func (h *Handlers) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.identity.DeleteSession(r.Context(), sessionCredential(r)); err != nil {
		h.logger.Error("logout failed", "error", err)
		writeError(w, http.StatusInternalServerError, "logout failed")
		return
	}
	clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me returns the caller's resolved identity.
func (h *Handlers) Me(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())
	writeJSON(w, http.StatusOK, ident)
}

// ListProjects returns all projects.
func (h *Handlers) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projects.List(r.Context())
	if err != nil {
		h.logger.Error("listing projects failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load projects")
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// CreateProject adds a project; developer only.
func (h *Handlers) CreateProject(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())
	if ident == nil || !ident.IsDeveloper {
		writeError(w, http.StatusForbidden, "developer role required")
		return
	}

	var req project.CreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	proj, err := h.projects.Create(r.Context(), req)
	if err != nil {
		if errors.Is(err, project.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "project name is required")
			return
		}
		h.logger.Error("creating project failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create project")
		return
	}
	writeJSON(w, http.StatusCreated, proj)
}

// ListFeedback returns all items for developers and the caller's own items
// for everyone else, newest first.
func (h *Handlers) ListFeedback(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	var (
		items []feedback.Item
		err   error
	)
	if ident.IsDeveloper {
		items, err = h.feedback.List(r.Context())
	} else {
		items, err = h.feedback.ListBySubmitter(r.Context(), ident.ID)
	}
	if err != nil {
		h.logger.Error("listing feedback failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load feedback")
		return
	}
	if items == nil {
		items = []feedback.Item{}
	}
	writeJSON(w, http.StatusOK, items)
}

// SubmitFeedback files a new feedback item on behalf of the caller.
func (h *Handlers) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())

	var req feedback.SubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	item, err := h.feedback.Submit(r.Context(), ident, req)
	if err != nil {
		if errors.Is(err, feedback.ErrInvalidInput) {
			writeError(w, http.StatusBadRequest, "title, description, category and project are required")
			return
		}
		h.logger.Error("submitting feedback failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to submit feedback")
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type statusRequest struct {
	Status feedback.Status `json:"status"`
}

// UpdateFeedbackStatus transitions an item's status; developer only.
func (h *Handlers) UpdateFeedbackStatus(w http.ResponseWriter, r *http.Request) {
	ident, _ := IdentityFromContext(r.Context())
	id := mux.Vars(r)["id"]

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed request body")
		return
	}

	item, err := h.feedback.UpdateStatus(r.Context(), ident, id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, feedback.ErrForbidden):
			writeError(w, http.StatusForbidden, "developer role required")
		case errors.Is(err, feedback.ErrInvalidStatus):
			writeError(w, http.StatusBadRequest, "status must be open, in_progress or closed")
		case errors.Is(err, feedback.ErrNotFound):
			writeError(w, http.StatusNotFound, "feedback item not found")
		default:
			h.logger.Error("updating feedback status failed", "item_id", id, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update status")
		}
		return
	}
	writeJSON(w, http.StatusOK, item)
}

type uploadResponse struct {
	ID      string `json:"id"`
	ViewURL string `json:"view_url"`
}

// UploadFile accepts a multipart attachment upload into a bucket.
func (h *Handlers) UploadFile(w http.ResponseWriter, r *http.Request) {
	bucket := mux.Vars(r)["bucket"]

	if err := r.ParseMultipartForm(files.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, "malformed upload")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, files.MaxUploadSize+1))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable upload")
		return
	}

	id, err := h.files.Upload(r.Context(), bucket, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		switch {
		case errors.Is(err, files.ErrTooLarge):
			writeError(w, http.StatusBadRequest, "attachment must be smaller than 5 MiB")
		case errors.Is(err, files.ErrNotImage):
			writeError(w, http.StatusBadRequest, "attachment must be an image")
		default:
			h.logger.Error("file upload failed", "bucket", bucket, "error", err)
			writeError(w, http.StatusInternalServerError, "upload failed")
		}
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{
		ID:      id,
		ViewURL: h.files.ViewPath(bucket, id),
	})
}

// ViewFile streams a stored attachment.
func (h *Handlers) ViewFile(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	blob, meta, err := h.files.Open(r.Context(), vars["bucket"], vars["id"])
	if err != nil {
		if errors.Is(err, files.ErrNotFound) {
			writeError(w, http.StatusNotFound, "attachment not found")
			return
		}
		h.logger.Error("file view failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load attachment")
		return
	}
	defer blob.Close()

	w.Header().Set("Content-Type", meta.ContentType)
	if _, err := io.Copy(w, blob); err != nil {
		h.logger.Debug("file stream interrupted", "error", err)
	}
}
