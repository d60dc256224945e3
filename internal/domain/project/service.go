package project

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/feedtrack/feedtrack/internal/repoerr"
)

// Service handles project operations.
type Service struct {
	projects Repository
	logger   *slog.Logger
}

// NewService creates a new project service.
func NewService(projects Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{projects: projects, logger: logger}
}

// CreateRequest describes a new project.
type CreateRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Create validates and persists a new project.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Project, error) {
	if req.Name == "" {
		return nil, ErrInvalidInput
	}

	now := time.Now()
	proj := &Project{
		ID:          uuid.NewString(),
		Name:        req.Name,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.projects.Create(ctx, proj); err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}
	return proj, nil
}

// Get returns a project by id.
func (s *Service) Get(ctx context.Context, id string) (*Project, error) {
	proj, err := s.projects.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repoerr.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading project: %w", err)
	}
	return proj, nil
}

// List returns all projects.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	projects, err := s.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing projects: %w", err)
	}
	return projects, nil
}
