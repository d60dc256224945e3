package feedback

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/feedtrack/feedtrack/internal/domain/identity"
	"github.com/feedtrack/feedtrack/internal/repoerr"
)

// Service handles feedback submission, listing and triage.
type Service struct {
	items     Repository
	publisher Publisher
	logger    *slog.Logger
}

// NewService creates a new feedback service.
func NewService(items Repository, publisher Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		items:     items,
		publisher: publisher,
		logger:    logger,
	}
}

// SubmitRequest describes a new feedback submission.
type SubmitRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     Category `json:"category"`
	ProjectID    string   `json:"project_id"`
	AttachmentID *string  `json:"attachment_id,omitempty"`
}

// Submit validates and persists a new feedback item on behalf of the
// submitter and publishes a creation event.
func (s *Service) Submit(ctx context.Context, submitter *identity.Identity, req SubmitRequest) (*Item, error) {
	if submitter == nil {
		return nil, ErrInvalidInput
	}
	if err := validateSubmit(req); err != nil {
		return nil, err
	}

	now := time.Now()
	item := &Item{
		ID:            uuid.NewString(),
		Title:         req.Title,
		Description:   req.Description,
		Category:      req.Category,
		Status:        StatusOpen,
		ProjectID:     req.ProjectID,
		SubmitterID:   submitter.ID,
		SubmitterName: submitter.DisplayName,
		AttachmentID:  req.AttachmentID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.items.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("creating feedback item: %w", err)
	}

	if s.publisher != nil {
		s.publisher.PublishCreated(*item)
	}
	s.logger.Info("feedback submitted", "item_id", item.ID, "category", item.Category)
	return item, nil
}

// Get returns a single item by id.
func (s *Service) Get(ctx context.Context, id string) (*Item, error) {
	item, err := s.items.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repoerr.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("loading feedback item: %w", err)
	}
	return item, nil
}

// List returns all items, newest first.
func (s *Service) List(ctx context.Context) ([]Item, error) {
	items, err := s.items.List(ctx, ListOptions{})
	if err != nil {
		return nil, fmt.Errorf("listing feedback items: %w", err)
	}
	return items, nil
}

// ListBySubmitter returns the caller's own items, newest first.
func (s *Service) ListBySubmitter(ctx context.Context, userID string) ([]Item, error) {
	items, err := s.items.List(ctx, ListOptions{SubmitterID: userID})
	if err != nil {
		return nil, fmt.Errorf("listing feedback items: %w", err)
	}
	return items, nil
}

// UpdateStatus transitions an item to a new status. Only developers may
// triage; the stored item is untouched when validation fails.
func (s *Service) UpdateStatus(ctx context.Context, actor *identity.Identity, id string, status Status) (*Item, error) {
	if actor == nil || !actor.IsDeveloper {
		return nil, ErrForbidden
	}
	if !ValidStatus(status) {
		return nil, ErrInvalidStatus
	}

	item, err := s.items.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, repoerr.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("updating feedback status: %w", err)
	}

	if s.publisher != nil {
		s.publisher.PublishUpdated(*item)
	}
	s.logger.Info("feedback status updated", "item_id", id, "status", status, "actor", actor.ID)
	return item, nil
}

func validateSubmit(req SubmitRequest) error {
	if req.Title == "" || req.Description == "" || req.ProjectID == "" {
		return ErrInvalidInput
	}
	if !ValidCategory(req.Category) {
		return ErrInvalidInput
	}
	return nil
}
