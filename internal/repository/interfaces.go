package repository

import (
	"context"
	"time"

	"github.com/feedtrack/feedtrack/internal/domain/feedback"
	"github.com/feedtrack/feedtrack/internal/domain/identity"
	"github.com/feedtrack/feedtrack/internal/domain/project"
)

// UserRepository manages account persistence
type UserRepository interface {
	Create(ctx context.Context, user *identity.User) error
	Get(ctx context.Context, id string) (*identity.User, error)
	GetByEmail(ctx context.Context, email string) (*identity.User, error)
}

// SessionRepository manages login session persistence, keyed by token hash
type SessionRepository interface {
	Create(ctx context.Context, tokenHash string, sess *identity.Session) error
	Get(ctx context.Context, tokenHash string) (*identity.Session, error)
	Delete(ctx context.Context, tokenHash string) error
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}

// MembershipRepository manages group membership
type MembershipRepository interface {
	ListGroupMembers(ctx context.Context, groupID string) ([]string, error)
	AddGroupMember(ctx context.Context, groupID, userID string) error
}

// ProjectRepository manages project persistence
type ProjectRepository interface {
	Create(ctx context.Context, proj *project.Project) error
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context) ([]project.Project, error)
}

// FeedbackRepository manages feedback item persistence
type FeedbackRepository interface {
	Create(ctx context.Context, item *feedback.Item) error
	Get(ctx context.Context, id string) (*feedback.Item, error)
	List(ctx context.Context, opts feedback.ListOptions) ([]feedback.Item, error)
	UpdateStatus(ctx context.Context, id string, status feedback.Status) (*feedback.Item, error)
}

// FileRepository manages attachment metadata
type FileRepository interface {
	Create(ctx context.Context, meta *FileMeta) error
	Get(ctx context.Context, bucket, id string) (*FileMeta, error)
}

// FileMeta describes a stored attachment blob
type FileMeta struct {
	ID          string
	Bucket      string
	Name        string
	ContentType string
	Size        int64
	CreatedAt   time.Time
}
