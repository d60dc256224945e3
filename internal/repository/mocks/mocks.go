package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/feedtrack/feedtrack/internal/domain/feedback"
	"github.com/feedtrack/feedtrack/internal/domain/identity"
	"github.com/feedtrack/feedtrack/internal/domain/project"
)

// UserRepository is a mock for repository.UserRepository.
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) Create(ctx context.Context, user *identity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *UserRepository) Get(ctx context.Context, id string) (*identity.User, error) {
	args := m.Called(ctx, id)
	if user, ok := args.Get(0).(*identity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *UserRepository) GetByEmail(ctx context.Context, email string) (*identity.User, error) {
	args := m.Called(ctx, email)
	if user, ok := args.Get(0).(*identity.User); ok {
		return user, args.Error(1)
	}
	return nil, args.Error(1)
}

// SessionRepository is a mock for repository.SessionRepository.
type SessionRepository struct {
	mock.Mock
}

func (m *SessionRepository) Create(ctx context.Context, tokenHash string, sess *identity.Session) error {
	args := m.Called(ctx, tokenHash, sess)
	return args.Error(0)
}

func (m *SessionRepository) Get(ctx context.Context, tokenHash string) (*identity.Session, error) {
	args := m.Called(ctx, tokenHash)
	if sess, ok := args.Get(0).(*identity.Session); ok {
		return sess, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

// MembershipRepository is a mock for repository.MembershipRepository.
type MembershipRepository struct {
	mock.Mock
}

func (m *MembershipRepository) ListGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	args := m.Called(ctx, groupID)
	if members, ok := args.Get(0).([]string); ok {
		return members, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MembershipRepository) AddGroupMember(ctx context.Context, groupID, userID string) error {
	args := m.Called(ctx, groupID, userID)
	return args.Error(0)
}

// ProjectRepository is a mock for repository.ProjectRepository.
type ProjectRepository struct {
	mock.Mock
}

func (m *ProjectRepository) Create(ctx context.Context, proj *project.Project) error {
	args := m.Called(ctx, proj)
	return args.Error(0)
}

func (m *ProjectRepository) Get(ctx context.Context, id string) (*project.Project, error) {
	args := m.Called(ctx, id)
	if proj, ok := args.Get(0).(*project.Project); ok {
		return proj, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProjectRepository) List(ctx context.Context) ([]project.Project, error) {
	args := m.Called(ctx)
	if list, ok := args.Get(0).([]project.Project); ok {
		return list, args.Error(1)
	}
	return nil, args.Error(1)
}

// FeedbackRepository is a mock for repository.FeedbackRepository.
type FeedbackRepository struct {
	mock.Mock
}

func (m *FeedbackRepository) Create(ctx context.Context, item *feedback.Item) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *FeedbackRepository) Get(ctx context.Context, id string) (*feedback.Item, error) {
	args := m.Called(ctx, id)
	if item, ok := args.Get(0).(*feedback.Item); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FeedbackRepository) List(ctx context.Context, opts feedback.ListOptions) ([]feedback.Item, error) {
	args := m.Called(ctx, opts)
	if items, ok := args.Get(0).([]feedback.Item); ok {
		return items, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *FeedbackRepository) UpdateStatus(ctx context.Context, id string, status feedback.Status) (*feedback.Item, error) {
	args := m.Called(ctx, id, status)
	if item, ok := args.Get(0).(*feedback.Item); ok {
		return item, args.Error(1)
	}
	return nil, args.Error(1)
}

// Publisher is a mock for feedback.Publisher.
type Publisher struct {
	mock.Mock
}

func (m *Publisher) PublishCreated(item feedback.Item) {
	m.Called(item)
}

func (m *Publisher) PublishUpdated(item feedback.Item) {
	m.Called(item)
}
