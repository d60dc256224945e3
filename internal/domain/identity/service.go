package identity

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/crypto/bcrypt"

	"github.com/feedtrack/feedtrack/internal/repoerr"
)

const sessionCacheTTL = 5 * time.Minute

// Service resolves session credentials to identities and manages the
// login session lifecycle.
type Service struct {
	users          UserRepository
	sessions       SessionRepository
	memberships    MembershipRepository
	developerGroup string
	sessionTTL     time.Duration
	cache          *gocache.Cache
	logger         *slog.Logger
}

// NewService creates a new identity service.
func NewService(
	users UserRepository,
	sessions SessionRepository,
	memberships MembershipRepository,
	developerGroup string,
	sessionTTL time.Duration,
	logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Service{
		users:          users,
		sessions:       sessions,
		memberships:    memberships,
		developerGroup: developerGroup,
		sessionTTL:     sessionTTL,
		cache:          gocache.New(sessionCacheTTL, 2*sessionCacheTTL),
		logger:         logger,
	}
}

// Resolve exchanges an opaque session credential for an identity. An absent,
// unknown or expired credential yields a nil identity and a nil error; this
// method never fails hard. Inability to prove developer-group membership
// yields IsDeveloper == false.
func (s *Service) Resolve(ctx context.Context, credential string) (*Identity, error) {
	if credential == "" {
		return nil, nil
	}

	sess, err := s.lookupSession(ctx, credential)
	if err != nil || sess == nil {
		if err != nil {
			s.logger.Debug("session lookup failed", "error", err)
		}
		return nil, nil
	}
	if sess.Expired(time.Now()) {
		return nil, nil
	}

	user, err := s.users.Get(ctx, sess.UserID)
	if err != nil {
		s.logger.Debug("user lookup failed", "user_id", sess.UserID, "error", err)
		return nil, nil
	}

	return &Identity{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
		IsDeveloper: s.isDeveloper(ctx, user.ID),
	}, nil
}

// CreateSession verifies the email/password pair and issues a new session.
func (s *Service) CreateSession(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repoerr.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("loading user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	now := time.Now()
	sess := &Session{
		Token:     uuid.NewString(),
		UserID:    user.ID,
		ExpiresAt: now.Add(s.sessionTTL),
		CreatedAt: now,
	}
	if err := s.sessions.Create(ctx, hashCredential(sess.Token), sess); err != nil {
		return nil, fmt.Errorf("creating session: %w", err)
	}

	s.logger.Info("session created", "user_id", user.ID)
	return sess, nil
}

// DeleteSession revokes the session behind the credential. Unknown
// credentials are not an error.
func (s *Service) DeleteSession(ctx context.Context, credential string) error {
	if credential == "" {
		return nil
	}
	hash := hashCredential(credential)
	s.cache.Delete(hash)
	if err := s.sessions.Delete(ctx, hash); err != nil {
		if errors.Is(err, repoerr.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// Register creates a new account with a bcrypt-hashed password.
func (s *Service) Register(ctx context.Context, email, name, password string) (*User, error) {
	email = normalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") || name == "" || len(password) < 8 {
		return nil, ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		DisplayName:  name,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repoerr.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// lookupSession checks the in-process cache before hitting the repository.
// The cache is write-through with a short TTL and is invalidated on logout.
func (s *Service) lookupSession(ctx context.Context, credential string) (*Session, error) {
	hash := hashCredential(credential)
	if cached, ok := s.cache.Get(hash); ok {
		return cached.(*Session), nil
	}

	sess, err := s.sessions.Get(ctx, hash)
	if err != nil {
		if errors.Is(err, repoerr.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	s.cache.Set(hash, sess, gocache.DefaultExpiration)
	return sess, nil
}

// isDeveloper reports membership of the developer group. Any failure to
// answer the query denies the role.
func (s *Service) isDeveloper(ctx context.Context, userID string) bool {
	members, err := s.memberships.ListGroupMembers(ctx, s.developerGroup)
	if err != nil {
		s.logger.Debug("membership query failed", "group", s.developerGroup, "error", err)
		return false
	}
	for _, id := range members {
		if id == userID {
			return true
		}
	}
	return false
}

func hashCredential(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return hex.EncodeToString(sum[:])
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
