package identity

import "context"

// UserRepository provides account persistence.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Get(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}

// SessionRepository provides login session persistence. Sessions are keyed
// by the hash of the opaque token.
type SessionRepository interface {
	Create(ctx context.Context, tokenHash string, sess *Session) error
	Get(ctx context.Context, tokenHash string) (*Session, error)
	Delete(ctx context.Context, tokenHash string) error
}

// MembershipRepository answers group membership queries.
type MembershipRepository interface {
	ListGroupMembers(ctx context.Context, groupID string) ([]string, error)
	AddGroupMember(ctx context.Context, groupID, userID string) error
}
