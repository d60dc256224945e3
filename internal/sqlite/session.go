package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/feedtrack/feedtrack/internal/domain/identity"
	"github.com/feedtrack/feedtrack/internal/repository"
)

// SessionRepository implements repository.SessionRepository for SQLite.
// Sessions are stored under the hash of the opaque token; the token itself
// never touches the database.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new login session
func (r *SessionRepository) Create(ctx context.Context, tokenHash string, sess *identity.Session) error {
	query := `
		INSERT INTO sessions (token_hash, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		tokenHash,
		sess.UserID,
		sess.CreatedAt,
		sess.ExpiresAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// Get retrieves a session by token hash. The returned session carries no
// token; callers already hold the credential.
func (r *SessionRepository) Get(ctx context.Context, tokenHash string) (*identity.Session, error) {
	query := `
		SELECT user_id, created_at, expires_at
		FROM sessions
		WHERE token_hash = ?
	`

	var sess identity.Session
	err := r.db.QueryRowContext(ctx, query, tokenHash).Scan(
		&sess.UserID,
		&sess.CreatedAt,
		&sess.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &sess, nil
}

// Delete removes a session by token hash
func (r *SessionRepository) Delete(ctx context.Context, tokenHash string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token_hash = ?`, tokenHash)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	return nil
}

// DeleteExpired removes sessions whose expiry predates the given time
func (r *SessionRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at < ?`, before)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to check delete result: %w", err)
	}
	return rows, nil
}
