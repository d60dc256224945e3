package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/feedtrack/feedtrack/internal/repository"
)

// MembershipRepository implements repository.MembershipRepository for SQLite
type MembershipRepository struct {
	db *DB
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// ListGroupMembers returns the user ids belonging to a group
func (r *MembershipRepository) ListGroupMembers(ctx context.Context, groupID string) ([]string, error) {
	query := `
		SELECT user_id
		FROM group_members
		WHERE group_id = ?
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list group members: %w", err)
	}
	defer rows.Close()

	var members []string
	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return members, nil
}

// AddGroupMember adds a user to a group. Adding an existing member is a no-op.
func (r *MembershipRepository) AddGroupMember(ctx context.Context, groupID, userID string) error {
	query := `
		INSERT OR IGNORE INTO group_members (group_id, user_id, created_at)
		VALUES (?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query, groupID, userID, time.Now())
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to add group member: %w", err)
	}

	return nil
}
