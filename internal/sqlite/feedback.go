package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/feedtrack/feedtrack/internal/domain/feedback"
	"github.com/feedtrack/feedtrack/internal/repository"
)

// FeedbackRepository implements repository.FeedbackRepository for SQLite
type FeedbackRepository struct {
	db *DB
}

// NewFeedbackRepository creates a new FeedbackRepository
func NewFeedbackRepository(db *DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create inserts a new feedback item
func (r *FeedbackRepository) Create(ctx context.Context, item *feedback.Item) error {
	query := `
		INSERT INTO feedback_items (
			id, title, description, category, status, project_id,
			submitter_id, submitter_name, attachment_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Title,
		item.Description,
		item.Category,
		item.Status,
		item.ProjectID,
		item.SubmitterID,
		item.SubmitterName,
		item.AttachmentID,
		item.CreatedAt,
		item.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return repository.ErrForeignKeyViolation
		}
		return fmt.Errorf("failed to create feedback item: %w", err)
	}

	return nil
}

// Get retrieves a feedback item by ID
func (r *FeedbackRepository) Get(ctx context.Context, id string) (*feedback.Item, error) {
	query := selectColumns + ` WHERE id = ?`

	item, err := scanItem(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get feedback item: %w", err)
	}

	return item, nil
}

// List returns feedback items matching the options, newest first
func (r *FeedbackRepository) List(ctx context.Context, opts feedback.ListOptions) ([]feedback.Item, error) {
	query := selectColumns
	var args []any
	var conds []string

	if opts.SubmitterID != "" {
		conds = append(conds, "submitter_id = ?")
		args = append(args, opts.SubmitterID)
	}
	if opts.ProjectID != "" {
		conds = append(conds, "project_id = ?")
		args = append(args, opts.ProjectID)
	}
	for i, cond := range conds {
		if i == 0 {
			query += " WHERE " + cond
		} else {
			query += " AND " + cond
		}
	}
	query += " ORDER BY created_at DESC, id DESC"
	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list feedback items: %w", err)
	}
	defer rows.Close()

	var items []feedback.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan feedback item: %w", err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate feedback items: %w", err)
	}

	return items, nil
}

// UpdateStatus transitions an item and returns the stored result
func (r *FeedbackRepository) UpdateStatus(ctx context.Context, id string, status feedback.Status) (*feedback.Item, error) {
	query := `
		UPDATE feedback_items
		SET status = ?, updated_at = ?
		WHERE id = ?
	`

	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return nil, fmt.Errorf("failed to update feedback status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to check update result: %w", err)
	}
	if rows == 0 {
		return nil, repository.ErrNotFound
	}

	return r.Get(ctx, id)
}

const selectColumns = `
	SELECT
		id, title, description, category, status, project_id,
		submitter_id, submitter_name, attachment_id, created_at, updated_at
	FROM feedback_items`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanItem(row rowScanner) (*feedback.Item, error) {
	var item feedback.Item
	var attachmentID sql.NullString
	err := row.Scan(
		&item.ID,
		&item.Title,
		&item.Description,
		&item.Category,
		&item.Status,
		&item.ProjectID,
		&item.SubmitterID,
		&item.SubmitterName,
		&attachmentID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if attachmentID.Valid {
		item.AttachmentID = &attachmentID.String
	}
	return &item, nil
}
