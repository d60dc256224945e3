package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/feedtrack/feedtrack/internal/repository"
)

// FileRepository implements repository.FileRepository for SQLite
type FileRepository struct {
	db *DB
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *DB) *FileRepository {
	return &FileRepository{db: db}
}

// Create inserts attachment metadata
func (r *FileRepository) Create(ctx context.Context, meta *repository.FileMeta) error {
	query := `
		INSERT INTO files (id, bucket, name, content_type, size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		meta.ID,
		meta.Bucket,
		meta.Name,
		meta.ContentType,
		meta.Size,
		meta.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create file metadata: %w", err)
	}

	return nil
}

// Get retrieves attachment metadata
func (r *FileRepository) Get(ctx context.Context, bucket, id string) (*repository.FileMeta, error) {
	query := `
		SELECT id, bucket, name, content_type, size, created_at
		FROM files
		WHERE bucket = ? AND id = ?
	`

	var meta repository.FileMeta
	err := r.db.QueryRowContext(ctx, query, bucket, id).Scan(
		&meta.ID,
		&meta.Bucket,
		&meta.Name,
		&meta.ContentType,
		&meta.Size,
		&meta.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get file metadata: %w", err)
	}

	return &meta, nil
}
