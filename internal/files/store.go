// Package files stores attachment blobs on disk with metadata in the
// database. Uploads are validated before anything is written, so a rejected
// upload never leaves a partial blob behind.
package files

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/feedtrack/feedtrack/internal/repository"
)

// MaxUploadSize bounds a single attachment.
const MaxUploadSize = 5 << 20 // 5 MiB

var (
	// ErrTooLarge indicates an attachment over the size limit.
	ErrTooLarge = fmt.Errorf("attachment exceeds %d bytes", MaxUploadSize)
	// ErrNotImage indicates a non-image attachment.
	ErrNotImage = errors.New("attachment must be an image")
	// ErrNotFound indicates an unknown attachment id.
	ErrNotFound = errors.New("attachment not found")
)

// Store is a disk-backed blob store organized into buckets.
type Store struct {
	dir    string
	meta   repository.FileRepository
	logger *slog.Logger
}

// NewStore creates a store rooted at dir.
func NewStore(dir string, meta repository.FileRepository, logger *slog.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating files dir: %w", err)
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Store{dir: dir, meta: meta, logger: logger}, nil
}

// Upload validates and stores a blob, returning its id.
func (s *Store) Upload(ctx context.Context, bucket, name, contentType string, data []byte) (string, error) {
	if len(data) > MaxUploadSize {
		return "", ErrTooLarge
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrNotImage
	}

	id := uuid.NewString()
	dir := filepath.Join(s.dir, bucket)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating bucket dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, id), data, 0o644); err != nil {
		return "", fmt.Errorf("writing blob: %w", err)
	}

	err := s.meta.Create(ctx, &repository.FileMeta{
		ID:          id,
		Bucket:      bucket,
		Name:        name,
		ContentType: contentType,
		Size:        int64(len(data)),
		CreatedAt:   time.Now(),
	})
	if err != nil {
		// Roll the blob back so metadata and disk stay in step.
		if rmErr := os.Remove(filepath.Join(dir, id)); rmErr != nil {
			s.logger.Warn("orphaned blob after metadata failure", "bucket", bucket, "id", id, "error", rmErr)
		}
		return "", fmt.Errorf("storing file metadata: %w", err)
	}

	s.logger.Info("file stored", "bucket", bucket, "id", id, "size", len(data))
	return id, nil
}

// Open returns a reader for the blob and its metadata.
func (s *Store) Open(ctx context.Context, bucket, id string) (io.ReadCloser, *repository.FileMeta, error) {
	meta, err := s.meta.Get(ctx, bucket, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("loading file metadata: %w", err)
	}

	f, err := os.Open(filepath.Join(s.dir, bucket, id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("opening blob: %w", err)
	}
	return f, meta, nil
}

// ViewPath returns the URL path serving the blob.
func (s *Store) ViewPath(bucket, id string) string {
	return fmt.Sprintf("/api/files/%s/%s/view", bucket, id)
}
