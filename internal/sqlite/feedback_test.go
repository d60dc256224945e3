package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/feedtrack/feedtrack/internal/domain/feedback"
	"github.com/feedtrack/feedtrack/internal/repository"
)

func newItem(id, submitterID string, createdAt time.Time) *feedback.Item {
	return &feedback.Item{
		ID:            id,
		Title:         "Title " + id,
		Description:   "Description",
		Category:      feedback.CategoryBug,
		Status:        feedback.StatusOpen,
		ProjectID:     "p1",
		SubmitterID:   submitterID,
		SubmitterName: "Test User",
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
	}
}

func TestFeedbackRepository_CreateAndGet(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "u1", "ada@example.com")
	seedProject(t, db, "p1", "Test Project")

	repo := NewFeedbackRepository(db)

	attachment := "att1"
	item := newItem("f1", "u1", time.Now())
	item.AttachmentID = &attachment
	require.NoError(t, repo.Create(ctx, item))

	got, err := repo.Get(ctx, "f1")
	require.NoError(t, err)
	require.Equal(t, "Title f1", got.Title)
	require.Equal(t, feedback.CategoryBug, got.Category)
	require.Equal(t, feedback.StatusOpen, got.Status)
	require.NotNil(t, got.AttachmentID)
	require.Equal(t, "att1", *got.AttachmentID)
}

func TestFeedbackRepository_GetNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFeedbackRepository(db)

	_, err := repo.Get(context.Background(), "ghost")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestFeedbackRepository_ListNewestFirst(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "u1", "ada@example.com")
	seedProject(t, db, "p1", "Test Project")

	repo := NewFeedbackRepository(db)

	base := time.Now().Add(-time.Hour)
	for i, id := range []string{"f1", "f2", "f3"} {
		require.NoError(t, repo.Create(ctx, newItem(id, "u1", base.Add(time.Duration(i)*time.Minute))))
	}

	items, err := repo.List(ctx, feedback.ListOptions{})
	require.NoError(t, err)
	require.Len(t, items, 3)
	require.Equal(t, "f3", items[0].ID)
	require.Equal(t, "f1", items[2].ID)
}

func TestFeedbackRepository_ListBySubmitter(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "u1", "ada@example.com")
	seedUser(t, db, "u2", "grace@example.com")
	seedProject(t, db, "p1", "Test Project")

	repo := NewFeedbackRepository(db)
	now := time.Now()
	require.NoError(t, repo.Create(ctx, newItem("f1", "u1", now)))
	require.NoError(t, repo.Create(ctx, newItem("f2", "u2", now)))

	items, err := repo.List(ctx, feedback.ListOptions{SubmitterID: "u1"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "f1", items[0].ID)
}

func TestFeedbackRepository_UpdateStatus(t *testing.T) {
	db := NewTestDB(t)
	ctx := context.Background()
	seedUser(t, db, "u1", "ada@example.com")
	seedProject(t, db, "p1", "Test Project")

	repo := NewFeedbackRepository(db)
	require.NoError(t, repo.Create(ctx, newItem("f1", "u1", time.Now().Add(-time.Minute))))

	item, err := repo.UpdateStatus(ctx, "f1", feedback.StatusInProgress)
	require.NoError(t, err)
	require.Equal(t, feedback.StatusInProgress, item.Status)
	require.True(t, item.UpdatedAt.After(item.CreatedAt))
}

func TestFeedbackRepository_UpdateStatusNotFound(t *testing.T) {
	db := NewTestDB(t)
	repo := NewFeedbackRepository(db)

	_, err := repo.UpdateStatus(context.Background(), "ghost", feedback.StatusClosed)
	require.ErrorIs(t, err, repository.ErrNotFound)
}
