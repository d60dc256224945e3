package feedback

import "context"

// Repository provides feedback item persistence.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	Get(ctx context.Context, id string) (*Item, error)
	List(ctx context.Context, opts ListOptions) ([]Item, error)
	UpdateStatus(ctx context.Context, id string, status Status) (*Item, error)
}

// ListOptions filters and bounds a listing. Items are always returned
// newest first.
type ListOptions struct {
	SubmitterID string
	ProjectID   string
	Limit       int
}

// Publisher emits change events for the realtime feed.
type Publisher interface {
	PublishCreated(item Item)
	PublishUpdated(item Item)
}
