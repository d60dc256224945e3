package feedback

import "time"

// Category classifies a feedback item.
type Category string

const (
	CategoryBug         Category = "bug"
	CategoryImprovement Category = "improvement"
	CategoryFeature     Category = "feature"
)

// Status represents the triage state of a feedback item.
type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
)

// Item is a user-submitted feedback report.
type Item struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      Category  `json:"category"`
	Status        Status    `json:"status"`
	ProjectID     string    `json:"project_id"`
	SubmitterID   string    `json:"submitter_id"`
	SubmitterName string    `json:"submitter_name"`
	AttachmentID  *string   `json:"attachment_id,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Patch holds a partial update of an item. Nil fields are left unchanged.
type Patch struct {
	Title         *string    `json:"title,omitempty"`
	Description   *string    `json:"description,omitempty"`
	Category      *Category  `json:"category,omitempty"`
	Status        *Status    `json:"status,omitempty"`
	AttachmentID  *string    `json:"attachment_id,omitempty"`
	SubmitterName *string    `json:"submitter_name,omitempty"`
	UpdatedAt     *time.Time `json:"updated_at,omitempty"`
}

// Apply merges the patch into a copy of the item and returns it.
func (p Patch) Apply(item Item) Item {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Status != nil {
		item.Status = *p.Status
	}
	if p.AttachmentID != nil {
		item.AttachmentID = p.AttachmentID
	}
	if p.SubmitterName != nil {
		item.SubmitterName = *p.SubmitterName
	}
	if p.UpdatedAt != nil {
		item.UpdatedAt = *p.UpdatedAt
	}
	return item
}

// PatchOf returns a patch carrying every field of the item, used when a
// realtime update event delivers a full document.
func PatchOf(item Item) Patch {
	return Patch{
		Title:         &item.Title,
		Description:   &item.Description,
		Category:      &item.Category,
		Status:        &item.Status,
		AttachmentID:  item.AttachmentID,
		SubmitterName: &item.SubmitterName,
		UpdatedAt:     &item.UpdatedAt,
	}
}

// ValidCategory reports whether c is one of the enumerated categories.
func ValidCategory(c Category) bool {
	switch c {
	case CategoryBug, CategoryImprovement, CategoryFeature:
		return true
	}
	return false
}

// ValidStatus reports whether s is one of the enumerated statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}
