// Package comments implements the comment entity: repository and callable
// handlers.
package comments

import "time"

// Comment belongs to a workspace and references a text by id. The reference
// is not enforced at the data layer: deleting a text leaves its comments in
// place and the UI renders them against a "deleted text".
type Comment struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	TextID      string    `json:"text_id"`
	Content     string    `json:"content"`
	Author      string    `json:"author"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Length bounds enforced at the handler layer, not at the storage layer.
const (
	MaxContentLength = 500
	MaxAuthorLength  = 100
)

// CreateComment holds the fields for a new comment.
type CreateComment struct {
	TextID    string
	Content   string
	Author    string
	CreatedBy string
}

// UpdateComment holds a partial update; nil fields are left untouched.
type UpdateComment struct {
	Content *string
	Author  *string
}
