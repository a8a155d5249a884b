// Package texts implements the text entity: repository and callable handlers.
package texts

import "time"

// Text is a workspace-scoped document.
type Text struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Title       *string   `json:"title"`
	Content     string    `json:"content"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateText holds the fields for a new text. The workspace id is never part
// of it: it always comes from the validated token.
type CreateText struct {
	Title     *string
	Content   string
	CreatedBy string
}

// UpdateText holds a partial update; nil fields are left untouched.
type UpdateText struct {
	Title   *string
	Content *string
}
