package client

import (
	"context"
	"time"
)

// Comment mirrors the wire shape of a comment entity.
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

type CreateCommentRequest struct {
	TextID  string
	Content string
	Author  string
}

// CommentsService is the thin service layer over the comment operations.
type CommentsService struct {
	c *Client
}

func (c *Client) CommentsService() *CommentsService {
	return &CommentsService{c: c}
}

func (s *CommentsService) Create(ctx context.Context, workspaceID string, req CreateCommentRequest) (*Comment, error) {
	payload := map[string]any{
		"text_id": req.TextID,
		"content": req.Content,
		"author":  req.Author,
	}

	var out struct {
		Comment *Comment `json:"comment"`
	}
	if err := s.c.Call(ctx, "createComment", workspaceID, payload, &out); err != nil {
		return nil, err
	}
	return out.Comment, nil
}

// List returns the workspace's comments, filtered to one text when textID is
// non-empty.
func (s *CommentsService) List(ctx context.Context, workspaceID, textID string) ([]Comment, error) {
	payload := map[string]any{}
	if textID != "" {
		payload["text_id"] = textID
	}

	var out struct {
		Comments []Comment `json:"comments"`
	}
	if err := s.c.Call(ctx, "getComments", workspaceID, payload, &out); err != nil {
		return nil, err
	}
	return out.Comments, nil
}

func (s *CommentsService) Delete(ctx context.Context, workspaceID, commentID string) (bool, error) {
	var out struct {
		Deleted bool `json:"deleted"`
	}
	if err := s.c.Call(ctx, "deleteComment", workspaceID, map[string]any{"commentId": commentID}, &out); err != nil {
		return false, err
	}
	return out.Deleted, nil
}
