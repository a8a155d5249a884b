package client

import (
	"context"
	"time"
)

// Text mirrors the wire shape of a text entity.
type Text struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspace_id"`
	Title       *string   `json:"title"`
	Content     string    `json:"content"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type CreateTextRequest struct {
	Title   string
	Content string
}

type UpdateTextRequest struct {
	Title   *string
	Content *string
}

// TextsService is the thin service layer over the text operations.
type TextsService struct {
	c *Client
}

func (c *Client) TextsService() *TextsService {
	return &TextsService{c: c}
}

func (s *TextsService) Create(ctx context.Context, workspaceID string, req CreateTextRequest) (*Text, error) {
	payload := map[string]any{"content": req.Content}
	if req.Title != "" {
		payload["title"] = req.Title
	}

	var out struct {
		Text *Text `json:"text"`
	}
	if err := s.c.Call(ctx, "createText", workspaceID, payload, &out); err != nil {
		return nil, err
	}
	return out.Text, nil
}

func (s *TextsService) List(ctx context.Context, workspaceID string) ([]Text, error) {
	var out struct {
		Texts []Text `json:"texts"`
	}
	if err := s.c.Call(ctx, "getTexts", workspaceID, nil, &out); err != nil {
		return nil, err
	}
	return out.Texts, nil
}

func (s *TextsService) Update(ctx context.Context, workspaceID, textID string, req UpdateTextRequest) (*Text, error) {
	payload := map[string]any{"textId": textID}
	if req.Title != nil {
		payload["title"] = *req.Title
	}
	if req.Content != nil {
		payload["content"] = *req.Content
	}

	var out struct {
		Text *Text `json:"text"`
	}
	if err := s.c.Call(ctx, "updateText", workspaceID, payload, &out); err != nil {
		return nil, err
	}
	return out.Text, nil
}

func (s *TextsService) Delete(ctx context.Context, workspaceID, textID string) (bool, error) {
	var out struct {
		Deleted bool `json:"deleted"`
	}
	if err := s.c.Call(ctx, "deleteText", workspaceID, map[string]any{"textId": textID}, &out); err != nil {
		return false, err
	}
	return out.Deleted, nil
}
