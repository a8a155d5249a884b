package texts

import (
	"context"

	"go.uber.org/zap"

	"github.com/textboard/textboard-backend/internal/apperr"
	"github.com/textboard/textboard-backend/internal/callable"
	"github.com/textboard/textboard-backend/internal/response"
	"github.com/textboard/textboard-backend/internal/validate"
	"github.com/textboard/textboard-backend/internal/workspace"
)

// Handler implements the text callable operations. Every operation follows
// the same sequence: required fields, workspace token, business rules,
// repository. A failed step short-circuits the rest.
type Handler struct {
	repo *Repo
	gate workspace.Authorizer
	log  *zap.Logger
}

func NewHandler(repo *Repo, gate workspace.Authorizer, log *zap.Logger) *Handler {
	return &Handler{repo: repo, gate: gate, log: log}
}

func (h *Handler) Register(reg *callable.Registry) {
	reg.Register("createText", h.CreateText)
	reg.Register("getTexts", h.GetTexts)
	reg.Register("updateText", h.UpdateText)
	reg.Register("deleteText", h.DeleteText)
}

func (h *Handler) CreateText(ctx context.Context, req *callable.Request) response.Envelope {
	if err := validate.RequiredFields(req.Payload, "workspaceToken", "content"); err != nil {
		return response.Error(err)
	}

	grant, err := h.gate.Verify(ctx, validate.String(req.Payload, "workspaceToken"), req.UID, workspace.RoleEditor)
	if err != nil {
		return response.Error(apperr.From(err))
	}
	resp := response.WithTokens(grant.Tokens)

	data := CreateText{
		Content:   validate.String(req.Payload, "content"),
		CreatedBy: req.UID,
	}
	if title, ok := validate.OptionalString(req.Payload, "title"); ok && title != "" {
		data.Title = &title
	}

	text, err := h.repo.Create(ctx, grant.WorkspaceID, data)
	if err != nil {
		h.log.Error("create text failed", zap.String("workspace_id", grant.WorkspaceID), zap.Error(err))
		return resp.Error(apperr.Internal("failed to create text"))
	}

	h.log.Info("text created",
		zap.String("workspace_id", grant.WorkspaceID),
		zap.String("text_id", text.ID),
		zap.String("uid", req.UID))
	return resp.Success(map[string]any{"text": text})
}

func (h *Handler) GetTexts(ctx context.Context, req *callable.Request) response.Envelope {
	if err := validate.RequiredFields(req.Payload, "workspaceToken"); err != nil {
		return response.Error(err)
	}

	grant, err := h.gate.Verify(ctx, validate.String(req.Payload, "workspaceToken"), req.UID, workspace.RoleEditor)
	if err != nil {
		return response.Error(apperr.From(err))
	}
	resp := response.WithTokens(grant.Tokens)

	texts, err := h.repo.ListByWorkspace(ctx, grant.WorkspaceID)
	if err != nil {
		h.log.Error("list texts failed", zap.String("workspace_id", grant.WorkspaceID), zap.Error(err))
		return resp.Error(apperr.Internal("failed to list texts"))
	}

	return resp.Success(map[string]any{"texts": texts})
}

func (h *Handler) UpdateText(ctx context.Context, req *callable.Request) response.Envelope {
	if err := validate.RequiredFields(req.Payload, "workspaceToken", "textId"); err != nil {
		return response.Error(err)
	}

	grant, err := h.gate.Verify(ctx, validate.String(req.Payload, "workspaceToken"), req.UID, workspace.RoleEditor)
	if err != nil {
		return response.Error(apperr.From(err))
	}
	resp := response.WithTokens(grant.Tokens)

	var data UpdateText
	if content, ok := validate.OptionalString(req.Payload, "content"); ok {
		if content == "" {
			return resp.Error(apperr.InvalidInput("content cannot be empty"))
		}
		data.Content = &content
	}
	if title, ok := validate.OptionalString(req.Payload, "title"); ok {
		data.Title = &title
	}

	textID := validate.String(req.Payload, "textId")
	text, err := h.repo.Update(ctx, textID, grant.WorkspaceID, data)
	if err != nil {
		h.log.Error("update text failed", zap.String("workspace_id", grant.WorkspaceID), zap.Error(err))
		return resp.Error(apperr.Internal("failed to update text"))
	}
	if text == nil {
		return resp.Error(apperr.NotFound("text not found"))
	}

	h.log.Info("text updated",
		zap.String("workspace_id", grant.WorkspaceID),
		zap.String("text_id", text.ID),
		zap.String("uid", req.UID))
	return resp.Success(map[string]any{"text": text})
}

func (h *Handler) DeleteText(ctx context.Context, req *callable.Request) response.Envelope {
	if err := validate.RequiredFields(req.Payload, "workspaceToken", "textId"); err != nil {
		return response.Error(err)
	}

	grant, err := h.gate.Verify(ctx, validate.String(req.Payload, "workspaceToken"), req.UID, workspace.RoleEditor)
	if err != nil {
		return response.Error(apperr.From(err))
	}
	resp := response.WithTokens(grant.Tokens)

	textID := validate.String(req.Payload, "textId")
	deleted, err := h.repo.Delete(ctx, textID, grant.WorkspaceID)
	if err != nil {
		h.log.Error("delete text failed", zap.String("workspace_id", grant.WorkspaceID), zap.Error(err))
		return resp.Error(apperr.Internal("failed to delete text"))
	}
	if !deleted {
		return resp.Error(apperr.NotFound("text not found"))
	}

	h.log.Info("text deleted",
		zap.String("workspace_id", grant.WorkspaceID),
		zap.String("text_id", textID),
		zap.String("uid", req.UID))
	return resp.Success(map[string]any{"deleted": true})
}
