package comments

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/textboard/textboard-backend/internal/apperr"
	"github.com/textboard/textboard-backend/internal/callable"
	"github.com/textboard/textboard-backend/internal/response"
	"github.com/textboard/textboard-backend/internal/validate"
	"github.com/textboard/textboard-backend/internal/workspace"
)

// Handler implements the comment callable operations.
type Handler struct {
	repo *Repo
	gate workspace.Authorizer
	log  *zap.Logger
}

func NewHandler(repo *Repo, gate workspace.Authorizer, log *zap.Logger) *Handler {
	return &Handler{repo: repo, gate: gate, log: log}
}

func (h *Handler) Register(reg *callable.Registry) {
	reg.Register("createComment", h.CreateComment)
	reg.Register("getComments", h.GetComments)
	reg.Register("deleteComment", h.DeleteComment)
}

func (h *Handler) CreateComment(ctx context.Context, req *callable.Request) response.Envelope {
	if err := validate.RequiredFields(req.Payload, "workspaceToken", "text_id", "content", "author"); err != nil {
		return response.Error(err)
	}

	grant, err := h.gate.Verify(ctx, validate.String(req.Payload, "workspaceToken"), req.UID, workspace.RoleEditor)
	if err != nil {
		return response.Error(apperr.From(err))
	}
	resp := response.WithTokens(grant.Tokens)

	content := validate.String(req.Payload, "content")
	author := validate.String(req.Payload, "author")

	if len([]rune(content)) > MaxContentLength {
		return resp.Error(apperr.InvalidInput(
			fmt.Sprintf("comment content cannot exceed %d characters", MaxContentLength)))
	}
	if len([]rune(author)) > MaxAuthorLength {
		return resp.Error(apperr.InvalidInput(
			fmt.Sprintf("author name cannot exceed %d characters", MaxAuthorLength)))
	}

	data := CreateComment{
		TextID:    validate.String(req.Payload, "text_id"),
		Content:   content,
		Author:    author,
		CreatedBy: req.UID,
	}

	comment, err := h.repo.Create(ctx, grant.WorkspaceID, data)
	if err != nil {
		h.log.Error("create comment failed", zap.String("workspace_id", grant.WorkspaceID), zap.Error(err))
		return resp.Error(apperr.Internal("failed to create comment"))
	}

	h.log.Info("comment created",
		zap.String("workspace_id", grant.WorkspaceID),
		zap.String("comment_id", comment.ID),
		zap.String("text_id", comment.TextID),
		zap.String("uid", req.UID))
	return resp.Success(map[string]any{"comment": comment})
}

func (h *Handler) GetComments(ctx context.Context, req *callable.Request) response.Envelope {
	if err := validate.RequiredFields(req.Payload, "workspaceToken"); err != nil {
		return response.Error(err)
	}

	grant, err := h.gate.Verify(ctx, validate.String(req.Payload, "workspaceToken"), req.UID, workspace.RoleEditor)
	if err != nil {
		return response.Error(apperr.From(err))
	}
	resp := response.WithTokens(grant.Tokens)

	var list []Comment
	if textID := validate.String(req.Payload, "text_id"); textID != "" {
		list, err = h.repo.ListByText(ctx, grant.WorkspaceID, textID)
	} else {
		list, err = h.repo.ListByWorkspace(ctx, grant.WorkspaceID)
	}
	if err != nil {
		h.log.Error("list comments failed", zap.String("workspace_id", grant.WorkspaceID), zap.Error(err))
		return resp.Error(apperr.Internal("failed to list comments"))
	}

	return resp.Success(map[string]any{"comments": list})
}

func (h *Handler) DeleteComment(ctx context.Context, req *callable.Request) response.Envelope {
	if err := validate.RequiredFields(req.Payload, "workspaceToken", "commentId"); err != nil {
		return response.Error(err)
	}

	grant, err := h.gate.Verify(ctx, validate.String(req.Payload, "workspaceToken"), req.UID, workspace.RoleEditor)
	if err != nil {
		return response.Error(apperr.From(err))
	}
	resp := response.WithTokens(grant.Tokens)

	commentID := validate.String(req.Payload, "commentId")
	deleted, err := h.repo.Delete(ctx, commentID, grant.WorkspaceID)
	if err != nil {
		h.log.Error("delete comment failed", zap.String("workspace_id", grant.WorkspaceID), zap.Error(err))
		return resp.Error(apperr.Internal("failed to delete comment"))
	}
	if !deleted {
		return resp.Error(apperr.NotFound("comment not found"))
	}

	h.log.Info("comment deleted",
		zap.String("workspace_id", grant.WorkspaceID),
		zap.String("comment_id", commentID),
		zap.String("uid", req.UID))
	return resp.Success(map[string]any{"deleted": true})
}
