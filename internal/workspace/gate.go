package workspace

import (
	"context"

	"go.uber.org/zap"

	"github.com/textboard/textboard-backend/internal/apperr"
)

// Grant is the outcome of a successful token check: the resolved workspace,
// the caller's role, and a refreshed token map to echo back in the response.
type Grant struct {
	WorkspaceID string
	Role        Role
	Tokens      map[string]string
}

// Authorizer is the gate surface callable handlers depend on.
type Authorizer interface {
	Verify(ctx context.Context, token, uid string, min Role) (*Grant, error)
}

// Gate authorizes callers against a workspace given a presented token and a
// minimum required role.
type Gate struct {
	codec *Codec
	store GenerationStore
	log   *zap.Logger
}

func NewGate(codec *Codec, store GenerationStore, log *zap.Logger) *Gate {
	return &Gate{codec: codec, store: store, log: log}
}

// Verify checks the token against uid and min, and reissues a fresh token for
// the workspace so client-side cached credentials stay current.
func (g *Gate) Verify(ctx context.Context, token, uid string, min Role) (*Grant, error) {
	claims, err := g.codec.Decode(token)
	if err != nil {
		return nil, apperr.InvalidWorkspace("invalid workspace token")
	}
	if claims.Subject != uid {
		g.log.Warn("workspace token presented by wrong caller",
			zap.String("workspace_id", claims.WorkspaceID))
		return nil, apperr.InvalidWorkspace("invalid workspace token")
	}

	role, err := ParseRole(claims.Role)
	if err != nil {
		return nil, apperr.InvalidWorkspace("invalid workspace token")
	}

	current, err := g.store.Generation(ctx, claims.WorkspaceID)
	if err != nil {
		return nil, err
	}
	if claims.Generation < current {
		return nil, apperr.InvalidWorkspace("workspace token revoked")
	}

	if !role.AtLeast(min) {
		return nil, apperr.Forbidden("insufficient workspace role")
	}

	refreshed, err := g.codec.Issue(claims.WorkspaceID, uid, role, current)
	if err != nil {
		return nil, err
	}

	return &Grant{
		WorkspaceID: claims.WorkspaceID,
		Role:        role,
		Tokens:      map[string]string{claims.WorkspaceID: refreshed},
	}, nil
}

// Issue creates a workspace token at the current generation. Used when a
// caller joins a workspace or exchanges credentials.
func (g *Gate) Issue(ctx context.Context, workspaceID, uid string, role Role) (string, error) {
	gen, err := g.store.Generation(ctx, workspaceID)
	if err != nil {
		return "", err
	}
	return g.codec.Issue(workspaceID, uid, role, gen)
}

// Revoke invalidates all outstanding tokens for a workspace.
func (g *Gate) Revoke(ctx context.Context, workspaceID string) error {
	_, err := g.store.Bump(ctx, workspaceID)
	if err == nil {
		g.log.Info("workspace tokens revoked", zap.String("workspace_id", workspaceID))
	}
	return err
}
