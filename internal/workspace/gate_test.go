package workspace

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/textboard/textboard-backend/internal/apperr"
)

func newGate(t *testing.T, ttl time.Duration) *Gate {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	codec := NewCodec([]byte("test-secret"), ttl)
	return NewGate(codec, NewRedisGenerationStore(client), zap.NewNop())
}

func TestGate_VerifyAndRefresh(t *testing.T) {
	g := newGate(t, time.Hour)
	ctx := context.Background()

	token, err := g.Issue(ctx, "ws-1", "uid-1", RoleEditor)
	require.NoError(t, err)

	grant, err := g.Verify(ctx, token, "uid-1", RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, "ws-1", grant.WorkspaceID)
	assert.Equal(t, RoleEditor, grant.Role)

	// Refreshed token map keyed by workspace, and itself valid.
	refreshed, ok := grant.Tokens["ws-1"]
	require.True(t, ok)
	regrant, err := g.Verify(ctx, refreshed, "uid-1", RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, "ws-1", regrant.WorkspaceID)
}

func TestGate_RoleBelowMinimumIsForbidden(t *testing.T) {
	g := newGate(t, time.Hour)
	ctx := context.Background()

	token, err := g.Issue(ctx, "ws-1", "uid-1", RoleViewer)
	require.NoError(t, err)

	_, err = g.Verify(ctx, token, "uid-1", RoleEditor)
	assert.True(t, apperr.HasCode(err, apperr.CodeForbidden))
}

func TestGate_AdminPassesEditorMinimum(t *testing.T) {
	g := newGate(t, time.Hour)
	ctx := context.Background()

	token, err := g.Issue(ctx, "ws-1", "uid-1", RoleAdmin)
	require.NoError(t, err)

	grant, err := g.Verify(ctx, token, "uid-1", RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, grant.Role)
}

func TestGate_TokenBoundToCaller(t *testing.T) {
	g := newGate(t, time.Hour)
	ctx := context.Background()

	token, err := g.Issue(ctx, "ws-1", "uid-1", RoleEditor)
	require.NoError(t, err)

	_, err = g.Verify(ctx, token, "uid-2", RoleEditor)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidWorkspace))
}

func TestGate_GarbageTokenIsInvalidWorkspace(t *testing.T) {
	g := newGate(t, time.Hour)

	_, err := g.Verify(context.Background(), "not-a-token", "uid-1", RoleEditor)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidWorkspace))
}

func TestGate_ExpiredTokenRejected(t *testing.T) {
	g := newGate(t, -time.Minute)
	ctx := context.Background()

	token, err := g.Issue(ctx, "ws-1", "uid-1", RoleEditor)
	require.NoError(t, err)

	_, err = g.Verify(ctx, token, "uid-1", RoleEditor)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidWorkspace))
}

func TestGate_RevokeInvalidatesOutstandingTokens(t *testing.T) {
	g := newGate(t, time.Hour)
	ctx := context.Background()

	token, err := g.Issue(ctx, "ws-1", "uid-1", RoleEditor)
	require.NoError(t, err)

	require.NoError(t, g.Revoke(ctx, "ws-1"))

	_, err = g.Verify(ctx, token, "uid-1", RoleEditor)
	assert.True(t, apperr.HasCode(err, apperr.CodeInvalidWorkspace))

	// A token issued after the revocation works.
	fresh, err := g.Issue(ctx, "ws-1", "uid-1", RoleEditor)
	require.NoError(t, err)
	grant, err := g.Verify(ctx, fresh, "uid-1", RoleEditor)
	require.NoError(t, err)

	// And its refreshed successor stays valid too.
	_, err = g.Verify(ctx, grant.Tokens["ws-1"], "uid-1", RoleEditor)
	require.NoError(t, err)
}

func TestGate_RevokeDoesNotAffectOtherWorkspaces(t *testing.T) {
	g := newGate(t, time.Hour)
	ctx := context.Background()

	tokenA, err := g.Issue(ctx, "ws-a", "uid-1", RoleEditor)
	require.NoError(t, err)
	require.NoError(t, g.Revoke(ctx, "ws-b"))

	_, err = g.Verify(ctx, tokenA, "uid-1", RoleEditor)
	assert.NoError(t, err)
}
