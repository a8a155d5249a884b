package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCachedBackend(t *testing.T) (*fakeBackend, *Client) {
	t.Helper()
	backend := &fakeBackend{t: t}
	backend.respond = func(name string, payload map[string]any) map[string]any {
		switch name {
		case "getTexts":
			return map[string]any{"success": true, "texts": []map[string]any{{"id": "t-1"}}}
		case "getComments":
			return map[string]any{"success": true, "comments": []map[string]any{{"id": "c-1"}}}
		case "createText":
			return map[string]any{"success": true, "text": map[string]any{"id": "t-2"}}
		case "createComment":
			return map[string]any{"success": true, "comment": map[string]any{"id": "c-2"}}
		case "deleteComment":
			return map[string]any{"success": true, "deleted": true}
		default:
			t.Fatalf("unexpected operation %s", name)
			return nil
		}
	}
	return backend, newTestClient(t, backend)
}

func countCalls(backend *fakeBackend, name string) int {
	n := 0
	for _, rec := range backend.calls {
		if rec.name == name {
			n++
		}
	}
	return n
}

func TestCachedTexts_ListServedFromCache(t *testing.T) {
	backend, c := newCachedBackend(t)
	cached := c.CachedTexts()
	ctx := context.Background()

	_, err := cached.List(ctx, "ws-1")
	require.NoError(t, err)
	_, err = cached.List(ctx, "ws-1")
	require.NoError(t, err)

	assert.Equal(t, 1, countCalls(backend, "getTexts"))
}

func TestCachedTexts_MutationInvalidates(t *testing.T) {
	backend, c := newCachedBackend(t)
	cached := c.CachedTexts()
	ctx := context.Background()

	_, err := cached.List(ctx, "ws-1")
	require.NoError(t, err)

	_, err = cached.Create(ctx, "ws-1", CreateTextRequest{Content: "x"})
	require.NoError(t, err)

	_, err = cached.List(ctx, "ws-1")
	require.NoError(t, err)
	assert.Equal(t, 2, countCalls(backend, "getTexts"))
}

func TestCachedComments_CreateInvalidatesTextAndWorkspaceLists(t *testing.T) {
	backend, c := newCachedBackend(t)
	cached := c.CachedComments()
	ctx := context.Background()

	_, err := cached.List(ctx, "ws-1", "t-1")
	require.NoError(t, err)
	_, err = cached.List(ctx, "ws-1", "")
	require.NoError(t, err)
	require.Equal(t, 2, countCalls(backend, "getComments"))

	_, err = cached.Create(ctx, "ws-1", CreateCommentRequest{TextID: "t-1", Content: "hi", Author: "A"})
	require.NoError(t, err)

	_, err = cached.List(ctx, "ws-1", "t-1")
	require.NoError(t, err)
	_, err = cached.List(ctx, "ws-1", "")
	require.NoError(t, err)
	assert.Equal(t, 4, countCalls(backend, "getComments"))
}

func TestCachedComments_DeleteInvalidatesWholeWorkspace(t *testing.T) {
	backend, c := newCachedBackend(t)
	cached := c.CachedComments()
	ctx := context.Background()

	_, err := cached.List(ctx, "ws-1", "t-1")
	require.NoError(t, err)

	_, err = cached.Delete(ctx, "ws-1", "c-1")
	require.NoError(t, err)

	_, err = cached.List(ctx, "ws-1", "t-1")
	require.NoError(t, err)
	assert.Equal(t, 2, countCalls(backend, "getComments"))
}

func TestCachedTexts_ErrorsAreNotCached(t *testing.T) {
	backend := &fakeBackend{t: t}
	fail := true
	backend.respond = func(name string, payload map[string]any) map[string]any {
		if fail {
			return map[string]any{"success": false, "error": map[string]any{"code": "INTERNAL", "message": "boom"}}
		}
		return map[string]any{"success": true, "texts": []map[string]any{{"id": "t-1"}}}
	}
	c := newTestClient(t, backend)
	cached := c.CachedTexts()
	ctx := context.Background()

	_, err := cached.List(ctx, "ws-1")
	require.Error(t, err)

	fail = false
	list, err := cached.List(ctx, "ws-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
