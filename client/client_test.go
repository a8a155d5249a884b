package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// callRecord captures what the fake backend saw for one invocation.
type callRecord struct {
	name    string
	auth    string
	payload map[string]any
}

type fakeBackend struct {
	t       *testing.T
	calls   []callRecord
	respond func(name string, payload map[string]any) map[string]any
}

func (f *fakeBackend) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/api/callable/")

		var payload map[string]any
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&payload))
		f.calls = append(f.calls, callRecord{
			name:    name,
			auth:    r.Header.Get("Authorization"),
			payload: payload,
		})

		w.Header().Set("Content-Type", "application/json")
		require.NoError(f.t, json.NewEncoder(w).Encode(f.respond(name, payload)))
	})
}

func newTestClient(t *testing.T, backend *fakeBackend) *Client {
	t.Helper()
	srv := httptest.NewServer(backend.handler())
	t.Cleanup(srv.Close)

	c, err := New(Options{
		BaseURL:  srv.URL,
		Identity: StaticToken("id-token"),
	})
	require.NoError(t, err)
	c.SetWorkspaceToken("ws-1", "ws-token-1")
	return c
}

func TestCall_InjectsTokensAndAbsorbsRefresh(t *testing.T) {
	backend := &fakeBackend{t: t, respond: func(string, map[string]any) map[string]any {
		return map[string]any{
			"success":          true,
			"texts":            []any{},
			"workspace_tokens": map[string]string{"ws-1": "ws-token-2"},
		}
	}}
	c := newTestClient(t, backend)

	require.NoError(t, c.Call(context.Background(), "getTexts", "ws-1", nil, nil))
	require.Len(t, backend.calls, 1)
	assert.Equal(t, "Bearer id-token", backend.calls[0].auth)
	assert.Equal(t, "ws-token-1", backend.calls[0].payload["workspaceToken"])

	// The refreshed token is used on the next call.
	require.NoError(t, c.Call(context.Background(), "getTexts", "ws-1", nil, nil))
	assert.Equal(t, "ws-token-2", backend.calls[1].payload["workspaceToken"])
}

func TestCall_NoCachedTokenFailsFast(t *testing.T) {
	backend := &fakeBackend{t: t, respond: func(string, map[string]any) map[string]any {
		return map[string]any{"success": true}
	}}
	c := newTestClient(t, backend)

	err := c.Call(context.Background(), "getTexts", "ws-unknown", nil, nil)
	require.Error(t, err)
	assert.Empty(t, backend.calls)
}

func TestCall_ErrorEnvelopeBecomesCodedError(t *testing.T) {
	backend := &fakeBackend{t: t, respond: func(string, map[string]any) map[string]any {
		return map[string]any{
			"success": false,
			"error":   map[string]any{"code": "NOT_FOUND", "message": "text not found"},
		}
	}}
	c := newTestClient(t, backend)

	err := c.Call(context.Background(), "deleteText", "ws-1", map[string]any{"textId": "t-x"}, nil)
	require.Error(t, err)
	assert.True(t, IsCode(err, "NOT_FOUND"))
	assert.EqualError(t, err, "NOT_FOUND: text not found")
}

func TestTextsService_Create(t *testing.T) {
	backend := &fakeBackend{t: t, respond: func(name string, payload map[string]any) map[string]any {
		require.Equal(t, "createText", name)
		return map[string]any{
			"success": true,
			"text": map[string]any{
				"id":           "t-1",
				"workspace_id": "ws-1",
				"content":      payload["content"],
			},
			"workspace_tokens": map[string]string{"ws-1": "next"},
		}
	}}
	c := newTestClient(t, backend)

	text, err := c.TextsService().Create(context.Background(), "ws-1", CreateTextRequest{Content: "Hello"})
	require.NoError(t, err)
	assert.Equal(t, "t-1", text.ID)
	assert.Equal(t, "Hello", text.Content)

	// Title omitted from the payload when empty.
	_, sent := backend.calls[0].payload["title"]
	assert.False(t, sent)
}

func TestCommentsService_ListWithFilter(t *testing.T) {
	backend := &fakeBackend{t: t, respond: func(name string, payload map[string]any) map[string]any {
		require.Equal(t, "getComments", name)
		require.Equal(t, "t-1", payload["text_id"])
		return map[string]any{
			"success": true,
			"comments": []map[string]any{
				{"id": "c-1", "text_id": "t-1", "author": "Alice", "content": "Nice"},
			},
		}
	}}
	c := newTestClient(t, backend)

	list, err := c.CommentsService().List(context.Background(), "ws-1", "t-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Alice", list[0].Author)
}

func TestDelete_ReturnsDeletedFlag(t *testing.T) {
	backend := &fakeBackend{t: t, respond: func(name string, payload map[string]any) map[string]any {
		require.Equal(t, "c-1", payload["commentId"])
		return map[string]any{"success": true, "deleted": true}
	}}
	c := newTestClient(t, backend)

	deleted, err := c.CommentsService().Delete(context.Background(), "ws-1", "c-1")
	require.NoError(t, err)
	assert.True(t, deleted)
}
