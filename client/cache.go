package client

import (
	"context"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// queryCache memoizes list results per key and dedupes concurrent fetches of
// the same key. Mutations invalidate the affected keys; the next read
// refetches.
type queryCache struct {
	mu      sync.RWMutex
	entries map[string]any
	sf      singleflight.Group
}

func newQueryCache() *queryCache {
	return &queryCache{entries: make(map[string]any)}
}

func (q *queryCache) get(key string, fetch func() (any, error)) (any, error) {
	q.mu.RLock()
	v, ok := q.entries[key]
	q.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err, _ := q.sf.Do(key, func() (any, error) {
		fetched, err := fetch()
		if err != nil {
			return nil, err
		}
		q.mu.Lock()
		q.entries[key] = fetched
		q.mu.Unlock()
		return fetched, nil
	})
	return v, err
}

func (q *queryCache) invalidate(keys ...string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, key := range keys {
		delete(q.entries, key)
	}
}

func (q *queryCache) invalidatePrefix(prefix string) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for key := range q.entries {
		if strings.HasPrefix(key, prefix) {
			delete(q.entries, key)
		}
	}
}

func textsKey(workspaceID string) string {
	return "texts:" + workspaceID
}

func commentsKey(workspaceID, textID string) string {
	if textID == "" {
		return "comments:" + workspaceID
	}
	return "comments:" + workspaceID + ":" + textID
}

// CachedTexts layers the query cache over the text service. Reads are served
// from cache until a mutation invalidates the workspace's list.
type CachedTexts struct {
	svc   *TextsService
	cache *queryCache
}

func (c *Client) CachedTexts() *CachedTexts {
	return &CachedTexts{svc: c.TextsService(), cache: newQueryCache()}
}

func (h *CachedTexts) List(ctx context.Context, workspaceID string) ([]Text, error) {
	v, err := h.cache.get(textsKey(workspaceID), func() (any, error) {
		return h.svc.List(ctx, workspaceID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Text), nil
}

func (h *CachedTexts) Create(ctx context.Context, workspaceID string, req CreateTextRequest) (*Text, error) {
	text, err := h.svc.Create(ctx, workspaceID, req)
	if err != nil {
		return nil, err
	}
	h.cache.invalidate(textsKey(workspaceID))
	return text, nil
}

func (h *CachedTexts) Update(ctx context.Context, workspaceID, textID string, req UpdateTextRequest) (*Text, error) {
	text, err := h.svc.Update(ctx, workspaceID, textID, req)
	if err != nil {
		return nil, err
	}
	h.cache.invalidate(textsKey(workspaceID))
	return text, nil
}

func (h *CachedTexts) Delete(ctx context.Context, workspaceID, textID string) (bool, error) {
	deleted, err := h.svc.Delete(ctx, workspaceID, textID)
	if err != nil {
		return false, err
	}
	h.cache.invalidate(textsKey(workspaceID))
	return deleted, nil
}

// CachedComments layers the query cache over the comment service. Creating a
// comment invalidates both the per-text list and the workspace-wide list;
// deleting invalidates every comment list of the workspace, since the text id
// is not known from the comment id alone.
type CachedComments struct {
	svc   *CommentsService
	cache *queryCache
}

func (c *Client) CachedComments() *CachedComments {
	return &CachedComments{svc: c.CommentsService(), cache: newQueryCache()}
}

func (h *CachedComments) List(ctx context.Context, workspaceID, textID string) ([]Comment, error) {
	v, err := h.cache.get(commentsKey(workspaceID, textID), func() (any, error) {
		return h.svc.List(ctx, workspaceID, textID)
	})
	if err != nil {
		return nil, err
	}
	return v.([]Comment), nil
}

func (h *CachedComments) Create(ctx context.Context, workspaceID string, req CreateCommentRequest) (*Comment, error) {
	comment, err := h.svc.Create(ctx, workspaceID, req)
	if err != nil {
		return nil, err
	}
	h.cache.invalidate(commentsKey(workspaceID, req.TextID), commentsKey(workspaceID, ""))
	return comment, nil
}

func (h *CachedComments) Delete(ctx context.Context, workspaceID, commentID string) (bool, error) {
	deleted, err := h.svc.Delete(ctx, workspaceID, commentID)
	if err != nil {
		return false, err
	}
	h.cache.invalidatePrefix("comments:" + workspaceID)
	return deleted, nil
}
