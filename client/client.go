// Package client is the Go client for the textboard callable backend. It
// wraps the callable surface with typed services and keeps the local
// workspace-token cache synchronized from the refreshed tokens every success
// response carries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// APIError is a failure reported by the backend, carrying the wire-level
// error code.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Code + ": " + e.Message
}

// IsCode reports whether err is an APIError with the given code.
func IsCode(err error, code string) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// TokenSource supplies the caller's identity token per request.
type TokenSource func(ctx context.Context) (string, error)

// StaticToken adapts a fixed identity token to a TokenSource.
func StaticToken(token string) TokenSource {
	return func(context.Context) (string, error) { return token, nil }
}

type Options struct {
	BaseURL    string
	Identity   TokenSource
	HTTPClient *http.Client
}

// Client invokes callable operations by name.
type Client struct {
	baseURL  string
	http     *http.Client
	identity TokenSource

	mu              sync.RWMutex
	workspaceTokens map[string]string
}

func New(opts Options) (*Client, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if opts.Identity == nil {
		return nil, fmt.Errorf("identity token source is required")
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{
		baseURL:         strings.TrimRight(opts.BaseURL, "/"),
		http:            httpClient,
		identity:        opts.Identity,
		workspaceTokens: make(map[string]string),
	}, nil
}

// SetWorkspaceToken seeds the credential cache for a workspace, typically
// from the token handed out when the caller joined it.
func (c *Client) SetWorkspaceToken(workspaceID, token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.workspaceTokens[workspaceID] = token
}

// WorkspaceToken returns the cached token for a workspace.
func (c *Client) WorkspaceToken(workspaceID string) (string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	token, ok := c.workspaceTokens[workspaceID]
	return token, ok
}

func (c *Client) absorbTokens(tokens map[string]string) {
	if len(tokens) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	for workspaceID, token := range tokens {
		c.workspaceTokens[workspaceID] = token
	}
}

type envelope struct {
	Success         bool              `json:"success"`
	Error           *APIError         `json:"error"`
	WorkspaceTokens map[string]string `json:"workspace_tokens"`
}

// Call invokes the named operation for a workspace. The cached workspace
// token is injected into the payload; out, when non-nil, receives the
// success payload fields.
func (c *Client) Call(ctx context.Context, name, workspaceID string, payload map[string]any, out any) error {
	token, ok := c.WorkspaceToken(workspaceID)
	if !ok {
		return fmt.Errorf("no workspace token cached for %q", workspaceID)
	}

	body := make(map[string]any, len(payload)+1)
	for k, v := range payload {
		body[k] = v
	}
	body["workspaceToken"] = token

	encoded, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/api/callable/"+name, bytes.NewReader(encoded))
	if err != nil {
		return err
	}
	identity, err := c.identity(ctx)
	if err != nil {
		return fmt.Errorf("identity token: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+identity)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if !env.Success {
		if env.Error == nil {
			return &APIError{Code: "INTERNAL", Message: "malformed error response"}
		}
		return env.Error
	}

	c.absorbTokens(env.WorkspaceTokens)

	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode payload: %w", err)
		}
	}
	return nil
}
