// Package response builds the standard envelope returned by every callable
// operation: {success, ...payload, workspace_tokens} or {success, error}.
package response

import (
	"github.com/textboard/textboard-backend/internal/apperr"
)

// Envelope is the wire shape of a callable response.
type Envelope map[string]any

// Writer binds refreshed workspace tokens so every success response echoes
// them back and the caller's local credential cache stays current.
type Writer struct {
	tokens map[string]string
}

// WithTokens returns a Writer attaching the given workspace token map.
func WithTokens(tokens map[string]string) *Writer {
	return &Writer{tokens: tokens}
}

// Success wraps the payload fields with success=true and the refreshed tokens.
func (w *Writer) Success(payload map[string]any) Envelope {
	env := Envelope{"success": true}
	for k, v := range payload {
		env[k] = v
	}
	env["workspace_tokens"] = w.tokens
	return env
}

// Error wraps a coded error. Error responses never carry tokens.
func (w *Writer) Error(err *apperr.Error) Envelope {
	return Error(err)
}

// Error builds an error envelope for failures before a workspace token has
// been validated (auth and field validation).
func Error(err *apperr.Error) Envelope {
	return Envelope{
		"success": false,
		"error": map[string]any{
			"code":    string(err.Code),
			"message": err.Message,
		},
	}
}
