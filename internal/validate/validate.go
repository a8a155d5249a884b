// Package validate checks callable payloads for required fields.
package validate

import (
	"strings"

	"github.com/textboard/textboard-backend/internal/apperr"
)

// RequiredFields confirms every named field is present and non-empty in the
// payload. It reports all missing fields at once, in the order they were
// requested, so the same input always produces the same error.
func RequiredFields(payload map[string]any, fields ...string) *apperr.Error {
	var missing []string
	for _, name := range fields {
		if !present(payload[name]) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return apperr.InvalidInput("missing required fields: " + strings.Join(missing, ", "))
}

func present(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case string:
		return strings.TrimSpace(val) != ""
	default:
		return true
	}
}

// String extracts a trimmed string field from the payload, or "" when the
// field is absent or not a string.
func String(payload map[string]any, name string) string {
	s, _ := payload[name].(string)
	return strings.TrimSpace(s)
}

// OptionalString extracts a string field keeping track of whether it was
// provided at all, so handlers can distinguish "not sent" from "empty".
func OptionalString(payload map[string]any, name string) (string, bool) {
	v, ok := payload[name]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	if !ok {
		return "", false
	}
	return strings.TrimSpace(s), true
}
