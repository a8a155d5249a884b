package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/textboard/textboard-backend/internal/apperr"
)

func TestSuccess_CarriesPayloadAndTokens(t *testing.T) {
	tokens := map[string]string{"ws-1": "token-a"}
	w := WithTokens(tokens)

	env := w.Success(map[string]any{"deleted": true})

	assert.Equal(t, true, env["success"])
	assert.Equal(t, true, env["deleted"])
	assert.Equal(t, tokens, env["workspace_tokens"])
}

func TestError_ShapesCodeAndMessage(t *testing.T) {
	env := Error(apperr.NotFound("comment not found"))

	assert.Equal(t, false, env["success"])
	errBody, ok := env["error"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "NOT_FOUND", errBody["code"])
	assert.Equal(t, "comment not found", errBody["message"])
	assert.NotContains(t, env, "workspace_tokens")
}

func TestWriterError_OmitsTokens(t *testing.T) {
	w := WithTokens(map[string]string{"ws-1": "token-a"})

	env := w.Error(apperr.InvalidInput("content too long"))

	assert.Equal(t, false, env["success"])
	assert.NotContains(t, env, "workspace_tokens")
}
