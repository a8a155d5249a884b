// Package callable dispatches named operations invoked with a structured
// JSON payload, mirroring the callable-function surface the clients expect.
package callable

import (
	"context"
	"net/http"
	"sort"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/textboard/textboard-backend/internal/apperr"
	"github.com/textboard/textboard-backend/internal/auth"
	"github.com/textboard/textboard-backend/internal/response"
)

// Request carries the authenticated caller and the decoded payload.
type Request struct {
	UID     string
	Payload map[string]any
}

// HandlerFunc implements one callable operation. Handlers never return an
// unshaped error; every outcome is an envelope.
type HandlerFunc func(ctx context.Context, req *Request) response.Envelope

// Registry maps operation names to handlers.
type Registry struct {
	handlers map[string]HandlerFunc
	log      *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{
		handlers: make(map[string]HandlerFunc),
		log:      log,
	}
}

func (r *Registry) Register(name string, h HandlerFunc) {
	r.handlers[name] = h
}

// Names returns the registered operation names, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dispatch is the gin handler for POST /api/callable/:name. Responses are
// always HTTP 200 with the outcome inside the envelope.
func (r *Registry) Dispatch(c *gin.Context) {
	name := c.Param("name")
	handler, ok := r.handlers[name]
	if !ok {
		c.JSON(http.StatusOK, response.Error(apperr.NotFound("unknown operation "+name)))
		return
	}

	payload := map[string]any{}
	if c.Request.Body != nil && c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusOK, response.Error(apperr.InvalidInput("malformed request payload")))
			return
		}
	}

	req := &Request{UID: auth.UID(c), Payload: payload}
	c.JSON(http.StatusOK, r.invoke(c.Request.Context(), name, handler, req))
}

// invoke runs the handler with a panic boundary so nothing escapes unshaped.
func (r *Registry) invoke(ctx context.Context, name string, handler HandlerFunc, req *Request) (env response.Envelope) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("callable panicked",
				zap.String("operation", name),
				zap.Any("panic", rec),
			)
			env = response.Error(apperr.Internal("internal error"))
		}
	}()
	return handler(ctx, req)
}
