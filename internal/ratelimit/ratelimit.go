// Package ratelimit applies a per-caller token bucket to callable requests.
package ratelimit

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/textboard/textboard-backend/internal/apperr"
	"github.com/textboard/textboard-backend/internal/auth"
	"github.com/textboard/textboard-backend/internal/response"
)

const idleEviction = 10 * time.Minute

type entry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// PerCaller keeps one token bucket per authenticated uid. Buckets idle for
// longer than the eviction window are dropped on the next lookup sweep.
type PerCaller struct {
	mu        sync.Mutex
	entries   map[string]*entry
	rate      rate.Limit
	burst     int
	lastSweep time.Time
}

func New(perSecond float64, burst int) *PerCaller {
	return &PerCaller{
		entries:   make(map[string]*entry),
		rate:      rate.Limit(perSecond),
		burst:     burst,
		lastSweep: time.Now(),
	}
}

// Allow reports whether the caller may proceed now.
func (p *PerCaller) Allow(uid string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := time.Now()
	if now.Sub(p.lastSweep) > idleEviction {
		for key, e := range p.entries {
			if now.Sub(e.lastSeen) > idleEviction {
				delete(p.entries, key)
			}
		}
		p.lastSweep = now
	}

	e, ok := p.entries[uid]
	if !ok {
		e = &entry{limiter: rate.NewLimiter(p.rate, p.burst)}
		p.entries[uid] = e
	}
	e.lastSeen = now
	return e.limiter.Allow()
}

// Middleware rejects callers over their budget. Runs after auth so the bucket
// key is the verified uid.
func Middleware(p *PerCaller) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !p.Allow(auth.UID(c)) {
			c.AbortWithStatusJSON(http.StatusTooManyRequests,
				response.Error(apperr.New(apperr.CodeRateLimited, "too many requests")))
			return
		}
		c.Next()
	}
}
