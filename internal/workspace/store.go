package workspace

import (
	"context"
	"errors"
	"strconv"

	"github.com/redis/go-redis/v9"
)

const genKeyPrefix = "ws:gen:" // Current token generation per workspace: ws:gen:{workspace_id}

// GenerationStore tracks the current token generation per workspace. Bumping
// a workspace's generation invalidates every outstanding token issued for it.
type GenerationStore interface {
	// Generation returns the workspace's current generation (1 if never bumped).
	Generation(ctx context.Context, workspaceID string) (int64, error)
	// Bump advances the generation and returns the new value.
	Bump(ctx context.Context, workspaceID string) (int64, error)
}

// RedisGenerationStore keeps generations in Redis.
type RedisGenerationStore struct {
	client *redis.Client
}

func NewRedisGenerationStore(client *redis.Client) *RedisGenerationStore {
	return &RedisGenerationStore{client: client}
}

func (s *RedisGenerationStore) Generation(ctx context.Context, workspaceID string) (int64, error) {
	val, err := s.client.Get(ctx, genKeyPrefix+workspaceID).Result()
	if errors.Is(err, redis.Nil) {
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	gen, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, err
	}
	return gen, nil
}

func (s *RedisGenerationStore) Bump(ctx context.Context, workspaceID string) (int64, error) {
	key := genKeyPrefix + workspaceID
	// Seed the key so the first bump moves 1 -> 2 rather than 0 -> 1.
	if err := s.client.SetNX(ctx, key, 1, 0).Err(); err != nil {
		return 0, err
	}
	return s.client.Incr(ctx, key).Result()
}
