package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fiapcloudgames/user-service/internal/core/ports"
)

const (
	defaultCacheTTL = 5 * time.Minute

	// generationTTL bounds how long an invalidation is remembered. It only
	// has to outlive the slowest read that could race with it.
	generationTTL = 24 * time.Hour
)

// UserCache stores user projections as JSON.
// Key format: user:<id>, generation counter: user:<id>:gen
type UserCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewUserCache creates a UserCache wrapping the given Redis client.
func NewUserCache(client *redis.Client, ttl time.Duration) *UserCache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &UserCache{client: client, ttl: ttl}
}

// Get returns the cached user, or nil on a miss, together with the current
// generation of the id.
func (c *UserCache) Get(ctx context.Context, id string) (*ports.UserDTO, uint64, error) {
	vals, err := c.client.MGet(ctx, userKey(id), generationKey(id)).Result()
	if err != nil {
		return nil, 0, fmt.Errorf("user cache get: %w", err)
	}

	generation, err := parseGeneration(vals[1])
	if err != nil {
		return nil, 0, err
	}
	raw, ok := vals[0].(string)
	if !ok {
		return nil, generation, nil
	}
	dto, err := decodeUser([]byte(raw))
	if err != nil {
		return nil, 0, err
	}
	return dto, generation, nil
}

// Set stores user until the TTL expires or the entry is invalidated. Nothing
// is written when the id was invalidated after generation was read.
func (c *UserCache) Set(ctx context.Context, user *ports.UserDTO, generation uint64) error {
	b, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("user cache encode: %w", err)
	}
	key, genKey := userKey(user.ID), generationKey(user.ID)

	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, genKey).Uint64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, b, c.ttl)
			return nil
		})
		return err
	}, genKey)

	// The generation moved between WATCH and EXEC: an invalidation won.
	if errors.Is(err, redis.TxFailedErr) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("user cache set: %w", err)
	}
	return nil
}

// Invalidate drops the entry and advances the generation in one transaction.
func (c *UserCache) Invalidate(ctx context.Context, id string) error {
	genKey := generationKey(id)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, genKey)
		pipe.Expire(ctx, genKey, generationTTL)
		pipe.Del(ctx, userKey(id))
		return nil
	})
	if err != nil {
		return fmt.Errorf("user cache invalidate: %w", err)
	}
	return nil
}

func decodeUser(b []byte) (*ports.UserDTO, error) {
	var dto ports.UserDTO
	if err := json.Unmarshal(b, &dto); err != nil {
		return nil, fmt.Errorf("user cache decode: %w", err)
	}
	return &dto, nil
}

// parseGeneration reads an MGET slot; a missing counter is generation 0.
func parseGeneration(v any) (uint64, error) {
	s, ok := v.(string)
	if !ok {
		return 0, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("user cache generation %q: %w", s, err)
	}
	return n, nil
}

func userKey(id string) string {
	return "user:" + id
}

func generationKey(id string) string {
	return "user:" + id + ":gen"
}
