package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/romanzh1/daylog/internal/models"
	"go.uber.org/zap"
)

var ErrCacheMiss = errors.New("cache miss")

const keyPrefix = "daylog:day"

// Key names the snapshot entry of one user's date.
func Key(userID int64, date models.Date) string {
	return fmt.Sprintf("%s:%d:%s", keyPrefix, userID, date)
}

// DayCache holds JSON-encoded day snapshots. It talks to Redis when one is
// reachable and keeps entries in process memory otherwise.
type DayCache struct {
	client *redis.Client
	mem    *memoryStore
	ttl    time.Duration
}

// New connects to redisURL. An empty URL, a malformed one, or a server that
// does not answer a ping selects the in-memory backend.
func New(redisURL string, ttl time.Duration) *DayCache {
	if redisURL == "" {
		return NewMemory(ttl)
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		zap.S().Warnw("invalid redis url; using in-memory cache", "error", err)
		return NewMemory(ttl)
	}
	opts.DialTimeout = 5 * time.Second
	opts.ReadTimeout = 3 * time.Second
	opts.WriteTimeout = 3 * time.Second

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		zap.S().Warnw("redis unavailable; using in-memory cache", "error", err)
		_ = client.Close()
		return NewMemory(ttl)
	}

	return &DayCache{client: client, ttl: ttl}
}

func NewMemory(ttl time.Duration) *DayCache {
	return &DayCache{mem: newMemoryStore(), ttl: ttl}
}

func (c *DayCache) Backend() string {
	if c.client != nil {
		return "redis"
	}
	return "memory"
}

func (c *DayCache) Get(ctx context.Context, userID int64, date models.Date) (*models.DaySnapshot, error) {
	key := Key(userID, date)

	var data []byte
	if c.client != nil {
		val, err := c.client.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return nil, ErrCacheMiss
			}
			return nil, fmt.Errorf("cache get (key: %s): %w", key, err)
		}
		data = val
	} else {
		val, ok := c.mem.get(key)
		if !ok {
			return nil, ErrCacheMiss
		}
		data = val
	}

	var snapshot models.DaySnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("cache unmarshal (key: %s): %w", key, err)
	}

	return &snapshot, nil
}

func (c *DayCache) Set(ctx context.Context, snapshot *models.DaySnapshot) error {
	key := Key(snapshot.Day.UserID, snapshot.Day.Date)

	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("cache marshal (key: %s): %w", key, err)
	}

	if c.client != nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			return fmt.Errorf("cache set (key: %s): %w", key, err)
		}
		return nil
	}

	c.mem.set(key, data, c.ttl)
	return nil
}

func (c *DayCache) Invalidate(ctx context.Context, userID int64, date models.Date) error {
	key := Key(userID, date)

	if c.client != nil {
		if err := c.client.Del(ctx, key).Err(); err != nil {
			return fmt.Errorf("cache delete (key: %s): %w", key, err)
		}
		return nil
	}

	c.mem.delete(key)
	return nil
}

func (c *DayCache) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}
