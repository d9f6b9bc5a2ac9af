package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strconv"
	"time"

	"github.com/arnold/stridegoals-api/internal/config"
	"github.com/arnold/stridegoals-api/internal/division"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const progressTTL = time.Hour

// ProgressCache mirrors computed goal progress into redis for fast display
// reads. It is advisory only: the engine never reads it, and a cache miss or
// a down redis simply means the caller recomputes.
type ProgressCache struct {
	rdb *redis.Client
}

// New returns a cache backed by redis, or a disabled no-op cache when no
// redis address is configured.
func New(cfg *config.Config) *ProgressCache {
	if cfg.RedisAddr == "" {
		log.Println("cache: no redis configured, progress mirror disabled")
		return &ProgressCache{}
	}
	db, err := strconv.Atoi(cfg.RedisDB)
	if err != nil {
		db = 0
	}
	return &ProgressCache{
		rdb: redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       db,
		}),
	}
}

func progressKey(goalID uuid.UUID) string {
	return "goal:progress:" + goalID.String()
}

// Store writes a computed result; failures are logged and swallowed.
func (c *ProgressCache) Store(ctx context.Context, goalID uuid.UUID, p *division.Progress) {
	if c.rdb == nil {
		return
	}
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, progressKey(goalID), raw, progressTTL).Err(); err != nil {
		log.Printf("cache: store progress for goal %s: %v", goalID, err)
	}
}

// Get returns the mirrored result, or nil on miss or error.
func (c *ProgressCache) Get(ctx context.Context, goalID uuid.UUID) *division.Progress {
	if c.rdb == nil {
		return nil
	}
	raw, err := c.rdb.Get(ctx, progressKey(goalID)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("cache: get progress for goal %s: %v", goalID, err)
		}
		return nil
	}
	var p division.Progress
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil
	}
	return &p
}

// Invalidate drops the mirror after a division edit.
func (c *ProgressCache) Invalidate(ctx context.Context, goalID uuid.UUID) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, progressKey(goalID)).Err(); err != nil {
		log.Printf("cache: invalidate progress for goal %s: %v", goalID, err)
	}
}
