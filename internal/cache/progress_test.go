package cache

import (
	"context"
	"testing"

	"github.com/arnold/stridegoals-api/internal/config"
	"github.com/arnold/stridegoals-api/internal/division"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledCacheIsNoOp(t *testing.T) {
	c := New(&config.Config{})
	require.NotNil(t, c)

	goalID := uuid.New()
	c.Store(context.Background(), goalID, &division.Progress{Percent: 80})
	assert.Nil(t, c.Get(context.Background(), goalID))
	c.Invalidate(context.Background(), goalID)
}

func TestNewWithRedisConfig(t *testing.T) {
	c := New(&config.Config{
		RedisAddr: "localhost:6379",
		RedisDB:   "15",
	})
	require.NotNil(t, c.rdb)

	opts := c.rdb.Options()
	assert.Equal(t, "localhost:6379", opts.Addr)
	assert.Equal(t, 15, opts.DB)
}

func TestNewWithBadDBIndexDefaultsToZero(t *testing.T) {
	c := New(&config.Config{
		RedisAddr: "localhost:6379",
		RedisDB:   "not-a-number",
	})
	require.NotNil(t, c.rdb)
	assert.Equal(t, 0, c.rdb.Options().DB)
}
