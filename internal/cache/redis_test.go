package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedis_GetSetExpire(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	ctx := context.Background()

	got, err := c.Get(ctx, "macro:selic::0")
	require.NoError(t, err)
	assert.Nil(t, got)

	require.NoError(t, c.Set(ctx, "macro:selic::0", []byte(`{"v":1}`), time.Minute))
	got, err = c.Get(ctx, "macro:selic::0")
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(got))

	mr.FastForward(2 * time.Minute)
	got, err = c.Get(ctx, "macro:selic::0")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedis_ErrorWhenServerDown(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	c := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	mr.Close()

	_, err = c.Get(context.Background(), "k")
	assert.Error(t, err)
}
