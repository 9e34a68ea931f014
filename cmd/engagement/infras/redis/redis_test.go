package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ViewTube.com/cmd/model"
	"ViewTube.com/config"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestProfileCache(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)
	cache := NewProfileCache(client, time.Minute)

	got, err := cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)

	profile := &model.Profile{
		User: &model.User{UserId: 7, UserName: "viewer"},
		LikedVideos: []*model.VideoDetail{{
			Video:    &model.Video{VideoId: 11, Title: "intro", Likes: 1},
			Channel:  &model.ChannelSummary{ChannelId: 3, Name: "creator channel"},
			Uploader: &model.UserSummary{UserId: 2, UserName: "creator"},
		}},
		WatchHistory: []*model.HistoryEntry{},
	}
	require.NoError(t, cache.Set(ctx, profile))
	assert.Equal(t, time.Minute, mr.TTL(profileKey(7)))

	got, err = cache.Get(ctx, 7)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "viewer", got.UserName)
	require.Len(t, got.LikedVideos, 1)
	assert.EqualValues(t, 11, got.LikedVideos[0].VideoId)
	assert.Equal(t, "creator", got.LikedVideos[0].Uploader.UserName)

	require.NoError(t, cache.Invalidate(ctx, 7, 8))
	got, err = cache.Get(ctx, 7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestProfileCacheCorruptValue(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)
	require.NoError(t, mr.Set(profileKey(9), "not json"))

	_, err := NewProfileCache(client, 0).Get(ctx, 9)
	assert.Error(t, err)
}

func TestLocker(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	locker := NewLocker(client)

	var nestedErr error
	nestedRan := false
	err := locker.WithLock(ctx, "viewtube:test:lock", time.Minute, func(ctx context.Context) error {
		nestedErr = locker.WithLock(ctx, "viewtube:test:lock", time.Minute, func(context.Context) error {
			nestedRan = true
			return nil
		})
		return nil
	})
	require.NoError(t, err)
	assert.ErrorIs(t, nestedErr, ErrLockHeld)
	assert.False(t, nestedRan)

	// 释放之后可以再次获取
	called := false
	require.NoError(t, locker.WithLock(ctx, "viewtube:test:lock", time.Minute, func(context.Context) error {
		called = true
		return nil
	}))
	assert.True(t, called)
}

func TestLoad(t *testing.T) {
	client, err := Load(context.Background(), config.Redis{})
	require.NoError(t, err)
	assert.Nil(t, client)

	mr := miniredis.RunT(t)
	client, err = Load(context.Background(), config.Redis{Addr: mr.Addr()})
	require.NoError(t, err)
	require.NotNil(t, client)
	client.Close()

	addr := mr.Addr()
	mr.Close()
	_, err = Load(context.Background(), config.Redis{Addr: addr})
	assert.Error(t, err)
}
