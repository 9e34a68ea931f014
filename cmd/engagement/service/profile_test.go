package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ViewTube.com/cmd/model"
)

type memoryCache struct {
	mu       sync.Mutex
	profiles map[int64]*model.Profile
	sets     int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{profiles: make(map[int64]*model.Profile)}
}

func (c *memoryCache) Get(_ context.Context, userId int64) (*model.Profile, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.profiles[userId], nil
}

func (c *memoryCache) Set(_ context.Context, profile *model.Profile) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.profiles[profile.UserId] = profile
	c.sets++
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, userIds ...int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range userIds {
		delete(c.profiles, id)
	}
	return nil
}

func TestProjectSkipsDanglingReferences(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	second := mustVideo(t, f.svc, f.creator, f.channel, "second")

	_, err := f.svc.ToggleLike(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	_, err = f.svc.ToggleLike(ctx, f.viewer.UserId, second.VideoId)
	require.NoError(t, err)

	// 绕过级联直接删除视频行，模拟不一致的数据
	require.NoError(t, f.svc.Store().DB().Exec("DELETE FROM videos WHERE video_id = ?", f.video.VideoId).Error)

	profile, err := f.svc.Project(ctx, f.viewer.UserId)
	require.NoError(t, err)
	assert.Equal(t, []int64{second.VideoId}, videoIds(profile.LikedVideos))
	assert.Equal(t, 1, profile.Dangling)
}

func TestProjectOrdersNewestFirst(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	second := mustVideo(t, f.svc, f.creator, f.channel, "second")
	third := mustVideo(t, f.svc, f.creator, f.channel, "third")

	for _, v := range []*model.Video{f.video, second, third} {
		_, err := f.svc.ToggleLike(ctx, f.viewer.UserId, v.VideoId)
		require.NoError(t, err)
	}

	profile, err := f.svc.Project(ctx, f.viewer.UserId)
	require.NoError(t, err)
	assert.Equal(t, []int64{third.VideoId, second.VideoId, f.video.VideoId}, videoIds(profile.LikedVideos))
	for _, d := range profile.LikedVideos {
		require.NotNil(t, d.Channel)
		assert.Equal(t, f.channel.ChannelId, d.Channel.ChannelId)
		require.NotNil(t, d.Uploader)
		assert.Equal(t, "creator", d.Uploader.UserName)
	}
}

func TestGetProfileUsesCache(t *testing.T) {
	ctx := context.Background()
	cache := newMemoryCache()
	f := newFixture(t, WithCache(cache))

	profile, err := f.svc.GetProfile(ctx, f.viewer.UserId)
	require.NoError(t, err)
	assert.Empty(t, profile.LikedVideos)
	assert.Equal(t, 1, cache.sets)

	_, err = f.svc.GetProfile(ctx, f.viewer.UserId)
	require.NoError(t, err)
	assert.Equal(t, 1, cache.sets)

	// 互动之后缓存失效，下一次读取得到新的视图
	_, err = f.svc.ToggleLike(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	profile, err = f.svc.GetProfile(ctx, f.viewer.UserId)
	require.NoError(t, err)
	assert.Equal(t, []int64{f.video.VideoId}, videoIds(profile.LikedVideos))
	assert.Equal(t, 2, cache.sets)
}

func TestProfileReadsHaveNoSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.svc.UpsertWatchHistory(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		_, err := f.svc.GetProfile(ctx, f.viewer.UserId)
		require.NoError(t, err)
	}
	assert.EqualValues(t, 1, reloadVideo(t, f.svc, f.video.VideoId).Views)
	assert.Len(t, f.pub.actions(), 1)
}
