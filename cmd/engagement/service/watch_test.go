package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ViewTube.com/pkg/errno"
)

func TestWatchHistoryCountsViewOnce(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.svc.UpsertWatchHistory(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	assert.True(t, first.Added)
	require.Len(t, first.WatchHistory, 1)

	second, err := f.svc.UpsertWatchHistory(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	assert.False(t, second.Added)
	require.Len(t, second.WatchHistory, 1)
	assert.Greater(t, second.WatchHistory[0].WatchedAt, first.WatchHistory[0].WatchedAt)

	assert.EqualValues(t, 1, reloadVideo(t, f.svc, f.video.VideoId).Views)
}

func TestWatchHistoryReverseChronological(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	second := mustVideo(t, f.svc, f.creator, f.channel, "second")

	_, err := f.svc.UpsertWatchHistory(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	_, err = f.svc.UpsertWatchHistory(ctx, f.viewer.UserId, second.VideoId)
	require.NoError(t, err)
	res, err := f.svc.UpsertWatchHistory(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)

	require.Len(t, res.WatchHistory, 2)
	assert.Equal(t, f.video.VideoId, res.WatchHistory[0].Video.VideoId)
	assert.Equal(t, second.VideoId, res.WatchHistory[1].Video.VideoId)
	assert.NotNil(t, res.WatchHistory[0].Video.Channel)
	assert.NotNil(t, res.WatchHistory[0].Video.Uploader)
}

func TestRemoveWatchHistoryKeepsViews(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.UpsertWatchHistory(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	res, err := f.svc.RemoveWatchHistory(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	assert.Empty(t, res.Profile.WatchHistory)
	assert.EqualValues(t, 1, reloadVideo(t, f.svc, f.video.VideoId).Views)

	// 删除之后再看一次算作新的第一次观看
	_, err = f.svc.UpsertWatchHistory(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	assert.EqualValues(t, 2, reloadVideo(t, f.svc, f.video.VideoId).Views)
}

func TestWatchHistoryMissingVideo(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.UpsertWatchHistory(context.Background(), f.viewer.UserId, 9999)
	assert.True(t, errno.IsNotFound(err))
}

func TestWatchHistoryVideoDeletedConcurrently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deleteVideoBeforeCounterUpdate(t, f.svc, f.video.VideoId)

	_, err := f.svc.UpsertWatchHistory(ctx, f.viewer.UserId, f.video.VideoId)
	assert.True(t, errno.IsNotFound(err))

	profile, err := f.svc.Project(ctx, f.viewer.UserId)
	require.NoError(t, err)
	assert.Empty(t, profile.WatchHistory)
	assert.Zero(t, profile.Dangling)
}

func TestWatchLater(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	res, err := f.svc.ToggleWatchLater(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.Equal(t, []int64{f.video.VideoId}, videoIds(res.Profile.WatchLater))

	res, err = f.svc.AddWatchLater(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	assert.True(t, res.Added)
	assert.Len(t, res.Profile.WatchLater, 1)

	res, err = f.svc.ToggleWatchLater(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	assert.False(t, res.Added)
	assert.Empty(t, res.Profile.WatchLater)

	res, err = f.svc.RemoveWatchLater(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	assert.False(t, res.Added)

	v := reloadVideo(t, f.svc, f.video.VideoId)
	assert.Zero(t, v.Likes+v.Dislikes+v.Views)

	_, err = f.svc.ToggleWatchLater(ctx, f.viewer.UserId, 31337)
	assert.True(t, errno.IsNotFound(err))
}
