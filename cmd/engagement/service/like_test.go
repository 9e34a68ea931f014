package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ViewTube.com/cmd/model"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/mq"
)

func TestToggleLikeParity(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	for i := 1; i <= 5; i++ {
		res, err := f.svc.ToggleLike(ctx, f.viewer.UserId, f.video.VideoId)
		require.NoError(t, err)
		liked := i%2 == 1
		assert.Equal(t, liked, res.Added, "call %d", i)
		if liked {
			assert.Equal(t, "Video liked", res.Message)
			assert.Equal(t, []int64{f.video.VideoId}, videoIds(res.Profile.LikedVideos))
			assert.EqualValues(t, 1, reloadVideo(t, f.svc, f.video.VideoId).Likes)
		} else {
			assert.Equal(t, "Like removed", res.Message)
			assert.Empty(t, res.Profile.LikedVideos)
			assert.EqualValues(t, 0, reloadVideo(t, f.svc, f.video.VideoId).Likes)
		}
	}
	assert.Equal(t, []string{mq.ActionLike, mq.ActionUnlike, mq.ActionLike, mq.ActionUnlike, mq.ActionLike}, f.pub.actions())
}

func TestLikeRemovesDislike(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.svc.ToggleDislike(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	v := reloadVideo(t, f.svc, f.video.VideoId)
	require.EqualValues(t, 0, v.Likes)
	require.EqualValues(t, 1, v.Dislikes)

	res, err := f.svc.ToggleLike(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	assert.Equal(t, "Video liked", res.Message)
	assert.Equal(t, []int64{f.video.VideoId}, videoIds(res.Profile.LikedVideos))
	assert.Empty(t, res.Profile.DislikedVideos)

	v = reloadVideo(t, f.svc, f.video.VideoId)
	assert.EqualValues(t, 1, v.Likes)
	assert.EqualValues(t, 0, v.Dislikes)
}

func TestLikeDislikeScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	other := mustUser(t, f.svc, "other")

	_, err := f.svc.ToggleLike(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	assert.EqualValues(t, 1, reloadVideo(t, f.svc, f.video.VideoId).Likes)

	_, err = f.svc.ToggleLike(ctx, other.UserId, f.video.VideoId)
	require.NoError(t, err)
	assert.EqualValues(t, 2, reloadVideo(t, f.svc, f.video.VideoId).Likes)

	res, err := f.svc.ToggleDislike(ctx, f.viewer.UserId, f.video.VideoId)
	require.NoError(t, err)
	assert.Equal(t, "Video disliked", res.Message)
	v := reloadVideo(t, f.svc, f.video.VideoId)
	assert.EqualValues(t, 1, v.Likes)
	assert.EqualValues(t, 1, v.Dislikes)
	assert.Empty(t, res.Profile.LikedVideos)
	assert.Equal(t, []int64{f.video.VideoId}, videoIds(res.Profile.DislikedVideos))
}

func TestToggleLikeErrors(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	t.Run("missing video", func(t *testing.T) {
		_, err := f.svc.ToggleLike(ctx, f.viewer.UserId, 424242)
		assert.True(t, errno.IsNotFound(err))
		profile, err := f.svc.Project(ctx, f.viewer.UserId)
		require.NoError(t, err)
		assert.Empty(t, profile.LikedVideos)
	})

	t.Run("missing actor", func(t *testing.T) {
		_, err := f.svc.ToggleDislike(ctx, 424242, f.video.VideoId)
		assert.True(t, errno.IsNotFound(err))
		assert.EqualValues(t, 0, reloadVideo(t, f.svc, f.video.VideoId).Dislikes)
	})
}

func TestToggleLikeVideoDeletedConcurrently(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	deleteVideoBeforeCounterUpdate(t, f.svc, f.video.VideoId)

	_, err := f.svc.ToggleLike(ctx, f.viewer.UserId, f.video.VideoId)
	assert.True(t, errno.IsNotFound(err))

	// 事务回滚，不会留下指向已删除视频的点赞记录
	profile, err := f.svc.Project(ctx, f.viewer.UserId)
	require.NoError(t, err)
	assert.Empty(t, profile.LikedVideos)
	assert.Zero(t, profile.Dangling)
	assert.Empty(t, f.pub.actions())
}

func TestConcurrentLikesFromManyUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const n = 12
	users := make([]*model.User, 0, n)
	for i := 0; i < n; i++ {
		users = append(users, mustUser(t, f.svc, "fan"+string(rune('a'+i))))
	}

	var wg sync.WaitGroup
	errs := make(chan error, n)
	for _, u := range users {
		wg.Add(1)
		go func(userId int64) {
			defer wg.Done()
			_, err := f.svc.ToggleLike(ctx, userId, f.video.VideoId)
			errs <- err
		}(u.UserId)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.EqualValues(t, n, reloadVideo(t, f.svc, f.video.VideoId).Likes)
}

func TestConcurrentTogglesBySameUser(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.ToggleLike(ctx, f.viewer.UserId, f.video.VideoId)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	profile, err := f.svc.Project(ctx, f.viewer.UserId)
	require.NoError(t, err)
	assert.Empty(t, profile.LikedVideos)
	assert.EqualValues(t, 0, reloadVideo(t, f.svc, f.video.VideoId).Likes)
}
