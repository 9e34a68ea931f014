package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"golang.org/x/sync/errgroup"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/cmd/model"
)

// Project 组装用户的完整视图。只读，不会修改任何数据。
// 集合中已经被删除的视频或频道会被跳过并计入 Dangling，不会让整个投影失败
func (s *Service) Project(ctx context.Context, userId int64) (*model.Profile, error) {
	user, err := s.store.GetUser(ctx, userId)
	if err != nil {
		return nil, err
	}

	var (
		liked, disliked, later, subscribed []int64
		history                            []*model.WatchHistory
	)
	g, gctx := errgroup.WithContext(ctx)
	load := func(set db.Set, dst *[]int64) {
		g.Go(func() error {
			ids, err := s.store.ListMemberIds(gctx, set, userId)
			*dst = ids
			return err
		})
	}
	load(db.SetLiked, &liked)
	load(db.SetDisliked, &disliked)
	load(db.SetWatchLater, &later)
	load(db.SetSubscriptions, &subscribed)
	g.Go(func() error {
		rows, err := s.store.ListHistory(gctx, userId)
		history = rows
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	videoIds := make([]int64, 0, len(liked)+len(disliked)+len(later)+len(history))
	videoIds = append(videoIds, liked...)
	videoIds = append(videoIds, disliked...)
	videoIds = append(videoIds, later...)
	for _, h := range history {
		videoIds = append(videoIds, h.VideoId)
	}
	videos, err := s.store.GetVideosByIds(ctx, uniqueIds(videoIds))
	if err != nil {
		return nil, err
	}

	channelIds := append([]int64{}, subscribed...)
	uploaderIds := make([]int64, 0, len(videos))
	for _, v := range videos {
		channelIds = append(channelIds, v.ChannelId)
		uploaderIds = append(uploaderIds, v.UploaderId)
	}
	channels, err := s.store.GetChannelsByIds(ctx, uniqueIds(channelIds))
	if err != nil {
		return nil, err
	}
	uploaders, err := s.store.GetUsersByIds(ctx, uniqueIds(uploaderIds))
	if err != nil {
		return nil, err
	}

	profile := &model.Profile{
		User:               user,
		LikedVideos:        []*model.VideoDetail{},
		DislikedVideos:     []*model.VideoDetail{},
		WatchLater:         []*model.VideoDetail{},
		SubscribedChannels: []*model.Channel{},
		WatchHistory:       []*model.HistoryEntry{},
	}
	detail := func(id int64) *model.VideoDetail {
		v, ok := videos[id]
		if !ok {
			profile.Dangling++
			return nil
		}
		return &model.VideoDetail{Video: v, Channel: channels[v.ChannelId].Summary(), Uploader: uploaders[v.UploaderId].Summary()}
	}
	resolve := func(ids []int64) []*model.VideoDetail {
		res := make([]*model.VideoDetail, 0, len(ids))
		for _, id := range ids {
			if d := detail(id); d != nil {
				res = append(res, d)
			}
		}
		return res
	}

	profile.LikedVideos = resolve(liked)
	profile.DislikedVideos = resolve(disliked)
	profile.WatchLater = resolve(later)
	for _, h := range history {
		if d := detail(h.VideoId); d != nil {
			profile.WatchHistory = append(profile.WatchHistory, &model.HistoryEntry{Video: d, WatchedAt: h.WatchedAt})
		}
	}
	for _, id := range subscribed {
		c, ok := channels[id]
		if !ok {
			profile.Dangling++
			continue
		}
		profile.SubscribedChannels = append(profile.SubscribedChannels, c)
	}

	if profile.Dangling > 0 {
		hlog.CtxWarnf(ctx, "profile of user %d has %d dangling references", userId, profile.Dangling)
	}
	return profile, nil
}

// GetProfile 先读缓存，未命中时投影并写回缓存。缓存故障时退化为直接投影
func (s *Service) GetProfile(ctx context.Context, userId int64) (*model.Profile, error) {
	if s.cache != nil {
		profile, err := s.cache.Get(ctx, userId)
		if err != nil {
			hlog.CtxWarnf(ctx, "read profile cache of user %d failed: %v", userId, err)
		} else if profile != nil {
			return profile, nil
		}
	}

	profile, err := s.Project(ctx, userId)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, profile); err != nil {
			hlog.CtxWarnf(ctx, "write profile cache of user %d failed: %v", userId, err)
		}
	}
	return profile, nil
}

func uniqueIds(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	res := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		res = append(res, id)
	}
	return res
}
