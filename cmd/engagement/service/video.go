package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/cmd/model"
	"ViewTube.com/pkg/utils"
)

type VideoParams struct {
	ChannelId    int64
	Title        string
	Description  string
	VideoUrl     string
	ThumbnailUrl string
	Category     string
}

type VideoUpdate struct {
	Title        *string
	Description  *string
	VideoUrl     *string
	ThumbnailUrl *string
	Category     *string
}

// CreateVideo 只有频道所有者可以在频道下发布视频，上传者为操作者本人
func (s *Service) CreateVideo(ctx context.Context, actorId int64, p VideoParams) (*model.VideoDetail, error) {
	if _, err := s.CheckChannelOwner(ctx, actorId, p.ChannelId); err != nil {
		return nil, err
	}
	video := &model.Video{
		VideoId:      utils.NextID(),
		ChannelId:    p.ChannelId,
		UploaderId:   actorId,
		Title:        p.Title,
		Description:  p.Description,
		VideoUrl:     p.VideoUrl,
		ThumbnailUrl: p.ThumbnailUrl,
		Category:     p.Category,
	}
	if err := s.store.CreateVideo(ctx, video); err != nil {
		return nil, err
	}
	hlog.CtxInfof(ctx, "video %d created in channel %d", video.VideoId, video.ChannelId)
	return s.GetVideo(ctx, video.VideoId)
}

func (s *Service) UpdateVideo(ctx context.Context, actorId, videoId int64, u VideoUpdate) (*model.VideoDetail, error) {
	if _, err := s.CheckVideoEditor(ctx, actorId, videoId); err != nil {
		return nil, err
	}
	fields := make(map[string]interface{})
	if u.Title != nil {
		fields["title"] = *u.Title
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.VideoUrl != nil {
		fields["video_url"] = *u.VideoUrl
	}
	if u.ThumbnailUrl != nil {
		fields["thumbnail_url"] = *u.ThumbnailUrl
	}
	if u.Category != nil {
		fields["category"] = *u.Category
	}
	if err := s.store.UpdateVideo(ctx, videoId, fields); err != nil {
		return nil, err
	}
	return s.GetVideo(ctx, videoId)
}

// DeleteVideo 删除视频以及所有引用它的集合记录、观看历史和评论
func (s *Service) DeleteVideo(ctx context.Context, actorId, videoId int64) error {
	outcome := &cascadeOutcome{}
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		video, err := checkVideoEditor(ctx, tx, actorId, videoId)
		if err != nil {
			return err
		}
		outcome.addVideos(map[int64]*model.Video{video.VideoId: video})
		if err := tx.DeleteVideoReferences(ctx, outcome.videoIds); err != nil {
			return err
		}
		_, err = tx.DeleteVideos(ctx, outcome.videoIds)
		return err
	})
	if err != nil {
		return err
	}
	hlog.CtxInfof(ctx, "video %d deleted by user %d", videoId, actorId)
	s.afterCommit(ctx, nil, actorId)
	s.publishCleanup(ctx, cleanupDeleteVideo, outcome)
	return nil
}

func (s *Service) GetVideo(ctx context.Context, videoId int64) (*model.VideoDetail, error) {
	video, err := s.store.GetVideo(ctx, videoId)
	if err != nil {
		return nil, err
	}
	details, err := s.videoDetails(ctx, []*model.Video{video})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *Service) ListChannelVideos(ctx context.Context, channelId int64, pageNum, pageSize int) ([]*model.VideoDetail, error) {
	if _, err := s.store.GetChannel(ctx, channelId); err != nil {
		return nil, err
	}
	videos, err := s.store.ListChannelVideos(ctx, channelId, pageNum, pageSize)
	if err != nil {
		return nil, err
	}
	return s.videoDetails(ctx, videos)
}

// videoDetails 批量补全视频的频道和上传者信息
func (s *Service) videoDetails(ctx context.Context, videos []*model.Video) ([]*model.VideoDetail, error) {
	channelIds := make([]int64, 0, len(videos))
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
	res := make([]*model.VideoDetail, 0, len(videos))
	for _, v := range videos {
		res = append(res, &model.VideoDetail{Video: v, Channel: channels[v.ChannelId].Summary(), Uploader: uploaders[v.UploaderId].Summary()})
	}
	return res, nil
}
