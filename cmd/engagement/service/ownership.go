package service

import (
	"context"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/cmd/model"
	"ViewTube.com/pkg/errno"
)

// CheckChannelOwner 频道不存在返回 NotFound，操作者不是所有者返回 Forbidden
func (s *Service) CheckChannelOwner(ctx context.Context, actorId, channelId int64) (*model.Channel, error) {
	return checkChannelOwner(ctx, s.store, actorId, channelId)
}

// CheckVideoEditor 视频的上传者或者所在频道的所有者可以修改视频
func (s *Service) CheckVideoEditor(ctx context.Context, actorId, videoId int64) (*model.Video, error) {
	return checkVideoEditor(ctx, s.store, actorId, videoId)
}

func checkChannelOwner(ctx context.Context, st *db.Store, actorId, channelId int64) (*model.Channel, error) {
	channel, err := st.GetChannel(ctx, channelId)
	if err != nil {
		return nil, err
	}
	if channel.OwnerId != actorId {
		return nil, errno.ForbiddenErr.WithMessage("You are not the owner of this channel")
	}
	return channel, nil
}

func checkVideoEditor(ctx context.Context, st *db.Store, actorId, videoId int64) (*model.Video, error) {
	video, err := st.GetVideo(ctx, videoId)
	if err != nil {
		return nil, err
	}
	if video.UploaderId == actorId {
		return video, nil
	}
	channel, err := st.GetChannelByOwner(ctx, actorId)
	if err != nil {
		return nil, err
	}
	if channel == nil || channel.ChannelId != video.ChannelId {
		return nil, errno.ForbiddenErr.WithMessage("You are not allowed to modify this video")
	}
	return video, nil
}
