package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/cmd/model"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/utils"
)

type ChannelParams struct {
	Name        string
	Description string
	BannerUrl   string
	DeleteKey   string
}

type ChannelUpdate struct {
	Name        *string
	Description *string
	BannerUrl   *string
}

// CreateChannel 每个用户只能拥有一个频道，删除凭证以 bcrypt 形式保存
func (s *Service) CreateChannel(ctx context.Context, actorId int64, p ChannelParams) (*model.Channel, error) {
	hashedKey, err := utils.Crypt(p.DeleteKey)
	if err != nil {
		return nil, err
	}
	channel := &model.Channel{
		ChannelId:   utils.NextID(),
		OwnerId:     actorId,
		Name:        p.Name,
		Description: p.Description,
		BannerUrl:   p.BannerUrl,
		DeleteKey:   hashedKey,
	}
	err = s.store.Transaction(ctx, func(tx *db.Store) error {
		user, err := tx.GetUserForUpdate(ctx, actorId)
		if err != nil {
			return err
		}
		existing, err := tx.GetChannelByOwner(ctx, actorId)
		if err != nil {
			return err
		}
		if existing != nil || user.ChannelId != 0 {
			return errno.ConflictErr.WithMessage("User already has a channel")
		}
		if err := tx.CreateChannel(ctx, channel); err != nil {
			return err
		}
		return tx.SetUserChannel(ctx, actorId, channel.ChannelId)
	})
	if err != nil {
		return nil, err
	}
	hlog.CtxInfof(ctx, "channel %d created by user %d", channel.ChannelId, actorId)
	s.afterCommit(ctx, nil, actorId)
	return channel, nil
}

func (s *Service) UpdateChannel(ctx context.Context, actorId, channelId int64, u ChannelUpdate) (*model.Channel, error) {
	if _, err := s.CheckChannelOwner(ctx, actorId, channelId); err != nil {
		return nil, err
	}
	fields := make(map[string]interface{})
	if u.Name != nil {
		fields["name"] = *u.Name
	}
	if u.Description != nil {
		fields["description"] = *u.Description
	}
	if u.BannerUrl != nil {
		fields["banner_url"] = *u.BannerUrl
	}
	if err := s.store.UpdateChannel(ctx, channelId, fields); err != nil {
		return nil, err
	}
	return s.store.GetChannel(ctx, channelId)
}

func (s *Service) GetChannel(ctx context.Context, channelId int64) (*model.Channel, error) {
	return s.store.GetChannel(ctx, channelId)
}
