package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ViewTube.com/cmd/model"
)

func (s *Store) CreateChannel(ctx context.Context, channel *model.Channel) error {
	if err := s.conn(ctx).Create(channel).Error; err != nil {
		return errors.Wrapf(err, "CreateChannel failed, ownerId: %d", channel.OwnerId)
	}
	return nil
}

func (s *Store) GetChannel(ctx context.Context, channelId int64) (*model.Channel, error) {
	var channel model.Channel
	if err := s.conn(ctx).Where("channel_id = ?", channelId).First(&channel).Error; err != nil {
		return nil, notFound(err, "channel not found", "GetChannel failed, channelId: %d", channelId)
	}
	return &channel, nil
}

// GetChannelByOwner 返回用户拥有的频道，没有时返回 (nil, nil)
func (s *Store) GetChannelByOwner(ctx context.Context, ownerId int64) (*model.Channel, error) {
	var channels []*model.Channel
	if err := s.conn(ctx).Where("owner_id = ?", ownerId).Limit(1).Find(&channels).Error; err != nil {
		return nil, errors.Wrapf(err, "GetChannelByOwner failed, ownerId: %d", ownerId)
	}
	if len(channels) == 0 {
		return nil, nil
	}
	return channels[0], nil
}

func (s *Store) GetChannelsByIds(ctx context.Context, ids []int64) (map[int64]*model.Channel, error) {
	res := make(map[int64]*model.Channel, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	var channels []*model.Channel
	if err := s.conn(ctx).Where("channel_id IN ?", ids).Find(&channels).Error; err != nil {
		return nil, errors.Wrap(err, "GetChannelsByIds failed")
	}
	for _, c := range channels {
		res[c.ChannelId] = c
	}
	return res, nil
}

func (s *Store) UpdateChannel(ctx context.Context, channelId int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.conn(ctx).Model(&model.Channel{}).Where("channel_id = ?", channelId).Updates(fields).Error; err != nil {
		return errors.Wrapf(err, "UpdateChannel failed, channelId: %d", channelId)
	}
	return nil
}

// IncrChannelSubscribers 原子地调整订阅数，减少时不会低于0。返回受影响的行数
func (s *Store) IncrChannelSubscribers(ctx context.Context, channelId, delta int64) (int64, error) {
	q := s.conn(ctx).Model(&model.Channel{}).Where("channel_id = ?", channelId)
	if delta < 0 {
		q = q.Where("subscribers >= ?", -delta)
	}
	res := q.UpdateColumn("subscribers", gorm.Expr("subscribers + ?", delta))
	if res.Error != nil {
		return 0, errors.Wrapf(res.Error, "IncrChannelSubscribers failed, channelId: %d", channelId)
	}
	return res.RowsAffected, nil
}

func (s *Store) SetChannelSubscribers(ctx context.Context, channelId, value int64) error {
	if err := s.conn(ctx).Model(&model.Channel{}).Where("channel_id = ?", channelId).UpdateColumn("subscribers", value).Error; err != nil {
		return errors.Wrapf(err, "SetChannelSubscribers failed, channelId: %d", channelId)
	}
	return nil
}

func (s *Store) DeleteChannel(ctx context.Context, channelId int64) error {
	res := s.conn(ctx).Where("channel_id = ?", channelId).Delete(&model.Channel{})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "DeleteChannel failed, channelId: %d", channelId)
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "channel not found", "")
	}
	return nil
}

// ListChannelIds 按主键分页扫描频道，供对账使用
func (s *Store) ListChannelIds(ctx context.Context, afterId int64, limit int) ([]int64, error) {
	ids := make([]int64, 0, limit)
	if err := s.conn(ctx).Model(&model.Channel{}).Where("channel_id > ?", afterId).Order("channel_id").Limit(limit).Pluck("channel_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "ListChannelIds failed")
	}
	return ids, nil
}

// DecrChannelSubscribers 批量把若干频道的订阅数减1，用于注销账号时撤回该用户的订阅
func (s *Store) DecrChannelSubscribers(ctx context.Context, channelIds []int64) error {
	if len(channelIds) == 0 {
		return nil
	}
	if err := s.conn(ctx).Model(&model.Channel{}).Where("channel_id IN ? AND subscribers > 0", channelIds).
		UpdateColumn("subscribers", gorm.Expr("subscribers - 1")).Error; err != nil {
		return errors.Wrap(err, "DecrChannelSubscribers failed")
	}
	return nil
}

func (s *Store) GetChannelForUpdate(ctx context.Context, channelId int64) (*model.Channel, error) {
	var channel model.Channel
	if err := s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("channel_id = ?", channelId).First(&channel).Error; err != nil {
		return nil, notFound(err, "channel not found", "GetChannelForUpdate failed, channelId: %d", channelId)
	}
	return &channel, nil
}
