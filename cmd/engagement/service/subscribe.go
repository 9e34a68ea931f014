package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/mq"
)

// ToggleSubscribe 切换订阅。不能订阅自己，也不能订阅自己拥有的频道
func (s *Service) ToggleSubscribe(ctx context.Context, actorId, channelId int64) (*EngagementResult, error) {
	if actorId == channelId {
		return nil, errno.ForbiddenErr.WithMessage("You cannot subscribe to yourself")
	}

	var subscribed bool
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		if _, err := tx.GetUserForUpdate(ctx, actorId); err != nil {
			return err
		}
		channel, err := tx.GetChannel(ctx, channelId)
		if err != nil {
			return err
		}
		if channel.OwnerId == actorId {
			return errno.ForbiddenErr.WithMessage("You cannot subscribe to your own channel")
		}

		present, err := tx.HasMember(ctx, db.SetSubscriptions, actorId, channelId)
		if err != nil {
			return err
		}
		delta := int64(1)
		if present {
			delta = -1
			if _, err := tx.RemoveMember(ctx, db.SetSubscriptions, actorId, channelId); err != nil {
				return err
			}
		} else {
			if err := tx.AddMember(ctx, db.SetSubscriptions, actorId, channelId, s.now().UnixMilli()); err != nil {
				return err
			}
		}
		subscribed = !present

		if !s.syncSubscriberCount {
			return nil
		}
		rows, err := tx.IncrChannelSubscribers(ctx, channelId, delta)
		if err != nil {
			return err
		}
		if rows == 0 {
			if delta > 0 {
				return errno.NotFoundErr.WithMessage("channel not found")
			}
			hlog.CtxWarnf(ctx, "channel %d subscribers counter already zero", channelId)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &EngagementResult{Subscribed: subscribed, Added: subscribed, Message: "Unsubscribed"}
	action := mq.ActionUnsubscribe
	if subscribed {
		result.Message = "Subscribed"
		action = mq.ActionSubscribe
	}
	s.afterCommit(ctx, []*mq.EngagementEvent{s.event(actorId, channelId, action)}, actorId)

	if result.Profile, err = s.Project(ctx, actorId); err != nil {
		return nil, err
	}
	return result, nil
}
