package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/cmd/model"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/mq"
	"ViewTube.com/pkg/utils"
)

const (
	cleanupDeleteVideo   = "delete_video"
	cleanupDeleteChannel = "delete_channel"
	cleanupDeleteAccount = "delete_account"
)

// cascadeOutcome 级联删除涉及的视频以及需要清理的媒体地址
type cascadeOutcome struct {
	videoIds []int64
	urls     []string
}

func (o *cascadeOutcome) addVideos(videos map[int64]*model.Video) {
	for id, v := range videos {
		o.videoIds = append(o.videoIds, id)
		o.urls = appendURL(o.urls, v.VideoUrl, v.ThumbnailUrl)
	}
}

func appendURL(urls []string, candidates ...string) []string {
	for _, u := range candidates {
		if u != "" {
			urls = append(urls, u)
		}
	}
	return urls
}

// DeleteChannel 校验所有者和删除凭证之后级联删除频道。
// 数据库部分在一个事务中完成，失败时不会留下部分删除的状态
func (s *Service) DeleteChannel(ctx context.Context, actorId, channelId int64, deleteKey string) error {
	outcome := &cascadeOutcome{}
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		channel, err := checkChannelOwner(ctx, tx, actorId, channelId)
		if err != nil {
			return err
		}
		if !utils.VerifyPassword(deleteKey, channel.DeleteKey) {
			return errno.UnverifiedErr.WithMessage("Invalid delete key")
		}
		return cascadeChannel(ctx, tx, channel, outcome)
	})
	if err != nil {
		return err
	}

	hlog.CtxInfof(ctx, "channel %d deleted by user %d with %d videos", channelId, actorId, len(outcome.videoIds))
	s.afterCommit(ctx, nil, actorId)
	s.publishCleanup(ctx, cleanupDeleteChannel, outcome)
	return nil
}

// DeleteAccount 删除用户拥有的频道及其视频，撤回该用户对点赞、点踩、订阅计数的贡献，
// 最后删除用户本身。views 不回退
func (s *Service) DeleteAccount(ctx context.Context, actorId int64) error {
	outcome := &cascadeOutcome{}
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		user, err := tx.GetUserForUpdate(ctx, actorId)
		if err != nil {
			return err
		}
		channel, err := tx.GetChannelByOwner(ctx, actorId)
		if err != nil {
			return err
		}
		if channel != nil {
			if err := cascadeChannel(ctx, tx, channel, outcome); err != nil {
				return err
			}
		}

		liked, err := tx.ListMemberIds(ctx, db.SetLiked, actorId)
		if err != nil {
			return err
		}
		if err := tx.DecrVideoCounters(ctx, liked, db.CounterLikes); err != nil {
			return err
		}
		disliked, err := tx.ListMemberIds(ctx, db.SetDisliked, actorId)
		if err != nil {
			return err
		}
		if err := tx.DecrVideoCounters(ctx, disliked, db.CounterDislikes); err != nil {
			return err
		}
		if s.syncSubscriberCount {
			subscribed, err := tx.ListMemberIds(ctx, db.SetSubscriptions, actorId)
			if err != nil {
				return err
			}
			if err := tx.DecrChannelSubscribers(ctx, subscribed); err != nil {
				return err
			}
		}

		for _, set := range []db.Set{db.SetLiked, db.SetDisliked, db.SetWatchLater, db.SetSubscriptions} {
			if err := tx.DeleteMembersOfUser(ctx, set, actorId); err != nil {
				return err
			}
		}
		if err := tx.DeleteHistoryOfUser(ctx, actorId); err != nil {
			return err
		}
		if err := tx.DeleteCommentsByUser(ctx, actorId); err != nil {
			return err
		}
		outcome.urls = appendURL(outcome.urls, user.AvatarUrl)
		return tx.DeleteUser(ctx, actorId)
	})
	if err != nil {
		return err
	}

	hlog.CtxInfof(ctx, "account %d deleted with %d videos", actorId, len(outcome.videoIds))
	s.afterCommit(ctx, nil, actorId)
	s.publishCleanup(ctx, cleanupDeleteAccount, outcome)
	return nil
}

// cascadeChannel 按顺序删除：视频的所有引用、视频、对频道的订阅、所有者的频道引用、频道
func cascadeChannel(ctx context.Context, tx *db.Store, channel *model.Channel, outcome *cascadeOutcome) error {
	ids, err := tx.ListVideoIdsByChannel(ctx, channel.ChannelId)
	if err != nil {
		return err
	}
	videos, err := tx.GetVideosByIds(ctx, ids)
	if err != nil {
		return err
	}
	outcome.addVideos(videos)
	outcome.urls = appendURL(outcome.urls, channel.BannerUrl)

	if err := tx.DeleteVideoReferences(ctx, ids); err != nil {
		return err
	}
	if _, err := tx.DeleteVideos(ctx, ids); err != nil {
		return err
	}
	if err := tx.DeleteMembersOfTargets(ctx, db.SetSubscriptions, []int64{channel.ChannelId}); err != nil {
		return err
	}
	if err := tx.SetUserChannel(ctx, channel.OwnerId, 0); err != nil {
		return err
	}
	return tx.DeleteChannel(ctx, channel.ChannelId)
}

// publishCleanup 媒体对象在事务之外异步删除，失败只会留下孤立对象
func (s *Service) publishCleanup(ctx context.Context, reason string, outcome *cascadeOutcome) {
	if len(outcome.urls) == 0 {
		return
	}
	event := mq.NewMediaCleanupEvent(reason, outcome.videoIds, outcome.urls, s.now())
	if err := s.publisher.PublishMediaCleanupEvent(ctx, event); err != nil {
		hlog.CtxErrorf(ctx, "publish media cleanup %s failed, %d objects may be orphaned: %v", reason, len(outcome.urls), err)
	}
}
