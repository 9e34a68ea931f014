package service

import (
	"context"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/mq"
)

// UpsertWatchHistory 记录一次观看。同一视频只保留一条历史，
// 只有第一次写入历史时 views 加1，重复观看只刷新时间
func (s *Service) UpsertWatchHistory(ctx context.Context, actorId, videoId int64) (*EngagementResult, error) {
	var firstWatch bool
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		if _, err := tx.GetUserForUpdate(ctx, actorId); err != nil {
			return err
		}
		exists, err := tx.VideoExists(ctx, videoId)
		if err != nil {
			return err
		}
		if !exists {
			return errno.NotFoundErr.WithMessage("video not found")
		}

		now := s.now().UnixMilli()
		entry, err := tx.GetHistory(ctx, actorId, videoId)
		if err != nil {
			return err
		}
		if entry != nil {
			return tx.TouchHistory(ctx, actorId, videoId, now)
		}
		if err := tx.InsertHistory(ctx, actorId, videoId, now); err != nil {
			return err
		}
		firstWatch = true
		return incrVideoCounter(ctx, tx, videoId, db.CounterViews)
	})
	if err != nil {
		return nil, err
	}

	action := mq.ActionRewatch
	if firstWatch {
		action = mq.ActionWatch
	}
	s.afterCommit(ctx, []*mq.EngagementEvent{s.event(actorId, videoId, action)}, actorId)

	profile, err := s.Project(ctx, actorId)
	if err != nil {
		return nil, err
	}
	return &EngagementResult{
		Message:      "Added to watch history",
		Added:        firstWatch,
		WatchHistory: profile.WatchHistory,
		Profile:      profile,
	}, nil
}

// RemoveWatchHistory 删除一条历史，views 不回退
func (s *Service) RemoveWatchHistory(ctx context.Context, actorId, videoId int64) (*EngagementResult, error) {
	var removed bool
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		if _, err := tx.GetUserForUpdate(ctx, actorId); err != nil {
			return err
		}
		var err error
		removed, err = tx.RemoveHistory(ctx, actorId, videoId)
		return err
	})
	if err != nil {
		return nil, err
	}
	if removed {
		s.afterCommit(ctx, []*mq.EngagementEvent{s.event(actorId, videoId, mq.ActionHistoryRemove)}, actorId)
	}

	profile, err := s.Project(ctx, actorId)
	if err != nil {
		return nil, err
	}
	return &EngagementResult{Message: "Removed from watch history", Profile: profile, WatchHistory: profile.WatchHistory}, nil
}
