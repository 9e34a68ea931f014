package service

import (
	"context"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/mq"
)

type watchLaterMode int

const (
	watchLaterToggle watchLaterMode = iota
	watchLaterAdd
	watchLaterRemove
)

// ToggleWatchLater 稍后观看是纯集合操作，不涉及计数
func (s *Service) ToggleWatchLater(ctx context.Context, actorId, videoId int64) (*EngagementResult, error) {
	return s.watchLater(ctx, actorId, videoId, watchLaterToggle)
}

// AddWatchLater 已经在集合中时不做任何改变
func (s *Service) AddWatchLater(ctx context.Context, actorId, videoId int64) (*EngagementResult, error) {
	return s.watchLater(ctx, actorId, videoId, watchLaterAdd)
}

// RemoveWatchLater 移除不存在的条目不是错误。目标视频已被删除时同样可以移除
func (s *Service) RemoveWatchLater(ctx context.Context, actorId, videoId int64) (*EngagementResult, error) {
	return s.watchLater(ctx, actorId, videoId, watchLaterRemove)
}

func (s *Service) watchLater(ctx context.Context, actorId, videoId int64, mode watchLaterMode) (*EngagementResult, error) {
	var present, changed bool
	err := s.store.Transaction(ctx, func(tx *db.Store) error {
		if _, err := tx.GetUserForUpdate(ctx, actorId); err != nil {
			return err
		}
		var err error
		if present, err = tx.HasMember(ctx, db.SetWatchLater, actorId, videoId); err != nil {
			return err
		}

		remove := mode == watchLaterRemove || (mode == watchLaterToggle && present)
		if remove {
			changed, err = tx.RemoveMember(ctx, db.SetWatchLater, actorId, videoId)
			return err
		}
		if present {
			return nil
		}
		exists, err := tx.VideoExists(ctx, videoId)
		if err != nil {
			return err
		}
		if !exists {
			return errno.NotFoundErr.WithMessage("video not found")
		}
		if err := tx.AddMember(ctx, db.SetWatchLater, actorId, videoId, s.now().UnixMilli()); err != nil {
			return err
		}
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	added := present
	if changed {
		added = !present
	}
	result := &EngagementResult{Added: added, Message: "Removed from watch later"}
	action := mq.ActionWatchLaterRemove
	if added {
		result.Message = "Added to watch later"
		action = mq.ActionWatchLaterAdd
	}
	if changed {
		s.afterCommit(ctx, []*mq.EngagementEvent{s.event(actorId, videoId, action)}, actorId)
	}

	if result.Profile, err = s.Project(ctx, actorId); err != nil {
		return nil, err
	}
	return result, nil
}
