package service

import (
	"context"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/mq"
)

// reaction 描述点赞和点踩这一对互斥集合中的一方
type reaction struct {
	set             db.Set
	opposite        db.Set
	counter         string
	oppositeCounter string
	addedMsg        string
	removedMsg      string
	addAction       string
	removeAction    string
	oppositeRemoved string
}

var (
	likeReaction = reaction{
		set:             db.SetLiked,
		opposite:        db.SetDisliked,
		counter:         db.CounterLikes,
		oppositeCounter: db.CounterDislikes,
		addedMsg:        "Video liked",
		removedMsg:      "Like removed",
		addAction:       mq.ActionLike,
		removeAction:    mq.ActionUnlike,
		oppositeRemoved: mq.ActionUndislike,
	}
	dislikeReaction = reaction{
		set:             db.SetDisliked,
		opposite:        db.SetLiked,
		counter:         db.CounterDislikes,
		oppositeCounter: db.CounterLikes,
		addedMsg:        "Video disliked",
		removedMsg:      "Dislike removed",
		addAction:       mq.ActionDislike,
		removeAction:    mq.ActionUndislike,
		oppositeRemoved: mq.ActionUnlike,
	}
)

// ToggleLike 切换点赞。加入点赞时如果已经点踩，会同时撤销点踩
func (s *Service) ToggleLike(ctx context.Context, actorId, videoId int64) (*EngagementResult, error) {
	return s.toggleReaction(ctx, actorId, videoId, likeReaction)
}

// ToggleDislike 切换点踩，与 ToggleLike 对称
func (s *Service) ToggleDislike(ctx context.Context, actorId, videoId int64) (*EngagementResult, error) {
	return s.toggleReaction(ctx, actorId, videoId, dislikeReaction)
}

func (s *Service) toggleReaction(ctx context.Context, actorId, videoId int64, r reaction) (*EngagementResult, error) {
	var added, oppositeRemoved bool
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

		present, err := tx.HasMember(ctx, r.set, actorId, videoId)
		if err != nil {
			return err
		}
		if present {
			if _, err := tx.RemoveMember(ctx, r.set, actorId, videoId); err != nil {
				return err
			}
			return s.decrVideoCounter(ctx, tx, videoId, r.counter)
		}

		if err := tx.AddMember(ctx, r.set, actorId, videoId, s.now().UnixMilli()); err != nil {
			return err
		}
		if err := incrVideoCounter(ctx, tx, videoId, r.counter); err != nil {
			return err
		}
		oppositeRemoved, err = tx.RemoveMember(ctx, r.opposite, actorId, videoId)
		if err != nil {
			return err
		}
		if oppositeRemoved {
			if err := s.decrVideoCounter(ctx, tx, videoId, r.oppositeCounter); err != nil {
				return err
			}
		}
		added = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	result := &EngagementResult{Added: added, Message: r.removedMsg}
	events := []*mq.EngagementEvent{s.event(actorId, videoId, r.removeAction)}
	if added {
		result.Message = r.addedMsg
		events[0] = s.event(actorId, videoId, r.addAction)
		if oppositeRemoved {
			events = append(events, s.event(actorId, videoId, r.oppositeRemoved))
		}
	}
	s.afterCommit(ctx, events, actorId)

	if result.Profile, err = s.Project(ctx, actorId); err != nil {
		return nil, err
	}
	return result, nil
}

// incrVideoCounter 没有更新到任何行说明视频在校验之后被并发删除，回滚整个事务
func incrVideoCounter(ctx context.Context, tx *db.Store, videoId int64, column string) error {
	rows, err := tx.IncrVideoCounter(ctx, videoId, column, 1)
	if err != nil {
		return err
	}
	if rows == 0 {
		return errno.NotFoundErr.WithMessage("video not found")
	}
	return nil
}

// decrVideoCounter 计数已经为0时不再减少，只记录漂移，交给对账修正
func (s *Service) decrVideoCounter(ctx context.Context, tx *db.Store, videoId int64, column string) error {
	rows, err := tx.IncrVideoCounter(ctx, videoId, column, -1)
	if err != nil {
		return err
	}
	if rows == 0 {
		hlog.CtxWarnf(ctx, "video %d %s counter already zero, membership and counter drifted", videoId, column)
	}
	return nil
}
