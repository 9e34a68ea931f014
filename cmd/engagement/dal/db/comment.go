package db

import (
	"context"

	"github.com/pkg/errors"

	"ViewTube.com/cmd/model"
)

func (s *Store) CreateComment(ctx context.Context, comment *model.Comment) error {
	return errors.Wrap(s.conn(ctx).Create(comment).Error, "CreateComment failed")
}

// 获取某一条评论的全部信息
func (s *Store) GetComment(ctx context.Context, commentId int64) (*model.Comment, error) {
	var comment model.Comment
	if err := s.conn(ctx).Where("comment_id = ?", commentId).First(&comment).Error; err != nil {
		return nil, notFound(err, "comment not found", "GetComment failed, commentId: %d", commentId)
	}
	return &comment, nil
}

// 获取视频的评论列表
func (s *Store) ListVideoComments(ctx context.Context, videoId int64, pageNum, pageSize int) ([]*model.Comment, error) {
	var comments []*model.Comment
	if err := s.conn(ctx).Where("video_id = ?", videoId).Order("created_at DESC, comment_id DESC").
		Offset((pageNum - 1) * pageSize).Limit(pageSize).Find(&comments).Error; err != nil {
		return nil, errors.Wrapf(err, "ListVideoComments failed, videoId: %d", videoId)
	}
	return comments, nil
}

func (s *Store) DeleteComment(ctx context.Context, commentId int64) error {
	if err := s.conn(ctx).Where("comment_id = ?", commentId).Delete(&model.Comment{}).Error; err != nil {
		return errors.Wrapf(err, "DeleteComment failed, commentId: %d", commentId)
	}
	return nil
}

func (s *Store) DeleteCommentsByVideos(ctx context.Context, videoIds []int64) error {
	if len(videoIds) == 0 {
		return nil
	}
	return errors.Wrap(s.conn(ctx).Where("video_id IN ?", videoIds).Delete(&model.Comment{}).Error, "DeleteCommentsByVideos failed")
}

func (s *Store) DeleteCommentsByUser(ctx context.Context, userId int64) error {
	return errors.Wrapf(s.conn(ctx).Where("user_id = ?", userId).Delete(&model.Comment{}).Error, "DeleteCommentsByUser failed, userId: %d", userId)
}
