package service

import (
	"context"

	"ViewTube.com/cmd/model"
	"ViewTube.com/pkg/errno"
	"ViewTube.com/pkg/utils"
)

func (s *Service) CreateComment(ctx context.Context, actorId, videoId int64, text string) (*model.Comment, error) {
	exists, err := s.store.VideoExists(ctx, videoId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errno.NotFoundErr.WithMessage("video not found")
	}
	comment := &model.Comment{
		CommentId: utils.NextID(),
		VideoId:   videoId,
		UserId:    actorId,
		Content:   text,
	}
	if err := s.store.CreateComment(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *Service) ListComments(ctx context.Context, videoId int64, pageNum, pageSize int) ([]*model.Comment, error) {
	exists, err := s.store.VideoExists(ctx, videoId)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, errno.NotFoundErr.WithMessage("video not found")
	}
	return s.store.ListVideoComments(ctx, videoId, pageNum, pageSize)
}

// DeleteComment 评论作者或者视频的编辑者可以删除评论
func (s *Service) DeleteComment(ctx context.Context, actorId, commentId int64) error {
	comment, err := s.store.GetComment(ctx, commentId)
	if err != nil {
		return err
	}
	if comment.UserId != actorId {
		if _, err := s.CheckVideoEditor(ctx, actorId, comment.VideoId); err != nil {
			return err
		}
	}
	return s.store.DeleteComment(ctx, commentId)
}
