package db

import (
	"context"

	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ViewTube.com/cmd/model"
)

const (
	CounterViews    = "views"
	CounterLikes    = "likes"
	CounterDislikes = "dislikes"
)

func (s *Store) CreateVideo(ctx context.Context, video *model.Video) error {
	if err := s.conn(ctx).Create(video).Error; err != nil {
		return errors.Wrapf(err, "CreateVideo failed, channelId: %d", video.ChannelId)
	}
	return nil
}

func (s *Store) GetVideo(ctx context.Context, videoId int64) (*model.Video, error) {
	var video model.Video
	if err := s.conn(ctx).Where("video_id = ?", videoId).First(&video).Error; err != nil {
		return nil, notFound(err, "video not found", "GetVideo failed, videoId: %d", videoId)
	}
	return &video, nil
}

func (s *Store) VideoExists(ctx context.Context, videoId int64) (bool, error) {
	var count int64
	if err := s.conn(ctx).Model(&model.Video{}).Where("video_id = ?", videoId).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "VideoExists failed, videoId: %d", videoId)
	}
	return count > 0, nil
}

func (s *Store) GetVideosByIds(ctx context.Context, ids []int64) (map[int64]*model.Video, error) {
	res := make(map[int64]*model.Video, len(ids))
	if len(ids) == 0 {
		return res, nil
	}
	var videos []*model.Video
	if err := s.conn(ctx).Where("video_id IN ?", ids).Find(&videos).Error; err != nil {
		return nil, errors.Wrap(err, "GetVideosByIds failed")
	}
	for _, v := range videos {
		res[v.VideoId] = v
	}
	return res, nil
}

func (s *Store) ListChannelVideos(ctx context.Context, channelId int64, pageNum, pageSize int) ([]*model.Video, error) {
	var videos []*model.Video
	if err := s.conn(ctx).Where("channel_id = ?", channelId).Order("created_at DESC, video_id DESC").
		Offset((pageNum - 1) * pageSize).Limit(pageSize).Find(&videos).Error; err != nil {
		return nil, errors.Wrapf(err, "ListChannelVideos failed, channelId: %d", channelId)
	}
	return videos, nil
}

func (s *Store) ListVideoIdsByChannel(ctx context.Context, channelId int64) ([]int64, error) {
	ids := make([]int64, 0)
	if err := s.conn(ctx).Model(&model.Video{}).Where("channel_id = ?", channelId).Pluck("video_id", &ids).Error; err != nil {
		return nil, errors.Wrapf(err, "ListVideoIdsByChannel failed, channelId: %d", channelId)
	}
	return ids, nil
}

// ListVideoIds 按主键分页扫描视频，供对账使用
func (s *Store) ListVideoIds(ctx context.Context, afterId int64, limit int) ([]int64, error) {
	ids := make([]int64, 0, limit)
	if err := s.conn(ctx).Model(&model.Video{}).Where("video_id > ?", afterId).Order("video_id").Limit(limit).Pluck("video_id", &ids).Error; err != nil {
		return nil, errors.Wrap(err, "ListVideoIds failed")
	}
	return ids, nil
}

func (s *Store) UpdateVideo(ctx context.Context, videoId int64, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	if err := s.conn(ctx).Model(&model.Video{}).Where("video_id = ?", videoId).Updates(fields).Error; err != nil {
		return errors.Wrapf(err, "UpdateVideo failed, videoId: %d", videoId)
	}
	return nil
}

// IncrVideoCounter 原子地调整视频计数，减少时不会低于0。返回受影响的行数，
// 为0说明视频不存在或者计数已经为0
func (s *Store) IncrVideoCounter(ctx context.Context, videoId int64, column string, delta int64) (int64, error) {
	switch column {
	case CounterViews, CounterLikes, CounterDislikes:
	default:
		return 0, errors.Errorf("unknown video counter %q", column)
	}
	q := s.conn(ctx).Model(&model.Video{}).Where("video_id = ?", videoId)
	if delta < 0 {
		q = q.Where(column+" >= ?", -delta)
	}
	res := q.UpdateColumn(column, gorm.Expr(column+" + ?", delta))
	if res.Error != nil {
		return 0, errors.Wrapf(res.Error, "IncrVideoCounter failed, videoId: %d, column: %s", videoId, column)
	}
	return res.RowsAffected, nil
}

// DecrVideoCounters 批量把若干视频的某个计数减1，用于注销账号时撤回该用户的贡献
func (s *Store) DecrVideoCounters(ctx context.Context, videoIds []int64, column string) error {
	if len(videoIds) == 0 {
		return nil
	}
	switch column {
	case CounterLikes, CounterDislikes:
	default:
		return errors.Errorf("counter %q can not be reversed", column)
	}
	if err := s.conn(ctx).Model(&model.Video{}).Where("video_id IN ? AND "+column+" > 0", videoIds).
		UpdateColumn(column, gorm.Expr(column+" - 1")).Error; err != nil {
		return errors.Wrapf(err, "DecrVideoCounters failed, column: %s", column)
	}
	return nil
}

func (s *Store) SetVideoCounters(ctx context.Context, videoId int64, fields map[string]interface{}) error {
	if err := s.conn(ctx).Model(&model.Video{}).Where("video_id = ?", videoId).UpdateColumns(fields).Error; err != nil {
		return errors.Wrapf(err, "SetVideoCounters failed, videoId: %d", videoId)
	}
	return nil
}

// DeleteVideos 删除给定的视频，返回删除的行数
func (s *Store) DeleteVideos(ctx context.Context, videoIds []int64) (int64, error) {
	if len(videoIds) == 0 {
		return 0, nil
	}
	res := s.conn(ctx).Where("video_id IN ?", videoIds).Delete(&model.Video{})
	if res.Error != nil {
		return 0, errors.Wrap(res.Error, "DeleteVideos failed")
	}
	return res.RowsAffected, nil
}

// GetVideoForUpdate 锁住视频行，对账期间该视频的计数更新会排队等待
func (s *Store) GetVideoForUpdate(ctx context.Context, videoId int64) (*model.Video, error) {
	var video model.Video
	if err := s.conn(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).Where("video_id = ?", videoId).First(&video).Error; err != nil {
		return nil, notFound(err, "video not found", "GetVideoForUpdate failed, videoId: %d", videoId)
	}
	return &video, nil
}
