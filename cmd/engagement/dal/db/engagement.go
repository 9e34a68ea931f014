package db

import (
	"context"

	"github.com/pkg/errors"

	"ViewTube.com/cmd/model"
)

// Set 标识一个用户互动集合
type Set int

const (
	SetLiked Set = iota
	SetDisliked
	SetWatchLater
	SetSubscriptions
)

func (s Set) String() string {
	switch s {
	case SetLiked:
		return "likedVideos"
	case SetDisliked:
		return "dislikedVideos"
	case SetWatchLater:
		return "watchLater"
	case SetSubscriptions:
		return "subscribedChannels"
	default:
		return "unknown"
	}
}

// table 返回集合对应的模型以及目标列名
func (s Set) table() (interface{}, string) {
	switch s {
	case SetLiked:
		return &model.LikedVideo{}, "video_id"
	case SetDisliked:
		return &model.DislikedVideo{}, "video_id"
	case SetWatchLater:
		return &model.WatchLater{}, "video_id"
	default:
		return &model.Subscription{}, "channel_id"
	}
}

func (s Set) row(userId, targetId int64) interface{} {
	switch s {
	case SetLiked:
		return &model.LikedVideo{UserId: userId, VideoId: targetId}
	case SetDisliked:
		return &model.DislikedVideo{UserId: userId, VideoId: targetId}
	case SetWatchLater:
		return &model.WatchLater{UserId: userId, VideoId: targetId}
	default:
		return &model.Subscription{UserId: userId, ChannelId: targetId}
	}
}

// HasMember 判断 targetId 是否在用户的集合中
func (s *Store) HasMember(ctx context.Context, set Set, userId, targetId int64) (bool, error) {
	m, col := set.table()
	var count int64
	if err := s.conn(ctx).Model(m).Where("user_id = ? AND "+col+" = ?", userId, targetId).Count(&count).Error; err != nil {
		return false, errors.Wrapf(err, "HasMember failed, set: %s, userId: %d", set, userId)
	}
	return count > 0, nil
}

// AddMember 写入一条集合记录，createdAt 为 unix 毫秒
func (s *Store) AddMember(ctx context.Context, set Set, userId, targetId, createdAt int64) error {
	row := set.row(userId, targetId)
	switch r := row.(type) {
	case *model.LikedVideo:
		r.CreatedAt = createdAt
	case *model.DislikedVideo:
		r.CreatedAt = createdAt
	case *model.WatchLater:
		r.CreatedAt = createdAt
	case *model.Subscription:
		r.CreatedAt = createdAt
	}
	if err := s.conn(ctx).Create(row).Error; err != nil {
		return errors.Wrapf(err, "AddMember failed, set: %s, userId: %d, targetId: %d", set, userId, targetId)
	}
	return nil
}

// RemoveMember 删除一条集合记录，返回是否真的删除了
func (s *Store) RemoveMember(ctx context.Context, set Set, userId, targetId int64) (bool, error) {
	m, col := set.table()
	res := s.conn(ctx).Where("user_id = ? AND "+col+" = ?", userId, targetId).Delete(m)
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "RemoveMember failed, set: %s, userId: %d, targetId: %d", set, userId, targetId)
	}
	return res.RowsAffected > 0, nil
}

// ListMemberIds 返回用户集合中的目标id，最新加入的在前
func (s *Store) ListMemberIds(ctx context.Context, set Set, userId int64) ([]int64, error) {
	m, col := set.table()
	ids := make([]int64, 0)
	if err := s.conn(ctx).Model(m).Where("user_id = ?", userId).Order("created_at DESC, "+col+" DESC").Pluck(col, &ids).Error; err != nil {
		return nil, errors.Wrapf(err, "ListMemberIds failed, set: %s, userId: %d", set, userId)
	}
	return ids, nil
}

// CountMembersOf 统计有多少用户的集合包含 targetId
func (s *Store) CountMembersOf(ctx context.Context, set Set, targetId int64) (int64, error) {
	m, col := set.table()
	var count int64
	if err := s.conn(ctx).Model(m).Where(col+" = ?", targetId).Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "CountMembersOf failed, set: %s, targetId: %d", set, targetId)
	}
	return count, nil
}

// DeleteMembersOfTargets 删除所有指向 targetIds 的集合记录
func (s *Store) DeleteMembersOfTargets(ctx context.Context, set Set, targetIds []int64) error {
	if len(targetIds) == 0 {
		return nil
	}
	m, col := set.table()
	if err := s.conn(ctx).Where(col+" IN ?", targetIds).Delete(m).Error; err != nil {
		return errors.Wrapf(err, "DeleteMembersOfTargets failed, set: %s", set)
	}
	return nil
}

// DeleteMembersOfUser 清空用户的某个集合
func (s *Store) DeleteMembersOfUser(ctx context.Context, set Set, userId int64) error {
	m, _ := set.table()
	if err := s.conn(ctx).Where("user_id = ?", userId).Delete(m).Error; err != nil {
		return errors.Wrapf(err, "DeleteMembersOfUser failed, set: %s, userId: %d", set, userId)
	}
	return nil
}

// 观看历史

func (s *Store) GetHistory(ctx context.Context, userId, videoId int64) (*model.WatchHistory, error) {
	var rows []*model.WatchHistory
	if err := s.conn(ctx).Where("user_id = ? AND video_id = ?", userId, videoId).Limit(1).Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "GetHistory failed, userId: %d, videoId: %d", userId, videoId)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (s *Store) InsertHistory(ctx context.Context, userId, videoId, watchedAt int64) error {
	row := &model.WatchHistory{UserId: userId, VideoId: videoId, WatchedAt: watchedAt}
	if err := s.conn(ctx).Create(row).Error; err != nil {
		return errors.Wrapf(err, "InsertHistory failed, userId: %d, videoId: %d", userId, videoId)
	}
	return nil
}

func (s *Store) TouchHistory(ctx context.Context, userId, videoId, watchedAt int64) error {
	if err := s.conn(ctx).Model(&model.WatchHistory{}).Where("user_id = ? AND video_id = ?", userId, videoId).
		UpdateColumn("watched_at", watchedAt).Error; err != nil {
		return errors.Wrapf(err, "TouchHistory failed, userId: %d, videoId: %d", userId, videoId)
	}
	return nil
}

func (s *Store) RemoveHistory(ctx context.Context, userId, videoId int64) (bool, error) {
	res := s.conn(ctx).Where("user_id = ? AND video_id = ?", userId, videoId).Delete(&model.WatchHistory{})
	if res.Error != nil {
		return false, errors.Wrapf(res.Error, "RemoveHistory failed, userId: %d, videoId: %d", userId, videoId)
	}
	return res.RowsAffected > 0, nil
}

// ListHistory 按观看时间倒序返回
func (s *Store) ListHistory(ctx context.Context, userId int64) ([]*model.WatchHistory, error) {
	var rows []*model.WatchHistory
	if err := s.conn(ctx).Where("user_id = ?", userId).Order("watched_at DESC, video_id DESC").Find(&rows).Error; err != nil {
		return nil, errors.Wrapf(err, "ListHistory failed, userId: %d", userId)
	}
	return rows, nil
}

func (s *Store) CountHistoryOf(ctx context.Context, videoId int64) (int64, error) {
	var count int64
	if err := s.conn(ctx).Model(&model.WatchHistory{}).Where("video_id = ?", videoId).Count(&count).Error; err != nil {
		return 0, errors.Wrapf(err, "CountHistoryOf failed, videoId: %d", videoId)
	}
	return count, nil
}

func (s *Store) DeleteHistoryOfVideos(ctx context.Context, videoIds []int64) error {
	if len(videoIds) == 0 {
		return nil
	}
	return errors.Wrap(s.conn(ctx).Where("video_id IN ?", videoIds).Delete(&model.WatchHistory{}).Error, "DeleteHistoryOfVideos failed")
}

func (s *Store) DeleteHistoryOfUser(ctx context.Context, userId int64) error {
	return errors.Wrapf(s.conn(ctx).Where("user_id = ?", userId).Delete(&model.WatchHistory{}).Error, "DeleteHistoryOfUser failed, userId: %d", userId)
}

// DeleteVideoReferences 删除所有引用这些视频的集合记录、观看历史和评论
func (s *Store) DeleteVideoReferences(ctx context.Context, videoIds []int64) error {
	if len(videoIds) == 0 {
		return nil
	}
	for _, set := range []Set{SetLiked, SetDisliked, SetWatchLater} {
		if err := s.DeleteMembersOfTargets(ctx, set, videoIds); err != nil {
			return err
		}
	}
	if err := s.DeleteHistoryOfVideos(ctx, videoIds); err != nil {
		return err
	}
	return s.DeleteCommentsByVideos(ctx, videoIds)
}

// 对账

func (s *Store) RecordConsistencyCheck(ctx context.Context, check *model.DataConsistencyCheck) error {
	return errors.Wrap(s.conn(ctx).Create(check).Error, "RecordConsistencyCheck failed")
}

func (s *Store) ListConsistencyChecks(ctx context.Context, limit int) ([]*model.DataConsistencyCheck, error) {
	var checks []*model.DataConsistencyCheck
	if err := s.conn(ctx).Order("id DESC").Limit(limit).Find(&checks).Error; err != nil {
		return nil, errors.Wrap(err, "ListConsistencyChecks failed")
	}
	return checks, nil
}

// 事件审计

// InsertEngagementLog 写入审计记录，EventID 重复时视为已处理，返回 false
func (s *Store) InsertEngagementLog(ctx context.Context, log *model.EngagementLog) (bool, error) {
	var count int64
	if err := s.conn(ctx).Model(&model.EngagementLog{}).Where("event_id = ?", log.EventID).Count(&count).Error; err != nil {
		return false, errors.Wrap(err, "InsertEngagementLog failed")
	}
	if count > 0 {
		return false, nil
	}
	if err := s.conn(ctx).Create(log).Error; err != nil {
		return false, errors.Wrapf(err, "InsertEngagementLog failed, eventId: %s", log.EventID)
	}
	return true, nil
}
