package mq

import (
	"time"

	"github.com/google/uuid"
)

// 互动动作
const (
	ActionLike             = "like"
	ActionUnlike           = "unlike"
	ActionDislike          = "dislike"
	ActionUndislike        = "undislike"
	ActionSubscribe        = "subscribe"
	ActionUnsubscribe      = "unsubscribe"
	ActionWatchLaterAdd    = "watch_later_add"
	ActionWatchLaterRemove = "watch_later_remove"
	ActionWatch            = "watch"
	ActionRewatch          = "rewatch"
	ActionHistoryRemove    = "history_remove"
)

// EngagementEvent 互动状态变更事件，在事务提交之后发布
type EngagementEvent struct {
	EventID   string `json:"event_id"`  // 事件ID
	UserID    int64  `json:"user_id"`   // 操作用户ID
	TargetID  int64  `json:"target_id"` // 视频ID或频道ID
	Action    string `json:"action"`
	Timestamp int64  `json:"timestamp"` // unix 毫秒
}

// MediaCleanupEvent 级联删除后需要清理的媒体对象
type MediaCleanupEvent struct {
	EventID   string   `json:"event_id"`
	Reason    string   `json:"reason"` // delete_video, delete_channel, delete_account
	VideoIDs  []int64  `json:"video_ids"`
	URLs      []string `json:"urls"`
	Timestamp int64    `json:"timestamp"`
}

func NewEngagementEvent(userId, targetId int64, action string, now time.Time) *EngagementEvent {
	return &EngagementEvent{
		EventID:   uuid.NewString(),
		UserID:    userId,
		TargetID:  targetId,
		Action:    action,
		Timestamp: now.UnixMilli(),
	}
}

func NewMediaCleanupEvent(reason string, videoIds []int64, urls []string, now time.Time) *MediaCleanupEvent {
	return &MediaCleanupEvent{
		EventID:   uuid.NewString(),
		Reason:    reason,
		VideoIDs:  videoIds,
		URLs:      urls,
		Timestamp: now.UnixMilli(),
	}
}

// 常量定义
const (
	// 交换机名称
	EngagementEventExchange   = "engagement_events"
	MediaCleanupEventExchange = "media_cleanup_events"

	// 队列名称
	EngagementEventQueue   = "engagement_event_queue"
	MediaCleanupEventQueue = "media_cleanup_event_queue"
)
