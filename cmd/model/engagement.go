package model

// 用户的互动集合。每个集合是一张以 (user_id, 目标id) 为联合主键的关系表，
// 主键保证同一个用户对同一目标最多一条记录

type LikedVideo struct {
	UserId    int64 `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	VideoId   int64 `gorm:"column:video_id;primaryKey;autoIncrement:false;index"`
	CreatedAt int64 `gorm:"column:created_at;autoCreateTime:milli"`
}

func (LikedVideo) TableName() string { return "user_liked_videos" }

type DislikedVideo struct {
	UserId    int64 `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	VideoId   int64 `gorm:"column:video_id;primaryKey;autoIncrement:false;index"`
	CreatedAt int64 `gorm:"column:created_at;autoCreateTime:milli"`
}

func (DislikedVideo) TableName() string { return "user_disliked_videos" }

type Subscription struct {
	UserId    int64 `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	ChannelId int64 `gorm:"column:channel_id;primaryKey;autoIncrement:false;index"`
	CreatedAt int64 `gorm:"column:created_at;autoCreateTime:milli"`
}

func (Subscription) TableName() string { return "user_subscriptions" }

type WatchLater struct {
	UserId    int64 `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	VideoId   int64 `gorm:"column:video_id;primaryKey;autoIncrement:false;index"`
	CreatedAt int64 `gorm:"column:created_at;autoCreateTime:milli"`
}

func (WatchLater) TableName() string { return "user_watch_later" }

// WatchHistory 每个 (用户, 视频) 只有一条，重复观看只刷新 WatchedAt
type WatchHistory struct {
	UserId    int64 `gorm:"column:user_id;primaryKey;autoIncrement:false"`
	VideoId   int64 `gorm:"column:video_id;primaryKey;autoIncrement:false;index"`
	WatchedAt int64 `gorm:"column:watched_at;index"` // unix 毫秒
}

func (WatchHistory) TableName() string { return "user_watch_history" }
