package model

import "time"

// DataConsistencyCheck 计数对账发现的不一致记录
type DataConsistencyCheck struct {
	ID           int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	CheckType    string     `gorm:"not null;size:50;index" json:"checkType"` // likes, dislikes, subscribers, views
	ResourceType string     `gorm:"not null;size:20" json:"resourceType"`    // video, channel
	ResourceID   int64      `gorm:"not null;index" json:"resourceId,string"`
	StoredValue  int64      `json:"storedValue"`
	DerivedValue int64      `json:"derivedValue"`
	IsConsistent bool       `gorm:"not null;index" json:"isConsistent"`
	Difference   string     `gorm:"type:text" json:"difference"`
	CheckTime    time.Time  `gorm:"not null;index" json:"checkTime"`
	FixedAt      *time.Time `json:"fixedAt"`
	CreatedAt    time.Time  `gorm:"not null" json:"createdAt"`
}

// TableName 指定表名
func (DataConsistencyCheck) TableName() string {
	return "data_consistency_checks"
}

// EngagementLog 互动事件的审计记录，由消息消费者写入
type EngagementLog struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EventID   string    `gorm:"not null;size:36;uniqueIndex" json:"eventId"`
	UserID    int64     `gorm:"not null;index" json:"userId,string"`
	TargetID  int64     `gorm:"not null;index" json:"targetId,string"`
	Action    string    `gorm:"not null;size:32;index" json:"action"`
	Timestamp int64     `gorm:"not null" json:"timestamp"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (EngagementLog) TableName() string {
	return "engagement_logs"
}

// AllModels 返回需要迁移的全部表
func AllModels() []interface{} {
	return []interface{}{
		&User{},
		&Channel{},
		&Video{},
		&Comment{},
		&LikedVideo{},
		&DislikedVideo{},
		&Subscription{},
		&WatchLater{},
		&WatchHistory{},
		&DataConsistencyCheck{},
		&EngagementLog{},
	}
}
