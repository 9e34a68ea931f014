package model

import "time"

// User 用户记录。Password 只在存储层可见，序列化时永远不会输出
type User struct {
	UserId    int64     `gorm:"column:user_id;primaryKey;autoIncrement:false" json:"userId,string"`
	UserName  string    `gorm:"column:user_name;size:64;uniqueIndex" json:"userName"`
	Email     string    `gorm:"column:email;size:128" json:"email"`
	Password  string    `gorm:"column:password;size:128" json:"-"`
	AvatarUrl string    `gorm:"column:avatar_url;size:512" json:"avatarUrl"`
	ChannelId int64     `gorm:"column:channel_id;index" json:"channelId,string"` // 0 表示还没有频道
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

// UserSummary 视频上传者的精简信息
type UserSummary struct {
	UserId    int64  `json:"userId,string"`
	UserName  string `json:"userName"`
	AvatarUrl string `json:"avatarUrl"`
}

func (u *User) Summary() *UserSummary {
	if u == nil {
		return nil
	}
	return &UserSummary{UserId: u.UserId, UserName: u.UserName, AvatarUrl: u.AvatarUrl}
}

// Channel 频道，每个用户最多拥有一个
type Channel struct {
	ChannelId   int64     `gorm:"column:channel_id;primaryKey;autoIncrement:false" json:"channelId,string"`
	OwnerId     int64     `gorm:"column:owner_id;uniqueIndex" json:"ownerId,string"`
	Name        string    `gorm:"column:name;size:128" json:"name"`
	Description string    `gorm:"column:description;type:text" json:"description"`
	BannerUrl   string    `gorm:"column:banner_url;size:512" json:"bannerUrl"`
	Subscribers int64     `gorm:"column:subscribers;not null;default:0" json:"subscribers"`
	DeleteKey   string    `gorm:"column:delete_key;size:128" json:"-"` // bcrypt 后的删除凭证
	CreatedAt   time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Channel) TableName() string {
	return "channels"
}

// ChannelSummary 嵌入在视频中的频道信息
type ChannelSummary struct {
	ChannelId   int64  `json:"channelId,string"`
	Name        string `json:"name"`
	BannerUrl   string `json:"bannerUrl"`
	Subscribers int64  `json:"subscribers"`
}

func (c *Channel) Summary() *ChannelSummary {
	if c == nil {
		return nil
	}
	return &ChannelSummary{ChannelId: c.ChannelId, Name: c.Name, BannerUrl: c.BannerUrl, Subscribers: c.Subscribers}
}
