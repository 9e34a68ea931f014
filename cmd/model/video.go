package model

import "time"

// Video 的 Views/Likes/Dislikes 是冗余计数，应当等于所有用户对应集合推导出的数量
type Video struct {
	VideoId      int64     `gorm:"column:video_id;primaryKey;autoIncrement:false" json:"videoId,string"`
	ChannelId    int64     `gorm:"column:channel_id;index" json:"channelId,string"`
	UploaderId   int64     `gorm:"column:uploader_id;index" json:"uploaderId,string"`
	Title        string    `gorm:"column:title;size:255" json:"title"`
	Description  string    `gorm:"column:description;type:text" json:"description"`
	VideoUrl     string    `gorm:"column:video_url;size:512" json:"videoUrl"`
	ThumbnailUrl string    `gorm:"column:thumbnail_url;size:512" json:"thumbnailUrl"`
	Category     string    `gorm:"column:category;size:64;index" json:"category"`
	Views        int64     `gorm:"column:views;not null;default:0" json:"views"`
	Likes        int64     `gorm:"column:likes;not null;default:0" json:"likes"`
	Dislikes     int64     `gorm:"column:dislikes;not null;default:0" json:"dislikes"`
	CreatedAt    time.Time `gorm:"column:created_at" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updatedAt"`
}

func (Video) TableName() string {
	return "videos"
}

// VideoDetail 带有频道和上传者信息的视频
type VideoDetail struct {
	*Video
	Channel  *ChannelSummary `json:"channel"`
	Uploader *UserSummary    `json:"uploader"`
}

type Comment struct {
	CommentId int64     `gorm:"column:comment_id;primaryKey;autoIncrement:false" json:"commentId,string"`
	VideoId   int64     `gorm:"column:video_id;index" json:"videoId,string"`
	UserId    int64     `gorm:"column:user_id;index" json:"userId,string"`
	Content   string    `gorm:"column:content;type:text" json:"text"`
	CreatedAt time.Time `gorm:"column:created_at" json:"createdAt"`
}

func (Comment) TableName() string {
	return "comments"
}
