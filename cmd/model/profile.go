package model

// Profile 用户的完整视图：用户信息加上已解析的各个互动集合。
// 已被删除的引用会被跳过，数量记录在 Dangling 中
type Profile struct {
	*User
	LikedVideos        []*VideoDetail  `json:"likedVideos"`
	DislikedVideos     []*VideoDetail  `json:"dislikedVideos"`
	WatchLater         []*VideoDetail  `json:"watchLater"`
	SubscribedChannels []*Channel      `json:"subscribedChannels"`
	WatchHistory       []*HistoryEntry `json:"watchHistory"`
	Dangling           int             `json:"dangling,omitempty"`
}

// HistoryEntry 观看历史中的一条，WatchedAt 为 unix 毫秒
type HistoryEntry struct {
	Video     *VideoDetail `json:"video"`
	WatchedAt int64        `json:"watchedAt"`
}
