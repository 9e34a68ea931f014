package service

import "ViewTube.com/cmd/model"

// EngagementResult 互动操作的返回，Profile 总是提交之后重新投影得到的
type EngagementResult struct {
	Message      string
	Added        bool // 操作之后目标是否在集合中
	Subscribed   bool
	WatchHistory []*model.HistoryEntry
	Profile      *model.Profile
}
