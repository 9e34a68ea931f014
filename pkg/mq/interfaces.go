package mq

import "context"

// Publisher 消息生产者接口。发布失败不影响已经提交的业务操作
type Publisher interface {
	PublishEngagementEvent(ctx context.Context, event *EngagementEvent) error
	PublishMediaCleanupEvent(ctx context.Context, event *MediaCleanupEvent) error
}

// NopPublisher 未配置 RabbitMQ 时使用，丢弃所有事件
type NopPublisher struct{}

func (NopPublisher) PublishEngagementEvent(context.Context, *EngagementEvent) error {
	return nil
}

func (NopPublisher) PublishMediaCleanupEvent(context.Context, *MediaCleanupEvent) error {
	return nil
}

// 确保Producer实现Publisher接口
var (
	_ Publisher = (*Producer)(nil)
	_ Publisher = NopPublisher{}
)
