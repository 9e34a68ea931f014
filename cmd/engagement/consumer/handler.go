package consumer

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/cmd/model"
	"ViewTube.com/pkg/mq"
)

// MediaRemover 删除媒体对象，由 pkg/oss 实现
type MediaRemover interface {
	RemoveMedia(ctx context.Context, urls []string) error
}

// Handler 处理互动事件和媒体清理事件
type Handler struct {
	store *db.Store
	media MediaRemover
}

func NewHandler(store *db.Store, media MediaRemover) *Handler {
	return &Handler{store: store, media: media}
}

// HandleEngagementEvent 把事件写入审计表。重复投递的事件按 EventID 去重
func (h *Handler) HandleEngagementEvent(ctx context.Context, event *mq.EngagementEvent) error {
	inserted, err := h.store.InsertEngagementLog(ctx, &model.EngagementLog{
		EventID:   event.EventID,
		UserID:    event.UserID,
		TargetID:  event.TargetID,
		Action:    event.Action,
		Timestamp: event.Timestamp,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return err
	}
	if !inserted {
		hlog.CtxDebugf(ctx, "engagement event %s already processed", event.EventID)
	}
	return nil
}

// HandleMediaCleanupEvent 删除级联删除后遗留的媒体对象。没有配置对象存储时直接确认
func (h *Handler) HandleMediaCleanupEvent(ctx context.Context, event *mq.MediaCleanupEvent) error {
	if h.media == nil {
		hlog.CtxWarnf(ctx, "object storage is not configured, skip cleanup %s of %d objects", event.EventID, len(event.URLs))
		return nil
	}
	if err := h.media.RemoveMedia(ctx, event.URLs); err != nil {
		return err
	}
	hlog.CtxInfof(ctx, "media cleanup %s (%s) finished, videos: %v", event.EventID, event.Reason, event.VideoIDs)
	return nil
}

// Run 注册两个队列的消费者，消费在后台进行直到 ctx 结束
func Run(ctx context.Context, c *mq.Consumer, h *Handler) error {
	if err := c.ConsumeEngagementEvents(ctx, h); err != nil {
		return err
	}
	if err := c.ConsumeMediaCleanupEvents(ctx, h); err != nil {
		return err
	}
	hlog.Info("Engagement and media cleanup consumers started")
	return nil
}
