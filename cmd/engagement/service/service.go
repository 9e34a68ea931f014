package service

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/cmd/model"
	"ViewTube.com/pkg/mq"
)

// ProfileCache 用户视图缓存，未命中时 Get 返回 (nil, nil)
type ProfileCache interface {
	Get(ctx context.Context, userId int64) (*model.Profile, error)
	Set(ctx context.Context, profile *model.Profile) error
	Invalidate(ctx context.Context, userIds ...int64) error
}

// Service 聚合互动同步、用户视图投影、级联删除以及实体的增删改查。
// 所有方法都假设入参已经在接入层校验过
type Service struct {
	store     *db.Store
	cache     ProfileCache
	publisher mq.Publisher
	now       func() time.Time

	syncSubscriberCount bool
}

type Option func(s *Service)

func WithCache(cache ProfileCache) Option {
	return func(s *Service) { s.cache = cache }
}

func WithPublisher(p mq.Publisher) Option {
	return func(s *Service) {
		if p != nil {
			s.publisher = p
		}
	}
}

// WithClock 替换时间来源，测试中用来得到确定的观看时间
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithSyncSubscriberCount 为 false 时订阅切换不再维护频道的 subscribers 计数
func WithSyncSubscriberCount(sync bool) Option {
	return func(s *Service) { s.syncSubscriberCount = sync }
}

func New(store *db.Store, opts ...Option) *Service {
	s := &Service{
		store:               store,
		publisher:           mq.NopPublisher{},
		now:                 time.Now,
		syncSubscriberCount: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Store() *db.Store {
	return s.store
}

// afterCommit 执行提交后的附带动作：删除缓存的用户视图并发布事件。失败只记录日志
func (s *Service) afterCommit(ctx context.Context, events []*mq.EngagementEvent, invalidate ...int64) {
	if s.cache != nil && len(invalidate) > 0 {
		if err := s.cache.Invalidate(ctx, invalidate...); err != nil {
			hlog.CtxWarnf(ctx, "invalidate profile cache %v failed: %v", invalidate, err)
		}
	}
	for _, event := range events {
		if err := s.publisher.PublishEngagementEvent(ctx, event); err != nil {
			hlog.CtxWarnf(ctx, "publish engagement event %s failed: %v", event.Action, err)
		}
	}
}

func (s *Service) event(userId, targetId int64, action string) *mq.EngagementEvent {
	return mq.NewEngagementEvent(userId, targetId, action, s.now())
}
