package main

import (
	"context"
	"io"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	goredis "github.com/redis/go-redis/v9"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/cmd/engagement/infras/redis"
	"ViewTube.com/cmd/engagement/service"
	"ViewTube.com/config"
	"ViewTube.com/config/jaeger"
	"ViewTube.com/pkg/mq"
	"ViewTube.com/pkg/utils"
)

// deps 进程级依赖，由子命令按需创建，退出时统一关闭
type deps struct {
	store    *db.Store
	redis    *goredis.Client
	producer *mq.Producer
	tracer   io.Closer
	svc      *service.Service
}

// newDeps 建立存储、缓存、消息和追踪。只有存储是必需的，其余依赖缺失时降级运行
func newDeps(ctx context.Context, c config.Config) (*deps, error) {
	d := &deps{}
	var err error

	if d.tracer, err = jaeger.Init(c.Jaeger); err != nil {
		return nil, err
	}
	if err = utils.InitSnowflake(c.Server.WorkerID, c.Server.DatacenterID); err != nil {
		d.Close()
		return nil, err
	}
	if d.store, err = db.Open(ctx, c.Mysql); err != nil {
		d.Close()
		return nil, err
	}

	opts := []service.Option{service.WithSyncSubscriberCount(c.Engagement.SyncSubscriberCount)}

	if d.redis, err = redis.Load(ctx, c.Redis); err != nil {
		hlog.Warnf("redis unavailable, running without profile cache: %v", err)
		d.redis = nil
	}
	if d.redis != nil {
		opts = append(opts, service.WithCache(redis.NewProfileCache(d.redis, c.Redis.ProfileTTL)))
	}

	if url := c.RabbitMq.URL(); url != "" {
		if d.producer, err = mq.NewProducer(url); err != nil {
			hlog.Warnf("rabbitmq unavailable, events are dropped: %v", err)
			d.producer = nil
		}
	}
	if d.producer != nil {
		opts = append(opts, service.WithPublisher(d.producer))
	}

	d.svc = service.New(d.store, opts...)
	return d, nil
}

// locker redis 不可用时返回 nil，对账在单实例模式下运行
func (d *deps) locker() service.Locker {
	if d.redis == nil {
		return nil
	}
	return redis.NewLocker(d.redis)
}

func (d *deps) Close() {
	if d.producer != nil {
		d.producer.Close()
	}
	if d.redis != nil {
		d.redis.Close()
	}
	if d.store != nil {
		if err := d.store.Close(); err != nil {
			hlog.Warnf("close store: %v", err)
		}
	}
	if d.tracer != nil {
		d.tracer.Close()
	}
}
