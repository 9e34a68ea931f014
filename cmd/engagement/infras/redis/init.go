package redis

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"ViewTube.com/config"
)

// Load 建立 redis 连接。Addr 为空时返回 nil，调用方据此关闭缓存
func Load(ctx context.Context, c config.Redis) (*redis.Client, error) {
	if c.Addr == "" {
		hlog.Warn("redis addr is empty, profile cache and distributed lock are disabled")
		return nil, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     c.Addr,
		Password: c.Password,
		DB:       c.DB,
	})
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, errors.Wrapf(err, "ping redis %s", c.Addr)
	}
	hlog.Infof("Connect Redis Success: %s", c.Addr)
	return client, nil
}
