package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"

	"ViewTube.com/cmd/model"
	"ViewTube.com/pkg/constants"
)

// ProfileCache 用户视图的读缓存。互动操作提交后删除对应的键，下一次读取重新投影
type ProfileCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

func NewProfileCache(client redis.Cmdable, ttl time.Duration) *ProfileCache {
	if ttl <= 0 {
		ttl = constants.ProfileCacheTTL
	}
	return &ProfileCache{client: client, ttl: ttl}
}

func profileKey(userId int64) string {
	return fmt.Sprintf(constants.ProfileCacheKeyTemplate, userId)
}

// Get 缓存未命中时返回 (nil, nil)
func (c *ProfileCache) Get(ctx context.Context, userId int64) (*model.Profile, error) {
	data, err := c.client.Get(ctx, profileKey(userId)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "get cached profile, userId: %d", userId)
	}
	var profile model.Profile
	if err := json.Unmarshal(data, &profile); err != nil {
		return nil, errors.Wrapf(err, "unmarshal cached profile, userId: %d", userId)
	}
	return &profile, nil
}

func (c *ProfileCache) Set(ctx context.Context, profile *model.Profile) error {
	if profile == nil || profile.User == nil {
		return nil
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "marshal profile")
	}
	return errors.Wrapf(c.client.Set(ctx, profileKey(profile.UserId), data, c.ttl).Err(), "cache profile, userId: %d", profile.UserId)
}

func (c *ProfileCache) Invalidate(ctx context.Context, userIds ...int64) error {
	if len(userIds) == 0 {
		return nil
	}
	keys := make([]string, 0, len(userIds))
	for _, id := range userIds {
		keys = append(keys, profileKey(id))
	}
	return errors.Wrap(c.client.Del(ctx, keys...).Err(), "invalidate cached profiles")
}
