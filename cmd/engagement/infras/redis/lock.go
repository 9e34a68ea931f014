package redis

import (
	"context"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"
	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// ErrLockHeld 锁已经被其他实例持有
var ErrLockHeld = errors.New("lock is held by another instance")

// Locker 基于 redsync 的分布式锁，保证多副本部署时同一时刻只有一个实例执行对账
type Locker struct {
	rs *redsync.Redsync
}

func NewLocker(client *redis.Client) *Locker {
	return &Locker{rs: redsync.New(goredis.NewPool(client))}
}

// WithLock 获取锁后执行 fn，获取失败时返回 ErrLockHeld，不会重试
func (l *Locker) WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error {
	mutex := l.rs.NewMutex(key, redsync.WithExpiry(ttl), redsync.WithTries(1))
	if err := mutex.LockContext(ctx); err != nil {
		var taken *redsync.ErrTaken
		var nodeTaken *redsync.ErrNodeTaken
		if errors.As(err, &taken) || errors.As(err, &nodeTaken) || errors.Is(err, redsync.ErrFailed) {
			return ErrLockHeld
		}
		return errors.Wrapf(err, "acquire lock %s", key)
	}
	defer func() {
		if _, err := mutex.UnlockContext(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, redsync.ErrLockAlreadyExpired) {
			hlog.CtxWarnf(ctx, "release lock %s failed: %v", key, err)
		}
	}()
	return fn(ctx)
}
