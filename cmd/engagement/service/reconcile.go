package service

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/hertz/pkg/common/hlog"

	"ViewTube.com/cmd/engagement/dal/db"
	"ViewTube.com/cmd/model"
	"ViewTube.com/pkg/constants"
	"ViewTube.com/pkg/errno"
)

// Locker 分布式锁，多副本部署时保证同一时刻只有一个实例在对账
type Locker interface {
	WithLock(ctx context.Context, key string, ttl time.Duration, fn func(ctx context.Context) error) error
}

// ReconcileReport 一次对账的统计
type ReconcileReport struct {
	VideosChecked   int
	ChannelsChecked int
	Repaired        int
	Checks          []*model.DataConsistencyCheck
}

// Reconciler 从集合表重新计算视频的 likes/dislikes 和频道的 subscribers 并修正漂移。
// views 无法由历史推导(删除历史不回退 views)，只检查 views >= 历史条数这一下界
type Reconciler struct {
	store     *db.Store
	locker    Locker
	batchSize int
	lockTTL   time.Duration
	now       func() time.Time

	checkSubscribers bool
}

func NewReconciler(store *db.Store, locker Locker, checkSubscribers bool) *Reconciler {
	return &Reconciler{
		store:            store,
		locker:           locker,
		batchSize:        constants.ReconcileBatchSize,
		lockTTL:          10 * time.Minute,
		now:              time.Now,
		checkSubscribers: checkSubscribers,
	}
}

// Run 执行一次完整对账。配置了锁而锁被其他实例持有时返回锁错误
func (r *Reconciler) Run(ctx context.Context) (*ReconcileReport, error) {
	report := &ReconcileReport{}
	run := func(ctx context.Context) error {
		if err := r.reconcileVideos(ctx, report); err != nil {
			return err
		}
		if r.checkSubscribers {
			return r.reconcileChannels(ctx, report)
		}
		return nil
	}
	var err error
	if r.locker != nil {
		err = r.locker.WithLock(ctx, constants.ReconcileLockKey, r.lockTTL, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return report, err
	}
	hlog.CtxInfof(ctx, "reconcile finished: %d videos, %d channels checked, %d repaired",
		report.VideosChecked, report.ChannelsChecked, report.Repaired)
	return report, nil
}

// Start 按间隔定期对账，直到 ctx 结束
func (r *Reconciler) Start(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		hlog.Info("periodic reconcile is disabled")
		return
	}
	hlog.Infof("Starting periodic reconcile every %s", interval)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				hlog.Info("periodic reconcile stopped")
				return
			case <-ticker.C:
				if _, err := r.Run(ctx); err != nil {
					hlog.CtxWarnf(ctx, "periodic reconcile failed: %v", err)
				}
			}
		}
	}()
}

func (r *Reconciler) reconcileVideos(ctx context.Context, report *ReconcileReport) error {
	var after int64
	for {
		ids, err := r.store.ListVideoIds(ctx, after, r.batchSize)
		if err != nil {
			return err
		}
		for _, id := range ids {
			// 列出之后被删除的视频直接跳过
			if err := r.reconcileVideo(ctx, id, report); err != nil && !errno.IsNotFound(err) {
				return err
			}
			report.VideosChecked++
		}
		if len(ids) < r.batchSize {
			return nil
		}
		after = ids[len(ids)-1]
	}
}

func (r *Reconciler) reconcileVideo(ctx context.Context, videoId int64, report *ReconcileReport) error {
	return r.store.Transaction(ctx, func(tx *db.Store) error {
		video, err := tx.GetVideoForUpdate(ctx, videoId)
		if err != nil {
			return err
		}
		likes, err := tx.CountMembersOf(ctx, db.SetLiked, videoId)
		if err != nil {
			return err
		}
		dislikes, err := tx.CountMembersOf(ctx, db.SetDisliked, videoId)
		if err != nil {
			return err
		}
		watched, err := tx.CountHistoryOf(ctx, videoId)
		if err != nil {
			return err
		}

		fields := make(map[string]interface{})
		var checks []*model.DataConsistencyCheck
		if video.Likes != likes {
			fields[db.CounterLikes] = likes
			checks = append(checks, r.check(db.CounterLikes, "video", videoId, video.Likes, likes))
		}
		if video.Dislikes != dislikes {
			fields[db.CounterDislikes] = dislikes
			checks = append(checks, r.check(db.CounterDislikes, "video", videoId, video.Dislikes, dislikes))
		}
		if video.Views < watched {
			fields[db.CounterViews] = watched
			checks = append(checks, r.check(db.CounterViews, "video", videoId, video.Views, watched))
		}
		if len(fields) == 0 {
			return nil
		}
		if err := tx.SetVideoCounters(ctx, videoId, fields); err != nil {
			return err
		}
		return r.record(ctx, tx, checks, report)
	})
}

func (r *Reconciler) reconcileChannels(ctx context.Context, report *ReconcileReport) error {
	var after int64
	for {
		ids, err := r.store.ListChannelIds(ctx, after, r.batchSize)
		if err != nil {
			return err
		}
		for _, id := range ids {
			err := r.store.Transaction(ctx, func(tx *db.Store) error {
				channel, err := tx.GetChannelForUpdate(ctx, id)
				if err != nil {
					return err
				}
				subscribers, err := tx.CountMembersOf(ctx, db.SetSubscriptions, id)
				if err != nil {
					return err
				}
				if channel.Subscribers == subscribers {
					return nil
				}
				if err := tx.SetChannelSubscribers(ctx, id, subscribers); err != nil {
					return err
				}
				check := r.check("subscribers", "channel", id, channel.Subscribers, subscribers)
				return r.record(ctx, tx, []*model.DataConsistencyCheck{check}, report)
			})
			if err != nil && !errno.IsNotFound(err) {
				return err
			}
			report.ChannelsChecked++
		}
		if len(ids) < r.batchSize {
			return nil
		}
		after = ids[len(ids)-1]
	}
}

func (r *Reconciler) check(checkType, resourceType string, id, stored, derived int64) *model.DataConsistencyCheck {
	now := r.now()
	return &model.DataConsistencyCheck{
		CheckType:    checkType,
		ResourceType: resourceType,
		ResourceID:   id,
		StoredValue:  stored,
		DerivedValue: derived,
		IsConsistent: false,
		Difference:   fmt.Sprintf("%s %s stored %d, derived %d", resourceType, checkType, stored, derived),
		CheckTime:    now,
		FixedAt:      &now,
		CreatedAt:    now,
	}
}

func (r *Reconciler) record(ctx context.Context, tx *db.Store, checks []*model.DataConsistencyCheck, report *ReconcileReport) error {
	for _, c := range checks {
		if err := tx.RecordConsistencyCheck(ctx, c); err != nil {
			return err
		}
		hlog.CtxWarnf(ctx, "repaired drift: %s", c.Difference)
		report.Checks = append(report.Checks, c)
		report.Repaired++
	}
	return nil
}
