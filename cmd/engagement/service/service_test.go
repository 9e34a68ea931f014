package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"ViewTube.com/cmd/engagement/dal/db/dbtest"
	"ViewTube.com/cmd/model"
	"ViewTube.com/pkg/mq"
)

type fakePublisher struct {
	mu         sync.Mutex
	engagement []*mq.EngagementEvent
	cleanup    []*mq.MediaCleanupEvent
}

func (p *fakePublisher) PublishEngagementEvent(_ context.Context, e *mq.EngagementEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.engagement = append(p.engagement, e)
	return nil
}

func (p *fakePublisher) PublishMediaCleanupEvent(_ context.Context, e *mq.MediaCleanupEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cleanup = append(p.cleanup, e)
	return nil
}

func (p *fakePublisher) actions() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	res := make([]string, 0, len(p.engagement))
	for _, e := range p.engagement {
		res = append(res, e.Action)
	}
	return res
}

// fakeClock 每次调用前进1毫秒，保证观看时间严格递增
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Millisecond)
	return c.now
}

func newTestService(t *testing.T, opts ...Option) (*Service, *fakePublisher) {
	t.Helper()
	pub := &fakePublisher{}
	clock := &fakeClock{now: time.UnixMilli(1_700_000_000_000)}
	opts = append([]Option{WithPublisher(pub), WithClock(clock.Now)}, opts...)
	return New(dbtest.NewStore(t), opts...), pub
}

func mustUser(t *testing.T, s *Service, name string) *model.User {
	t.Helper()
	user, err := s.Register(context.Background(), RegisterParams{UserName: name, Email: name + "@example.com", Password: "secret123"})
	require.NoError(t, err)
	return user
}

func mustChannel(t *testing.T, s *Service, owner *model.User, key string) *model.Channel {
	t.Helper()
	channel, err := s.CreateChannel(context.Background(), owner.UserId, ChannelParams{Name: owner.UserName + " channel", DeleteKey: key})
	require.NoError(t, err)
	return channel
}

func mustVideo(t *testing.T, s *Service, owner *model.User, channel *model.Channel, title string) *model.Video {
	t.Helper()
	video, err := s.CreateVideo(context.Background(), owner.UserId, VideoParams{
		ChannelId:    channel.ChannelId,
		Title:        title,
		VideoUrl:     "http://media.local/viewtube-media/" + title + ".mp4",
		ThumbnailUrl: "http://media.local/viewtube-media/" + title + ".jpg",
	})
	require.NoError(t, err)
	return video.Video
}

func reloadVideo(t *testing.T, s *Service, videoId int64) *model.Video {
	t.Helper()
	video, err := s.store.GetVideo(context.Background(), videoId)
	require.NoError(t, err)
	return video
}

func reloadChannel(t *testing.T, s *Service, channelId int64) *model.Channel {
	t.Helper()
	channel, err := s.store.GetChannel(context.Background(), channelId)
	require.NoError(t, err)
	return channel
}

func videoIds(details []*model.VideoDetail) []int64 {
	ids := make([]int64, 0, len(details))
	for _, d := range details {
		ids = append(ids, d.VideoId)
	}
	return ids
}

// fixture 一个拥有频道和一个视频的创作者，以及一个观众
type fixture struct {
	svc     *Service
	pub     *fakePublisher
	creator *model.User
	viewer  *model.User
	channel *model.Channel
	video   *model.Video
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	svc, pub := newTestService(t, opts...)
	f := &fixture{svc: svc, pub: pub}
	f.creator = mustUser(t, svc, "creator")
	f.viewer = mustUser(t, svc, "viewer")
	f.channel = mustChannel(t, svc, f.creator, "delete-me")
	f.video = mustVideo(t, svc, f.creator, f.channel, "intro")
	return f
}

// deleteVideoBeforeCounterUpdate 在下一次更新 videos 之前删除视频，
// 模拟另一个事务在存在性校验和计数更新之间提交了删除
func deleteVideoBeforeCounterUpdate(t *testing.T, s *Service, videoId int64) {
	t.Helper()
	var once sync.Once
	err := s.store.DB().Callback().Update().Before("gorm:update").Register("test:delete_video_before_update", func(db *gorm.DB) {
		if db.Statement.Table != "videos" {
			return
		}
		once.Do(func() {
			if err := db.Session(&gorm.Session{NewDB: true}).Exec("DELETE FROM videos WHERE video_id = ?", videoId).Error; err != nil {
				db.AddError(err)
			}
		})
	})
	require.NoError(t, err)
}
