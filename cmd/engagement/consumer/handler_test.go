package consumer

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ViewTube.com/cmd/engagement/dal/db/dbtest"
	"ViewTube.com/cmd/model"
	"ViewTube.com/pkg/mq"
)

type fakeRemover struct {
	urls []string
	err  error
}

func (r *fakeRemover) RemoveMedia(_ context.Context, urls []string) error {
	r.urls = append(r.urls, urls...)
	return r.err
}

func TestHandleEngagementEventDeduplicates(t *testing.T) {
	ctx := context.Background()
	store := dbtest.NewStore(t)
	h := NewHandler(store, nil)

	event := mq.NewEngagementEvent(1, 2, mq.ActionLike, time.UnixMilli(1_700_000_000_000))
	require.NoError(t, h.HandleEngagementEvent(ctx, event))
	require.NoError(t, h.HandleEngagementEvent(ctx, event))

	var logs []*model.EngagementLog
	require.NoError(t, store.DB().Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, event.EventID, logs[0].EventID)
	assert.Equal(t, mq.ActionLike, logs[0].Action)
	assert.EqualValues(t, 1_700_000_000_000, logs[0].Timestamp)
}

func TestHandleMediaCleanupEvent(t *testing.T) {
	ctx := context.Background()
	event := mq.NewMediaCleanupEvent("delete_video", []int64{5}, []string{"http://media.local/viewtube-media/a.mp4"}, time.Now())

	t.Run("removes media", func(t *testing.T) {
		remover := &fakeRemover{}
		require.NoError(t, NewHandler(dbtest.NewStore(t), remover).HandleMediaCleanupEvent(ctx, event))
		assert.Equal(t, event.URLs, remover.urls)
	})

	t.Run("returns failure for redelivery", func(t *testing.T) {
		remover := &fakeRemover{err: errors.New("minio down")}
		err := NewHandler(dbtest.NewStore(t), remover).HandleMediaCleanupEvent(ctx, event)
		assert.Error(t, err)
	})

	t.Run("no object storage", func(t *testing.T) {
		assert.NoError(t, NewHandler(dbtest.NewStore(t), nil).HandleMediaCleanupEvent(ctx, event))
	})
}
