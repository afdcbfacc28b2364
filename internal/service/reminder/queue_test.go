package reminder

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationQueueScheduleAndPending(t *testing.T) {
	ctx := context.Background()
	q := NewNotificationQueue()
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, q.Schedule(ctx, 2, at, Content{Title: "b"}))
	require.NoError(t, q.Schedule(ctx, 1, at, Content{Title: "a"}))

	ids, err := q.PendingIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, []int32{1, 2}, ids)
}

func TestNotificationQueueCancelUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	q := NewNotificationQueue()

	assert.NoError(t, q.Cancel(ctx, 42))
	assert.Equal(t, 0, q.Len())
}

func TestNotificationQueueDue(t *testing.T) {
	ctx := context.Background()
	q := NewNotificationQueue()
	base := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, q.Schedule(ctx, 1, base, Content{}))
	require.NoError(t, q.Schedule(ctx, 2, base.Add(time.Hour), Content{}))
	require.NoError(t, q.Schedule(ctx, 3, base.Add(-time.Hour), Content{}))

	due := q.Due(base)
	require.Len(t, due, 2)
	assert.Equal(t, int32(3), due[0].ID, "earliest fire time first")
	assert.Equal(t, int32(1), due[1].ID)
	assert.Equal(t, 1, q.Len(), "due notifications are removed")
}

func TestNotificationQueueScheduleReplacesSameID(t *testing.T) {
	ctx := context.Background()
	q := NewNotificationQueue()
	at := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	require.NoError(t, q.Schedule(ctx, 1, at, Content{Title: "old"}))
	require.NoError(t, q.Schedule(ctx, 1, at.Add(time.Hour), Content{Title: "new"}))

	assert.Equal(t, 1, q.Len())
	due := q.Due(at.Add(2 * time.Hour))
	require.Len(t, due, 1)
	assert.Equal(t, "new", due[0].Content.Title)
}
