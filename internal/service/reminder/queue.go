package reminder

import (
	"context"
	"sort"
	"sync"
	"time"
)

// QueuedNotification is one notification waiting to fire.
type QueuedNotification struct {
	ID      int32     `json:"id"`
	FireAt  time.Time `json:"fire_at"`
	Content Content   `json:"content"`
}

// NotificationQueue is the in-process DeviceScheduler implementation.
// The dispatch worker drains due notifications from it and publishes
// them to the device channel.
type NotificationQueue struct {
	mu      sync.Mutex
	pending map[int32]QueuedNotification
}

func NewNotificationQueue() *NotificationQueue {
	return &NotificationQueue{pending: make(map[int32]QueuedNotification)}
}

// Schedule registers (or replaces) the notification with the given ID.
func (q *NotificationQueue) Schedule(_ context.Context, id int32, fireAt time.Time, content Content) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending[id] = QueuedNotification{ID: id, FireAt: fireAt, Content: content}
	return nil
}

// Cancel removes the notification. Cancelling an unknown ID is a no-op.
func (q *NotificationQueue) Cancel(_ context.Context, id int32) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.pending, id)
	return nil
}

// PendingIDs lists every currently queued notification ID.
func (q *NotificationQueue) PendingIDs(_ context.Context) ([]int32, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	ids := make([]int32, 0, len(q.pending))
	for id := range q.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

// Due removes and returns every notification whose fire time is at or
// before now, ordered by fire time.
func (q *NotificationQueue) Due(now time.Time) []QueuedNotification {
	q.mu.Lock()
	defer q.mu.Unlock()

	var due []QueuedNotification
	for id, n := range q.pending {
		if !n.FireAt.After(now) {
			due = append(due, n)
			delete(q.pending, id)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].FireAt.Before(due[j].FireAt) })
	return due
}

// Len reports the number of pending notifications.
func (q *NotificationQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
