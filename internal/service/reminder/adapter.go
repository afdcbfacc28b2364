package reminder

import (
	"context"
	"time"
)

// Content is the user-visible payload of a device notification. Text is
// privacy-generic: medication names and dosages never appear here.
type Content struct {
	Title   string `json:"title"`
	Body    string `json:"body"`
	Channel string `json:"channel"`
}

// DeviceScheduler is the device-side notification scheduler the engine
// reconciles against. Implementations must make Cancel of a nonexistent
// ID a no-op: that property is what keeps reconciliation safe to re-run
// after a partial failure or restart.
type DeviceScheduler interface {
	Schedule(ctx context.Context, id int32, fireAt time.Time, content Content) error
	Cancel(ctx context.Context, id int32) error
	PendingIDs(ctx context.Context) ([]int32, error)
}
