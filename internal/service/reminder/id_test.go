package reminder

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/felicare/ckd-api/internal/model"
)

func TestGenerateNotificationIDDeterministic(t *testing.T) {
	a := GenerateNotificationID("user-1", "pet-1", "sched-1", "08:00", model.KindInitial)
	b := GenerateNotificationID("user-1", "pet-1", "sched-1", "08:00", model.KindInitial)
	assert.Equal(t, a, b)
}

func TestGenerateNotificationIDPositive(t *testing.T) {
	inputs := []struct {
		user, pet, sched, slot string
		kind                   model.NotificationKind
	}{
		{"user-1", "pet-1", "sched-1", "08:00", model.KindInitial},
		{"user-1", "pet-1", "sched-1", "08:00", model.KindFollowup},
		{"u", "p", "s", "00:00", model.KindSnooze},
		{"3f1c9d7e", "b2a4", "summary:eod", "21:00", model.KindSummary},
	}
	for _, in := range inputs {
		id := GenerateNotificationID(in.user, in.pet, in.sched, in.slot, in.kind)
		assert.GreaterOrEqual(t, id, int32(0), "sign bit must be cleared")
	}
}

func TestGenerateNotificationIDDistinguishesInputs(t *testing.T) {
	base := GenerateNotificationID("user-1", "pet-1", "sched-1", "08:00", model.KindInitial)

	variants := []int32{
		GenerateNotificationID("user-2", "pet-1", "sched-1", "08:00", model.KindInitial),
		GenerateNotificationID("user-1", "pet-2", "sched-1", "08:00", model.KindInitial),
		GenerateNotificationID("user-1", "pet-1", "sched-2", "08:00", model.KindInitial),
		GenerateNotificationID("user-1", "pet-1", "sched-1", "08:01", model.KindInitial),
		GenerateNotificationID("user-1", "pet-1", "sched-1", "08:00", model.KindFollowup),
	}
	for i, v := range variants {
		assert.NotEqual(t, base, v, "variant %d should hash differently", i)
	}
}
