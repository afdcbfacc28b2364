package reminder

import (
	"hash/fnv"
	"strings"

	"github.com/felicare/ckd-api/internal/model"
)

// idSeparator joins the ID inputs. It cannot appear in any legal input:
// UUIDs, "HH:mm" slots and kind names never contain a pipe.
const idSeparator = "|"

// GenerateNotificationID derives a stable, positive 31-bit notification
// ID from the identity of one reminder slot. It is pure: the same inputs
// produce the same ID across process restarts, which is what lets
// reconciliation cancel and re-schedule device notifications
// idempotently.
//
// FNV-1a is used for its avalanche behavior, not security. An accidental
// collision in the 31-bit space (~1 in 2e9) degrades to one ID covering
// two slots; the index keeps the full (schedule, slot, kind) tuple per
// entry so a collision is observable at diff time.
func GenerateNotificationID(caregiverID, petID, scheduleID, timeSlot string, kind model.NotificationKind) int32 {
	h := fnv.New32a()
	h.Write([]byte(strings.Join([]string{caregiverID, petID, scheduleID, timeSlot, string(kind)}, idSeparator)))
	return int32(h.Sum32() & 0x7fffffff)
}
