package model

import (
	"encoding/json"
	"sort"
	"time"

	"github.com/google/uuid"

	apperrors "github.com/felicare/ckd-api/pkg/errors"
	"github.com/felicare/ckd-api/pkg/timeutil"
)

type TreatmentType string

const (
	TreatmentTypeMedication TreatmentType = "medication"
	TreatmentTypeFluid      TreatmentType = "fluid"
	// TreatmentTypeCare marks entries that are about the care routine as a
	// whole (daily and weekly summaries) rather than a single treatment.
	TreatmentTypeCare TreatmentType = "care"
)

func (t TreatmentType) Valid() bool {
	switch t {
	case TreatmentTypeMedication, TreatmentTypeFluid, TreatmentTypeCare:
		return true
	}
	return false
}

// NotificationKind is the role a scheduled notification plays.
type NotificationKind string

const (
	KindInitial  NotificationKind = "initial"
	KindFollowup NotificationKind = "followup"
	KindSnooze   NotificationKind = "snooze"
	KindSummary  NotificationKind = "summary"
)

func (k NotificationKind) Valid() bool {
	switch k {
	case KindInitial, KindFollowup, KindSnooze, KindSummary:
		return true
	}
	return false
}

// ScheduledNotificationEntry is one device-scheduled notification: a row
// in a day's notification index. Entries are immutable values; editing a
// reminder produces a new entry plus a cancel of the old ID.
type ScheduledNotificationEntry struct {
	NotificationID int32            `json:"notification_id"`
	ScheduleID     string           `json:"schedule_id"`
	TreatmentType  TreatmentType    `json:"treatment_type"`
	TimeSlot       string           `json:"time_slot"`
	Kind           NotificationKind `json:"kind"`
}

// NewScheduledNotificationEntry validates every field and fails closed:
// malformed input is rejected, never coerced.
func NewScheduledNotificationEntry(id int32, scheduleID string, treatmentType TreatmentType, timeSlot string, kind NotificationKind) (ScheduledNotificationEntry, error) {
	if id <= 0 {
		return ScheduledNotificationEntry{}, apperrors.Validation("notification_id", "positive 31-bit integer")
	}
	if scheduleID == "" {
		return ScheduledNotificationEntry{}, apperrors.Validation("schedule_id", "non-empty string")
	}
	if !treatmentType.Valid() {
		return ScheduledNotificationEntry{}, apperrors.Validation("treatment_type", "one of medication, fluid, care")
	}
	if !timeutil.IsValidTimeString(timeSlot) {
		return ScheduledNotificationEntry{}, apperrors.Validation("time_slot", "HH:mm in 00:00-23:59")
	}
	if !kind.Valid() {
		return ScheduledNotificationEntry{}, apperrors.Validation("kind", "one of initial, followup, snooze, summary")
	}
	return ScheduledNotificationEntry{
		NotificationID: id,
		ScheduleID:     scheduleID,
		TreatmentType:  treatmentType,
		TimeSlot:       timeSlot,
		Kind:           kind,
	}, nil
}

// ToJSON serializes the entry. The output round-trips exactly through
// EntryFromJSON.
func (e ScheduledNotificationEntry) ToJSON() (json.RawMessage, error) {
	return json.Marshal(e)
}

// EntryFromJSON deserializes and re-validates one entry. A structurally
// incomplete or invalid object yields ok=false instead of an error, so
// callers scanning a persisted index can skip corrupt rows individually.
func EntryFromJSON(raw json.RawMessage) (ScheduledNotificationEntry, bool) {
	var e ScheduledNotificationEntry
	if err := json.Unmarshal(raw, &e); err != nil {
		return ScheduledNotificationEntry{}, false
	}
	validated, err := NewScheduledNotificationEntry(e.NotificationID, e.ScheduleID, e.TreatmentType, e.TimeSlot, e.Kind)
	if err != nil {
		return ScheduledNotificationEntry{}, false
	}
	return validated, true
}

// NotificationIndex is the set of entries scheduled for one
// (caregiver, pet, day) scope, keyed by notification ID.
type NotificationIndex struct {
	Entries map[int32]ScheduledNotificationEntry
}

func NewNotificationIndex() NotificationIndex {
	return NotificationIndex{Entries: make(map[int32]ScheduledNotificationEntry)}
}

// Add inserts the entry, reporting false if the ID is already present
// (no two entries may share a notification ID within one index).
func (idx NotificationIndex) Add(e ScheduledNotificationEntry) bool {
	if _, exists := idx.Entries[e.NotificationID]; exists {
		return false
	}
	idx.Entries[e.NotificationID] = e
	return true
}

// Contains reports whether an entry structurally equal to e is present.
// Matching by ID alone is not enough: a changed time slot under the same
// ID must read as absent so reconciliation replaces it.
func (idx NotificationIndex) Contains(e ScheduledNotificationEntry) bool {
	stored, ok := idx.Entries[e.NotificationID]
	return ok && stored == e
}

func (idx NotificationIndex) Len() int {
	return len(idx.Entries)
}

// Sorted returns the entries ordered by notification ID, the canonical
// order used for serialization and checksumming.
func (idx NotificationIndex) Sorted() []ScheduledNotificationEntry {
	entries := make([]ScheduledNotificationEntry, 0, len(idx.Entries))
	for _, e := range idx.Entries {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].NotificationID < entries[j].NotificationID
	})
	return entries
}

// NotificationSettings gates which reminder entries are eligible for
// scheduling. Owned by the caregiver, read by the scheduling engine.
type NotificationSettings struct {
	CaregiverID      uuid.UUID `db:"caregiver_id" json:"caregiver_id"`
	Enabled          bool      `db:"enabled" json:"enabled"`
	FollowupsEnabled bool      `db:"followups_enabled" json:"followups_enabled"`
	SnoozeEnabled    bool      `db:"snooze_enabled" json:"snooze_enabled"`
	EndOfDaySummary  bool      `db:"end_of_day_summary" json:"end_of_day_summary"`
	EndOfDayTime     string    `db:"end_of_day_time" json:"end_of_day_time"`
	WeeklySummary    bool      `db:"weekly_summary" json:"weekly_summary"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// DefaultNotificationSettings are applied on first read for a caregiver.
func DefaultNotificationSettings(caregiverID uuid.UUID) NotificationSettings {
	return NotificationSettings{
		CaregiverID:      caregiverID,
		Enabled:          true,
		FollowupsEnabled: true,
		SnoozeEnabled:    true,
		EndOfDaySummary:  false,
		EndOfDayTime:     "21:00",
		WeeklySummary:    false,
		UpdatedAt:        time.Now(),
	}
}

type UpdateNotificationSettingsRequest struct {
	Enabled          *bool   `json:"enabled,omitempty"`
	FollowupsEnabled *bool   `json:"followups_enabled,omitempty"`
	SnoozeEnabled    *bool   `json:"snooze_enabled,omitempty"`
	EndOfDaySummary  *bool   `json:"end_of_day_summary,omitempty"`
	EndOfDayTime     *string `json:"end_of_day_time,omitempty" binding:"omitempty,hhmm"`
	WeeklySummary    *bool   `json:"weekly_summary,omitempty"`
}
