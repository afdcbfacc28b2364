package model

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/felicare/ckd-api/internal/recurrence"
	"github.com/felicare/ckd-api/pkg/timeutil"
)

// MedicationSchedule is a recurring medication plan for one pet.
// Recurrence holds a rule string such as "FREQ=DAILY" or
// "FREQ=WEEKLY;BYDAY=MO,TH"; ReminderTimes holds "HH:mm" slots.
type MedicationSchedule struct {
	Base
	PetID          uuid.UUID      `db:"pet_id" json:"pet_id"`
	MedicationName string         `db:"medication_name" json:"medication_name"`
	Dosage         string         `db:"dosage" json:"dosage"`
	Recurrence     string         `db:"recurrence" json:"recurrence"`
	StartDate      time.Time      `db:"start_date" json:"start_date"`
	ReminderTimes  pq.StringArray `db:"reminder_times" json:"reminder_times"`
	Active         bool           `db:"active" json:"active"`
}

// ReminderTimesOnDate returns the schedule's valid "HH:mm" slots for the
// given date, sorted, or nil when the schedule is inactive or does not
// recur on that date.
func (s *MedicationSchedule) ReminderTimesOnDate(date time.Time) []string {
	return reminderTimesOnDate(s.Active, s.Recurrence, s.StartDate, s.ReminderTimes, date)
}

// FluidSchedule is the (at most one per pet) subcutaneous fluid plan.
type FluidSchedule struct {
	Base
	PetID         uuid.UUID      `db:"pet_id" json:"pet_id"`
	VolumeML      int            `db:"volume_ml" json:"volume_ml"`
	Recurrence    string         `db:"recurrence" json:"recurrence"`
	StartDate     time.Time      `db:"start_date" json:"start_date"`
	ReminderTimes pq.StringArray `db:"reminder_times" json:"reminder_times"`
	Active        bool           `db:"active" json:"active"`
}

func (s *FluidSchedule) ReminderTimesOnDate(date time.Time) []string {
	return reminderTimesOnDate(s.Active, s.Recurrence, s.StartDate, s.ReminderTimes, date)
}

func reminderTimesOnDate(active bool, rule string, start time.Time, times []string, date time.Time) []string {
	if !active {
		return nil
	}
	r, err := recurrence.Parse(rule)
	if err != nil {
		return nil
	}
	if !r.OccursOn(start, date) {
		return nil
	}

	var slots []string
	for _, t := range times {
		if timeutil.IsValidTimeString(t) {
			slots = append(slots, t)
		}
	}
	sort.Strings(slots)
	return slots
}

type CreateMedicationScheduleRequest struct {
	MedicationName string   `json:"medication_name" binding:"required"`
	Dosage         string   `json:"dosage" binding:"required"`
	Recurrence     string   `json:"recurrence" binding:"required"`
	StartDate      string   `json:"start_date" binding:"required"`
	ReminderTimes  []string `json:"reminder_times" binding:"required,min=1,dive,hhmm"`
}

type UpdateMedicationScheduleRequest struct {
	MedicationName *string  `json:"medication_name,omitempty"`
	Dosage         *string  `json:"dosage,omitempty"`
	Recurrence     *string  `json:"recurrence,omitempty"`
	ReminderTimes  []string `json:"reminder_times,omitempty" binding:"omitempty,min=1,dive,hhmm"`
	Active         *bool    `json:"active,omitempty"`
}

type UpsertFluidScheduleRequest struct {
	VolumeML      int      `json:"volume_ml" binding:"required,gt=0"`
	Recurrence    string   `json:"recurrence" binding:"required"`
	StartDate     string   `json:"start_date" binding:"required"`
	ReminderTimes []string `json:"reminder_times" binding:"required,min=1,dive,hhmm"`
	Active        bool     `json:"active"`
}
