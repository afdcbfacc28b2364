package model

import (
	"time"

	"github.com/google/uuid"
)

// TreatmentLog records one completed medication dose or fluid session.
// SlotTime is the "HH:mm" reminder slot the treatment fulfils; a log
// without a slot (ad-hoc dose) leaves it empty.
type TreatmentLog struct {
	Base
	PetID         uuid.UUID     `db:"pet_id" json:"pet_id"`
	ScheduleID    uuid.UUID     `db:"schedule_id" json:"schedule_id"`
	TreatmentType TreatmentType `db:"treatment_type" json:"treatment_type"`
	SlotTime      string        `db:"slot_time" json:"slot_time,omitempty"`
	GivenAt       time.Time     `db:"given_at" json:"given_at"`
	Notes         string        `db:"notes" json:"notes,omitempty"`
}

type CreateTreatmentLogRequest struct {
	ScheduleID    string `json:"schedule_id" binding:"required,uuid"`
	TreatmentType string `json:"treatment_type" binding:"required,oneof=medication fluid"`
	SlotTime      string `json:"slot_time,omitempty" binding:"omitempty,hhmm"`
	GivenAt       string `json:"given_at,omitempty"`
	Notes         string `json:"notes,omitempty"`
}
