package request

import (
	"time"

	"github.com/google/uuid"
)

type CreateSlotRequest struct {
	TutorID uuid.UUID `json:"tutor_id" binding:"required"`
	Start   time.Time `json:"start" binding:"required"`
	End     time.Time `json:"end" binding:"required"`
}

type RescheduleSlotRequest struct {
	Start time.Time `json:"start" binding:"required"`
	End   time.Time `json:"end" binding:"required"`
}

// ListAvailableSlotsQuery binds the availability search parameters.
// Times are RFC3339; from defaults to now and is clamped to it anyway.
type ListAvailableSlotsQuery struct {
	TutorID *uuid.UUID `form:"tutor_id"`
	From    *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To      *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	Limit   int        `form:"limit"`
	Cursor  string     `form:"cursor"`
}

type ListTutorSlotsQuery struct {
	Status *string `form:"status"`
}
