package queries

import (
	"time"

	"github.com/google/uuid"
)

// Read models (DTO for read side)

type SlotView struct {
	ID        uuid.UUID  `json:"id"`
	TutorID   uuid.UUID  `json:"tutor_id"`
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
	Status    string     `json:"status"`
	StudentID *uuid.UUID `json:"student_id,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

type AvailableSlotItem struct {
	ID      uuid.UUID `json:"id"`
	TutorID uuid.UUID `json:"tutor_id"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

type AuthorizedUserView struct {
	ID           uuid.UUID `json:"id"`
	ExternalUID  string    `json:"external_uid"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	IsActive     bool      `json:"is_active"`
}

// AvailabilityWindow carries the normalized bounds handed to the read
// store: From is already clamped to "now" by the query engine.
type AvailabilityWindow struct {
	TutorID *uuid.UUID
	From    time.Time
	To      *time.Time
}
