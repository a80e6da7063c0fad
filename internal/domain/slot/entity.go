package slot

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidStatus   = errors.New("invalid slot status")
	ErrMissingStudent  = errors.New("booked slot requires a student")
	ErrNotModifiable   = errors.New("slot status disallows this mutation")
	ErrAlreadyReleased = errors.New("slot is already cancelled")
)

// TimeSlot is a tutor-published bookable interval. The tutor and interval
// pair is guarded by the per-tutor non-overlap invariant: no two slots of
// one tutor in a blocking status may overlap.
type TimeSlot struct {
	id        uuid.UUID
	tutorID   uuid.UUID
	interval  Interval
	status    Status
	studentID *uuid.UUID
	createdAt time.Time
	updatedAt time.Time
}

// NewTimeSlot creates an unpersisted slot in status available. Audit
// timestamps are assigned by the store on insert.
func NewTimeSlot(tutorID uuid.UUID, interval Interval) *TimeSlot {
	return &TimeSlot{
		id:       uuid.New(),
		tutorID:  tutorID,
		interval: interval,
		status:   StatusAvailable,
	}
}

func ReconstructTimeSlot(
	id, tutorID uuid.UUID,
	interval Interval,
	status Status,
	studentID *uuid.UUID,
	createdAt, updatedAt time.Time,
) *TimeSlot {
	return &TimeSlot{
		id:        id,
		tutorID:   tutorID,
		interval:  interval,
		status:    status,
		studentID: studentID,
		createdAt: createdAt,
		updatedAt: updatedAt,
	}
}

func (s *TimeSlot) ID() uuid.UUID         { return s.id }
func (s *TimeSlot) TutorID() uuid.UUID    { return s.tutorID }
func (s *TimeSlot) Interval() Interval    { return s.interval }
func (s *TimeSlot) Status() Status        { return s.status }
func (s *TimeSlot) StudentID() *uuid.UUID { return s.studentID }
func (s *TimeSlot) CreatedAt() time.Time  { return s.createdAt }
func (s *TimeSlot) UpdatedAt() time.Time  { return s.updatedAt }

func (s *TimeSlot) IsAvailable() bool {
	return s.status == StatusAvailable
}

func (s *TimeSlot) IsBooked() bool {
	return s.status == StatusBooked
}

func (s *TimeSlot) IsCancelled() bool {
	return s.status == StatusCancelled
}

func (s *TimeSlot) IsOwnedBy(tutorID uuid.UUID) bool {
	return s.tutorID == tutorID
}

// BookableAt reports whether a student could still take this slot at the
// given instant. Slots whose start has passed are never bookable.
func (s *TimeSlot) BookableAt(now time.Time) bool {
	return s.status == StatusAvailable && !s.interval.Start().Before(now.UTC())
}

// Reschedule moves the slot to a new interval. Only available slots move;
// a booked slot must be cancelled through its own path first.
func (s *TimeSlot) Reschedule(interval Interval) error {
	if s.status != StatusAvailable {
		return ErrNotModifiable
	}
	s.interval = interval
	return nil
}

// Book transitions available -> booked, recording the owning student.
func (s *TimeSlot) Book(studentID uuid.UUID) error {
	if s.status != StatusAvailable {
		return ErrNotModifiable
	}
	if studentID == uuid.Nil {
		return ErrMissingStudent
	}
	s.status = StatusBooked
	s.studentID = &studentID
	return nil
}

// Cancel releases the slot's interval. Cancelling an already cancelled
// slot is rejected so callers notice double submissions.
func (s *TimeSlot) Cancel() error {
	if s.status == StatusCancelled {
		return ErrAlreadyReleased
	}
	s.status = StatusCancelled
	return nil
}
