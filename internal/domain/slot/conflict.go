package slot

import (
	"errors"

	"github.com/google/uuid"
)

var (
	ErrConflict = errors.New("interval overlaps an existing slot")
)

// Resolver holds the acceptance rules for every mutation of a tutor's slot
// set. All entry points (create, reschedule, cancel, the booking trigger)
// go through the same rule set so the overlap policy cannot drift between
// code paths. The resolver is pure: callers load the tutor's non-cancelled
// slots and the store makes the load-validate-write sequence atomic.
type Resolver struct{}

func NewResolver() Resolver {
	return Resolver{}
}

// ValidateCreate accepts a new interval iff it overlaps none of the
// tutor's blocking slots. Abutting slots pass: [09:00,10:00) and
// [10:00,11:00) coexist.
func (Resolver) ValidateCreate(existing []*TimeSlot, interval Interval) error {
	return checkOverlap(existing, interval, uuid.Nil)
}

// ValidateReschedule accepts a new interval for slot s iff s is still
// available and the interval clears every other blocking slot of the same
// tutor. The slot being moved is excluded so it cannot collide with
// itself.
func (Resolver) ValidateReschedule(s *TimeSlot, existing []*TimeSlot, interval Interval) error {
	if !s.IsAvailable() {
		return ErrNotModifiable
	}
	return checkOverlap(existing, interval, s.ID())
}

// ValidateRemoval guards delete and cancel. A booked slot is only
// removable on a force-cancel path; the authorization decision belongs to
// the caller, not to this rule set.
func (Resolver) ValidateRemoval(s *TimeSlot, forceCancel bool) error {
	switch s.Status() {
	case StatusAvailable:
		return nil
	case StatusBooked:
		if forceCancel {
			return nil
		}
		return ErrNotModifiable
	default:
		return ErrAlreadyReleased
	}
}

// ValidateBooking re-checks the whole slot set instead of trusting the
// slot's own prior status: two creates racing past each other could leave
// overlapping rows, and without this check two students could book them.
func (Resolver) ValidateBooking(s *TimeSlot, existing []*TimeSlot) error {
	if !s.IsAvailable() {
		return ErrConflict
	}
	for _, other := range existing {
		if other.ID() == s.ID() {
			continue
		}
		if other.IsBooked() && other.Interval().Overlaps(s.Interval()) {
			return ErrConflict
		}
	}
	return nil
}

func checkOverlap(existing []*TimeSlot, interval Interval, excludeID uuid.UUID) error {
	for _, other := range existing {
		if excludeID != uuid.Nil && other.ID() == excludeID {
			continue
		}
		if !other.Status().BlocksInterval() {
			continue
		}
		if other.Interval().Overlaps(interval) {
			return ErrConflict
		}
	}
	return nil
}
