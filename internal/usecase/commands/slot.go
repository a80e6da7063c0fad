package commands

import (
	"context"
	"errors"
	"time"

	"tutorhive/internal/domain/slot"
	"tutorhive/internal/domain/user"
	"tutorhive/internal/infra"
	"tutorhive/internal/pkg/clock"
	"tutorhive/internal/pkg/errs"
	"tutorhive/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrSlotNotFound      = errs.New("slot not found")
	ErrInvalidInterval   = errs.New("invalid slot interval")
	ErrSlotConflict      = errs.New("slot conflicts with an existing slot")
	ErrSlotNotModifiable = errs.New("slot is not modifiable in its current state")
	ErrSlotInPast        = errs.New("slot is no longer bookable")
	ErrForbidden         = errs.New("actor may not modify this slot")
	ErrUnavailable       = errs.New("slot store temporarily unavailable")
)

// Actor is the authenticated principal performing a mutation. Ownership
// and force-cancel decisions happen here, in one place, instead of in
// each handler.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

type SlotCommands interface {
	// CreateSlot publishes a new available slot for the tutor. The actor
	// must be the tutor themselves or an admin.
	CreateSlot(ctx context.Context, actor Actor, tutorID uuid.UUID, start, end time.Time) (*slot.TimeSlot, error)
	// RescheduleSlot moves an available slot to a new interval.
	RescheduleSlot(ctx context.Context, actor Actor, slotID uuid.UUID, start, end time.Time) (*slot.TimeSlot, error)
	// DeleteSlot removes an available slot. An admin may force-cancel a
	// booked slot, which keeps the row for audit but frees the interval.
	DeleteSlot(ctx context.Context, actor Actor, slotID uuid.UUID) error
	// BookSlot claims an available future slot for the student. Invoked by
	// the booking flow, not by tutors.
	BookSlot(ctx context.Context, studentID uuid.UUID, slotID uuid.UUID) (*slot.TimeSlot, error)
}

type slotUseCaseImpl struct {
	uow      shared.UnitOfWork
	resolver slot.Resolver
	clock    clock.Clock
}

func NewSlotUseCase(uow shared.UnitOfWork, clk clock.Clock) SlotCommands {
	return &slotUseCaseImpl{
		uow:      uow,
		resolver: slot.NewResolver(),
		clock:    clk,
	}
}

func (u *slotUseCaseImpl) CreateSlot(ctx context.Context, actor Actor, tutorID uuid.UUID, start, end time.Time) (*slot.TimeSlot, error) {
	if err := authorizeTutorAction(actor, tutorID); err != nil {
		return nil, err
	}

	interval, err := slot.NewInterval(start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInterval)
	}

	var created *slot.TimeSlot
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Slots()
		if err := repo.LockTutor(ctx, tutorID); err != nil {
			return err
		}

		overlapping, err := repo.ListOverlapping(ctx, tutorID, interval, nil)
		if err != nil {
			return err
		}
		if err := u.resolver.ValidateCreate(overlapping, interval); err != nil {
			return errs.Mark(err, ErrSlotConflict)
		}

		created, err = repo.Insert(ctx, slot.NewTimeSlot(tutorID, interval))
		return err
	})
	if err != nil {
		return nil, mapSlotRepoErr(err)
	}
	return created, nil
}

func (u *slotUseCaseImpl) RescheduleSlot(ctx context.Context, actor Actor, slotID uuid.UUID, start, end time.Time) (*slot.TimeSlot, error) {
	interval, err := slot.NewInterval(start, end)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidInterval)
	}

	var updated *slot.TimeSlot
	err = u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Slots()
		s, err := loadOwnedSlot(ctx, repo, actor, slotID)
		if err != nil {
			return err
		}

		overlapping, err := repo.ListOverlapping(ctx, s.TutorID(), interval, ptr(slotID))
		if err != nil {
			return err
		}
		if err := u.resolver.ValidateReschedule(s, overlapping, interval); err != nil {
			return markResolverErr(err)
		}

		updated, err = repo.UpdateInterval(ctx, slotID, interval)
		return err
	})
	if err != nil {
		return nil, mapSlotRepoErr(err)
	}
	return updated, nil
}

func (u *slotUseCaseImpl) DeleteSlot(ctx context.Context, actor Actor, slotID uuid.UUID) error {
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Slots()
		s, err := loadOwnedSlot(ctx, repo, actor, slotID)
		if err != nil {
			return err
		}

		forceCancel := actor.Role.CanForceCancel()
		if err := u.resolver.ValidateRemoval(s, forceCancel); err != nil {
			return markResolverErr(err)
		}

		if s.IsBooked() {
			// Keep the row for audit; cancelled status frees the interval
			// for the exclusion constraint.
			_, err = repo.UpdateStatus(ctx, slotID, slot.StatusBooked, slot.StatusCancelled, s.StudentID())
			return err
		}
		return repo.Delete(ctx, slotID)
	})
	if err != nil {
		return mapSlotRepoErr(err)
	}
	return nil
}

func (u *slotUseCaseImpl) BookSlot(ctx context.Context, studentID uuid.UUID, slotID uuid.UUID) (*slot.TimeSlot, error) {
	var booked *slot.TimeSlot
	err := u.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		repo := tx.Slots()
		s, err := lockAndReload(ctx, repo, slotID)
		if err != nil {
			return err
		}

		if !s.BookableAt(u.clock.Now()) {
			if s.IsAvailable() {
				return ErrSlotInPast
			}
			return ErrSlotConflict
		}

		blocking, err := repo.ListBlocking(ctx, s.TutorID())
		if err != nil {
			return err
		}
		if err := u.resolver.ValidateBooking(s, blocking); err != nil {
			return errs.Mark(err, ErrSlotConflict)
		}

		booked, err = repo.UpdateStatus(ctx, slotID, slot.StatusAvailable, slot.StatusBooked, &studentID)
		return err
	})
	if err != nil {
		return nil, mapSlotRepoErr(err)
	}
	return booked, nil
}

// loadOwnedSlot resolves the slot, serializes against other mutators of
// its tutor, and enforces that the actor owns the slot or is an admin.
func loadOwnedSlot(ctx context.Context, repo shared.SlotRepository, actor Actor, slotID uuid.UUID) (*slot.TimeSlot, error) {
	s, err := lockAndReload(ctx, repo, slotID)
	if err != nil {
		return nil, err
	}
	if !s.IsOwnedBy(actor.ID) && !actor.Role.CanForceCancel() {
		return nil, ErrForbidden
	}
	return s, nil
}

// lockAndReload finds the slot, takes the tutor lock, then reads the slot
// again: the first read happens before the lock, so its status may be
// stale by the time the lock is held.
func lockAndReload(ctx context.Context, repo shared.SlotRepository, slotID uuid.UUID) (*slot.TimeSlot, error) {
	s, err := repo.FindByID(ctx, slotID)
	if err != nil {
		return nil, err
	}
	if err := repo.LockTutor(ctx, s.TutorID()); err != nil {
		return nil, err
	}
	return repo.FindByID(ctx, slotID)
}

func authorizeTutorAction(actor Actor, tutorID uuid.UUID) error {
	if actor.Role.CanForceCancel() {
		return nil
	}
	if !actor.Role.CanPublishSlots() || actor.ID != tutorID {
		return ErrForbidden
	}
	return nil
}

func markResolverErr(err error) error {
	switch {
	case errors.Is(err, slot.ErrConflict):
		return errs.Mark(err, ErrSlotConflict)
	case errors.Is(err, slot.ErrNotModifiable), errors.Is(err, slot.ErrAlreadyReleased):
		return errs.Mark(err, ErrSlotNotModifiable)
	default:
		return err
	}
}

// mapSlotRepoErr folds storage-level classifications into the command
// sentinels the handlers translate to HTTP statuses. Errors already
// marked with a sentinel pass through untouched.
func mapSlotRepoErr(err error) error {
	if err == nil {
		return nil
	}
	for _, sentinel := range []error{
		ErrSlotNotFound, ErrInvalidInterval, ErrSlotConflict,
		ErrSlotNotModifiable, ErrSlotInPast, ErrForbidden, ErrUnavailable,
	} {
		if errors.Is(err, sentinel) {
			return err
		}
	}
	switch {
	case infra.IsKind(err, infra.KindNotFound):
		return errs.Mark(err, ErrSlotNotFound)
	case infra.IsKind(err, infra.KindConflict), infra.IsKind(err, infra.KindDuplicateKey):
		return errs.Mark(err, ErrSlotConflict)
	case infra.IsKind(err, infra.KindUnavailable):
		return errs.Mark(err, ErrUnavailable)
	default:
		return err
	}
}

func ptr[T any](v T) *T {
	return &v
}
