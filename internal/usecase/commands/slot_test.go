//go:build unit

package commands

import (
	"context"
	"testing"
	"time"

	"tutorhive/internal/domain/slot"
	"tutorhive/internal/domain/user"
	"tutorhive/internal/infra"
	"tutorhive/internal/infra/db"
	"tutorhive/internal/pkg/clock"
	"tutorhive/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeSlotRepo keeps the tutor's slots in memory and mimics the store's
// compare-and-swap and not-found classifications.
type fakeSlotRepo struct {
	slots      map[uuid.UUID]*slot.TimeSlot
	lockCalls  []uuid.UUID
	lockErr    error
	insertErr  error
	deletedIDs []uuid.UUID
}

func newFakeSlotRepo(slots ...*slot.TimeSlot) *fakeSlotRepo {
	repo := &fakeSlotRepo{slots: make(map[uuid.UUID]*slot.TimeSlot)}
	for _, s := range slots {
		repo.slots[s.ID()] = s
	}
	return repo
}

func (f *fakeSlotRepo) LockTutor(_ context.Context, tutorID uuid.UUID) error {
	f.lockCalls = append(f.lockCalls, tutorID)
	return f.lockErr
}

func (f *fakeSlotRepo) FindByID(_ context.Context, id uuid.UUID) (*slot.TimeSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, infra.WrapRepoErr("slot not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return s, nil
}

func (f *fakeSlotRepo) ListBlocking(_ context.Context, tutorID uuid.UUID) ([]*slot.TimeSlot, error) {
	var out []*slot.TimeSlot
	for _, s := range f.slots {
		if s.TutorID() == tutorID && s.Status().BlocksInterval() {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) ListOverlapping(_ context.Context, tutorID uuid.UUID, interval slot.Interval, excludeID *uuid.UUID) ([]*slot.TimeSlot, error) {
	var out []*slot.TimeSlot
	for _, s := range f.slots {
		if s.TutorID() != tutorID || !s.Status().BlocksInterval() {
			continue
		}
		if excludeID != nil && s.ID() == *excludeID {
			continue
		}
		if s.Interval().Overlaps(interval) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeSlotRepo) Insert(_ context.Context, s *slot.TimeSlot) (*slot.TimeSlot, error) {
	if f.insertErr != nil {
		return nil, f.insertErr
	}
	f.slots[s.ID()] = s
	return s, nil
}

func (f *fakeSlotRepo) UpdateInterval(_ context.Context, id uuid.UUID, interval slot.Interval) (*slot.TimeSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, infra.WrapRepoErr("slot not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	if err := s.Reschedule(interval); err != nil {
		return nil, err
	}
	return s, nil
}

func (f *fakeSlotRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to slot.Status, studentID *uuid.UUID) (*slot.TimeSlot, error) {
	s, ok := f.slots[id]
	if !ok {
		return nil, infra.WrapRepoErr("slot not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	if s.Status() != from {
		return nil, infra.WrapRepoErr("slot status changed concurrently", pgx.ErrNoRows, infra.KindConflict)
	}
	rebuilt := slot.ReconstructTimeSlot(s.ID(), s.TutorID(), s.Interval(), to, studentID, s.CreatedAt(), s.UpdatedAt())
	f.slots[id] = rebuilt
	return rebuilt, nil
}

func (f *fakeSlotRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.slots[id]; !ok {
		return infra.WrapRepoErr("slot not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	delete(f.slots, id)
	f.deletedIDs = append(f.deletedIDs, id)
	return nil
}

type fakeTx struct {
	repo *fakeSlotRepo
}

func (t *fakeTx) Slots() shared.SlotRepository { return t.repo }
func (t *fakeTx) Users() shared.UserRepository { return nil }
func (t *fakeTx) DB() db.DBTX                  { return nil }

type fakeUoW struct {
	repo *fakeSlotRepo
}

func (u *fakeUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return fn(ctx, &fakeTx{repo: u.repo})
}

func (u *fakeUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func (u *fakeUoW) WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error {
	return fn(ctx, nil)
}

func buildSlot(t *testing.T, tutorID uuid.UUID, status slot.Status, start, end time.Time, studentID *uuid.UUID) *slot.TimeSlot {
	t.Helper()
	iv, err := slot.NewInterval(start, end)
	require.NoError(t, err)
	return slot.ReconstructTimeSlot(uuid.New(), tutorID, iv, status, studentID, start.Add(-time.Hour), start.Add(-time.Hour))
}

func newCommands(repo *fakeSlotRepo, now time.Time) SlotCommands {
	return NewSlotUseCase(&fakeUoW{repo: repo}, clock.NewFixedClock(now))
}

var testNow = time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC)

func TestCreateSlot(t *testing.T) {
	tutorID := uuid.New()
	tutor := Actor{ID: tutorID, Role: user.RoleTutor}
	h := func(hours int) time.Time { return testNow.Add(time.Duration(hours) * time.Hour) }

	t.Run("creates in empty schedule", func(t *testing.T) {
		repo := newFakeSlotRepo()
		cmds := newCommands(repo, testNow)

		created, err := cmds.CreateSlot(context.Background(), tutor, tutorID, h(1), h(2))
		require.NoError(t, err)
		assert.True(t, created.IsAvailable())
		assert.Equal(t, tutorID, created.TutorID())
		assert.Equal(t, []uuid.UUID{tutorID}, repo.lockCalls, "tutor lock taken before the overlap read")
	})

	t.Run("abutting slot accepted", func(t *testing.T) {
		existing := buildSlot(t, tutorID, slot.StatusAvailable, h(1), h(2), nil)
		repo := newFakeSlotRepo(existing)
		cmds := newCommands(repo, testNow)

		_, err := cmds.CreateSlot(context.Background(), tutor, tutorID, h(2), h(3))
		require.NoError(t, err)
	})

	t.Run("overlapping slot rejected", func(t *testing.T) {
		existing := buildSlot(t, tutorID, slot.StatusAvailable, h(1), h(3), nil)
		repo := newFakeSlotRepo(existing)
		cmds := newCommands(repo, testNow)

		_, err := cmds.CreateSlot(context.Background(), tutor, tutorID, h(2), h(4))
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("cancelled slot frees its interval", func(t *testing.T) {
		cancelled := buildSlot(t, tutorID, slot.StatusCancelled, h(1), h(3), nil)
		repo := newFakeSlotRepo(cancelled)
		cmds := newCommands(repo, testNow)

		_, err := cmds.CreateSlot(context.Background(), tutor, tutorID, h(2), h(4))
		require.NoError(t, err)
	})

	t.Run("reversed interval rejected", func(t *testing.T) {
		repo := newFakeSlotRepo()
		cmds := newCommands(repo, testNow)

		_, err := cmds.CreateSlot(context.Background(), tutor, tutorID, h(2), h(1))
		assert.ErrorIs(t, err, ErrInvalidInterval)
		assert.Empty(t, repo.lockCalls, "no transaction work for invalid input")
	})

	t.Run("student cannot publish slots", func(t *testing.T) {
		repo := newFakeSlotRepo()
		cmds := newCommands(repo, testNow)

		_, err := cmds.CreateSlot(context.Background(), Actor{ID: uuid.New(), Role: user.RoleStudent}, tutorID, h(1), h(2))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("tutor cannot publish for another tutor", func(t *testing.T) {
		repo := newFakeSlotRepo()
		cmds := newCommands(repo, testNow)

		other := Actor{ID: uuid.New(), Role: user.RoleTutor}
		_, err := cmds.CreateSlot(context.Background(), other, tutorID, h(1), h(2))
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("admin can publish for any tutor", func(t *testing.T) {
		repo := newFakeSlotRepo()
		cmds := newCommands(repo, testNow)

		admin := Actor{ID: uuid.New(), Role: user.RoleAdmin}
		_, err := cmds.CreateSlot(context.Background(), admin, tutorID, h(1), h(2))
		require.NoError(t, err)
	})

	t.Run("storage conflict surfaces as slot conflict", func(t *testing.T) {
		repo := newFakeSlotRepo()
		repo.insertErr = infra.WrapRepoErr("overlap", assert.AnError, infra.KindConflict)
		cmds := newCommands(repo, testNow)

		_, err := cmds.CreateSlot(context.Background(), tutor, tutorID, h(1), h(2))
		assert.ErrorIs(t, err, ErrSlotConflict)
	})
}

func TestRescheduleSlot(t *testing.T) {
	tutorID := uuid.New()
	tutor := Actor{ID: tutorID, Role: user.RoleTutor}
	h := func(hours int) time.Time { return testNow.Add(time.Duration(hours) * time.Hour) }

	t.Run("moves an available slot", func(t *testing.T) {
		s := buildSlot(t, tutorID, slot.StatusAvailable, h(1), h(2), nil)
		repo := newFakeSlotRepo(s)
		cmds := newCommands(repo, testNow)

		updated, err := cmds.RescheduleSlot(context.Background(), tutor, s.ID(), h(3), h(4))
		require.NoError(t, err)
		assert.True(t, updated.Interval().Start().Equal(h(3)))
	})

	t.Run("self overlap allowed when widening in place", func(t *testing.T) {
		s := buildSlot(t, tutorID, slot.StatusAvailable, h(1), h(2), nil)
		repo := newFakeSlotRepo(s)
		cmds := newCommands(repo, testNow)

		_, err := cmds.RescheduleSlot(context.Background(), tutor, s.ID(), h(1), h(3))
		require.NoError(t, err)
	})

	t.Run("collision with sibling slot rejected", func(t *testing.T) {
		s := buildSlot(t, tutorID, slot.StatusAvailable, h(1), h(2), nil)
		sibling := buildSlot(t, tutorID, slot.StatusAvailable, h(3), h(4), nil)
		repo := newFakeSlotRepo(s, sibling)
		cmds := newCommands(repo, testNow)

		_, err := cmds.RescheduleSlot(context.Background(), tutor, s.ID(), h(3), h(5))
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("booked slot not modifiable", func(t *testing.T) {
		studentID := uuid.New()
		s := buildSlot(t, tutorID, slot.StatusBooked, h(1), h(2), &studentID)
		repo := newFakeSlotRepo(s)
		cmds := newCommands(repo, testNow)

		_, err := cmds.RescheduleSlot(context.Background(), tutor, s.ID(), h(3), h(4))
		assert.ErrorIs(t, err, ErrSlotNotModifiable)
	})

	t.Run("unknown slot reports not found", func(t *testing.T) {
		repo := newFakeSlotRepo()
		cmds := newCommands(repo, testNow)

		_, err := cmds.RescheduleSlot(context.Background(), tutor, uuid.New(), h(3), h(4))
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("foreign slot forbidden", func(t *testing.T) {
		s := buildSlot(t, uuid.New(), slot.StatusAvailable, h(1), h(2), nil)
		repo := newFakeSlotRepo(s)
		cmds := newCommands(repo, testNow)

		_, err := cmds.RescheduleSlot(context.Background(), tutor, s.ID(), h(3), h(4))
		assert.ErrorIs(t, err, ErrForbidden)
	})
}

func TestDeleteSlot(t *testing.T) {
	tutorID := uuid.New()
	tutor := Actor{ID: tutorID, Role: user.RoleTutor}
	admin := Actor{ID: uuid.New(), Role: user.RoleAdmin}
	h := func(hours int) time.Time { return testNow.Add(time.Duration(hours) * time.Hour) }

	t.Run("available slot deleted physically", func(t *testing.T) {
		s := buildSlot(t, tutorID, slot.StatusAvailable, h(1), h(2), nil)
		repo := newFakeSlotRepo(s)
		cmds := newCommands(repo, testNow)

		require.NoError(t, cmds.DeleteSlot(context.Background(), tutor, s.ID()))
		assert.Contains(t, repo.deletedIDs, s.ID())
	})

	t.Run("tutor cannot delete a booked slot", func(t *testing.T) {
		studentID := uuid.New()
		s := buildSlot(t, tutorID, slot.StatusBooked, h(1), h(2), &studentID)
		repo := newFakeSlotRepo(s)
		cmds := newCommands(repo, testNow)

		err := cmds.DeleteSlot(context.Background(), tutor, s.ID())
		assert.ErrorIs(t, err, ErrSlotNotModifiable)
	})

	t.Run("admin force-cancel keeps the row as cancelled", func(t *testing.T) {
		studentID := uuid.New()
		s := buildSlot(t, tutorID, slot.StatusBooked, h(1), h(2), &studentID)
		repo := newFakeSlotRepo(s)
		cmds := newCommands(repo, testNow)

		require.NoError(t, cmds.DeleteSlot(context.Background(), admin, s.ID()))
		kept, err := repo.FindByID(context.Background(), s.ID())
		require.NoError(t, err)
		assert.True(t, kept.IsCancelled())
		require.NotNil(t, kept.StudentID(), "student kept for audit")
		assert.Equal(t, studentID, *kept.StudentID())
	})

	t.Run("cancelled slot not deletable again", func(t *testing.T) {
		s := buildSlot(t, tutorID, slot.StatusCancelled, h(1), h(2), nil)
		repo := newFakeSlotRepo(s)
		cmds := newCommands(repo, testNow)

		err := cmds.DeleteSlot(context.Background(), admin, s.ID())
		assert.ErrorIs(t, err, ErrSlotNotModifiable)
	})

	t.Run("unknown slot reports not found", func(t *testing.T) {
		repo := newFakeSlotRepo()
		cmds := newCommands(repo, testNow)

		err := cmds.DeleteSlot(context.Background(), tutor, uuid.New())
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})
}

func TestBookSlot(t *testing.T) {
	tutorID := uuid.New()
	studentID := uuid.New()
	h := func(hours int) time.Time { return testNow.Add(time.Duration(hours) * time.Hour) }

	t.Run("books an available future slot", func(t *testing.T) {
		s := buildSlot(t, tutorID, slot.StatusAvailable, h(1), h(2), nil)
		repo := newFakeSlotRepo(s)
		cmds := newCommands(repo, testNow)

		booked, err := cmds.BookSlot(context.Background(), studentID, s.ID())
		require.NoError(t, err)
		assert.True(t, booked.IsBooked())
		require.NotNil(t, booked.StudentID())
		assert.Equal(t, studentID, *booked.StudentID())
	})

	t.Run("booked slot conflicts", func(t *testing.T) {
		other := uuid.New()
		s := buildSlot(t, tutorID, slot.StatusBooked, h(1), h(2), &other)
		repo := newFakeSlotRepo(s)
		cmds := newCommands(repo, testNow)

		_, err := cmds.BookSlot(context.Background(), studentID, s.ID())
		assert.ErrorIs(t, err, ErrSlotConflict)
	})

	t.Run("past slot is no longer bookable", func(t *testing.T) {
		s := buildSlot(t, tutorID, slot.StatusAvailable, h(-2), h(-1), nil)
		repo := newFakeSlotRepo(s)
		cmds := newCommands(repo, testNow)

		_, err := cmds.BookSlot(context.Background(), studentID, s.ID())
		assert.ErrorIs(t, err, ErrSlotInPast)
	})

	t.Run("unknown slot reports not found", func(t *testing.T) {
		repo := newFakeSlotRepo()
		cmds := newCommands(repo, testNow)

		_, err := cmds.BookSlot(context.Background(), studentID, uuid.New())
		assert.ErrorIs(t, err, ErrSlotNotFound)
	})

	t.Run("retry exhaustion surfaces as unavailable", func(t *testing.T) {
		s := buildSlot(t, tutorID, slot.StatusAvailable, h(1), h(2), nil)
		repo := newFakeSlotRepo(s)
		repo.lockErr = infra.WrapRepoErr("lock timeout", assert.AnError, infra.KindUnavailable)
		cmds := newCommands(repo, testNow)

		_, err := cmds.BookSlot(context.Background(), studentID, s.ID())
		assert.ErrorIs(t, err, ErrUnavailable)
	})
}
