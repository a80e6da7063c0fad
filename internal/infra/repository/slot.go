package repository

import (
	"context"
	"errors"
	"time"

	"tutorhive/internal/domain/slot"
	"tutorhive/internal/infra"
	"tutorhive/internal/infra/db"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeUniqueViolation    = "23505"
	pgErrCodeExclusionViolation = "23P01"
	pgErrCodeLockNotAvailable   = "55P03"
)

const slotColumns = `id, tutor_id, start_at, end_at, status, student_id, created_at, updated_at`

type SlotRepository struct {
	db db.DBTX
}

func NewSlotRepository(dbtx db.DBTX) *SlotRepository {
	return &SlotRepository{db: dbtx}
}

// LockTutor takes a transaction-scoped advisory lock keyed on the tutor id,
// so the overlap read and the following write are atomic with respect to
// every other mutation of the same tutor. The lock is released on commit or
// rollback; other tutors hash to different keys and proceed in parallel.
func (r *SlotRepository) LockTutor(ctx context.Context, tutorID uuid.UUID) error {
	_, err := r.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1::text, 0))`, tutorID)
	if err != nil {
		return wrapSlotErr("failed to lock tutor slot set", err)
	}
	return nil
}

func (r *SlotRepository) FindByID(ctx context.Context, id uuid.UUID) (*slot.TimeSlot, error) {
	row := r.db.QueryRow(ctx, `
		SELECT `+slotColumns+`
		FROM time_slots
		WHERE id = $1
	`, id)

	s, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, wrapSlotErr("failed to find slot by id", err)
	}
	return s, nil
}

func (r *SlotRepository) ListBlocking(ctx context.Context, tutorID uuid.UUID) ([]*slot.TimeSlot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+slotColumns+`
		FROM time_slots
		WHERE tutor_id = $1
		  AND status IN ('available', 'booked')
		ORDER BY start_at, end_at
	`, tutorID)
	if err != nil {
		return nil, wrapSlotErr("failed to list blocking slots", err)
	}
	return collectSlots(rows, "failed to scan blocking slots")
}

func (r *SlotRepository) ListOverlapping(ctx context.Context, tutorID uuid.UUID, interval slot.Interval, excludeID *uuid.UUID) ([]*slot.TimeSlot, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+slotColumns+`
		FROM time_slots
		WHERE tutor_id = $1
		  AND status IN ('available', 'booked')
		  AND start_at < $3
		  AND end_at > $2
		  AND ($4::uuid IS NULL OR id <> $4)
		ORDER BY start_at, end_at
	`, tutorID, interval.Start(), interval.End(), excludeID)
	if err != nil {
		return nil, wrapSlotErr("failed to list overlapping slots", err)
	}
	return collectSlots(rows, "failed to scan overlapping slots")
}

func (r *SlotRepository) Insert(ctx context.Context, s *slot.TimeSlot) (*slot.TimeSlot, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO time_slots (id, tutor_id, start_at, end_at, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+slotColumns+`
	`, s.ID(), s.TutorID(), s.Interval().Start(), s.Interval().End(), s.Status().String())

	inserted, err := scanSlot(row)
	if err != nil {
		return nil, wrapSlotErr("failed to insert slot", err)
	}
	return inserted, nil
}

func (r *SlotRepository) UpdateInterval(ctx context.Context, id uuid.UUID, interval slot.Interval) (*slot.TimeSlot, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE time_slots
		SET start_at = $2, end_at = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+slotColumns+`
	`, id, interval.Start(), interval.End())

	updated, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, wrapSlotErr("failed to update slot interval", err)
	}
	return updated, nil
}

// UpdateStatus is a compare-and-swap: the row only changes when its status
// still equals `from`. A vanished or already-transitioned row surfaces as
// NotFound or Conflict respectively so callers can tell a race from a
// missing slot.
func (r *SlotRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to slot.Status, studentID *uuid.UUID) (*slot.TimeSlot, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE time_slots
		SET status = $3, student_id = $4, updated_at = now()
		WHERE id = $1
		  AND status = $2
		RETURNING `+slotColumns+`
	`, id, from.String(), to.String(), studentID)

	updated, err := scanSlot(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			exists, existsErr := r.exists(ctx, id)
			if existsErr != nil {
				return nil, existsErr
			}
			if !exists {
				return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
			}
			return nil, infra.WrapRepoErr("slot status changed concurrently", err, infra.KindConflict)
		}
		return nil, wrapSlotErr("failed to update slot status", err)
	}
	return updated, nil
}

func (r *SlotRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM time_slots WHERE id = $1`, id)
	if err != nil {
		return wrapSlotErr("failed to delete slot", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("slot not found", pgx.ErrNoRows, infra.KindNotFound)
	}
	return nil
}

func (r *SlotRepository) exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var found bool
	err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM time_slots WHERE id = $1)`, id).Scan(&found)
	if err != nil {
		return false, wrapSlotErr("failed to check slot existence", err)
	}
	return found, nil
}

func scanSlot(row pgx.Row) (*slot.TimeSlot, error) {
	var (
		id, tutorID          uuid.UUID
		startAt, endAt       time.Time
		status               string
		studentID            *uuid.UUID
		createdAt, updatedAt time.Time
	)
	if err := row.Scan(&id, &tutorID, &startAt, &endAt, &status, &studentID, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	interval, err := slot.NewInterval(startAt, endAt)
	if err != nil {
		return nil, err
	}
	st, err := slot.NewStatus(status)
	if err != nil {
		return nil, err
	}

	return slot.ReconstructTimeSlot(id, tutorID, interval, st, studentID, createdAt, updatedAt), nil
}

func collectSlots(rows pgx.Rows, msg string) ([]*slot.TimeSlot, error) {
	defer rows.Close()

	var slots []*slot.TimeSlot
	for rows.Next() {
		s, err := scanSlot(rows)
		if err != nil {
			return nil, wrapSlotErr(msg, err)
		}
		slots = append(slots, s)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapSlotErr(msg, err)
	}
	return slots, nil
}

// wrapSlotErr classifies low-level pg errors into repository kinds: the
// exclusion constraint firing means a concurrent mutation produced an
// overlap (conflict), lock or deadline trouble means the caller should
// retry later.
func wrapSlotErr(msg string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgErrCodeExclusionViolation:
			return infra.WrapRepoErr(msg, err, infra.KindConflict)
		case pgErrCodeUniqueViolation:
			return infra.WrapRepoErr(msg, err, infra.KindDuplicateKey)
		case pgErrCodeLockNotAvailable:
			return infra.WrapRepoErr(msg, err, infra.KindUnavailable)
		}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return infra.WrapRepoErr(msg, err, infra.KindUnavailable)
	}
	return infra.WrapRepoErr(msg, err)
}
