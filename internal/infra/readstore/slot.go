package readstore

import (
	"context"
	"errors"
	"time"

	"tutorhive/internal/infra"
	"tutorhive/internal/infra/db"
	"tutorhive/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type SlotReadStore struct {
	db db.DBTX
}

func NewSlotReadStore(dbtx db.DBTX) *SlotReadStore {
	return &SlotReadStore{db: dbtx}
}

func (r *SlotReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.SlotView, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, tutor_id, start_at, end_at, status, student_id, created_at, updated_at
		FROM time_slots
		WHERE id = $1
	`, id)

	view, err := scanSlotView(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("slot not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find slot by id", err)
	}
	return view, nil
}

func (r *SlotReadStore) FindByTutor(ctx context.Context, tutorID uuid.UUID, status *string) ([]*queries.SlotView, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tutor_id, start_at, end_at, status, student_id, created_at, updated_at
		FROM time_slots
		WHERE tutor_id = $1
		  AND ($2::text IS NULL OR status = $2)
		ORDER BY start_at, end_at
	`, tutorID, status)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list tutor slots", err)
	}
	defer rows.Close()

	var views []*queries.SlotView
	for rows.Next() {
		view, scanErr := scanSlotView(rows)
		if scanErr != nil {
			return nil, infra.WrapRepoErr("failed to scan tutor slot", scanErr)
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to list tutor slots", err)
	}
	return views, nil
}

func (r *SlotReadStore) FindAvailableFirstPage(ctx context.Context, window queries.AvailabilityWindow, limit int32) ([]*queries.AvailableSlotItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tutor_id, start_at, end_at
		FROM time_slots
		WHERE status = 'available'
		  AND start_at >= $1
		  AND ($2::uuid IS NULL OR tutor_id = $2)
		  AND ($3::timestamptz IS NULL OR start_at < $3)
		ORDER BY start_at, id
		LIMIT $4
	`, window.From, window.TutorID, window.To, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list available slots", err)
	}
	return collectAvailable(rows)
}

func (r *SlotReadStore) FindAvailableKeyset(ctx context.Context, window queries.AvailabilityWindow, afterStart time.Time, afterID uuid.UUID, limit int32) ([]*queries.AvailableSlotItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, tutor_id, start_at, end_at
		FROM time_slots
		WHERE status = 'available'
		  AND start_at >= $1
		  AND ($2::uuid IS NULL OR tutor_id = $2)
		  AND ($3::timestamptz IS NULL OR start_at < $3)
		  AND (start_at, id) > ($4, $5)
		ORDER BY start_at, id
		LIMIT $6
	`, window.From, window.TutorID, window.To, afterStart, afterID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list available slots keyset", err)
	}
	return collectAvailable(rows)
}

func scanSlotView(row pgx.Row) (*queries.SlotView, error) {
	var view queries.SlotView
	err := row.Scan(
		&view.ID,
		&view.TutorID,
		&view.Start,
		&view.End,
		&view.Status,
		&view.StudentID,
		&view.CreatedAt,
		&view.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &view, nil
}

func collectAvailable(rows pgx.Rows) ([]*queries.AvailableSlotItem, error) {
	defer rows.Close()

	var items []*queries.AvailableSlotItem
	for rows.Next() {
		var item queries.AvailableSlotItem
		if err := rows.Scan(&item.ID, &item.TutorID, &item.Start, &item.End); err != nil {
			return nil, infra.WrapRepoErr("failed to scan available slot", err)
		}
		items = append(items, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read available slots", err)
	}
	return items, nil
}
