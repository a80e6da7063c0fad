package queries

import (
	"context"
	"time"

	"tutorhive/internal/domain/slot"
	"tutorhive/internal/pkg/clock"
	"tutorhive/internal/pkg/errs"

	"github.com/google/uuid"
)

var ErrInvalidCursor = errs.New("invalid pagination cursor")

// AvailabilityFilter is the caller-facing filter for the availability
// listing. All fields are optional.
type AvailabilityFilter struct {
	TutorID *uuid.UUID
	From    *time.Time
	To      *time.Time
}

type SlotQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	// ListByTutor returns every slot of the tutor, any status, ordered by
	// interval start.
	ListByTutor(ctx context.Context, tutorID uuid.UUID, status *slot.Status) ([]*SlotView, error)
	// ListAvailable answers "what can a student book": only available
	// slots starting at or after now, ordered by start, one keyset page
	// per call. A non-nil next cursor means more pages may follow.
	ListAvailable(ctx context.Context, filter AvailabilityFilter, after *Cursor, limit int) ([]*AvailableSlotItem, *Cursor, error)
}

type SlotReadStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SlotView, error)
	FindByTutor(ctx context.Context, tutorID uuid.UUID, status *string) ([]*SlotView, error)
	FindAvailableFirstPage(ctx context.Context, window AvailabilityWindow, limit int32) ([]*AvailableSlotItem, error)
	FindAvailableKeyset(ctx context.Context, window AvailabilityWindow, afterStart time.Time, afterID uuid.UUID, limit int32) ([]*AvailableSlotItem, error)
}

type slotQueriesImpl struct {
	store SlotReadStore
	clock clock.Clock
}

func NewSlotQueries(store SlotReadStore, clk clock.Clock) SlotQueries {
	return &slotQueriesImpl{store: store, clock: clk}
}

func (q *slotQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*SlotView, error) {
	return q.store.FindByID(ctx, id)
}

func (q *slotQueriesImpl) ListByTutor(ctx context.Context, tutorID uuid.UUID, status *slot.Status) ([]*SlotView, error) {
	var statusFilter *string
	if status != nil {
		s := status.String()
		statusFilter = &s
	}
	return q.store.FindByTutor(ctx, tutorID, statusFilter)
}

func (q *slotQueriesImpl) ListAvailable(ctx context.Context, filter AvailabilityFilter, after *Cursor, limit int) ([]*AvailableSlotItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	// Past slots are never bookable, so the lower bound is clamped to now
	// regardless of what the caller asked for.
	now := q.clock.Now()
	from := now
	if filter.From != nil && filter.From.After(now) {
		from = filter.From.UTC()
	}

	window := AvailabilityWindow{
		TutorID: filter.TutorID,
		From:    from,
		To:      filter.To,
	}

	var (
		items []*AvailableSlotItem
		err   error
	)
	if after == nil || after.After == "" {
		items, err = q.store.FindAvailableFirstPage(ctx, window, int32(limit))
	} else {
		var (
			afterStart time.Time
			afterID    uuid.UUID
		)
		afterStart, afterID, err = DecodeAfterCursor(after.After)
		if err != nil {
			return nil, nil, errs.Mark(err, ErrInvalidCursor)
		}
		items, err = q.store.FindAvailableKeyset(ctx, window, afterStart, afterID, int32(limit))
	}
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(items) == limit {
		last := items[len(items)-1]
		next = &Cursor{After: EncodeAfterCursor(last.Start, last.ID)}
	}
	return items, next, nil
}
