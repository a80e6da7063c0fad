//go:build unit

package response

import (
	"testing"
	"time"

	"tutorhive/internal/domain/slot"
	"tutorhive/internal/usecase/queries"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestFromSlotView(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	studentID := uuid.New()
	view := &queries.SlotView{
		ID:        uuid.New(),
		TutorID:   uuid.New(),
		Start:     start,
		End:       start.Add(time.Hour),
		Status:    "booked",
		StudentID: &studentID,
		CreatedAt: start.Add(-24 * time.Hour),
		UpdatedAt: start.Add(-time.Hour),
	}

	got := FromSlotView(view)
	want := &SlotResponse{
		ID:        view.ID,
		TutorID:   view.TutorID,
		Start:     view.Start,
		End:       view.End,
		Status:    view.Status,
		StudentID: view.StudentID,
		CreatedAt: view.CreatedAt,
		UpdatedAt: view.UpdatedAt,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestFromSlotEntity(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	iv, err := slot.NewInterval(start, start.Add(time.Hour))
	require.NoError(t, err)
	s := slot.NewTimeSlot(uuid.New(), iv)

	got := FromSlotEntity(s)
	want := &SlotResponse{
		ID:      s.ID(),
		TutorID: s.TutorID(),
		Start:   start,
		End:     start.Add(time.Hour),
		Status:  "available",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestFromAvailableSlotItems(t *testing.T) {
	start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	items := []*queries.AvailableSlotItem{
		{ID: uuid.New(), TutorID: uuid.New(), Start: start, End: start.Add(time.Hour)},
	}

	t.Run("with next cursor", func(t *testing.T) {
		page := FromAvailableSlotItems(items, &queries.Cursor{After: "abc"})
		require.Len(t, page.Items, 1)
		require.NotNil(t, page.NextCursor)
		require.Equal(t, "abc", *page.NextCursor)
	})

	t.Run("last page has no cursor", func(t *testing.T) {
		page := FromAvailableSlotItems(items, nil)
		require.Nil(t, page.NextCursor)
	})

	t.Run("empty result is an empty list, not null", func(t *testing.T) {
		page := FromAvailableSlotItems(nil, nil)
		require.NotNil(t, page.Items)
		require.Len(t, page.Items, 0)
	})
}
