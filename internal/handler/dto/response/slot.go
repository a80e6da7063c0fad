package response

import (
	"time"

	"tutorhive/internal/domain/slot"
	"tutorhive/internal/usecase/queries"

	"github.com/google/uuid"
)

type SlotResponse struct {
	ID        uuid.UUID  `json:"id"`
	TutorID   uuid.UUID  `json:"tutorId"`
	Start     time.Time  `json:"start"`
	End       time.Time  `json:"end"`
	Status    string     `json:"status"`
	StudentID *uuid.UUID `json:"studentId,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt time.Time  `json:"updatedAt"`
}

type AvailableSlotResponse struct {
	ID      uuid.UUID `json:"id"`
	TutorID uuid.UUID `json:"tutorId"`
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
}

type AvailableSlotPageResponse struct {
	Items      []*AvailableSlotResponse `json:"items"`
	NextCursor *string                  `json:"nextCursor,omitempty"`
}

type ResolveTutorResponse struct {
	TutorID uuid.UUID `json:"tutorId"`
}

func FromSlotView(v *queries.SlotView) *SlotResponse {
	return &SlotResponse{
		ID:        v.ID,
		TutorID:   v.TutorID,
		Start:     v.Start,
		End:       v.End,
		Status:    v.Status,
		StudentID: v.StudentID,
		CreatedAt: v.CreatedAt,
		UpdatedAt: v.UpdatedAt,
	}
}

func FromSlotEntity(s *slot.TimeSlot) *SlotResponse {
	return &SlotResponse{
		ID:        s.ID(),
		TutorID:   s.TutorID(),
		Start:     s.Interval().Start(),
		End:       s.Interval().End(),
		Status:    s.Status().String(),
		StudentID: s.StudentID(),
		CreatedAt: s.CreatedAt(),
		UpdatedAt: s.UpdatedAt(),
	}
}

func FromAvailableSlotItems(items []*queries.AvailableSlotItem, next *queries.Cursor) *AvailableSlotPageResponse {
	out := make([]*AvailableSlotResponse, 0, len(items))
	for _, item := range items {
		out = append(out, &AvailableSlotResponse{
			ID:      item.ID,
			TutorID: item.TutorID,
			Start:   item.Start,
			End:     item.End,
		})
	}
	page := &AvailableSlotPageResponse{Items: out}
	if next != nil {
		cursor := next.After
		page.NextCursor = &cursor
	}
	return page
}
