package api

import (
	"errors"
	"net/http"

	"tutorhive/internal/domain/slot"
	reqdto "tutorhive/internal/handler/dto/request"
	resdto "tutorhive/internal/handler/dto/response"
	"tutorhive/internal/handler/middleware"
	"tutorhive/internal/usecase/commands"
	"tutorhive/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type SlotHandler struct {
	slotCommands commands.SlotCommands
	slotQueries  queries.SlotQueries
}

func NewSlotHandler(slotCommands commands.SlotCommands, slotQueries queries.SlotQueries) *SlotHandler {
	return &SlotHandler{
		slotCommands: slotCommands,
		slotQueries:  slotQueries,
	}
}

// @Summary Publish slot
// @Description Publish a new available time slot for a tutor
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reqdto.CreateSlotRequest true "Slot request"
// @Success 201 {object} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 403 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 503 {object} map[string]string
// @Router /slots [post]
func (h *SlotHandler) CreateSlot(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	var req reqdto.CreateSlotRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	created, err := h.slotCommands.CreateSlot(c.Request.Context(), actor, req.TutorID, req.Start, req.End)
	if err != nil {
		h.respondSlotError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resdto.FromSlotEntity(created))
}

// @Summary Reschedule slot
// @Description Move an available slot to a new interval
// @Tags slots
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Param request body reqdto.RescheduleSlotRequest true "New interval"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /slots/{id} [patch]
func (h *SlotHandler) RescheduleSlot(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot id"})
		return
	}

	var req reqdto.RescheduleSlotRequest
	if bindErr := c.ShouldBindJSON(&req); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format"})
		return
	}

	updated, err := h.slotCommands.RescheduleSlot(c.Request.Context(), actor, slotID, req.Start, req.End)
	if err != nil {
		h.respondSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotEntity(updated))
}

// @Summary Delete slot
// @Description Remove an available slot; admins may force-cancel a booked one
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 204
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /slots/{id} [delete]
func (h *SlotHandler) DeleteSlot(c *gin.Context) {
	actor, ok := currentActor(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot id"})
		return
	}

	if err := h.slotCommands.DeleteSlot(c.Request.Context(), actor, slotID); err != nil {
		h.respondSlotError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Book slot
// @Description Claim an available future slot for the authenticated student
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Slot ID"
// @Success 200 {object} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /slots/{id}/book [post]
func (h *SlotHandler) BookSlot(c *gin.Context) {
	studentID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	slotID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid slot id"})
		return
	}

	booked, err := h.slotCommands.BookSlot(c.Request.Context(), studentID, slotID)
	if err != nil {
		h.respondSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromSlotEntity(booked))
}

// @Summary List tutor slots
// @Description List every slot of a tutor, optionally filtered by status
// @Tags slots
// @Produce json
// @Security BearerAuth
// @Param id path string true "Tutor ID"
// @Param status query string false "Status filter"
// @Success 200 {array} resdto.SlotResponse
// @Failure 400 {object} map[string]string
// @Router /tutors/{id}/slots [get]
func (h *SlotHandler) ListTutorSlots(c *gin.Context) {
	tutorID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid tutor id"})
		return
	}

	var q reqdto.ListTutorSlotsQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	var statusFilter *slot.Status
	if q.Status != nil {
		st, stErr := slot.NewStatus(*q.Status)
		if stErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
			return
		}
		statusFilter = &st
	}

	views, err := h.slotQueries.ListByTutor(c.Request.Context(), tutorID, statusFilter)
	if err != nil {
		h.respondSlotError(c, err)
		return
	}

	out := make([]*resdto.SlotResponse, 0, len(views))
	for _, v := range views {
		out = append(out, resdto.FromSlotView(v))
	}
	c.JSON(http.StatusOK, out)
}

// @Summary List available slots
// @Description List bookable slots across tutors, keyset-paginated
// @Tags slots
// @Produce json
// @Param tutor_id query string false "Restrict to one tutor"
// @Param from query string false "Window start (RFC3339, clamped to now)"
// @Param to query string false "Window end (RFC3339)"
// @Param limit query int false "Page size"
// @Param cursor query string false "Opaque page cursor"
// @Success 200 {object} resdto.AvailableSlotPageResponse
// @Failure 400 {object} map[string]string
// @Router /slots/available [get]
func (h *SlotHandler) ListAvailableSlots(c *gin.Context) {
	var q reqdto.ListAvailableSlotsQuery
	if bindErr := c.ShouldBindQuery(&q); bindErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters"})
		return
	}

	filter := queries.AvailabilityFilter{
		TutorID: q.TutorID,
		From:    q.From,
		To:      q.To,
	}
	var after *queries.Cursor
	if q.Cursor != "" {
		after = &queries.Cursor{After: q.Cursor}
	}

	items, next, err := h.slotQueries.ListAvailable(c.Request.Context(), filter, after, q.Limit)
	if err != nil {
		if errors.Is(err, queries.ErrInvalidCursor) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid cursor"})
			return
		}
		h.respondSlotError(c, err)
		return
	}
	c.JSON(http.StatusOK, resdto.FromAvailableSlotItems(items, next))
}

func (h *SlotHandler) respondSlotError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, commands.ErrInvalidInterval):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Slot start must be before end"})
	case errors.Is(err, commands.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to modify this slot"})
	case errors.Is(err, commands.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Slot not found"})
	case errors.Is(err, commands.ErrSlotConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Slot conflicts with an existing slot"})
	case errors.Is(err, commands.ErrSlotNotModifiable):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Slot is not modifiable in its current state"})
	case errors.Is(err, commands.ErrSlotInPast):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "Slot is no longer bookable"})
	case errors.Is(err, commands.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Scheduling temporarily unavailable, retry later"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func currentActor(c *gin.Context) (commands.Actor, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return commands.Actor{}, false
	}
	role, ok := middleware.GetUserRole(c)
	if !ok {
		return commands.Actor{}, false
	}
	return commands.Actor{ID: userID, Role: role}, true
}
