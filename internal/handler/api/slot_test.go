//go:build unit

package api_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"tutorhive/internal/domain/slot"
	"tutorhive/internal/domain/user"
	"tutorhive/internal/handler/api"
	"tutorhive/internal/infra"
	"tutorhive/internal/usecase/commands"
	"tutorhive/internal/usecase/queries"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type fakeSlotCommands struct {
	createErr error
	moveErr   error
	deleteErr error
	bookErr   error
	slot      *slot.TimeSlot
}

func (f *fakeSlotCommands) CreateSlot(_ context.Context, _ commands.Actor, _ uuid.UUID, _, _ time.Time) (*slot.TimeSlot, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	return f.slot, nil
}

func (f *fakeSlotCommands) RescheduleSlot(_ context.Context, _ commands.Actor, _ uuid.UUID, _, _ time.Time) (*slot.TimeSlot, error) {
	if f.moveErr != nil {
		return nil, f.moveErr
	}
	return f.slot, nil
}

func (f *fakeSlotCommands) DeleteSlot(_ context.Context, _ commands.Actor, _ uuid.UUID) error {
	return f.deleteErr
}

func (f *fakeSlotCommands) BookSlot(_ context.Context, _ uuid.UUID, _ uuid.UUID) (*slot.TimeSlot, error) {
	if f.bookErr != nil {
		return nil, f.bookErr
	}
	return f.slot, nil
}

type fakeSlotQueries struct {
	views      []*queries.SlotView
	items      []*queries.AvailableSlotItem
	next       *queries.Cursor
	listErr    error
	gotStatus  *slot.Status
	gotTutorID uuid.UUID
}

func (f *fakeSlotQueries) GetByID(_ context.Context, _ uuid.UUID) (*queries.SlotView, error) {
	return nil, infra.WrapRepoErr("slot not found", pgx.ErrNoRows, infra.KindNotFound)
}

func (f *fakeSlotQueries) ListByTutor(_ context.Context, tutorID uuid.UUID, status *slot.Status) ([]*queries.SlotView, error) {
	f.gotTutorID = tutorID
	f.gotStatus = status
	return f.views, f.listErr
}

func (f *fakeSlotQueries) ListAvailable(_ context.Context, _ queries.AvailabilityFilter, _ *queries.Cursor, _ int) ([]*queries.AvailableSlotItem, *queries.Cursor, error) {
	if f.listErr != nil {
		return nil, nil, f.listErr
	}
	return f.items, f.next, nil
}

type SlotHandlerTestSuite struct {
	suite.Suite
	router   *gin.Engine
	commands *fakeSlotCommands
	queries  *fakeSlotQueries
}

func TestSlotHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(SlotHandlerTestSuite))
}

func (s *SlotHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	iv, err := slot.NewInterval(base, base.Add(time.Hour))
	require.NoError(s.T(), err)
	s.commands = &fakeSlotCommands{slot: slot.NewTimeSlot(uuid.New(), iv)}
	s.queries = &fakeSlotQueries{}

	handler := api.NewSlotHandler(s.commands, s.queries)

	asTutor := func(c *gin.Context) {
		c.Set("user_id", uuid.New())
		c.Set("user_role", user.RoleTutor)
	}

	s.router.POST("/slots", asTutor, handler.CreateSlot)
	s.router.PATCH("/slots/:id", asTutor, handler.RescheduleSlot)
	s.router.DELETE("/slots/:id", asTutor, handler.DeleteSlot)
	s.router.POST("/slots/:id/book", asTutor, handler.BookSlot)
	s.router.GET("/slots/available", handler.ListAvailableSlots)
	s.router.GET("/tutors/:id/slots", handler.ListTutorSlots)
}

func (s *SlotHandlerTestSuite) createBody() string {
	return fmt.Sprintf(`{"tutor_id":%q,"start":"2026-03-10T09:00:00Z","end":"2026-03-10T10:00:00Z"}`, uuid.New())
}

func (s *SlotHandlerTestSuite) TestCreateSlotStatusMapping() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "created", err: nil, wantStatus: http.StatusCreated},
		{name: "invalid interval", err: commands.ErrInvalidInterval, wantStatus: http.StatusBadRequest},
		{name: "forbidden", err: commands.ErrForbidden, wantStatus: http.StatusForbidden},
		{name: "conflict", err: commands.ErrSlotConflict, wantStatus: http.StatusConflict},
		{name: "unavailable", err: commands.ErrUnavailable, wantStatus: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.commands.createErr = tt.err

			req := httptest.NewRequest(http.MethodPost, "/slots", strings.NewReader(s.createBody()))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)

			assert.Equal(s.T(), tt.wantStatus, w.Code)
		})
	}
}

func (s *SlotHandlerTestSuite) TestRescheduleSlotStatusMapping() {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "ok", err: nil, wantStatus: http.StatusOK},
		{name: "not found", err: commands.ErrSlotNotFound, wantStatus: http.StatusNotFound},
		{name: "not modifiable", err: commands.ErrSlotNotModifiable, wantStatus: http.StatusUnprocessableEntity},
		{name: "conflict", err: commands.ErrSlotConflict, wantStatus: http.StatusConflict},
	}

	body := `{"start":"2026-03-10T09:00:00Z","end":"2026-03-10T10:00:00Z"}`
	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.commands.moveErr = tt.err

			req := httptest.NewRequest(http.MethodPatch, "/slots/"+uuid.NewString(), strings.NewReader(body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			s.router.ServeHTTP(w, req)

			assert.Equal(s.T(), tt.wantStatus, w.Code)
		})
	}
}

func (s *SlotHandlerTestSuite) TestRescheduleSlotRejectsBadID() {
	req := httptest.NewRequest(http.MethodPatch, "/slots/not-a-uuid",
		strings.NewReader(`{"start":"2026-03-10T09:00:00Z","end":"2026-03-10T10:00:00Z"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)

	assert.Equal(s.T(), http.StatusBadRequest, w.Code)
}

func (s *SlotHandlerTestSuite) TestDeleteSlot() {
	s.Run("deleted", func() {
		req := httptest.NewRequest(http.MethodDelete, "/slots/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(s.T(), http.StatusNoContent, w.Code)
	})

	s.Run("booked slot not deletable", func() {
		s.commands.deleteErr = commands.ErrSlotNotModifiable
		req := httptest.NewRequest(http.MethodDelete, "/slots/"+uuid.NewString(), nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(s.T(), http.StatusUnprocessableEntity, w.Code)
	})
}

func (s *SlotHandlerTestSuite) TestBookSlot() {
	s.Run("booked", func() {
		req := httptest.NewRequest(http.MethodPost, "/slots/"+uuid.NewString()+"/book", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(s.T(), http.StatusOK, w.Code)
	})

	s.Run("past slot", func() {
		s.commands.bookErr = commands.ErrSlotInPast
		req := httptest.NewRequest(http.MethodPost, "/slots/"+uuid.NewString()+"/book", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(s.T(), http.StatusUnprocessableEntity, w.Code)
	})
}

func (s *SlotHandlerTestSuite) TestListTutorSlots() {
	s.Run("passes status filter through", func() {
		s.queries.views = []*queries.SlotView{}
		req := httptest.NewRequest(http.MethodGet, "/tutors/"+uuid.NewString()+"/slots?status=available", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(s.T(), http.StatusOK, w.Code)
		require.NotNil(s.T(), s.queries.gotStatus)
		assert.Equal(s.T(), slot.StatusAvailable, *s.queries.gotStatus)
	})

	s.Run("rejects unknown status", func() {
		req := httptest.NewRequest(http.MethodGet, "/tutors/"+uuid.NewString()+"/slots?status=bogus", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	})
}

func (s *SlotHandlerTestSuite) TestListAvailableSlots() {
	s.Run("returns page with cursor", func() {
		start := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
		s.queries.items = []*queries.AvailableSlotItem{
			{ID: uuid.New(), TutorID: uuid.New(), Start: start, End: start.Add(time.Hour)},
		}
		s.queries.next = &queries.Cursor{After: "opaque"}

		req := httptest.NewRequest(http.MethodGet, "/slots/available?limit=1", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)

		assert.Equal(s.T(), http.StatusOK, w.Code)
		var resp struct {
			Items      []json.RawMessage `json:"items"`
			NextCursor *string           `json:"nextCursor"`
		}
		require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Len(s.T(), resp.Items, 1)
		require.NotNil(s.T(), resp.NextCursor)
		assert.Equal(s.T(), "opaque", *resp.NextCursor)
	})

	s.Run("invalid cursor rejected", func() {
		s.queries.listErr = queries.ErrInvalidCursor
		req := httptest.NewRequest(http.MethodGet, "/slots/available?cursor=garbage", nil)
		w := httptest.NewRecorder()
		s.router.ServeHTTP(w, req)
		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	})
}
