package shared

import (
	"context"
	"time"

	"tutorhive/internal/domain/slot"
	"tutorhive/internal/infra/db"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: full transaction for write operations with bounded retry
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: read-only transaction for multi-row consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
	// WithDB: single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, dbtx db.DBTX) error) error
}

type Tx interface {
	Slots() SlotRepository
	Users() UserRepository
	DB() db.DBTX
}

// SlotRepository is the write side of the slot store. Mutations are always
// called inside a UnitOfWork transaction; LockTutor must be taken before
// the overlap read so concurrent mutators of the same tutor serialize.
type SlotRepository interface {
	// LockTutor serializes all mutations of one tutor's slot set for the
	// rest of the transaction. Different tutors never contend.
	LockTutor(ctx context.Context, tutorID uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*slot.TimeSlot, error)
	// ListBlocking returns the tutor's available and booked slots ordered
	// by interval start. Cancelled slots are excluded so their interval is
	// free for reuse.
	ListBlocking(ctx context.Context, tutorID uuid.UUID) ([]*slot.TimeSlot, error)
	// ListOverlapping narrows ListBlocking to slots overlapping the given
	// interval, optionally excluding one slot id (self-exclusion during
	// reschedule).
	ListOverlapping(ctx context.Context, tutorID uuid.UUID, interval slot.Interval, excludeID *uuid.UUID) ([]*slot.TimeSlot, error)
	Insert(ctx context.Context, s *slot.TimeSlot) (*slot.TimeSlot, error)
	UpdateInterval(ctx context.Context, id uuid.UUID, interval slot.Interval) (*slot.TimeSlot, error)
	// UpdateStatus performs a compare-and-swap from -> to; a stale `from`
	// status reports KindConflict.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to slot.Status, studentID *uuid.UUID) (*slot.TimeSlot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type UserRepository interface {
	Create(ctx context.Context, u NewUserRecord) (uuid.UUID, error)
}

type NewUserRecord struct {
	ID           uuid.UUID
	ExternalUID  string
	Email        string
	PasswordHash string
	Role         string
}

// SlotSnapshot is the minimal write-side view of a persisted slot, used by
// commands that only need identity and status.
type SlotSnapshot struct {
	ID        uuid.UUID
	TutorID   uuid.UUID
	Start     time.Time
	End       time.Time
	Status    string
	StudentID *uuid.UUID
}
