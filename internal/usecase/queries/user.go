package queries

import (
	"context"

	"github.com/google/uuid"
)

// TutorDirectory resolves external identity-provider subjects to internal
// tutor ids. Implementations may cache; the caller treats the lookup as
// opaque.
type TutorDirectory interface {
	TutorIDByExternalUID(ctx context.Context, externalUID string) (uuid.UUID, error)
}

type UserReadStore interface {
	FindByEmail(ctx context.Context, email string) (*AuthorizedUserView, error)
	FindByID(ctx context.Context, id uuid.UUID) (*AuthorizedUserView, error)
}

type TutorQueries interface {
	ResolveTutorID(ctx context.Context, externalUID string) (uuid.UUID, error)
}

type tutorQueriesImpl struct {
	directory TutorDirectory
}

func NewTutorQueries(directory TutorDirectory) TutorQueries {
	return &tutorQueriesImpl{directory: directory}
}

func (q *tutorQueriesImpl) ResolveTutorID(ctx context.Context, externalUID string) (uuid.UUID, error) {
	return q.directory.TutorIDByExternalUID(ctx, externalUID)
}
