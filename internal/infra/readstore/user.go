package readstore

import (
	"context"
	"errors"

	"tutorhive/internal/infra"
	"tutorhive/internal/infra/db"
	"tutorhive/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserReadStore struct {
	db db.DBTX
}

func NewUserReadStore(dbtx db.DBTX) *UserReadStore {
	return &UserReadStore{db: dbtx}
}

func (r *UserReadStore) FindByEmail(ctx context.Context, email string) (*queries.AuthorizedUserView, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, external_uid, email, role, password_hash, is_active
		FROM users
		WHERE email = $1
	`, email)
	return scanUserView(row)
}

func (r *UserReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	row := r.db.QueryRow(ctx, `
		SELECT id, external_uid, email, role, password_hash, is_active
		FROM users
		WHERE id = $1
	`, id)
	return scanUserView(row)
}

func scanUserView(row pgx.Row) (*queries.AuthorizedUserView, error) {
	var view queries.AuthorizedUserView
	err := row.Scan(
		&view.ID,
		&view.ExternalUID,
		&view.Email,
		&view.Role,
		&view.PasswordHash,
		&view.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user", err)
	}
	return &view, nil
}

// TutorDirectory resolves the external identity of a tutor to the
// internal slot owner id. Inactive accounts and non-tutor roles are
// invisible here on purpose.
type TutorDirectory struct {
	db db.DBTX
}

func NewTutorDirectory(dbtx db.DBTX) *TutorDirectory {
	return &TutorDirectory{db: dbtx}
}

func (d *TutorDirectory) TutorIDByExternalUID(ctx context.Context, externalUID string) (uuid.UUID, error) {
	var id uuid.UUID
	err := d.db.QueryRow(ctx, `
		SELECT id
		FROM users
		WHERE external_uid = $1 AND role = 'tutor' AND is_active
	`, externalUID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return uuid.Nil, infra.WrapRepoErr("tutor not found", err, infra.KindNotFound)
		}
		return uuid.Nil, infra.WrapRepoErr("failed to resolve tutor", err)
	}
	return id, nil
}
