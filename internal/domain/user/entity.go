package user

import (
	"time"

	"github.com/google/uuid"
)

// User entity. Tutors and students share one account table; the role
// decides which side of the marketplace they act on.
type User struct {
	id           uuid.UUID
	externalUID  ExternalUID
	email        Email
	passwordHash string
	role         Role
	isActive     bool
	createdAt    time.Time
	updatedAt    time.Time
}

func NewUser(externalUID ExternalUID, email Email, passwordHash string, role Role) *User {
	return &User{
		id:           uuid.New(),
		externalUID:  externalUID,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		isActive:     true,
	}
}

func ReconstructUser(
	id uuid.UUID,
	externalUID ExternalUID,
	email Email,
	passwordHash string,
	role Role,
	isActive bool,
	createdAt, updatedAt time.Time,
) *User {
	return &User{
		id:           id,
		externalUID:  externalUID,
		email:        email,
		passwordHash: passwordHash,
		role:         role,
		isActive:     isActive,
		createdAt:    createdAt,
		updatedAt:    updatedAt,
	}
}

func (u *User) ID() uuid.UUID            { return u.id }
func (u *User) ExternalUID() ExternalUID { return u.externalUID }
func (u *User) Email() Email             { return u.email }
func (u *User) PasswordHash() string     { return u.passwordHash }
func (u *User) Role() Role               { return u.role }
func (u *User) IsActive() bool           { return u.isActive }
func (u *User) CreatedAt() time.Time     { return u.createdAt }
func (u *User) UpdatedAt() time.Time     { return u.updatedAt }

func (u *User) IsTutor() bool {
	return u.role == RoleTutor
}
