package commands

import (
	"context"

	"tutorhive/internal/domain/user"
	"tutorhive/internal/infra"
	"tutorhive/internal/pkg/errs"
	"tutorhive/internal/pkg/jwt"
	"tutorhive/internal/pkg/password"
	"tutorhive/internal/usecase/queries"
	"tutorhive/internal/usecase/shared"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errs.New("invalid credentials")
	ErrUserInactive       = errs.New("user inactive")
	ErrDuplicateUser      = errs.New("external uid or email already registered")
	ErrInvalidUserInput   = errs.New("invalid user attributes")
	ErrTokenGeneration    = errs.New("token generation failed")
)

type RegisterInput struct {
	ExternalUID string
	Email       string
	Password    string
	Role        string
}

type LoginResult struct {
	UserID      uuid.UUID
	AccessToken string
}

type AuthCommands interface {
	Register(ctx context.Context, input RegisterInput) (uuid.UUID, error)
	Login(ctx context.Context, email, plainPassword string) (*LoginResult, error)
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	readStore  queries.UserReadStore
	jwtService *jwt.Service
}

func NewAuthCommands(uow shared.UnitOfWork, readStore queries.UserReadStore, jwtService *jwt.Service) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		readStore:  readStore,
		jwtService: jwtService,
	}
}

func (a *authCommandsImpl) Register(ctx context.Context, input RegisterInput) (uuid.UUID, error) {
	externalUID, err := user.NewExternalUID(input.ExternalUID)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUserInput)
	}
	email, err := user.NewEmail(input.Email)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUserInput)
	}
	plain, err := user.NewPassword(input.Password)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUserInput)
	}
	role, err := user.NewRole(input.Role)
	if err != nil {
		return uuid.Nil, errs.Mark(err, ErrInvalidUserInput)
	}

	hash, err := password.HashPassword(plain.Value())
	if err != nil {
		return uuid.Nil, errs.Wrap(err, "failed to hash password")
	}

	newUser := user.NewUser(externalUID, email, hash, role)

	var createdID uuid.UUID
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		createdID, err = tx.Users().Create(ctx, shared.NewUserRecord{
			ID:           newUser.ID(),
			ExternalUID:  newUser.ExternalUID().Value(),
			Email:        newUser.Email().Value(),
			PasswordHash: newUser.PasswordHash(),
			Role:         newUser.Role().String(),
		})
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return uuid.Nil, errs.Mark(err, ErrDuplicateUser)
		}
		return uuid.Nil, err
	}
	return createdID, nil
}

func (a *authCommandsImpl) Login(ctx context.Context, email, plainPassword string) (*LoginResult, error) {
	view, err := a.readStore.FindByEmail(ctx, email)
	if err != nil {
		// Same error as a password mismatch to prevent user enumeration.
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}
	if !view.IsActive {
		return nil, ErrUserInactive
	}
	if err := password.ComparePassword(view.PasswordHash, plainPassword); err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}

	role, err := user.NewRole(view.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidCredentials)
	}

	token, err := a.jwtService.GenerateToken(view.ID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}

	return &LoginResult{UserID: view.ID, AccessToken: token}, nil
}
