package usecase

import (
	"context"

	"edulearn/internal/domain/entity"
	"edulearn/internal/domain/repository"
	"edulearn/internal/infrastructure/firebase"
	"edulearn/pkg/errors"
)

// AuthUseCase creates platform accounts: a Firebase identity plus the
// profile document role checks read from.
type AuthUseCase struct {
	authClient *firebase.AuthClient
	userRepo   repository.UserRepository
}

func NewAuthUseCase(authClient *firebase.AuthClient, userRepo repository.UserRepository) *AuthUseCase {
	return &AuthUseCase{
		authClient: authClient,
		userRepo:   userRepo,
	}
}

type RegisterInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	Name     string `json:"name" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=student instructor admin"`
}

func (uc *AuthUseCase) Register(ctx context.Context, input RegisterInput) (*entity.User, error) {
	if _, err := uc.userRepo.GetByEmail(ctx, input.Email); err == nil {
		return nil, errors.Conflict("An account with this email already exists")
	} else if !errors.Is(err, "NOT_FOUND") {
		return nil, err
	}

	role := input.Role
	if role == "" {
		role = entity.RoleStudent
	}

	uid, err := uc.authClient.CreateUser(ctx, input.Email, input.Password, input.Name)
	if err != nil {
		return nil, errors.Internal("Failed to create account", err)
	}

	user := &entity.User{
		ID:     uid,
		Email:  input.Email,
		Name:   input.Name,
		Role:   role,
		Status: "active",
	}

	if err := uc.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (uc *AuthUseCase) GetProfile(ctx context.Context, uid string) (*entity.User, error) {
	return uc.userRepo.GetByID(ctx, uid)
}
