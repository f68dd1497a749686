package users

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rxtract/prescription-data/internal/application"
	domain "github.com/rxtract/prescription-data/internal/domain/users"
	"github.com/rxtract/prescription-data/internal/domain/validation"
)

// Service implements use-cases untuk User
type Service struct {
	Repo  domain.Repository
	Clock application.Clock
}

// Command untuk create user
type CreateUserCommand struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserResponse is the external read projection; datetimes are ISO-8601.
type UserResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsActive  bool   `json:"is_active"`
	CreatedAt string `json:"created_at"`
}

// Create validates the command, rejects duplicate emails before write and
// persists a new active user.
func (s *Service) Create(ctx context.Context, cmd CreateUserCommand) (UserResponse, error) {
	existing, err := s.Repo.GetByEmail(ctx, cmd.Email)
	if err != nil {
		return UserResponse{}, err
	}
	if existing != nil {
		return UserResponse{}, validation.Errf("email", "unique", "email %q already registered", cmd.Email)
	}

	u, err := domain.New(domain.UserID(uuid.New().String()), cmd.Name, cmd.Email, s.Clock.Now().UTC())
	if err != nil {
		return UserResponse{}, err
	}
	if err := s.Repo.Save(ctx, u); err != nil {
		return UserResponse{}, err
	}
	return UserResponseFrom(u), nil
}

// Get ambil 1 user by id
func (s *Service) Get(ctx context.Context, id string) (UserResponse, error) {
	u, err := s.Repo.Get(ctx, domain.UserID(id))
	if err != nil {
		return UserResponse{}, err
	}
	if u == nil {
		return UserResponse{}, fmt.Errorf("user not found: %s", id)
	}
	return UserResponseFrom(u), nil
}

// UserResponseFrom projects the entity into the wire shape.
func UserResponseFrom(u *domain.User) UserResponse {
	return UserResponse{
		ID:        string(u.ID),
		Name:      u.Name,
		Email:     u.Email,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}
