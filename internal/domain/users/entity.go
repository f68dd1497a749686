package users

import (
	"time"

	"github.com/rxtract/prescription-data/internal/domain/validation"
)

// ID tipe untuk User
type UserID string

// Aggregate Root: User, an account that owns uploads and analysis sessions
type User struct {
	ID        UserID    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New builds an active user; both timestamps are set to now.
// now comes from the caller's clock, never from inside the entity.
func New(id UserID, name, email string, now time.Time) (*User, error) {
	u := &User{
		ID:        id,
		Name:      name,
		Email:     email,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	return u, nil
}

// Validate checks the declared field constraints.
// Email uniqueness is a repository concern and is not checked here.
func (u *User) Validate() error {
	if err := validation.Required("name", u.Name); err != nil {
		return err
	}
	if err := validation.MaxLen("name", u.Name, 100); err != nil {
		return err
	}
	if err := validation.Required("email", u.Email); err != nil {
		return err
	}
	if err := validation.MaxLen("email", u.Email, 255); err != nil {
		return err
	}
	return nil
}
