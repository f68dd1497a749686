package users

import "context"

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, u *User) error
	// Get returns (nil, nil) when the id is unknown.
	Get(ctx context.Context, id UserID) (*User, error)
	// GetByEmail returns (nil, nil) when no user has the email.
	GetByEmail(ctx context.Context, email string) (*User, error)
}
