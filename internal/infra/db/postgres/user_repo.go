package postgres

import (
	"context"
	"database/sql"

	domain "github.com/rxtract/prescription-data/internal/domain/users"
)

type UserRepository struct{ db *sql.DB }

func NewUserRepository(db *sql.DB) *UserRepository { return &UserRepository{db: db} }

// Save insert/update User record; a duplicate email surfaces as a
// ValidationError via the unique index.
func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	const q = `
INSERT INTO users
(id, name, email, is_active, created_at, updated_at)
VALUES ($1,$2,$3,$4,$5,$6)
ON CONFLICT (id) DO UPDATE SET
 name = EXCLUDED.name,
 email = EXCLUDED.email,
 is_active = EXCLUDED.is_active,
 updated_at = EXCLUDED.updated_at;`
	_, err := r.db.ExecContext(ctx, q,
		u.ID, u.Name, u.Email, u.IsActive, u.CreatedAt, u.UpdatedAt,
	)
	return translate(err, "email", "")
}

// Get by ID
func (r *UserRepository) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	const q = `
SELECT id, name, email, is_active, created_at, updated_at
FROM users
WHERE id=$1
LIMIT 1;`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetByEmail returns (nil, nil) when no user has the email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id, name, email, is_active, created_at, updated_at
FROM users
WHERE email=$1
LIMIT 1;`
	return r.scanOne(r.db.QueryRowContext(ctx, q, email))
}

func (r *UserRepository) scanOne(row *sql.Row) (*domain.User, error) {
	var u domain.User
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.IsActive, &u.CreatedAt, &u.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
