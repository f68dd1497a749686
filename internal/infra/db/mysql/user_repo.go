package mysql

import (
	"context"
	"database/sql"

	domain "github.com/rxtract/prescription-data/internal/domain/users"
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Save insert/update User record; a duplicate email surfaces as a
// ValidationError via the unique index. No ON DUPLICATE KEY UPDATE here:
// that clause also matches on the email unique index and would rewrite
// another user's row instead of raising 1062.
func (r *UserRepository) Save(ctx context.Context, u *domain.User) error {
	var one int
	err := r.db.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id=? LIMIT 1;`, u.ID).Scan(&one)
	if err == sql.ErrNoRows {
		const ins = `
INSERT INTO users
(id, name, email, is_active, created_at, updated_at)
VALUES (?,?,?,?,?,?);
`
		_, err = r.db.ExecContext(ctx, ins,
			u.ID, u.Name, u.Email, u.IsActive, u.CreatedAt, u.UpdatedAt,
		)
		return translate(err, "email", "")
	}
	if err != nil {
		return err
	}
	const upd = `
UPDATE users
SET name=?, email=?, is_active=?, updated_at=?
WHERE id=?;
`
	_, err = r.db.ExecContext(ctx, upd,
		u.Name, u.Email, u.IsActive, u.UpdatedAt, u.ID,
	)
	return translate(err, "email", "")
}

// Get by ID
func (r *UserRepository) Get(ctx context.Context, id domain.UserID) (*domain.User, error) {
	const q = `
SELECT id, name, email, is_active, created_at, updated_at
FROM users
WHERE id=? LIMIT 1;
`
	return r.scanOne(r.db.QueryRowContext(ctx, q, id))
}

// GetByEmail returns (nil, nil) when no user has the email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const q = `
SELECT id, name, email, is_active, created_at, updated_at
FROM users
WHERE email=? LIMIT 1;
`
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
