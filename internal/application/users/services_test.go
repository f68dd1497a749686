package users

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/rxtract/prescription-data/internal/domain/users"
	"github.com/rxtract/prescription-data/internal/domain/validation"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

type memUsers struct{ rows map[domain.UserID]*domain.User }

func newMemUsers() *memUsers { return &memUsers{rows: map[domain.UserID]*domain.User{}} }

func (m *memUsers) Save(_ context.Context, u *domain.User) error {
	m.rows[u.ID] = u
	return nil
}

func (m *memUsers) Get(_ context.Context, id domain.UserID) (*domain.User, error) {
	return m.rows[id], nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range m.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

func TestCreateDefaults(t *testing.T) {
	clk := &fakeClock{t: time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)}
	svc := &Service{Repo: newMemUsers(), Clock: clk}

	resp, err := svc.Create(context.Background(), CreateUserCommand{Name: "Jane Doe", Email: "jane@example.com"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if !resp.IsActive {
		t.Fatalf("is_active should default to true")
	}

	// the ISO-8601 string must reproduce the original instant exactly
	parsed, err := time.Parse(time.RFC3339Nano, resp.CreatedAt)
	if err != nil {
		t.Fatalf("created_at is not RFC3339: %v", err)
	}
	if !parsed.Equal(clk.t) {
		t.Fatalf("round-trip lost precision: %v != %v", parsed, clk.t)
	}
}

func TestCreateRejectsDuplicateEmail(t *testing.T) {
	svc := &Service{Repo: newMemUsers(), Clock: &fakeClock{t: time.Now().UTC()}}
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateUserCommand{Name: "Jane Doe", Email: "jane@example.com"}); err != nil {
		t.Fatalf("first create: %v", err)
	}
	_, err := svc.Create(ctx, CreateUserCommand{Name: "Other Jane", Email: "jane@example.com"})
	var ve *validation.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Field != "email" || ve.Constraint != "unique" {
		t.Fatalf("unexpected error contents: %+v", ve)
	}
}

func TestGetUnknownUser(t *testing.T) {
	svc := &Service{Repo: newMemUsers(), Clock: &fakeClock{t: time.Now().UTC()}}
	if _, err := svc.Get(context.Background(), "nope"); err == nil {
		t.Fatalf("expected error for unknown id")
	}
}
