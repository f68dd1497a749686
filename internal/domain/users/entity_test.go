package users

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rxtract/prescription-data/internal/domain/validation"
)

func TestNewDefaults(t *testing.T) {
	now := time.Date(2026, 3, 14, 9, 26, 53, 589793238, time.UTC)
	u, err := New("u-1", "Jane Doe", "jane@example.com", now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !u.IsActive {
		t.Fatalf("is_active should default to true")
	}
	if !u.CreatedAt.Equal(now) || !u.UpdatedAt.Equal(now) {
		t.Fatalf("timestamps should be set to now")
	}
}

func TestNewRejectsLongName(t *testing.T) {
	now := time.Now().UTC()
	_, err := New("u-1", strings.Repeat("x", 101), "jane@example.com", now)
	var ve *validation.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Field != "name" {
		t.Fatalf("expected field name, got %q", ve.Field)
	}
}

func TestNewRejectsEmptyEmail(t *testing.T) {
	_, err := New("u-1", "Jane Doe", "", time.Now().UTC())
	var ve *validation.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Field != "email" || ve.Constraint != "required" {
		t.Fatalf("unexpected error contents: %+v", ve)
	}
}
