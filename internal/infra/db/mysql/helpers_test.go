package mysql

import (
	"errors"
	"testing"

	driver "github.com/go-sql-driver/mysql"

	"github.com/rxtract/prescription-data/internal/domain/validation"
)

func TestTranslateDuplicateEntry(t *testing.T) {
	in := &driver.MySQLError{Number: 1062, Message: "Duplicate entry 'jane@example.com' for key 'users.email'"}
	err := translate(in, "email", "")
	var ve *validation.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if ve.Field != "email" || ve.Constraint != "unique" {
		t.Fatalf("unexpected error contents: %+v", ve)
	}
}

func TestTranslateFKViolation(t *testing.T) {
	in := &driver.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
	err := translate(in, "", "user_id")
	var re *validation.ReferentialError
	if !errors.As(err, &re) || re.Field != "user_id" {
		t.Fatalf("expected user_id referential error, got %v", err)
	}
}

func TestTranslatePassthrough(t *testing.T) {
	if err := translate(nil, "email", ""); err != nil {
		t.Fatalf("nil should stay nil, got %v", err)
	}
	plain := errors.New("connection refused")
	if err := translate(plain, "email", "user_id"); err != plain {
		t.Fatalf("unrelated errors must pass through, got %v", err)
	}
	// duplicate on a statement with no unique column named stays raw
	dup := &driver.MySQLError{Number: 1062, Message: "Duplicate entry '42' for key 'PRIMARY'"}
	if err := translate(dup, "", ""); !errors.Is(err, dup) {
		t.Fatalf("expected passthrough, got %v", err)
	}
}
