package postgres

import (
	"errors"
	"testing"

	"github.com/lib/pq"

	"github.com/rxtract/prescription-data/internal/domain/validation"
)

func TestTranslateUniqueViolation(t *testing.T) {
	in := &pq.Error{Code: "23505", Detail: "Key (email)=(jane@example.com) already exists."}
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
	in := &pq.Error{Code: "23503", Detail: "Key (user_id)=(ghost) is not present in table \"users\"."}
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
}
