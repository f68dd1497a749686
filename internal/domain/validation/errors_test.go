package validation

import (
	"errors"
	"testing"
)

func TestScoreBoundsInclusive(t *testing.T) {
	if err := Score("confidence_score", 0.0); err != nil {
		t.Fatalf("0.0 should be accepted: %v", err)
	}
	if err := Score("confidence_score", 1.0); err != nil {
		t.Fatalf("1.0 should be accepted: %v", err)
	}
	if err := Score("confidence_score", 1.5); err == nil {
		t.Fatalf("expected error for 1.5")
	}
	if err := Score("confidence_score", -0.1); err == nil {
		t.Fatalf("expected error for -0.1")
	}
}

func TestScoreErrorNamesField(t *testing.T) {
	err := Score("confidence_score", 2.0)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if ve.Field != "confidence_score" || ve.Constraint != "range" {
		t.Fatalf("unexpected error contents: %+v", ve)
	}
}

func TestMaxLenBoundary(t *testing.T) {
	if err := MaxLen("name", "abcde", 5); err != nil {
		t.Fatalf("length == max should pass: %v", err)
	}
	if err := MaxLen("name", "abcdef", 5); err == nil {
		t.Fatalf("expected error for length > max")
	}
}

func TestPositive(t *testing.T) {
	if err := Positive("file_size", 1); err != nil {
		t.Fatalf("1 should pass: %v", err)
	}
	if err := Positive("file_size", 0); err == nil {
		t.Fatalf("expected error for 0")
	}
	if err := Positive("file_size", -7); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestRound3(t *testing.T) {
	cases := []struct {
		in   float64
		want float64
	}{
		{0.8516, 0.852},
		{0.85149, 0.851},
		{1.0, 1.0},
		{0.0005, 0.001},
	}
	for _, c := range cases {
		if got := Round3(c.in); got != c.want {
			t.Fatalf("Round3(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestReferentialErrorMessage(t *testing.T) {
	err := &ReferentialError{Field: "image_id", Value: "img-1"}
	if err.Error() == "" {
		t.Fatalf("expected message")
	}
	var re *ReferentialError
	if !errors.As(error(err), &re) {
		t.Fatalf("errors.As failed")
	}
}
