package validation

import (
	"fmt"
	"math"
	"strings"
)

// ValidationError reports a field that violates a declared constraint.
// It is returned before any write is attempted; values are never coerced.
type ValidationError struct {
	Field      string `json:"field"`
	Constraint string `json:"constraint"`
	Message    string `json:"message,omitempty"`
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Field, e.Message, e.Constraint)
	}
	return fmt.Sprintf("%s: violates %s", e.Field, e.Constraint)
}

// Errf builds a ValidationError with a formatted message.
func Errf(field, constraint, format string, args ...any) *ValidationError {
	return &ValidationError{Field: field, Constraint: constraint, Message: fmt.Sprintf(format, args...)}
}

// ReferentialError reports a foreign key that points at a missing parent row.
type ReferentialError struct {
	Field string `json:"field"`
	Value string `json:"value,omitempty"`
}

func (e *ReferentialError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: no parent row for %q", e.Field, e.Value)
	}
	return fmt.Sprintf("%s: referenced parent row does not exist", e.Field)
}

// Required rejects empty/whitespace-only values.
func Required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return Errf(field, "required", "cannot be empty")
	}
	return nil
}

// MaxLen rejects values longer than max characters.
func MaxLen(field, value string, max int) error {
	if len([]rune(value)) > max {
		return Errf(field, "max_length", "longer than %d characters", max)
	}
	return nil
}

// OptMaxLen is MaxLen for optional fields; nil passes.
func OptMaxLen(field string, value *string, max int) error {
	if value == nil {
		return nil
	}
	return MaxLen(field, *value, max)
}

// IntRange rejects values outside [lo, hi], bounds inclusive.
func IntRange(field string, value, lo, hi int) error {
	if value < lo || value > hi {
		return Errf(field, "range", "must be between %d and %d", lo, hi)
	}
	return nil
}

// OptIntRange is IntRange for optional fields; nil passes.
func OptIntRange(field string, value *int, lo, hi int) error {
	if value == nil {
		return nil
	}
	return IntRange(field, *value, lo, hi)
}

// Min rejects values below lo.
func Min(field string, value, lo int) error {
	if value < lo {
		return Errf(field, "min", "must be >= %d", lo)
	}
	return nil
}

// Positive rejects zero and negative sizes.
func Positive(field string, value int64) error {
	if value <= 0 {
		return Errf(field, "positive", "must be > 0")
	}
	return nil
}

// Score rejects confidence values outside [0.0, 1.0], bounds inclusive.
func Score(field string, value float64) error {
	if value < 0.0 || value > 1.0 {
		return Errf(field, "range", "must be between 0.0 and 1.0")
	}
	return nil
}

// OptScore is Score for optional fields; nil passes.
func OptScore(field string, value *float64) error {
	if value == nil {
		return nil
	}
	return Score(field, *value)
}

// Round3 rounds to the stored 3-decimal resolution.
func Round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}
