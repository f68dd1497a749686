package prescriptions

import (
	"errors"
	"testing"
	"time"

	"github.com/rxtract/prescription-data/internal/domain/validation"
)

func TestPatientAgeRange(t *testing.T) {
	now := time.Now().UTC()
	for _, age := range []int{0, 150} {
		a := age
		if _, err := New("p-1", "img-1", "s-1", Fields{PatientAge: &a}, now); err != nil {
			t.Fatalf("age %d should be accepted: %v", age, err)
		}
	}
	for _, age := range []int{-1, 151} {
		a := age
		_, err := New("p-1", "img-1", "s-1", Fields{PatientAge: &a}, now)
		var ve *validation.ValidationError
		if !errors.As(err, &ve) || ve.Field != "patient_age" {
			t.Fatalf("age %d: expected patient_age validation error, got %v", age, err)
		}
	}
}

func TestNewRequiresForeignKeys(t *testing.T) {
	_, err := New("p-1", "", "s-1", Fields{}, time.Now().UTC())
	var ve *validation.ValidationError
	if !errors.As(err, &ve) || ve.Field != "image_id" {
		t.Fatalf("expected image_id validation error, got %v", err)
	}
}

func TestApplyCorrectionRestoresOnFailure(t *testing.T) {
	now := time.Now().UTC()
	name := "Dr. Ananta"
	p, err := New("p-1", "img-1", "s-1", Fields{DoctorName: &name}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	bad := 200
	later := now.Add(time.Hour)
	if err := p.ApplyCorrection(Fields{PatientAge: &bad}, later); err == nil {
		t.Fatalf("expected error for age 200")
	}
	if p.DoctorName == nil || *p.DoctorName != "Dr. Ananta" {
		t.Fatalf("rejected correction must not mutate the prescription")
	}
	if !p.UpdatedAt.Equal(now) {
		t.Fatalf("rejected correction must not touch updated_at")
	}

	fixed := 45
	if err := p.ApplyCorrection(Fields{PatientAge: &fixed}, later); err != nil {
		t.Fatalf("correction: %v", err)
	}
	if !p.UpdatedAt.Equal(later) {
		t.Fatalf("correction should refresh updated_at")
	}
}

func TestParseMedicationTypeRejectsUnknown(t *testing.T) {
	for _, ok := range []string{"tablet", "capsule", "syrup", "injection", "drops", "cream", "ointment", "other"} {
		if _, err := ParseMedicationType(ok); err != nil {
			t.Fatalf("%q should parse: %v", ok, err)
		}
	}
	_, err := ParseMedicationType("pill")
	var ve *validation.ValidationError
	if !errors.As(err, &ve) || ve.Constraint != "enum" {
		t.Fatalf("expected enum validation error, got %v", err)
	}
}

func TestNewMedicationConstraints(t *testing.T) {
	now := time.Now().UTC()

	_, err := NewMedication("m-1", "p-1", Medication{Name: ""}, now)
	var ve *validation.ValidationError
	if !errors.As(err, &ve) || ve.Field != "name" {
		t.Fatalf("expected name validation error, got %v", err)
	}

	_, err = NewMedication("m-1", "p-1", Medication{Name: "Amoxicillin", OrderIndex: -1}, now)
	if !errors.As(err, &ve) || ve.Field != "order_index" {
		t.Fatalf("expected order_index validation error, got %v", err)
	}

	conf := 0.99951
	m, err := NewMedication("m-1", "p-1", Medication{Name: "Amoxicillin", ConfidenceScore: &conf}, now)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m.ConfidenceScore == nil || *m.ConfidenceScore != 1.0 {
		t.Fatalf("confidence should round to 3 decimals, got %v", m.ConfidenceScore)
	}
	if !m.CreatedAt.Equal(now) {
		t.Fatalf("created_at should be now")
	}

	out := 1.01
	if _, err := NewMedication("m-1", "p-1", Medication{Name: "Amoxicillin", ConfidenceScore: &out}, now); err == nil {
		t.Fatalf("expected error for confidence 1.01")
	}
}
