package prescriptions

import (
	"time"

	"github.com/rxtract/prescription-data/internal/domain/validation"
)

// ID tipe untuk Medication
type MedicationID string

// MedicationType enum
type MedicationType string

const (
	TypeTablet    MedicationType = "tablet"
	TypeCapsule   MedicationType = "capsule"
	TypeSyrup     MedicationType = "syrup"
	TypeInjection MedicationType = "injection"
	TypeDrops     MedicationType = "drops"
	TypeCream     MedicationType = "cream"
	TypeOintment  MedicationType = "ointment"
	TypeOther     MedicationType = "other"
)

// ParseMedicationType rejects unknown wire values instead of coercing them.
func ParseMedicationType(s string) (MedicationType, error) {
	switch MedicationType(s) {
	case TypeTablet, TypeCapsule, TypeSyrup, TypeInjection, TypeDrops, TypeCream, TypeOintment, TypeOther:
		return MedicationType(s), nil
	}
	return "", validation.Errf("medication_type", "enum", "unknown medication type %q", s)
}

// Medication is one drug line-item within a prescription, created together
// with its parent. order_index preserves extraction order; duplicates and
// gaps are tolerated.
type Medication struct {
	ID   MedicationID `json:"id"`
	Name string       `json:"name"`

	GenericName *string         `json:"generic_name,omitempty"`
	BrandName   *string         `json:"brand_name,omitempty"`
	Type        *MedicationType `json:"medication_type,omitempty"`

	Strength   *string `json:"strength,omitempty"`    // e.g. "500mg", "5mg/ml"
	DosageForm *string `json:"dosage_form,omitempty"` // e.g. "tablet", "capsule"

	DosageInstructions *string `json:"dosage_instructions,omitempty"`
	Frequency          *string `json:"frequency,omitempty"` // e.g. "twice daily"
	Duration           *string `json:"duration,omitempty"`  // e.g. "7 days"
	Quantity           *string `json:"quantity,omitempty"`  // e.g. "30 tablets"

	BeforeAfterMeal     *string `json:"before_after_meal,omitempty"`
	SpecialInstructions *string `json:"special_instructions,omitempty"`

	OrderIndex      int       `json:"order_index"`
	ConfidenceScore *float64  `json:"confidence_score,omitempty"`
	CreatedAt       time.Time `json:"created_at"`

	PrescriptionID PrescriptionID `json:"prescription_id"`
}

// NewMedication builds a line-item for the given prescription; the
// confidence score is rounded to the stored 3-decimal resolution.
func NewMedication(id MedicationID, prescriptionID PrescriptionID, m Medication, now time.Time) (*Medication, error) {
	m.ID = id
	m.PrescriptionID = prescriptionID
	m.CreatedAt = now
	if m.ConfidenceScore != nil {
		c := validation.Round3(*m.ConfidenceScore)
		m.ConfidenceScore = &c
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (m *Medication) Validate() error {
	if err := validation.Required("name", m.Name); err != nil {
		return err
	}
	if err := validation.MaxLen("name", m.Name, 200); err != nil {
		return err
	}
	if err := validation.OptMaxLen("generic_name", m.GenericName, 200); err != nil {
		return err
	}
	if err := validation.OptMaxLen("brand_name", m.BrandName, 200); err != nil {
		return err
	}
	if m.Type != nil {
		if _, err := ParseMedicationType(string(*m.Type)); err != nil {
			return err
		}
	}
	if err := validation.OptMaxLen("strength", m.Strength, 100); err != nil {
		return err
	}
	if err := validation.OptMaxLen("dosage_form", m.DosageForm, 100); err != nil {
		return err
	}
	if err := validation.OptMaxLen("dosage_instructions", m.DosageInstructions, 500); err != nil {
		return err
	}
	if err := validation.OptMaxLen("frequency", m.Frequency, 200); err != nil {
		return err
	}
	if err := validation.OptMaxLen("duration", m.Duration, 200); err != nil {
		return err
	}
	if err := validation.OptMaxLen("quantity", m.Quantity, 100); err != nil {
		return err
	}
	if err := validation.OptMaxLen("before_after_meal", m.BeforeAfterMeal, 100); err != nil {
		return err
	}
	if err := validation.OptMaxLen("special_instructions", m.SpecialInstructions, 1000); err != nil {
		return err
	}
	if err := validation.Min("order_index", m.OrderIndex, 0); err != nil {
		return err
	}
	if err := validation.OptScore("confidence_score", m.ConfidenceScore); err != nil {
		return err
	}
	if err := validation.Required("prescription_id", string(m.PrescriptionID)); err != nil {
		return err
	}
	return nil
}
