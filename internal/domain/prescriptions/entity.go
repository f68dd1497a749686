package prescriptions

import (
	"time"

	"github.com/rxtract/prescription-data/internal/domain/images"
	"github.com/rxtract/prescription-data/internal/domain/sessions"
	"github.com/rxtract/prescription-data/internal/domain/validation"
)

// ID tipe untuk Prescription
type PrescriptionID string

// Aggregate Root: Prescription, the structured data one analysis session
// extracted from an image. Every extraction field is optional; the model
// may not read all of them off the image.
type Prescription struct {
	ID PrescriptionID `json:"id"`

	DoctorName    *string `json:"doctor_name,omitempty"`
	DoctorLicense *string `json:"doctor_license,omitempty"`
	ClinicName    *string `json:"clinic_name,omitempty"`
	ClinicAddress *string `json:"clinic_address,omitempty"`

	PatientName   *string `json:"patient_name,omitempty"`
	PatientAge    *int    `json:"patient_age,omitempty"`
	PatientGender *string `json:"patient_gender,omitempty"`

	PrescriptionDate   *time.Time `json:"prescription_date,omitempty"`
	PrescriptionNumber *string    `json:"prescription_number,omitempty"`
	Diagnosis          *string    `json:"diagnosis,omitempty"`
	Notes              *string    `json:"notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	ImageID           images.ImageID     `json:"image_id"`
	AnalysisSessionID sessions.SessionID `json:"analysis_session_id"`
}

// Fields holds the caller-supplied extraction fields, shared between
// create and manual-correction updates.
type Fields struct {
	DoctorName         *string
	DoctorLicense      *string
	ClinicName         *string
	ClinicAddress      *string
	PatientName        *string
	PatientAge         *int
	PatientGender      *string
	PrescriptionDate   *time.Time
	PrescriptionNumber *string
	Diagnosis          *string
	Notes              *string
}

// New builds a prescription with both timestamps set to now.
func New(id PrescriptionID, imageID images.ImageID, sessionID sessions.SessionID, f Fields, now time.Time) (*Prescription, error) {
	p := &Prescription{
		ID:                id,
		CreatedAt:         now,
		UpdatedAt:         now,
		ImageID:           imageID,
		AnalysisSessionID: sessionID,
	}
	p.apply(f)
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// ApplyCorrection replaces the extraction fields (manual correction)
// and refreshes updated_at.
func (p *Prescription) ApplyCorrection(f Fields, now time.Time) error {
	prev := *p
	p.apply(f)
	if err := p.Validate(); err != nil {
		*p = prev
		return err
	}
	p.UpdatedAt = now
	return nil
}

func (p *Prescription) apply(f Fields) {
	p.DoctorName = f.DoctorName
	p.DoctorLicense = f.DoctorLicense
	p.ClinicName = f.ClinicName
	p.ClinicAddress = f.ClinicAddress
	p.PatientName = f.PatientName
	p.PatientAge = f.PatientAge
	p.PatientGender = f.PatientGender
	p.PrescriptionDate = f.PrescriptionDate
	p.PrescriptionNumber = f.PrescriptionNumber
	p.Diagnosis = f.Diagnosis
	p.Notes = f.Notes
}

func (p *Prescription) Validate() error {
	if err := validation.OptMaxLen("doctor_name", p.DoctorName, 200); err != nil {
		return err
	}
	if err := validation.OptMaxLen("doctor_license", p.DoctorLicense, 100); err != nil {
		return err
	}
	if err := validation.OptMaxLen("clinic_name", p.ClinicName, 200); err != nil {
		return err
	}
	if err := validation.OptMaxLen("clinic_address", p.ClinicAddress, 500); err != nil {
		return err
	}
	if err := validation.OptMaxLen("patient_name", p.PatientName, 200); err != nil {
		return err
	}
	if err := validation.OptIntRange("patient_age", p.PatientAge, 0, 150); err != nil {
		return err
	}
	if err := validation.OptMaxLen("patient_gender", p.PatientGender, 20); err != nil {
		return err
	}
	if err := validation.OptMaxLen("prescription_number", p.PrescriptionNumber, 100); err != nil {
		return err
	}
	if err := validation.OptMaxLen("diagnosis", p.Diagnosis, 1000); err != nil {
		return err
	}
	if err := validation.OptMaxLen("notes", p.Notes, 2000); err != nil {
		return err
	}
	if err := validation.Required("image_id", string(p.ImageID)); err != nil {
		return err
	}
	if err := validation.Required("analysis_session_id", string(p.AnalysisSessionID)); err != nil {
		return err
	}
	return nil
}
