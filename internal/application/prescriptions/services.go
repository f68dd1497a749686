package prescriptions

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/rxtract/prescription-data/internal/application"
	domimages "github.com/rxtract/prescription-data/internal/domain/images"
	domain "github.com/rxtract/prescription-data/internal/domain/prescriptions"
	domsessions "github.com/rxtract/prescription-data/internal/domain/sessions"
	"github.com/rxtract/prescription-data/internal/domain/validation"
)

// Service implements use-cases untuk Prescription + Medication
type Service struct {
	Repo     domain.Repository
	Images   domimages.Repository
	Sessions domsessions.Repository
	Clock    application.Clock
}

// Command untuk one medication line inside a create
type CreateMedicationCommand struct {
	Name                string   `json:"name"`
	GenericName         *string  `json:"generic_name,omitempty"`
	BrandName           *string  `json:"brand_name,omitempty"`
	MedicationType      *string  `json:"medication_type,omitempty"`
	Strength            *string  `json:"strength,omitempty"`
	DosageForm          *string  `json:"dosage_form,omitempty"`
	DosageInstructions  *string  `json:"dosage_instructions,omitempty"`
	Frequency           *string  `json:"frequency,omitempty"`
	Duration            *string  `json:"duration,omitempty"`
	Quantity            *string  `json:"quantity,omitempty"`
	BeforeAfterMeal     *string  `json:"before_after_meal,omitempty"`
	SpecialInstructions *string  `json:"special_instructions,omitempty"`
	OrderIndex          int      `json:"order_index"`
	ConfidenceScore     *float64 `json:"confidence_score,omitempty"`
}

// Command untuk create prescription (with its medication lines)
type CreatePrescriptionCommand struct {
	DoctorName         *string    `json:"doctor_name,omitempty"`
	DoctorLicense      *string    `json:"doctor_license,omitempty"`
	ClinicName         *string    `json:"clinic_name,omitempty"`
	ClinicAddress      *string    `json:"clinic_address,omitempty"`
	PatientName        *string    `json:"patient_name,omitempty"`
	PatientAge         *int       `json:"patient_age,omitempty"`
	PatientGender      *string    `json:"patient_gender,omitempty"`
	PrescriptionDate   *time.Time `json:"prescription_date,omitempty"`
	PrescriptionNumber *string    `json:"prescription_number,omitempty"`
	Diagnosis          *string    `json:"diagnosis,omitempty"`
	Notes              *string    `json:"notes,omitempty"`

	ImageID           string `json:"image_id"`
	AnalysisSessionID string `json:"analysis_session_id"`

	Medications []CreateMedicationCommand `json:"medications"`
}

// Command untuk manual correction; replaces the extraction fields.
type CorrectPrescriptionCommand struct {
	DoctorName         *string    `json:"doctor_name,omitempty"`
	DoctorLicense      *string    `json:"doctor_license,omitempty"`
	ClinicName         *string    `json:"clinic_name,omitempty"`
	ClinicAddress      *string    `json:"clinic_address,omitempty"`
	PatientName        *string    `json:"patient_name,omitempty"`
	PatientAge         *int       `json:"patient_age,omitempty"`
	PatientGender      *string    `json:"patient_gender,omitempty"`
	PrescriptionDate   *time.Time `json:"prescription_date,omitempty"`
	PrescriptionNumber *string    `json:"prescription_number,omitempty"`
	Diagnosis          *string    `json:"diagnosis,omitempty"`
	Notes              *string    `json:"notes,omitempty"`
}

// MedicationResponse is the external read projection for one line-item.
type MedicationResponse struct {
	ID                  string   `json:"id"`
	Name                string   `json:"name"`
	GenericName         *string  `json:"generic_name,omitempty"`
	BrandName           *string  `json:"brand_name,omitempty"`
	MedicationType      *string  `json:"medication_type,omitempty"`
	Strength            *string  `json:"strength,omitempty"`
	DosageForm          *string  `json:"dosage_form,omitempty"`
	DosageInstructions  *string  `json:"dosage_instructions,omitempty"`
	Frequency           *string  `json:"frequency,omitempty"`
	Duration            *string  `json:"duration,omitempty"`
	Quantity            *string  `json:"quantity,omitempty"`
	BeforeAfterMeal     *string  `json:"before_after_meal,omitempty"`
	SpecialInstructions *string  `json:"special_instructions,omitempty"`
	OrderIndex          int      `json:"order_index"`
	ConfidenceScore     *float64 `json:"confidence_score,omitempty"`
}

// PrescriptionResponse is the external read projection; datetimes are
// ISO-8601 and medications come ordered by order_index.
type PrescriptionResponse struct {
	ID                 string               `json:"id"`
	DoctorName         *string              `json:"doctor_name,omitempty"`
	DoctorLicense      *string              `json:"doctor_license,omitempty"`
	ClinicName         *string              `json:"clinic_name,omitempty"`
	ClinicAddress      *string              `json:"clinic_address,omitempty"`
	PatientName        *string              `json:"patient_name,omitempty"`
	PatientAge         *int                 `json:"patient_age,omitempty"`
	PatientGender      *string              `json:"patient_gender,omitempty"`
	PrescriptionDate   *string              `json:"prescription_date,omitempty"`
	PrescriptionNumber *string              `json:"prescription_number,omitempty"`
	Diagnosis          *string              `json:"diagnosis,omitempty"`
	Notes              *string              `json:"notes,omitempty"`
	CreatedAt          string               `json:"created_at"`
	Medications        []MedicationResponse `json:"medications"`
}

// Create verifies both foreign keys, then persists the prescription and
// its medication lines in extraction order.
func (s *Service) Create(ctx context.Context, cmd CreatePrescriptionCommand) (PrescriptionResponse, error) {
	img, err := s.Images.Get(ctx, domimages.ImageID(cmd.ImageID))
	if err != nil {
		return PrescriptionResponse{}, err
	}
	if img == nil {
		return PrescriptionResponse{}, &validation.ReferentialError{Field: "image_id", Value: cmd.ImageID}
	}
	sess, err := s.Sessions.Get(ctx, domsessions.SessionID(cmd.AnalysisSessionID))
	if err != nil {
		return PrescriptionResponse{}, err
	}
	if sess == nil {
		return PrescriptionResponse{}, &validation.ReferentialError{Field: "analysis_session_id", Value: cmd.AnalysisSessionID}
	}

	now := s.Clock.Now().UTC()
	p, err := domain.New(
		domain.PrescriptionID(uuid.New().String()),
		domimages.ImageID(cmd.ImageID),
		domsessions.SessionID(cmd.AnalysisSessionID),
		fieldsFrom(cmd),
		now,
	)
	if err != nil {
		return PrescriptionResponse{}, err
	}

	meds := make([]*domain.Medication, 0, len(cmd.Medications))
	for _, mc := range cmd.Medications {
		m, err := medicationFrom(mc, p.ID, now)
		if err != nil {
			return PrescriptionResponse{}, err
		}
		meds = append(meds, m)
	}

	if err := s.Repo.Save(ctx, p, meds); err != nil {
		return PrescriptionResponse{}, err
	}
	return PrescriptionResponseFrom(p, meds), nil
}

// Correct applies a manual correction to the extraction fields.
func (s *Service) Correct(ctx context.Context, id string, cmd CorrectPrescriptionCommand) (PrescriptionResponse, error) {
	p, err := s.Repo.Get(ctx, domain.PrescriptionID(id))
	if err != nil {
		return PrescriptionResponse{}, err
	}
	if p == nil {
		return PrescriptionResponse{}, fmt.Errorf("prescription not found: %s", id)
	}
	f := domain.Fields{
		DoctorName:         cmd.DoctorName,
		DoctorLicense:      cmd.DoctorLicense,
		ClinicName:         cmd.ClinicName,
		ClinicAddress:      cmd.ClinicAddress,
		PatientName:        cmd.PatientName,
		PatientAge:         cmd.PatientAge,
		PatientGender:      cmd.PatientGender,
		PrescriptionDate:   cmd.PrescriptionDate,
		PrescriptionNumber: cmd.PrescriptionNumber,
		Diagnosis:          cmd.Diagnosis,
		Notes:              cmd.Notes,
	}
	if err := p.ApplyCorrection(f, s.Clock.Now().UTC()); err != nil {
		return PrescriptionResponse{}, err
	}
	if err := s.Repo.Update(ctx, p); err != nil {
		return PrescriptionResponse{}, err
	}
	meds, err := s.Repo.Medications(ctx, p.ID)
	if err != nil {
		return PrescriptionResponse{}, err
	}
	return PrescriptionResponseFrom(p, meds), nil
}

// Get ambil 1 prescription by id, medications included
func (s *Service) Get(ctx context.Context, id string) (PrescriptionResponse, error) {
	p, err := s.Repo.Get(ctx, domain.PrescriptionID(id))
	if err != nil {
		return PrescriptionResponse{}, err
	}
	if p == nil {
		return PrescriptionResponse{}, fmt.Errorf("prescription not found: %s", id)
	}
	meds, err := s.Repo.Medications(ctx, p.ID)
	if err != nil {
		return PrescriptionResponse{}, err
	}
	return PrescriptionResponseFrom(p, meds), nil
}

// ListByImage lists prescriptions extracted from one image.
func (s *Service) ListByImage(ctx context.Context, imageID string) ([]PrescriptionResponse, error) {
	list, err := s.Repo.ListByImage(ctx, domimages.ImageID(imageID))
	if err != nil {
		return nil, err
	}
	return s.project(ctx, list)
}

// ListBySession lists prescriptions one analysis session produced.
func (s *Service) ListBySession(ctx context.Context, sessionID string) ([]PrescriptionResponse, error) {
	list, err := s.Repo.ListBySession(ctx, domsessions.SessionID(sessionID))
	if err != nil {
		return nil, err
	}
	return s.project(ctx, list)
}

func (s *Service) project(ctx context.Context, list []*domain.Prescription) ([]PrescriptionResponse, error) {
	out := make([]PrescriptionResponse, 0, len(list))
	for _, p := range list {
		meds, err := s.Repo.Medications(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, PrescriptionResponseFrom(p, meds))
	}
	return out, nil
}

func fieldsFrom(cmd CreatePrescriptionCommand) domain.Fields {
	return domain.Fields{
		DoctorName:         cmd.DoctorName,
		DoctorLicense:      cmd.DoctorLicense,
		ClinicName:         cmd.ClinicName,
		ClinicAddress:      cmd.ClinicAddress,
		PatientName:        cmd.PatientName,
		PatientAge:         cmd.PatientAge,
		PatientGender:      cmd.PatientGender,
		PrescriptionDate:   cmd.PrescriptionDate,
		PrescriptionNumber: cmd.PrescriptionNumber,
		Diagnosis:          cmd.Diagnosis,
		Notes:              cmd.Notes,
	}
}

func medicationFrom(mc CreateMedicationCommand, parent domain.PrescriptionID, now time.Time) (*domain.Medication, error) {
	var mt *domain.MedicationType
	if mc.MedicationType != nil {
		parsed, err := domain.ParseMedicationType(*mc.MedicationType)
		if err != nil {
			return nil, err
		}
		mt = &parsed
	}
	return domain.NewMedication(domain.MedicationID(uuid.New().String()), parent, domain.Medication{
		Name:                mc.Name,
		GenericName:         mc.GenericName,
		BrandName:           mc.BrandName,
		Type:                mt,
		Strength:            mc.Strength,
		DosageForm:          mc.DosageForm,
		DosageInstructions:  mc.DosageInstructions,
		Frequency:           mc.Frequency,
		Duration:            mc.Duration,
		Quantity:            mc.Quantity,
		BeforeAfterMeal:     mc.BeforeAfterMeal,
		SpecialInstructions: mc.SpecialInstructions,
		OrderIndex:          mc.OrderIndex,
		ConfidenceScore:     mc.ConfidenceScore,
	}, now)
}

// MedicationResponseFrom projects one line-item into the wire shape.
func MedicationResponseFrom(m *domain.Medication) MedicationResponse {
	var mt *string
	if m.Type != nil {
		v := string(*m.Type)
		mt = &v
	}
	return MedicationResponse{
		ID:                  string(m.ID),
		Name:                m.Name,
		GenericName:         m.GenericName,
		BrandName:           m.BrandName,
		MedicationType:      mt,
		Strength:            m.Strength,
		DosageForm:          m.DosageForm,
		DosageInstructions:  m.DosageInstructions,
		Frequency:           m.Frequency,
		Duration:            m.Duration,
		Quantity:            m.Quantity,
		BeforeAfterMeal:     m.BeforeAfterMeal,
		SpecialInstructions: m.SpecialInstructions,
		OrderIndex:          m.OrderIndex,
		ConfidenceScore:     m.ConfidenceScore,
	}
}

// PrescriptionResponseFrom projects the entity and its lines into the wire
// shape; medications are sorted by order_index (stable, so duplicate
// indices keep insertion order).
func PrescriptionResponseFrom(p *domain.Prescription, meds []*domain.Medication) PrescriptionResponse {
	sorted := make([]*domain.Medication, len(meds))
	copy(sorted, meds)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].OrderIndex < sorted[j].OrderIndex })

	out := make([]MedicationResponse, 0, len(sorted))
	for _, m := range sorted {
		out = append(out, MedicationResponseFrom(m))
	}

	var date *string
	if p.PrescriptionDate != nil {
		v := p.PrescriptionDate.UTC().Format(time.RFC3339Nano)
		date = &v
	}
	return PrescriptionResponse{
		ID:                 string(p.ID),
		DoctorName:         p.DoctorName,
		DoctorLicense:      p.DoctorLicense,
		ClinicName:         p.ClinicName,
		ClinicAddress:      p.ClinicAddress,
		PatientName:        p.PatientName,
		PatientAge:         p.PatientAge,
		PatientGender:      p.PatientGender,
		PrescriptionDate:   date,
		PrescriptionNumber: p.PrescriptionNumber,
		Diagnosis:          p.Diagnosis,
		Notes:              p.Notes,
		CreatedAt:          p.CreatedAt.UTC().Format(time.RFC3339Nano),
		Medications:        out,
	}
}
