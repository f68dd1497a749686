package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rxtract/prescription-data/internal/domain/images"
	domain "github.com/rxtract/prescription-data/internal/domain/prescriptions"
	"github.com/rxtract/prescription-data/internal/domain/sessions"
)

type PrescriptionRepository struct {
	db *sql.DB
}

func NewPrescriptionRepository(db *sql.DB) *PrescriptionRepository {
	return &PrescriptionRepository{db: db}
}

// Save inserts the prescription and its medication lines in one transaction
// so a half-written aggregate never becomes visible.
func (r *PrescriptionRepository) Save(ctx context.Context, p *domain.Prescription, meds []*domain.Medication) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const q = `
INSERT INTO prescriptions
(id, doctor_name, doctor_license, clinic_name, clinic_address,
 patient_name, patient_age, patient_gender,
 prescription_date, prescription_number, diagnosis, notes,
 created_at, updated_at, image_id, analysis_session_id)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);
`
	if _, err := tx.ExecContext(ctx, q,
		p.ID, nullStr(p.DoctorName), nullStr(p.DoctorLicense), nullStr(p.ClinicName), nullStr(p.ClinicAddress),
		nullStr(p.PatientName), nullInt(p.PatientAge), nullStr(p.PatientGender),
		nullTime(p.PrescriptionDate), nullStr(p.PrescriptionNumber), nullStr(p.Diagnosis), nullStr(p.Notes),
		p.CreatedAt, p.UpdatedAt, p.ImageID, p.AnalysisSessionID,
	); err != nil {
		return translate(err, "id", "image_id")
	}

	const mq = `
INSERT INTO medications
(id, name, generic_name, brand_name, medication_type,
 strength, dosage_form, dosage_instructions, frequency, duration, quantity,
 before_after_meal, special_instructions,
 order_index, confidence_score, created_at, prescription_id)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?);
`
	for _, m := range meds {
		var mt sql.NullString
		if m.Type != nil {
			mt = sql.NullString{String: string(*m.Type), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, mq,
			m.ID, m.Name, nullStr(m.GenericName), nullStr(m.BrandName), mt,
			nullStr(m.Strength), nullStr(m.DosageForm), nullStr(m.DosageInstructions),
			nullStr(m.Frequency), nullStr(m.Duration), nullStr(m.Quantity),
			nullStr(m.BeforeAfterMeal), nullStr(m.SpecialInstructions),
			m.OrderIndex, nullFloat(m.ConfidenceScore), m.CreatedAt, m.PrescriptionID,
		); err != nil {
			return translate(err, "id", "prescription_id")
		}
	}

	return tx.Commit()
}

// Update rewrites the extraction fields and updated_at; medications untouched
func (r *PrescriptionRepository) Update(ctx context.Context, p *domain.Prescription) error {
	const q = `
UPDATE prescriptions
SET doctor_name=?, doctor_license=?, clinic_name=?, clinic_address=?,
    patient_name=?, patient_age=?, patient_gender=?,
    prescription_date=?, prescription_number=?, diagnosis=?, notes=?,
    updated_at=?
WHERE id=?;
`
	res, err := r.db.ExecContext(ctx, q,
		nullStr(p.DoctorName), nullStr(p.DoctorLicense), nullStr(p.ClinicName), nullStr(p.ClinicAddress),
		nullStr(p.PatientName), nullInt(p.PatientAge), nullStr(p.PatientGender),
		nullTime(p.PrescriptionDate), nullStr(p.PrescriptionNumber), nullStr(p.Diagnosis), nullStr(p.Notes),
		p.UpdatedAt, p.ID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("prescription not found: %s", p.ID)
	}
	return nil
}

// Get by ID
func (r *PrescriptionRepository) Get(ctx context.Context, id domain.PrescriptionID) (*domain.Prescription, error) {
	row := r.db.QueryRowContext(ctx, selectPrescriptions+` WHERE id=? LIMIT 1;`, id)
	p, err := scanPrescription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// ListByImage lists prescriptions extracted from one image, newest first
func (r *PrescriptionRepository) ListByImage(ctx context.Context, imageID images.ImageID) ([]*domain.Prescription, error) {
	return r.list(ctx, selectPrescriptions+` WHERE image_id=? ORDER BY created_at DESC, id DESC;`, imageID)
}

// ListBySession lists prescriptions one session produced, newest first
func (r *PrescriptionRepository) ListBySession(ctx context.Context, sessionID sessions.SessionID) ([]*domain.Prescription, error) {
	return r.list(ctx, selectPrescriptions+` WHERE analysis_session_id=? ORDER BY created_at DESC, id DESC;`, sessionID)
}

// LatestBySession returns (nil, nil) when the session produced nothing
func (r *PrescriptionRepository) LatestBySession(ctx context.Context, sessionID sessions.SessionID) (*domain.Prescription, error) {
	row := r.db.QueryRowContext(ctx,
		selectPrescriptions+` WHERE analysis_session_id=? ORDER BY created_at DESC, id DESC LIMIT 1;`, sessionID)
	p, err := scanPrescription(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return p, err
}

// Medications lists line-items in extraction order
func (r *PrescriptionRepository) Medications(ctx context.Context, id domain.PrescriptionID) ([]*domain.Medication, error) {
	const q = `
SELECT id, name, generic_name, brand_name, medication_type,
       strength, dosage_form, dosage_instructions, frequency, duration, quantity,
       before_after_meal, special_instructions,
       order_index, confidence_score, created_at, prescription_id
FROM medications
WHERE prescription_id=? ORDER BY order_index ASC, id ASC;
`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Medication
	for rows.Next() {
		var m domain.Medication
		var generic, brand, mt, strength, form, instr, freq, dur, qty, meal, special sql.NullString
		var confidence sql.NullFloat64
		if err := rows.Scan(
			&m.ID, &m.Name, &generic, &brand, &mt,
			&strength, &form, &instr, &freq, &dur, &qty,
			&meal, &special,
			&m.OrderIndex, &confidence, &m.CreatedAt, &m.PrescriptionID,
		); err != nil {
			return nil, err
		}
		m.GenericName = strPtr(generic)
		m.BrandName = strPtr(brand)
		if mt.Valid {
			t := domain.MedicationType(mt.String)
			m.Type = &t
		}
		m.Strength = strPtr(strength)
		m.DosageForm = strPtr(form)
		m.DosageInstructions = strPtr(instr)
		m.Frequency = strPtr(freq)
		m.Duration = strPtr(dur)
		m.Quantity = strPtr(qty)
		m.BeforeAfterMeal = strPtr(meal)
		m.SpecialInstructions = strPtr(special)
		m.ConfidenceScore = floatPtr(confidence)
		out = append(out, &m)
	}
	return out, rows.Err()
}

const selectPrescriptions = `
SELECT id, doctor_name, doctor_license, clinic_name, clinic_address,
       patient_name, patient_age, patient_gender,
       prescription_date, prescription_number, diagnosis, notes,
       created_at, updated_at, image_id, analysis_session_id
FROM prescriptions`

func (r *PrescriptionRepository) list(ctx context.Context, q string, arg any) ([]*domain.Prescription, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Prescription
	for rows.Next() {
		p, err := scanPrescription(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPrescription(row rowScanner) (*domain.Prescription, error) {
	var p domain.Prescription
	var doctor, license, clinic, address, patient, gender, number, diagnosis, notes sql.NullString
	var age sql.NullInt64
	var date sql.NullTime
	if err := row.Scan(
		&p.ID, &doctor, &license, &clinic, &address,
		&patient, &age, &gender,
		&date, &number, &diagnosis, &notes,
		&p.CreatedAt, &p.UpdatedAt, &p.ImageID, &p.AnalysisSessionID,
	); err != nil {
		return nil, err
	}
	p.DoctorName = strPtr(doctor)
	p.DoctorLicense = strPtr(license)
	p.ClinicName = strPtr(clinic)
	p.ClinicAddress = strPtr(address)
	p.PatientName = strPtr(patient)
	p.PatientAge = intPtr(age)
	p.PatientGender = strPtr(gender)
	p.PrescriptionDate = timePtr(date)
	p.PrescriptionNumber = strPtr(number)
	p.Diagnosis = strPtr(diagnosis)
	p.Notes = strPtr(notes)
	return &p, nil
}
