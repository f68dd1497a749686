package prescriptions

import (
	"context"

	"github.com/rxtract/prescription-data/internal/domain/images"
	"github.com/rxtract/prescription-data/internal/domain/sessions"
)

// Repository port (interface untuk persistence)
type Repository interface {
	// Save inserts the prescription together with its medication lines.
	Save(ctx context.Context, p *Prescription, meds []*Medication) error
	// Get returns (nil, nil) when the id is unknown.
	Get(ctx context.Context, id PrescriptionID) (*Prescription, error)
	// Update rewrites the extraction fields and updated_at; medications
	// are untouched.
	Update(ctx context.Context, p *Prescription) error
	ListByImage(ctx context.Context, imageID images.ImageID) ([]*Prescription, error)
	ListBySession(ctx context.Context, sessionID sessions.SessionID) ([]*Prescription, error)
	// LatestBySession returns (nil, nil) when the session produced nothing.
	LatestBySession(ctx context.Context, sessionID sessions.SessionID) (*Prescription, error)
	// Medications lists line-items ordered by order_index, then id.
	Medications(ctx context.Context, id PrescriptionID) ([]*Medication, error)
}
