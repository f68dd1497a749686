package images

import (
	"context"

	"github.com/rxtract/prescription-data/internal/domain/users"
)

// Repository port (interface untuk persistence)
type Repository interface {
	Save(ctx context.Context, img *PrescriptionImage) error
	// Get returns (nil, nil) when the id is unknown.
	Get(ctx context.Context, id ImageID) (*PrescriptionImage, error)
	ListByUser(ctx context.Context, userID users.UserID) ([]*PrescriptionImage, error)
}
