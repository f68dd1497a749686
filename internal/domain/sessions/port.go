package sessions

import (
	"context"

	"github.com/rxtract/prescription-data/internal/domain/images"
	"github.com/rxtract/prescription-data/internal/domain/users"
)

// Repository port (interface untuk persistence)
type Repository interface {
	// Save upserts the full row; terminal results land here too.
	Save(ctx context.Context, s *AnalysisSession) error
	// Get returns (nil, nil) when the id is unknown.
	Get(ctx context.Context, id SessionID) (*AnalysisSession, error)
	ListByImage(ctx context.Context, imageID images.ImageID) ([]*AnalysisSession, error)
	ListByUser(ctx context.Context, userID users.UserID) ([]*AnalysisSession, error)
	// UpdateStatus hanya update kolom status
	UpdateStatus(ctx context.Context, id SessionID, status Status) error
}
