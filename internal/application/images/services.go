package images

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rxtract/prescription-data/internal/application"
	domain "github.com/rxtract/prescription-data/internal/domain/images"
	domusers "github.com/rxtract/prescription-data/internal/domain/users"
	"github.com/rxtract/prescription-data/internal/domain/validation"
)

// Service implements use-cases untuk PrescriptionImage
type Service struct {
	Repo  domain.Repository
	Users domusers.Repository
	Clock application.Clock
}

// Command untuk record an uploaded image. The bytes themselves never pass
// through this module; callers store them and hand over the metadata.
type UploadImageCommand struct {
	UserID           string `json:"user_id"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	FilePath         string `json:"file_path"`
	FileSize         int64  `json:"file_size"`
	MimeType         string `json:"mime_type"`
	Width            *int   `json:"width,omitempty"`
	Height           *int   `json:"height,omitempty"`
}

// ImageResponse is the external read projection; datetimes are ISO-8601.
type ImageResponse struct {
	ID               string `json:"id"`
	Filename         string `json:"filename"`
	OriginalFilename string `json:"original_filename"`
	FileSize         int64  `json:"file_size"`
	MimeType         string `json:"mime_type"`
	Width            *int   `json:"width,omitempty"`
	Height           *int   `json:"height,omitempty"`
	UploadTimestamp  string `json:"upload_timestamp"`
}

// Create verifies the owning user exists, then persists the image record.
func (s *Service) Create(ctx context.Context, cmd UploadImageCommand) (ImageResponse, error) {
	owner, err := s.Users.Get(ctx, domusers.UserID(cmd.UserID))
	if err != nil {
		return ImageResponse{}, err
	}
	if owner == nil {
		return ImageResponse{}, &validation.ReferentialError{Field: "user_id", Value: cmd.UserID}
	}

	img, err := domain.New(
		domain.ImageID(uuid.New().String()),
		domusers.UserID(cmd.UserID),
		cmd.Filename,
		cmd.OriginalFilename,
		cmd.FilePath,
		cmd.FileSize,
		cmd.MimeType,
		cmd.Width,
		cmd.Height,
		s.Clock.Now().UTC(),
	)
	if err != nil {
		return ImageResponse{}, err
	}
	if err := s.Repo.Save(ctx, img); err != nil {
		return ImageResponse{}, err
	}
	return ImageResponseFrom(img), nil
}

// Get ambil 1 image by id
func (s *Service) Get(ctx context.Context, id string) (ImageResponse, error) {
	img, err := s.Repo.Get(ctx, domain.ImageID(id))
	if err != nil {
		return ImageResponse{}, err
	}
	if img == nil {
		return ImageResponse{}, fmt.Errorf("image not found: %s", id)
	}
	return ImageResponseFrom(img), nil
}

// ListByUser lists a user's uploads.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]ImageResponse, error) {
	list, err := s.Repo.ListByUser(ctx, domusers.UserID(userID))
	if err != nil {
		return nil, err
	}
	out := make([]ImageResponse, 0, len(list))
	for _, img := range list {
		out = append(out, ImageResponseFrom(img))
	}
	return out, nil
}

// ImageResponseFrom projects the entity into the wire shape.
func ImageResponseFrom(img *domain.PrescriptionImage) ImageResponse {
	return ImageResponse{
		ID:               string(img.ID),
		Filename:         img.Filename,
		OriginalFilename: img.OriginalFilename,
		FileSize:         img.FileSize,
		MimeType:         img.MimeType,
		Width:            img.Width,
		Height:           img.Height,
		UploadTimestamp:  img.UploadTimestamp.UTC().Format(time.RFC3339Nano),
	}
}
