package images

import (
	"time"

	"github.com/rxtract/prescription-data/internal/domain/users"
	"github.com/rxtract/prescription-data/internal/domain/validation"
)

// ID tipe untuk PrescriptionImage
type ImageID string

// PrescriptionImage is an uploaded image file. Rows are immutable once
// created; only metadata is stored here, the bytes live elsewhere.
type PrescriptionImage struct {
	ID               ImageID      `json:"id"`
	Filename         string       `json:"filename"`
	OriginalFilename string       `json:"original_filename"`
	FilePath         string       `json:"file_path"`
	FileSize         int64        `json:"file_size"`
	MimeType         string       `json:"mime_type"`
	Width            *int         `json:"width,omitempty"`
	Height           *int         `json:"height,omitempty"`
	UploadTimestamp  time.Time    `json:"upload_timestamp"`
	UserID           users.UserID `json:"user_id"`
}

// New builds an image record uploaded at now.
func New(id ImageID, userID users.UserID, filename, originalFilename, filePath string, fileSize int64, mimeType string, width, height *int, now time.Time) (*PrescriptionImage, error) {
	img := &PrescriptionImage{
		ID:               id,
		Filename:         filename,
		OriginalFilename: originalFilename,
		FilePath:         filePath,
		FileSize:         fileSize,
		MimeType:         mimeType,
		Width:            width,
		Height:           height,
		UploadTimestamp:  now,
		UserID:           userID,
	}
	if err := img.Validate(); err != nil {
		return nil, err
	}
	return img, nil
}

func (i *PrescriptionImage) Validate() error {
	if err := validation.Required("filename", i.Filename); err != nil {
		return err
	}
	if err := validation.MaxLen("filename", i.Filename, 255); err != nil {
		return err
	}
	if err := validation.Required("original_filename", i.OriginalFilename); err != nil {
		return err
	}
	if err := validation.MaxLen("original_filename", i.OriginalFilename, 255); err != nil {
		return err
	}
	if err := validation.Required("file_path", i.FilePath); err != nil {
		return err
	}
	if err := validation.MaxLen("file_path", i.FilePath, 500); err != nil {
		return err
	}
	if err := validation.Positive("file_size", i.FileSize); err != nil {
		return err
	}
	if err := validation.Required("mime_type", i.MimeType); err != nil {
		return err
	}
	if err := validation.MaxLen("mime_type", i.MimeType, 100); err != nil {
		return err
	}
	if i.Width != nil {
		if err := validation.Min("width", *i.Width, 0); err != nil {
			return err
		}
	}
	if i.Height != nil {
		if err := validation.Min("height", *i.Height, 0); err != nil {
			return err
		}
	}
	if err := validation.Required("user_id", string(i.UserID)); err != nil {
		return err
	}
	return nil
}
