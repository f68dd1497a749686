package postgres

import (
	"context"
	"database/sql"

	domain "github.com/rxtract/prescription-data/internal/domain/images"
	"github.com/rxtract/prescription-data/internal/domain/users"
)

type ImageRepository struct{ db *sql.DB }

func NewImageRepository(db *sql.DB) *ImageRepository { return &ImageRepository{db: db} }

// Save inserts an image record. Rows are immutable, so this is a plain
// INSERT; no conflict clause.
func (r *ImageRepository) Save(ctx context.Context, img *domain.PrescriptionImage) error {
	const q = `
INSERT INTO prescription_images
(id, filename, original_filename, file_path, file_size, mime_type,
 width, height, upload_timestamp, user_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10);`
	_, err := r.db.ExecContext(ctx, q,
		img.ID, img.Filename, img.OriginalFilename, img.FilePath, img.FileSize, img.MimeType,
		nullInt(img.Width), nullInt(img.Height), img.UploadTimestamp, img.UserID,
	)
	return translate(err, "id", "user_id")
}

// Get by ID
func (r *ImageRepository) Get(ctx context.Context, id domain.ImageID) (*domain.PrescriptionImage, error) {
	row := r.db.QueryRowContext(ctx, selectImages+` WHERE id=$1 LIMIT 1;`, id)
	img, err := scanImage(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return img, err
}

// ListByUser lists uploads newest first
func (r *ImageRepository) ListByUser(ctx context.Context, userID users.UserID) ([]*domain.PrescriptionImage, error) {
	rows, err := r.db.QueryContext(ctx, selectImages+` WHERE user_id=$1 ORDER BY upload_timestamp DESC, id DESC;`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.PrescriptionImage
	for rows.Next() {
		img, err := scanImage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, rows.Err()
}

const selectImages = `
SELECT id, filename, original_filename, file_path, file_size, mime_type,
       width, height, upload_timestamp, user_id
FROM prescription_images`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanImage(row rowScanner) (*domain.PrescriptionImage, error) {
	var img domain.PrescriptionImage
	var width, height sql.NullInt64
	if err := row.Scan(
		&img.ID, &img.Filename, &img.OriginalFilename, &img.FilePath, &img.FileSize, &img.MimeType,
		&width, &height, &img.UploadTimestamp, &img.UserID,
	); err != nil {
		return nil, err
	}
	img.Width = intPtr(width)
	img.Height = intPtr(height)
	return &img, nil
}
