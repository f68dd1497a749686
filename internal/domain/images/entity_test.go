package images

import (
	"errors"
	"testing"
	"time"

	"github.com/rxtract/prescription-data/internal/domain/validation"
)

func newImage(fileSize int64, width, height *int) (*PrescriptionImage, error) {
	return New("img-1", "u-1", "abc123.jpg", "scan.jpg", "/uploads/abc123.jpg",
		fileSize, "image/jpeg", width, height, time.Now().UTC())
}

func TestFileSizeMustBePositive(t *testing.T) {
	for _, size := range []int64{0, -1} {
		_, err := newImage(size, nil, nil)
		var ve *validation.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("file_size=%d: expected *ValidationError, got %v", size, err)
		}
		if ve.Field != "file_size" {
			t.Fatalf("expected field file_size, got %q", ve.Field)
		}
	}
	if _, err := newImage(1, nil, nil); err != nil {
		t.Fatalf("file_size=1 should be accepted: %v", err)
	}
}

func TestDimensionsNonNegativeWhenPresent(t *testing.T) {
	neg := -1
	if _, err := newImage(1024, &neg, nil); err == nil {
		t.Fatalf("expected error for negative width")
	}
	zero := 0
	img, err := newImage(1024, &zero, &zero)
	if err != nil {
		t.Fatalf("zero dimensions should be accepted: %v", err)
	}
	if img.Width == nil || *img.Width != 0 {
		t.Fatalf("width should round-trip")
	}
}

func TestAbsentDimensionsStayAbsent(t *testing.T) {
	img, err := newImage(2048, nil, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if img.Width != nil || img.Height != nil {
		t.Fatalf("absent dimensions must stay nil, not become zero")
	}
}
