package images

import (
	"context"
	"errors"
	"testing"
	"time"

	domain "github.com/rxtract/prescription-data/internal/domain/images"
	domusers "github.com/rxtract/prescription-data/internal/domain/users"
	"github.com/rxtract/prescription-data/internal/domain/validation"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

type memUsers struct{ rows map[domusers.UserID]*domusers.User }

func (m *memUsers) Save(_ context.Context, u *domusers.User) error { m.rows[u.ID] = u; return nil }
func (m *memUsers) Get(_ context.Context, id domusers.UserID) (*domusers.User, error) {
	return m.rows[id], nil
}
func (m *memUsers) GetByEmail(_ context.Context, email string) (*domusers.User, error) {
	for _, u := range m.rows {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, nil
}

type memImages struct{ rows map[domain.ImageID]*domain.PrescriptionImage }

func (m *memImages) Save(_ context.Context, img *domain.PrescriptionImage) error {
	m.rows[img.ID] = img
	return nil
}
func (m *memImages) Get(_ context.Context, id domain.ImageID) (*domain.PrescriptionImage, error) {
	return m.rows[id], nil
}
func (m *memImages) ListByUser(_ context.Context, userID domusers.UserID) ([]*domain.PrescriptionImage, error) {
	var out []*domain.PrescriptionImage
	for _, img := range m.rows {
		if img.UserID == userID {
			out = append(out, img)
		}
	}
	return out, nil
}

func fixture(t *testing.T) (*Service, *fakeClock) {
	t.Helper()
	clk := &fakeClock{t: time.Date(2026, 3, 14, 10, 0, 0, 123456789, time.UTC)}
	users := &memUsers{rows: map[domusers.UserID]*domusers.User{}}
	owner, err := domusers.New("u-1", "Jane Doe", "jane@example.com", clk.t)
	if err != nil {
		t.Fatalf("fixture user: %v", err)
	}
	users.rows[owner.ID] = owner
	return &Service{
		Repo:  &memImages{rows: map[domain.ImageID]*domain.PrescriptionImage{}},
		Users: users,
		Clock: clk,
	}, clk
}

func upload(userID string) UploadImageCommand {
	return UploadImageCommand{
		UserID:           userID,
		Filename:         "abc123.jpg",
		OriginalFilename: "scan.jpg",
		FilePath:         "/uploads/abc123.jpg",
		FileSize:         2048,
		MimeType:         "image/jpeg",
	}
}

func TestCreateRejectsUnknownUser(t *testing.T) {
	svc, _ := fixture(t)
	_, err := svc.Create(context.Background(), upload("ghost"))
	var re *validation.ReferentialError
	if !errors.As(err, &re) {
		t.Fatalf("expected *ReferentialError, got %v", err)
	}
	if re.Field != "user_id" {
		t.Fatalf("expected field user_id, got %q", re.Field)
	}
}

func TestCreateAndRoundTripTimestamp(t *testing.T) {
	svc, clk := fixture(t)
	resp, err := svc.Create(context.Background(), upload("u-1"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	parsed, err := time.Parse(time.RFC3339Nano, resp.UploadTimestamp)
	if err != nil {
		t.Fatalf("upload_timestamp is not RFC3339: %v", err)
	}
	if !parsed.Equal(clk.t) {
		t.Fatalf("round-trip lost precision: %v != %v", parsed, clk.t)
	}
	if resp.Width != nil || resp.Height != nil {
		t.Fatalf("absent dimensions must stay absent")
	}
}

func TestCreateRejectsZeroFileSize(t *testing.T) {
	svc, _ := fixture(t)
	cmd := upload("u-1")
	cmd.FileSize = 0
	_, err := svc.Create(context.Background(), cmd)
	var ve *validation.ValidationError
	if !errors.As(err, &ve) || ve.Field != "file_size" {
		t.Fatalf("expected file_size validation error, got %v", err)
	}
}
