package sessions

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rxtract/prescription-data/internal/application"
	appimages "github.com/rxtract/prescription-data/internal/application/images"
	apprx "github.com/rxtract/prescription-data/internal/application/prescriptions"
	domimages "github.com/rxtract/prescription-data/internal/domain/images"
	domrx "github.com/rxtract/prescription-data/internal/domain/prescriptions"
	domain "github.com/rxtract/prescription-data/internal/domain/sessions"
	domusers "github.com/rxtract/prescription-data/internal/domain/users"
	"github.com/rxtract/prescription-data/internal/domain/validation"
)

// DefaultModelName is used when a create command does not name the model.
const DefaultModelName = "gemini-flash"

// Service implements use-cases untuk AnalysisSession. The analysis pipeline
// itself lives outside this module; it calls Begin/Complete/Fail here to
// persist what happened.
type Service struct {
	Repo          domain.Repository
	Users         domusers.Repository
	Images        domimages.Repository
	Prescriptions domrx.Repository
	Clock         application.Clock
	// DefaultModel overrides DefaultModelName when set (from config).
	DefaultModel string
	// DefaultVersion is stamped on sessions whose command carries no
	// model version (from config).
	DefaultVersion string
}

// Command untuk create session
type CreateSessionCommand struct {
	UserID       string  `json:"user_id"`
	ImageID      string  `json:"image_id"`
	ModelName    string  `json:"model_name,omitempty"`
	ModelVersion *string `json:"model_version,omitempty"`
}

// SessionResponse is the external read projection; datetimes are ISO-8601
// and decimals carry 3-decimal resolution.
type SessionResponse struct {
	ID                    string   `json:"id"`
	Status                string   `json:"status"`
	StartedAt             string   `json:"started_at"`
	CompletedAt           *string  `json:"completed_at,omitempty"`
	ProcessingTimeSeconds *float64 `json:"processing_time_seconds,omitempty"`
	ModelName             string   `json:"model_name"`
	ConfidenceScore       *float64 `json:"confidence_score,omitempty"`
	ErrorMessage          *string  `json:"error_message,omitempty"`
}

// AnalysisResult is the composite view: session info, the extracted
// prescription (when the session produced one) and the source image.
type AnalysisResult struct {
	Session      SessionResponse             `json:"session"`
	Prescription *apprx.PrescriptionResponse `json:"prescription,omitempty"`
	Image        appimages.ImageResponse     `json:"image"`
}

// Create verifies both foreign keys and persists a pending session.
func (s *Service) Create(ctx context.Context, cmd CreateSessionCommand) (SessionResponse, error) {
	owner, err := s.Users.Get(ctx, domusers.UserID(cmd.UserID))
	if err != nil {
		return SessionResponse{}, err
	}
	if owner == nil {
		return SessionResponse{}, &validation.ReferentialError{Field: "user_id", Value: cmd.UserID}
	}
	img, err := s.Images.Get(ctx, domimages.ImageID(cmd.ImageID))
	if err != nil {
		return SessionResponse{}, err
	}
	if img == nil {
		return SessionResponse{}, &validation.ReferentialError{Field: "image_id", Value: cmd.ImageID}
	}

	model := cmd.ModelName
	if model == "" {
		model = s.DefaultModel
	}
	if model == "" {
		model = DefaultModelName
	}
	version := cmd.ModelVersion
	if version == nil && s.DefaultVersion != "" {
		v := s.DefaultVersion
		version = &v
	}

	sess, err := domain.New(
		domain.SessionID(uuid.New().String()),
		domusers.UserID(cmd.UserID),
		domimages.ImageID(cmd.ImageID),
		model,
		version,
		s.Clock.Now().UTC(),
	)
	if err != nil {
		return SessionResponse{}, err
	}
	if err := s.Repo.Save(ctx, sess); err != nil {
		return SessionResponse{}, err
	}
	return SessionResponseFrom(sess), nil
}

// Begin marks a session processing.
func (s *Service) Begin(ctx context.Context, id string) error {
	return s.Repo.UpdateStatus(ctx, domain.SessionID(id), domain.StatusProcessing)
}

// Complete stores a terminal success: raw model response, confidence and
// derived processing time.
func (s *Service) Complete(ctx context.Context, id string, raw json.RawMessage, confidence *float64) (SessionResponse, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return SessionResponse{}, err
	}
	if err := sess.Complete(raw, confidence, s.Clock.Now().UTC()); err != nil {
		return SessionResponse{}, err
	}
	if err := s.Repo.Save(ctx, sess); err != nil {
		return SessionResponse{}, err
	}
	return SessionResponseFrom(sess), nil
}

// Fail stores a terminal failure with the pipeline's error code/message.
func (s *Service) Fail(ctx context.Context, id, code, message string) (SessionResponse, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return SessionResponse{}, err
	}
	if err := sess.Fail(code, message, s.Clock.Now().UTC()); err != nil {
		return SessionResponse{}, err
	}
	if err := s.Repo.Save(ctx, sess); err != nil {
		return SessionResponse{}, err
	}
	return SessionResponseFrom(sess), nil
}

// Get ambil 1 session by id
func (s *Service) Get(ctx context.Context, id string) (SessionResponse, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return SessionResponse{}, err
	}
	return SessionResponseFrom(sess), nil
}

// ListByImage lists the analysis attempts made on one image.
func (s *Service) ListByImage(ctx context.Context, imageID string) ([]SessionResponse, error) {
	list, err := s.Repo.ListByImage(ctx, domimages.ImageID(imageID))
	if err != nil {
		return nil, err
	}
	out := make([]SessionResponse, 0, len(list))
	for _, sess := range list {
		out = append(out, SessionResponseFrom(sess))
	}
	return out, nil
}

// ListByUser lists every analysis attempt a user ran.
func (s *Service) ListByUser(ctx context.Context, userID string) ([]SessionResponse, error) {
	list, err := s.Repo.ListByUser(ctx, domusers.UserID(userID))
	if err != nil {
		return nil, err
	}
	out := make([]SessionResponse, 0, len(list))
	for _, sess := range list {
		out = append(out, SessionResponseFrom(sess))
	}
	return out, nil
}

// Result assembles the composite analysis view for one session.
func (s *Service) Result(ctx context.Context, id string) (AnalysisResult, error) {
	sess, err := s.load(ctx, id)
	if err != nil {
		return AnalysisResult{}, err
	}
	img, err := s.Images.Get(ctx, sess.ImageID)
	if err != nil {
		return AnalysisResult{}, err
	}
	if img == nil {
		return AnalysisResult{}, fmt.Errorf("image not found: %s", sess.ImageID)
	}

	res := AnalysisResult{
		Session: SessionResponseFrom(sess),
		Image:   appimages.ImageResponseFrom(img),
	}

	p, err := s.Prescriptions.LatestBySession(ctx, sess.ID)
	if err != nil {
		return AnalysisResult{}, err
	}
	if p != nil {
		meds, err := s.Prescriptions.Medications(ctx, p.ID)
		if err != nil {
			return AnalysisResult{}, err
		}
		pr := apprx.PrescriptionResponseFrom(p, meds)
		res.Prescription = &pr
	}
	return res, nil
}

func (s *Service) load(ctx context.Context, id string) (*domain.AnalysisSession, error) {
	sess, err := s.Repo.Get(ctx, domain.SessionID(id))
	if err != nil {
		return nil, err
	}
	if sess == nil {
		return nil, fmt.Errorf("analysis session not found: %s", id)
	}
	return sess, nil
}

// SessionResponseFrom projects the entity into the wire shape.
func SessionResponseFrom(sess *domain.AnalysisSession) SessionResponse {
	var completed *string
	if sess.CompletedAt != nil {
		v := sess.CompletedAt.UTC().Format(time.RFC3339Nano)
		completed = &v
	}
	return SessionResponse{
		ID:                    string(sess.ID),
		Status:                string(sess.Status),
		StartedAt:             sess.StartedAt.UTC().Format(time.RFC3339Nano),
		CompletedAt:           completed,
		ProcessingTimeSeconds: sess.ProcessingTimeSeconds,
		ModelName:             sess.ModelName,
		ConfidenceScore:       sess.ConfidenceScore,
		ErrorMessage:          sess.ErrorMessage,
	}
}
