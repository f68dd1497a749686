package sessions

import (
	"encoding/json"
	"time"

	"github.com/rxtract/prescription-data/internal/domain/images"
	"github.com/rxtract/prescription-data/internal/domain/users"
	"github.com/rxtract/prescription-data/internal/domain/validation"
)

// ID tipe untuk AnalysisSession
type SessionID string

// Status enum
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ParseStatus rejects unknown wire values instead of coercing them.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusProcessing, StatusCompleted, StatusFailed:
		return Status(s), nil
	}
	return "", validation.Errf("status", "enum", "unknown status %q", s)
}

// Aggregate Root: AnalysisSession, one AI-analysis attempt on an image.
// Transition legality between statuses is NOT enforced here; that belongs
// to the external orchestration layer.
type AnalysisSession struct {
	ID                    SessionID       `json:"id"`
	Status                Status          `json:"status"`
	StartedAt             time.Time       `json:"started_at"`
	CompletedAt           *time.Time      `json:"completed_at,omitempty"`
	ProcessingTimeSeconds *float64        `json:"processing_time_seconds,omitempty"`
	ModelName             string          `json:"model_name"`
	ModelVersion          *string         `json:"model_version,omitempty"`
	ErrorMessage          *string         `json:"error_message,omitempty"`
	ErrorCode             *string         `json:"error_code,omitempty"`
	RawResponse           json.RawMessage `json:"raw_response,omitempty"`
	ConfidenceScore       *float64        `json:"confidence_score,omitempty"`
	UserID                users.UserID    `json:"user_id"`
	ImageID               images.ImageID  `json:"image_id"`
}

// New builds a pending session started at now.
func New(id SessionID, userID users.UserID, imageID images.ImageID, modelName string, modelVersion *string, now time.Time) (*AnalysisSession, error) {
	s := &AnalysisSession{
		ID:           id,
		Status:       StatusPending,
		StartedAt:    now,
		ModelName:    modelName,
		ModelVersion: modelVersion,
		UserID:       userID,
		ImageID:      imageID,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *AnalysisSession) Validate() error {
	if _, err := ParseStatus(string(s.Status)); err != nil {
		return err
	}
	if err := validation.Required("model_name", s.ModelName); err != nil {
		return err
	}
	if err := validation.MaxLen("model_name", s.ModelName, 100); err != nil {
		return err
	}
	if err := validation.OptMaxLen("model_version", s.ModelVersion, 50); err != nil {
		return err
	}
	if err := validation.OptMaxLen("error_message", s.ErrorMessage, 1000); err != nil {
		return err
	}
	if err := validation.OptMaxLen("error_code", s.ErrorCode, 50); err != nil {
		return err
	}
	if err := validation.OptScore("confidence_score", s.ConfidenceScore); err != nil {
		return err
	}
	if err := validation.Required("user_id", string(s.UserID)); err != nil {
		return err
	}
	if err := validation.Required("image_id", string(s.ImageID)); err != nil {
		return err
	}
	return nil
}

// Begin marks the session processing.
func (s *AnalysisSession) Begin() {
	s.Status = StatusProcessing
}

// Complete marks the session completed at now, keeps the raw model response
// for audit and stores confidence/processing time at 3-decimal resolution.
func (s *AnalysisSession) Complete(raw json.RawMessage, confidence *float64, now time.Time) error {
	if err := validation.OptScore("confidence_score", confidence); err != nil {
		return err
	}
	if confidence != nil {
		c := validation.Round3(*confidence)
		confidence = &c
	}
	s.Status = StatusCompleted
	s.CompletedAt = &now
	elapsed := validation.Round3(now.Sub(s.StartedAt).Seconds())
	s.ProcessingTimeSeconds = &elapsed
	s.RawResponse = raw
	s.ConfidenceScore = confidence
	s.ErrorMessage = nil
	s.ErrorCode = nil
	return nil
}

// Fail marks the session failed at now with the error the pipeline reported.
func (s *AnalysisSession) Fail(code, message string, now time.Time) error {
	if err := validation.MaxLen("error_code", code, 50); err != nil {
		return err
	}
	if err := validation.MaxLen("error_message", message, 1000); err != nil {
		return err
	}
	s.Status = StatusFailed
	s.CompletedAt = &now
	elapsed := validation.Round3(now.Sub(s.StartedAt).Seconds())
	s.ProcessingTimeSeconds = &elapsed
	if code != "" {
		s.ErrorCode = &code
	}
	if message != "" {
		s.ErrorMessage = &message
	}
	return nil
}
