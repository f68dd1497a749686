package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rxtract/prescription-data/internal/domain/images"
	domain "github.com/rxtract/prescription-data/internal/domain/sessions"
	"github.com/rxtract/prescription-data/internal/domain/users"
)

type SessionRepository struct{ db *sql.DB }

func NewSessionRepository(db *sql.DB) *SessionRepository { return &SessionRepository{db: db} }

// Save insert/update AnalysisSession record; terminal results land through
// the conflict clause.
func (r *SessionRepository) Save(ctx context.Context, s *domain.AnalysisSession) error {
	const q = `
INSERT INTO analysis_sessions
(id, status, started_at, completed_at, processing_time_seconds,
 model_name, model_version, error_message, error_code,
 raw_response, confidence_score, user_id, image_id)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
ON CONFLICT (id) DO UPDATE SET
 status = EXCLUDED.status,
 completed_at = EXCLUDED.completed_at,
 processing_time_seconds = EXCLUDED.processing_time_seconds,
 error_message = EXCLUDED.error_message,
 error_code = EXCLUDED.error_code,
 raw_response = EXCLUDED.raw_response,
 confidence_score = EXCLUDED.confidence_score;`

	// raw_response column requires valid JSON; use empty object
	raw := string(s.RawResponse)
	if strings.TrimSpace(raw) == "" {
		raw = "{}"
	}
	_, err := r.db.ExecContext(ctx, q,
		s.ID, s.Status, s.StartedAt, nullTime(s.CompletedAt), nullFloat(s.ProcessingTimeSeconds),
		s.ModelName, nullStr(s.ModelVersion), nullStr(s.ErrorMessage), nullStr(s.ErrorCode),
		raw, nullFloat(s.ConfidenceScore), s.UserID, s.ImageID,
	)
	return translate(err, "id", "image_id")
}

// Get by ID
func (r *SessionRepository) Get(ctx context.Context, id domain.SessionID) (*domain.AnalysisSession, error) {
	row := r.db.QueryRowContext(ctx, selectSessions+` WHERE id=$1 LIMIT 1;`, id)
	s, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return s, err
}

// ListByImage lists analysis attempts on one image, newest first
func (r *SessionRepository) ListByImage(ctx context.Context, imageID images.ImageID) ([]*domain.AnalysisSession, error) {
	return r.list(ctx, selectSessions+` WHERE image_id=$1 ORDER BY started_at DESC, id DESC;`, imageID)
}

// ListByUser lists a user's sessions, newest first
func (r *SessionRepository) ListByUser(ctx context.Context, userID users.UserID) ([]*domain.AnalysisSession, error) {
	return r.list(ctx, selectSessions+` WHERE user_id=$1 ORDER BY started_at DESC, id DESC;`, userID)
}

// UpdateStatus hanya update kolom status
func (r *SessionRepository) UpdateStatus(ctx context.Context, id domain.SessionID, status domain.Status) error {
	const q = `UPDATE analysis_sessions SET status=$1 WHERE id=$2;`
	res, err := r.db.ExecContext(ctx, q, status, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("analysis session not found: %s", id)
	}
	return nil
}

const selectSessions = `
SELECT id, status, started_at, completed_at, processing_time_seconds,
       model_name, model_version, error_message, error_code,
       raw_response, confidence_score, user_id, image_id
FROM analysis_sessions`

func (r *SessionRepository) list(ctx context.Context, q string, arg any) ([]*domain.AnalysisSession, error) {
	rows, err := r.db.QueryContext(ctx, q, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AnalysisSession
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func scanSession(row rowScanner) (*domain.AnalysisSession, error) {
	var s domain.AnalysisSession
	var completed sql.NullTime
	var procTime, confidence sql.NullFloat64
	var version, errMsg, errCode sql.NullString
	var raw string
	if err := row.Scan(
		&s.ID, &s.Status, &s.StartedAt, &completed, &procTime,
		&s.ModelName, &version, &errMsg, &errCode,
		&raw, &confidence, &s.UserID, &s.ImageID,
	); err != nil {
		return nil, err
	}
	s.CompletedAt = timePtr(completed)
	s.ProcessingTimeSeconds = floatPtr(procTime)
	s.ModelVersion = strPtr(version)
	s.ErrorMessage = strPtr(errMsg)
	s.ErrorCode = strPtr(errCode)
	s.ConfidenceScore = floatPtr(confidence)
	if raw != "" {
		s.RawResponse = json.RawMessage(raw)
	}
	return &s, nil
}
