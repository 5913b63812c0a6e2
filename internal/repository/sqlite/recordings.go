package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"famcare/internal/domain"
)

// RecordingStore is the durable recording-link repository
type RecordingStore struct {
	db *sql.DB
}

// Create inserts a new audio recording link
func (s *RecordingStore) Create(ctx context.Context, input domain.CreateRecordingInput) (*domain.EventRecording, error) {
	rec := &domain.EventRecording{
		ID:           uuid.New().String(),
		EventID:      input.EventID,
		RecordingURL: input.RecordingURL,
		FileName:     input.FileName,
		Description:  input.Description,
		CreatedAt:    time.Now().UTC(),
	}
	if input.DurationSeconds != nil {
		d := *input.DurationSeconds
		rec.DurationSeconds = &d
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_recordings (id, event_id, recording_url, file_name, duration_seconds, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, rec.ID, rec.EventID, rec.RecordingURL, rec.FileName,
		intPtrToNull(rec.DurationSeconds), stringToNull(rec.Description), formatTime(rec.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert recording: %w", err)
	}

	return rec, nil
}

// ListByEvent returns the event's recordings, oldest first
func (s *RecordingStore) ListByEvent(ctx context.Context, eventID string) ([]*domain.EventRecording, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, recording_url, file_name, duration_seconds, description, created_at
		FROM event_recordings
		WHERE event_id = ?
		ORDER BY created_at ASC, id ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query recordings: %w", err)
	}
	defer rows.Close()

	recs := make([]*domain.EventRecording, 0)
	for rows.Next() {
		var (
			r           domain.EventRecording
			duration    sql.NullInt64
			description sql.NullString
			createdAt   string
		)
		if err := rows.Scan(&r.ID, &r.EventID, &r.RecordingURL, &r.FileName, &duration, &description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan recording: %w", err)
		}
		r.DurationSeconds = nullToIntPtr(duration)
		r.Description = nullToString(description)
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		recs = append(recs, &r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating recordings: %w", err)
	}

	return recs, nil
}

// Delete removes the recording link; unknown ids are a no-op
func (s *RecordingStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM event_recordings WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete recording: %w", err)
	}
	return nil
}
