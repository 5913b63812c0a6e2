package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"famcare/internal/domain"
)

// PhotoStore is the durable photo-link repository
type PhotoStore struct {
	db *sql.DB
}

// Link inserts a new photo link. Links are immutable once created.
func (s *PhotoStore) Link(ctx context.Context, input domain.LinkPhotoInput) (*domain.EventPhoto, error) {
	photo := &domain.EventPhoto{
		ID:              uuid.New().String(),
		EventID:         input.EventID,
		PhotoURL:        input.PhotoURL,
		PhotoExternalID: input.PhotoExternalID,
		Description:     input.Description,
		CreatedAt:       time.Now().UTC(),
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO event_photos (id, event_id, photo_url, photo_external_id, description, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, photo.ID, photo.EventID, photo.PhotoURL, photo.PhotoExternalID,
		stringToNull(photo.Description), formatTime(photo.CreatedAt))
	if err != nil {
		return nil, fmt.Errorf("failed to insert photo link: %w", err)
	}

	return photo, nil
}

// ListByEvent returns the event's photo links, oldest first
func (s *PhotoStore) ListByEvent(ctx context.Context, eventID string) ([]*domain.EventPhoto, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, event_id, photo_url, photo_external_id, description, created_at
		FROM event_photos
		WHERE event_id = ?
		ORDER BY created_at ASC, id ASC
	`, eventID)
	if err != nil {
		return nil, fmt.Errorf("failed to query photos: %w", err)
	}
	defer rows.Close()

	photos := make([]*domain.EventPhoto, 0)
	for rows.Next() {
		var (
			p           domain.EventPhoto
			description sql.NullString
			createdAt   string
		)
		if err := rows.Scan(&p.ID, &p.EventID, &p.PhotoURL, &p.PhotoExternalID, &description, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan photo: %w", err)
		}
		p.Description = nullToString(description)
		if p.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, err
		}
		photos = append(photos, &p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating photos: %w", err)
	}

	return photos, nil
}

// Unlink removes the photo link; unknown ids are a no-op
func (s *PhotoStore) Unlink(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM event_photos WHERE id = ?`, id); err != nil {
		return fmt.Errorf("failed to delete photo link: %w", err)
	}
	return nil
}
