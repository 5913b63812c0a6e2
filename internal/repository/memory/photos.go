package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"famcare/internal/domain"
)

// PhotoStore is the transient photo-link backend
type PhotoStore struct {
	mu     sync.RWMutex
	photos map[string]*domain.EventPhoto
}

// NewPhotoStore creates an empty photo store
func NewPhotoStore() *PhotoStore {
	return &PhotoStore{photos: make(map[string]*domain.EventPhoto)}
}

// Link stores a new photo link with a fresh id and creation timestamp
func (s *PhotoStore) Link(ctx context.Context, input domain.LinkPhotoInput) (*domain.EventPhoto, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	photo := &domain.EventPhoto{
		ID:              uuid.New().String(),
		EventID:         input.EventID,
		PhotoURL:        input.PhotoURL,
		PhotoExternalID: input.PhotoExternalID,
		Description:     input.Description,
		CreatedAt:       time.Now().UTC(),
	}

	s.photos[photo.ID] = photo
	return photo.Clone(), nil
}

// ListByEvent returns copies of the event's photo links, oldest first
func (s *PhotoStore) ListByEvent(ctx context.Context, eventID string) ([]*domain.EventPhoto, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*domain.EventPhoto, 0)
	for _, photo := range s.photos {
		if photo.EventID == eventID {
			results = append(results, photo.Clone())
		}
	}

	sort.Slice(results, func(i, j int) bool {
		if !results[i].CreatedAt.Equal(results[j].CreatedAt) {
			return results[i].CreatedAt.Before(results[j].CreatedAt)
		}
		return results[i].ID < results[j].ID
	})
	return results, nil
}

// Unlink removes the photo link; unknown ids are a no-op
func (s *PhotoStore) Unlink(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.photos, id)
	return nil
}
