package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"famcare/internal/domain"
)

// RecordingStore is the transient audio-recording-link backend
type RecordingStore struct {
	mu         sync.RWMutex
	recordings map[string]*domain.EventRecording
}

// NewRecordingStore creates an empty recording store
func NewRecordingStore() *RecordingStore {
	return &RecordingStore{recordings: make(map[string]*domain.EventRecording)}
}

// Create stores a new recording link with a fresh id and timestamp
func (s *RecordingStore) Create(ctx context.Context, input domain.CreateRecordingInput) (*domain.EventRecording, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

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

	s.recordings[rec.ID] = rec
	return rec.Clone(), nil
}

// ListByEvent returns copies of the event's recordings, oldest first
func (s *RecordingStore) ListByEvent(ctx context.Context, eventID string) ([]*domain.EventRecording, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*domain.EventRecording, 0)
	for _, rec := range s.recordings {
		if rec.EventID == eventID {
			results = append(results, rec.Clone())
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

// Delete removes the recording link; unknown ids are a no-op
func (s *RecordingStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.recordings, id)
	return nil
}
