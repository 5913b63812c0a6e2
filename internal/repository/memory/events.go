package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"famcare/internal/domain"
	"famcare/internal/repository"
)

// EventStore is the transient medical-event backend: a keyed map living
// for the process lifetime. Used when no database is configured, and by
// tests. A single mutex serializes mutations; record counts are small.
type EventStore struct {
	mu     sync.RWMutex
	events map[string]*domain.MedicalEvent
}

// NewEventStore creates an empty event store
func NewEventStore() *EventStore {
	return &EventStore{events: make(map[string]*domain.MedicalEvent)}
}

// Create stores a new event with a fresh id and timestamps
func (s *EventStore) Create(ctx context.Context, input domain.CreateMedicalEventInput) (*domain.MedicalEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	event := &domain.MedicalEvent{
		ID:                  uuid.New().String(),
		Date:                input.Date,
		Type:                input.Type,
		Description:         input.Description,
		PatientID:           input.PatientID,
		IsapreReimbursed:    input.IsapreReimbursed,
		InsuranceReimbursed: input.InsuranceReimbursed,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	s.events[event.ID] = event
	return event.Clone(), nil
}

// GetByID returns a copy of the event, or (nil, nil) when unknown
func (s *EventStore) GetByID(ctx context.Context, id string) (*domain.MedicalEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	event, ok := s.events[id]
	if !ok {
		return nil, nil
	}
	return event.Clone(), nil
}

// List returns copies of every event matching the filter conjunction,
// sorted by clinical date descending
func (s *EventStore) List(ctx context.Context, filters *domain.EventFilters) ([]*domain.MedicalEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]*domain.MedicalEvent, 0, len(s.events))
	for _, event := range s.events {
		if filters.Matches(event) {
			results = append(results, event.Clone())
		}
	}

	sortEvents(results)
	return results, nil
}

// sortEvents orders by date descending; ties break on CreatedAt
// ascending, then id, so list output is deterministic in both backends.
func sortEvents(events []*domain.MedicalEvent) {
	sort.Slice(events, func(i, j int) bool {
		if events[i].Date != events[j].Date {
			return events[i].Date > events[j].Date
		}
		if !events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].CreatedAt.Before(events[j].CreatedAt)
		}
		return events[i].ID < events[j].ID
	})
}

// Update merges the present patch fields over the stored event
func (s *EventStore) Update(ctx context.Context, id string, patch domain.MedicalEventPatch) (*domain.MedicalEvent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	event, ok := s.events[id]
	if !ok {
		return nil, &repository.NotFoundError{Entity: "medical event", ID: id}
	}

	patch.Apply(event)
	event.UpdatedAt = time.Now().UTC()
	return event.Clone(), nil
}

// Delete removes the event; deleting an unknown id is a no-op
func (s *EventStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.events, id)
	return nil
}
