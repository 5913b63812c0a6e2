package repository

import (
	"context"

	"famcare/internal/domain"
)

// Events defines the storage contract for medical events. Both the
// transient in-memory backend and the SQLite backend satisfy it; callers
// never see which one they are talking to.
type Events interface {
	// Create stores a new event, generating its id and timestamps
	Create(ctx context.Context, input domain.CreateMedicalEventInput) (*domain.MedicalEvent, error)

	// GetByID returns the event or (nil, nil) when the id is unknown.
	// A missing record on lookup is not an error.
	GetByID(ctx context.Context, id string) (*domain.MedicalEvent, error)

	// List returns events matching every present filter field, sorted by
	// clinical date descending (created-at ascending, then id, on ties)
	List(ctx context.Context, filters *domain.EventFilters) ([]*domain.MedicalEvent, error)

	// Update merges the present patch fields over the stored event and
	// refreshes UpdatedAt. Updating a missing id is a NotFoundError.
	Update(ctx context.Context, id string, patch domain.MedicalEventPatch) (*domain.MedicalEvent, error)

	// Delete removes the event if present; deleting a missing id is a no-op
	Delete(ctx context.Context, id string) error
}

// Photos defines the storage contract for photo links. Links are
// immutable: there is no update operation.
type Photos interface {
	Link(ctx context.Context, input domain.LinkPhotoInput) (*domain.EventPhoto, error)
	ListByEvent(ctx context.Context, eventID string) ([]*domain.EventPhoto, error)
	Unlink(ctx context.Context, id string) error
}

// Recordings defines the storage contract for audio recording links
type Recordings interface {
	Create(ctx context.Context, input domain.CreateRecordingInput) (*domain.EventRecording, error)
	ListByEvent(ctx context.Context, eventID string) ([]*domain.EventRecording, error)
	Delete(ctx context.Context, id string) error
}

// Members loads family members from durable storage. The family source
// consults it at most once per process; an empty result keeps the
// configured seed list.
type Members interface {
	ListMembers(ctx context.Context) ([]domain.FamilyMember, error)
}
