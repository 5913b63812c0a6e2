// Package provider wires the configured backend, file storage, and
// family source into one object the HTTP layer talks to.
//
// The backend is chosen once at construction and never changes for the
// life of the process: a configured database path selects SQLite,
// otherwise everything lives in memory.
package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"famcare/internal/codec"
	"famcare/internal/config"
	"famcare/internal/domain"
	"famcare/internal/family"
	"famcare/internal/notify"
	"famcare/internal/repository"
	"famcare/internal/repository/memory"
	"famcare/internal/repository/sqlite"
	"famcare/internal/storage"
)

// Backend identifies which repository implementation is active
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendSQLite Backend = "sqlite"
)

func (b Backend) String() string {
	return string(b)
}

// ConfigurationError reports a backend that could not be brought up
type ConfigurationError struct {
	Backend Backend
	Err     error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configure %s backend: %v", e.Backend, e.Err)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// InvalidInputError carries the accumulated field errors for a rejected
// write. The store is never touched when this is returned.
type InvalidInputError struct {
	Result domain.ValidationResult
}

func (e *InvalidInputError) Error() string {
	msgs := make([]string, 0, len(e.Result.Errors))
	for _, fe := range e.Result.Errors {
		msgs = append(msgs, fe.Field+": "+fe.Message)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// Provider exposes every operation of the tracker over whichever
// backend the config selected.
type Provider struct {
	backend    Backend
	events     repository.Events
	photos     repository.Photos
	recordings repository.Recordings
	family     *family.Source
	uploader   storage.Uploader
	bus        *notify.Bus

	store *sqlite.Store // nil for the memory backend
}

// New builds a provider from config. A non-empty database path selects
// SQLite; open or migration failures surface as ConfigurationError
// rather than a silent fallback.
func New(cfg *config.Config) (*Provider, error) {
	p := &Provider{bus: notify.NewBus()}
	seed := cfg.FamilyMembers()

	if cfg.Database.Path != "" {
		store, err := sqlite.New(cfg.Database.Path)
		if err != nil {
			return nil, &ConfigurationError{Backend: BackendSQLite, Err: err}
		}
		if err := store.Members().SeedMembers(context.Background(), seed); err != nil {
			store.Close()
			return nil, &ConfigurationError{Backend: BackendSQLite, Err: err}
		}

		p.backend = BackendSQLite
		p.store = store
		p.events = store.Events()
		p.photos = store.Photos()
		p.recordings = store.Recordings()
		p.family = family.NewSource(seed, store.Members())

		uploader, err := storage.NewDiskStore(cfg.Storage.Dir)
		if err != nil {
			store.Close()
			return nil, &ConfigurationError{Backend: BackendSQLite, Err: err}
		}
		p.uploader = uploader

		log.Printf("provider: sqlite backend at %s, uploads under %s", cfg.Database.Path, cfg.Storage.Dir)
		return p, nil
	}

	p.backend = BackendMemory
	p.events = memory.NewEventStore()
	p.photos = memory.NewPhotoStore()
	p.recordings = memory.NewRecordingStore()
	p.family = family.NewSource(seed, nil)
	p.uploader = storage.NewMemoryUploader()

	log.Printf("provider: in-memory backend, data will not survive restart")
	return p, nil
}

// Backend reports which backend is active
func (p *Provider) Backend() Backend {
	return p.backend
}

// Bus returns the change bus. Subscribe before serving traffic.
func (p *Provider) Bus() *notify.Bus {
	return p.bus
}

// Close releases backend resources. Safe on the memory backend.
func (p *Provider) Close() error {
	if p.store != nil {
		return p.store.Close()
	}
	return nil
}

// CreateEvent validates and stores a new medical event
func (p *Provider) CreateEvent(ctx context.Context, input domain.CreateMedicalEventInput) (*domain.MedicalEvent, error) {
	if res := domain.ValidateCreateEvent(input); !res.Valid {
		return nil, &InvalidInputError{Result: res}
	}
	event, err := p.events.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	p.bus.Publish(notify.Change{Type: notify.ChangeEventCreated, Payload: event})
	return event, nil
}

// GetEventByID returns the event, or (nil, nil) when absent
func (p *Provider) GetEventByID(ctx context.Context, id string) (*domain.MedicalEvent, error) {
	return p.events.GetByID(ctx, id)
}

// ListEvents returns events matching the filters, newest first
func (p *Provider) ListEvents(ctx context.Context, filters *domain.EventFilters) ([]*domain.MedicalEvent, error) {
	return p.events.List(ctx, filters)
}

// UpdateEvent validates and applies a partial update
func (p *Provider) UpdateEvent(ctx context.Context, id string, patch domain.MedicalEventPatch) (*domain.MedicalEvent, error) {
	if res := domain.ValidateUpdateEvent(patch); !res.Valid {
		return nil, &InvalidInputError{Result: res}
	}
	event, err := p.events.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	p.bus.Publish(notify.Change{Type: notify.ChangeEventUpdated, Payload: event})
	return event, nil
}

// DeleteEvent removes the event; photo and recording links are left in
// place and become unreachable through the event.
func (p *Provider) DeleteEvent(ctx context.Context, id string) error {
	if err := p.events.Delete(ctx, id); err != nil {
		return err
	}
	p.bus.Publish(notify.Change{Type: notify.ChangeEventDeleted, Payload: map[string]string{"id": id}})
	return nil
}

// LinkPhoto validates and attaches a photo reference to an event
func (p *Provider) LinkPhoto(ctx context.Context, input domain.LinkPhotoInput) (*domain.EventPhoto, error) {
	if res := domain.ValidateLinkPhoto(input); !res.Valid {
		return nil, &InvalidInputError{Result: res}
	}
	photo, err := p.photos.Link(ctx, input)
	if err != nil {
		return nil, err
	}
	p.bus.Publish(notify.Change{Type: notify.ChangePhotoLinked, Payload: photo})
	return photo, nil
}

// ListPhotosByEvent returns the event's photo links, oldest first
func (p *Provider) ListPhotosByEvent(ctx context.Context, eventID string) ([]*domain.EventPhoto, error) {
	return p.photos.ListByEvent(ctx, eventID)
}

// UnlinkPhoto removes a photo link; unknown ids are a no-op
func (p *Provider) UnlinkPhoto(ctx context.Context, id string) error {
	if err := p.photos.Unlink(ctx, id); err != nil {
		return err
	}
	p.bus.Publish(notify.Change{Type: notify.ChangePhotoUnlinked, Payload: map[string]string{"id": id}})
	return nil
}

// AddRecording validates and attaches an audio recording to an event
func (p *Provider) AddRecording(ctx context.Context, input domain.CreateRecordingInput) (*domain.EventRecording, error) {
	if res := domain.ValidateCreateRecording(input); !res.Valid {
		return nil, &InvalidInputError{Result: res}
	}
	rec, err := p.recordings.Create(ctx, input)
	if err != nil {
		return nil, err
	}
	p.bus.Publish(notify.Change{Type: notify.ChangeRecordingAdded, Payload: rec})
	return rec, nil
}

// ListRecordingsByEvent returns the event's recordings, oldest first
func (p *Provider) ListRecordingsByEvent(ctx context.Context, eventID string) ([]*domain.EventRecording, error) {
	return p.recordings.ListByEvent(ctx, eventID)
}

// DeleteRecording removes a recording link; unknown ids are a no-op
func (p *Provider) DeleteRecording(ctx context.Context, id string) error {
	if err := p.recordings.Delete(ctx, id); err != nil {
		return err
	}
	p.bus.Publish(notify.Change{Type: notify.ChangeRecordingDeleted, Payload: map[string]string{"id": id}})
	return nil
}

// UploadPhoto stores the file and returns its URL for linking
func (p *Provider) UploadPhoto(ctx context.Context, eventID, fileName string, r io.Reader) (*storage.UploadResult, error) {
	return p.uploader.Upload(ctx, eventID, fileName, r)
}

// DeleteStoredPhoto removes a stored file by URL
func (p *Provider) DeleteStoredPhoto(ctx context.Context, url string) error {
	return p.uploader.Delete(ctx, url)
}

// ExportArchive snapshots every event with its photo and recording
// links into the portable archive form.
func (p *Provider) ExportArchive(ctx context.Context) (*codec.Archive, error) {
	events, err := p.events.List(ctx, nil)
	if err != nil {
		return nil, err
	}

	archive := &codec.Archive{Events: events}
	for _, event := range events {
		photos, err := p.photos.ListByEvent(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		archive.Photos = append(archive.Photos, photos...)

		recs, err := p.recordings.ListByEvent(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		archive.Recordings = append(archive.Recordings, recs...)
	}

	return archive, nil
}

// ImportResult summarizes an archive import
type ImportResult struct {
	Events     int `json:"events"`
	Photos     int `json:"photos"`
	Recordings int `json:"recordings"`
	Skipped    int `json:"skipped"`
}

// ImportArchive creates the archive's records as new rows. Records get
// fresh ids; archive ids only serve to tie links to their event within
// the archive. Invalid records are skipped and counted, never fatal.
func (p *Provider) ImportArchive(ctx context.Context, archive *codec.Archive) (*ImportResult, error) {
	result := &ImportResult{}
	idMap := make(map[string]string, len(archive.Events))

	for _, e := range archive.Events {
		created, err := p.CreateEvent(ctx, domain.CreateMedicalEventInput{
			Date:                e.Date,
			Type:                e.Type,
			Description:         e.Description,
			PatientID:           e.PatientID,
			IsapreReimbursed:    e.IsapreReimbursed,
			InsuranceReimbursed: e.InsuranceReimbursed,
		})
		if err != nil {
			var verr *InvalidInputError
			if errors.As(err, &verr) {
				log.Printf("import: skipping event %s: %v", e.ID, err)
				result.Skipped++
				continue
			}
			return nil, err
		}
		idMap[e.ID] = created.ID
		result.Events++
	}

	for _, photo := range archive.Photos {
		eventID, ok := idMap[photo.EventID]
		if !ok {
			result.Skipped++
			continue
		}
		if _, err := p.LinkPhoto(ctx, domain.LinkPhotoInput{
			EventID:         eventID,
			PhotoURL:        photo.PhotoURL,
			PhotoExternalID: photo.PhotoExternalID,
			Description:     photo.Description,
		}); err != nil {
			var verr *InvalidInputError
			if errors.As(err, &verr) {
				log.Printf("import: skipping photo %s: %v", photo.ID, err)
				result.Skipped++
				continue
			}
			return nil, err
		}
		result.Photos++
	}

	for _, rec := range archive.Recordings {
		eventID, ok := idMap[rec.EventID]
		if !ok {
			result.Skipped++
			continue
		}
		if _, err := p.AddRecording(ctx, domain.CreateRecordingInput{
			EventID:         eventID,
			RecordingURL:    rec.RecordingURL,
			FileName:        rec.FileName,
			DurationSeconds: rec.DurationSeconds,
			Description:     rec.Description,
		}); err != nil {
			var verr *InvalidInputError
			if errors.As(err, &verr) {
				log.Printf("import: skipping recording %s: %v", rec.ID, err)
				result.Skipped++
				continue
			}
			return nil, err
		}
		result.Recordings++
	}

	return result, nil
}

// Members returns the family members
func (p *Provider) Members(ctx context.Context) []domain.FamilyMember {
	return p.family.List(ctx)
}

// MemberByID resolves one family member, or nil
func (p *Provider) MemberByID(ctx context.Context, id string) *domain.FamilyMember {
	return p.family.GetByID(ctx, id)
}
