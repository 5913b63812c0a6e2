package provider

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"famcare/internal/codec"
	"famcare/internal/config"
	"famcare/internal/domain"
	"famcare/internal/notify"
	"famcare/internal/repository"
)

func memoryConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Family = []config.MemberConfig{
		{ID: "1", Name: "Alejandro", Relationship: "Father"},
		{ID: "2", Name: "Daniela", Relationship: "Mother"},
	}
	return cfg
}

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	cfg := memoryConfig(t)
	cfg.Database.Path = filepath.Join(dir, "famcare.db")
	cfg.Storage.Dir = filepath.Join(dir, "uploads")
	return cfg
}

func newProvider(t *testing.T, cfg *config.Config) *Provider {
	t.Helper()
	p, err := New(cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { p.Close() })
	return p
}

func TestNew_BackendSelection(t *testing.T) {
	if p := newProvider(t, memoryConfig(t)); p.Backend() != BackendMemory {
		t.Errorf("empty database path should select memory, got %s", p.Backend())
	}
	if p := newProvider(t, sqliteConfig(t)); p.Backend() != BackendSQLite {
		t.Errorf("database path should select sqlite, got %s", p.Backend())
	}
}

func TestNew_BadDatabasePath(t *testing.T) {
	cfg := memoryConfig(t)
	cfg.Database.Path = filepath.Join(t.TempDir(), "missing", "nested", "famcare.db")

	_, err := New(cfg)
	if err == nil {
		t.Fatal("expected error for unopenable database path")
	}
	var cerr *ConfigurationError
	if !errors.As(err, &cerr) {
		t.Fatalf("error type = %T, want *ConfigurationError", err)
	}
	if cerr.Backend != BackendSQLite {
		t.Errorf("Backend = %s", cerr.Backend)
	}
}

// Runs the full event lifecycle through the provider on both backends.
func TestProvider_EventLifecycle(t *testing.T) {
	backends := map[string]*config.Config{
		"memory": memoryConfig(t),
		"sqlite": sqliteConfig(t),
	}

	for name, cfg := range backends {
		t.Run(name, func(t *testing.T) {
			p := newProvider(t, cfg)
			ctx := context.Background()

			created, err := p.CreateEvent(ctx, domain.CreateMedicalEventInput{
				Date:        "2024-05-10",
				Type:        domain.EventTypeExam,
				Description: "Blood panel",
				PatientID:   "1",
			})
			if err != nil {
				t.Fatalf("CreateEvent: %v", err)
			}

			got, err := p.GetEventByID(ctx, created.ID)
			if err != nil || got == nil {
				t.Fatalf("GetEventByID: %v, %v", got, err)
			}

			reimbursed := true
			updated, err := p.UpdateEvent(ctx, created.ID, domain.MedicalEventPatch{
				IsapreReimbursed: &reimbursed,
			})
			if err != nil {
				t.Fatalf("UpdateEvent: %v", err)
			}
			if !updated.IsapreReimbursed || updated.Description != "Blood panel" {
				t.Errorf("update result = %+v", updated)
			}

			events, err := p.ListEvents(ctx, &domain.EventFilters{PatientID: "1"})
			if err != nil || len(events) != 1 {
				t.Fatalf("ListEvents = %d events, err %v", len(events), err)
			}

			if err := p.DeleteEvent(ctx, created.ID); err != nil {
				t.Fatalf("DeleteEvent: %v", err)
			}
			if got, err := p.GetEventByID(ctx, created.ID); err != nil || got != nil {
				t.Errorf("event survived delete: %v, %v", got, err)
			}
		})
	}
}

func TestProvider_CreateEventRejectsInvalid(t *testing.T) {
	p := newProvider(t, memoryConfig(t))
	ctx := context.Background()

	_, err := p.CreateEvent(ctx, domain.CreateMedicalEventInput{
		Date: "2024-13-45",
		Type: domain.EventType("Astrology"),
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	var verr *InvalidInputError
	if !errors.As(err, &verr) {
		t.Fatalf("error type = %T", err)
	}
	// All failing fields are reported, not just the first.
	if len(verr.Result.Errors) < 3 {
		t.Errorf("accumulated errors = %+v", verr.Result.Errors)
	}

	// Nothing was stored.
	events, err := p.ListEvents(ctx, nil)
	if err != nil || len(events) != 0 {
		t.Errorf("store touched by invalid create: %d events", len(events))
	}
}

func TestProvider_UpdateMissingEvent(t *testing.T) {
	p := newProvider(t, memoryConfig(t))

	desc := "new"
	_, err := p.UpdateEvent(context.Background(), "ghost", domain.MedicalEventPatch{Description: &desc})
	if !repository.IsNotFound(err) {
		t.Errorf("err = %v, want not-found", err)
	}
}

func TestProvider_PhotosAndRecordings(t *testing.T) {
	p := newProvider(t, memoryConfig(t))
	ctx := context.Background()

	event, err := p.CreateEvent(ctx, domain.CreateMedicalEventInput{
		Date: "2024-06-01", Type: domain.EventTypeSurgery, Description: "Appendectomy", PatientID: "2",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}

	photo, err := p.LinkPhoto(ctx, domain.LinkPhotoInput{
		EventID: event.ID, PhotoURL: "https://photos.example.com/a1", PhotoExternalID: "a1",
	})
	if err != nil {
		t.Fatalf("LinkPhoto: %v", err)
	}
	if photos, err := p.ListPhotosByEvent(ctx, event.ID); err != nil || len(photos) != 1 {
		t.Fatalf("ListPhotosByEvent = %d, err %v", len(photos), err)
	}
	if err := p.UnlinkPhoto(ctx, photo.ID); err != nil {
		t.Fatalf("UnlinkPhoto: %v", err)
	}
	if photos, _ := p.ListPhotosByEvent(ctx, event.ID); len(photos) != 0 {
		t.Error("photo survived unlink")
	}

	duration := 95
	rec, err := p.AddRecording(ctx, domain.CreateRecordingInput{
		EventID: event.ID, RecordingURL: "/files/" + event.ID + "/r.m4a",
		FileName: "consulta.m4a", DurationSeconds: &duration,
	})
	if err != nil {
		t.Fatalf("AddRecording: %v", err)
	}
	if recs, err := p.ListRecordingsByEvent(ctx, event.ID); err != nil || len(recs) != 1 {
		t.Fatalf("ListRecordingsByEvent = %d, err %v", len(recs), err)
	}
	if err := p.DeleteRecording(ctx, rec.ID); err != nil {
		t.Fatalf("DeleteRecording: %v", err)
	}
}

func TestProvider_UploadPhoto(t *testing.T) {
	p := newProvider(t, memoryConfig(t))
	ctx := context.Background()

	res, err := p.UploadPhoto(ctx, "evt-1", "herida.png", strings.NewReader("png"))
	if err != nil {
		t.Fatalf("UploadPhoto: %v", err)
	}
	if !strings.HasPrefix(res.URL, "/files/evt-1/") {
		t.Errorf("URL = %q", res.URL)
	}
	if err := p.DeleteStoredPhoto(ctx, res.URL); err != nil {
		t.Errorf("DeleteStoredPhoto: %v", err)
	}
}

func TestProvider_Members(t *testing.T) {
	p := newProvider(t, memoryConfig(t))
	ctx := context.Background()

	members := p.Members(ctx)
	if len(members) != 2 {
		t.Fatalf("got %d members", len(members))
	}
	if m := p.MemberByID(ctx, "2"); m == nil || m.Name != "Daniela" {
		t.Errorf("MemberByID(2) = %+v", m)
	}
}

func TestProvider_ArchiveRoundTrip(t *testing.T) {
	src := newProvider(t, memoryConfig(t))
	ctx := context.Background()

	event, err := src.CreateEvent(ctx, domain.CreateMedicalEventInput{
		Date: "2024-02-14", Type: domain.EventTypeEmergency, Description: "Fiebre alta", PatientID: "1",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if _, err := src.LinkPhoto(ctx, domain.LinkPhotoInput{
		EventID: event.ID, PhotoURL: "https://photos.example.com/f1", PhotoExternalID: "f1",
	}); err != nil {
		t.Fatalf("LinkPhoto: %v", err)
	}
	if _, err := src.AddRecording(ctx, domain.CreateRecordingInput{
		EventID: event.ID, RecordingURL: "/files/x/r.m4a", FileName: "r.m4a",
	}); err != nil {
		t.Fatalf("AddRecording: %v", err)
	}

	archive, err := src.ExportArchive(ctx)
	if err != nil {
		t.Fatalf("ExportArchive: %v", err)
	}
	if len(archive.Events) != 1 || len(archive.Photos) != 1 || len(archive.Recordings) != 1 {
		t.Fatalf("archive = %d/%d/%d", len(archive.Events), len(archive.Photos), len(archive.Recordings))
	}

	// Import into a fresh provider, as a backup restore would.
	dst := newProvider(t, memoryConfig(t))
	result, err := dst.ImportArchive(ctx, archive)
	if err != nil {
		t.Fatalf("ImportArchive: %v", err)
	}
	if result.Events != 1 || result.Photos != 1 || result.Recordings != 1 || result.Skipped != 0 {
		t.Errorf("result = %+v", result)
	}

	events, err := dst.ListEvents(ctx, nil)
	if err != nil || len(events) != 1 {
		t.Fatalf("ListEvents = %d, err %v", len(events), err)
	}
	if events[0].ID == event.ID {
		t.Error("imported event kept the archive id")
	}
	if events[0].Description != "Fiebre alta" {
		t.Errorf("imported event = %+v", events[0])
	}
	if photos, _ := dst.ListPhotosByEvent(ctx, events[0].ID); len(photos) != 1 {
		t.Errorf("photo link not remapped to new event id")
	}
}

func TestProvider_ImportSkipsInvalidAndOrphaned(t *testing.T) {
	p := newProvider(t, memoryConfig(t))
	ctx := context.Background()

	archive := &codec.Archive{
		Events: []*domain.MedicalEvent{
			{ID: "good", Date: "2024-01-01", Type: domain.EventTypeOther, Description: "ok", PatientID: "1"},
			{ID: "bad", Date: "not-a-date", Type: domain.EventTypeOther, Description: "broken", PatientID: "1"},
		},
		Photos: []*domain.EventPhoto{
			// Tied to the skipped event, so orphaned.
			{ID: "p1", EventID: "bad", PhotoURL: "https://x/1", PhotoExternalID: "1"},
		},
	}

	result, err := p.ImportArchive(ctx, archive)
	if err != nil {
		t.Fatalf("ImportArchive: %v", err)
	}
	if result.Events != 1 || result.Skipped != 2 {
		t.Errorf("result = %+v", result)
	}
}

func TestProvider_PublishesChanges(t *testing.T) {
	p := newProvider(t, memoryConfig(t))
	ctx := context.Background()

	changes := make(chan notify.Change, 10)
	p.Bus().Subscribe(changes)

	event, err := p.CreateEvent(ctx, domain.CreateMedicalEventInput{
		Date: "2024-01-01", Type: domain.EventTypeOther, Description: "x", PatientID: "1",
	})
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	if err := p.DeleteEvent(ctx, event.ID); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}

	want := []notify.ChangeType{notify.ChangeEventCreated, notify.ChangeEventDeleted}
	for i, wantType := range want {
		select {
		case got := <-changes:
			if got.Type != wantType {
				t.Errorf("change %d = %s, want %s", i, got.Type, wantType)
			}
		default:
			t.Fatalf("missing change %d (%s)", i, wantType)
		}
	}
}

// The configured family is mirrored into sqlite and read back from it.
func TestProvider_SQLiteSeedsMembers(t *testing.T) {
	cfg := sqliteConfig(t)
	p := newProvider(t, cfg)

	members := p.Members(context.Background())
	if len(members) != 2 {
		t.Fatalf("got %d members", len(members))
	}

	// Reopening against the same file still sees the members.
	p.Close()
	p2 := newProvider(t, cfg)
	if got := p2.Members(context.Background()); len(got) != 2 {
		t.Errorf("reopened store lost members: %+v", got)
	}
}
