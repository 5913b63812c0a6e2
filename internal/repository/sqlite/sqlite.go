package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// Store owns the SQLite database and hands out per-entity repositories
// that share it. It is the durable backend: one table per entity,
// snake_case columns, schema migrated on open.
type Store struct {
	db *sql.DB
}

// Events returns the medical-event repository
func (s *Store) Events() *EventStore { return &EventStore{db: s.db} }

// Photos returns the photo-link repository
func (s *Store) Photos() *PhotoStore { return &PhotoStore{db: s.db} }

// Recordings returns the recording-link repository
func (s *Store) Recordings() *RecordingStore { return &RecordingStore{db: s.db} }

// Members returns the family-member loader
func (s *Store) Members() *MemberStore { return &MemberStore{db: s.db} }

// New opens (or creates) the database at path and migrates the schema.
// ":memory:" gives a private transient database, used by tests.
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps ":memory:" databases alive and is plenty
	// for a household-sized dataset.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(`PRAGMA journal_mode = WAL; PRAGMA busy_timeout = 5000; PRAGMA foreign_keys = ON;`); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to configure database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS medical_events (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		type TEXT NOT NULL,
		description TEXT NOT NULL,
		patient_id TEXT NOT NULL,
		isapre_reimbursed INTEGER NOT NULL DEFAULT 0,
		insurance_reimbursed INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event_photos (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		photo_url TEXT NOT NULL,
		photo_external_id TEXT NOT NULL,
		description TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS event_recordings (
		id TEXT PRIMARY KEY,
		event_id TEXT NOT NULL,
		recording_url TEXT NOT NULL,
		file_name TEXT NOT NULL,
		duration_seconds INTEGER,
		description TEXT,
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS family_members (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		relationship TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_events_patient ON medical_events(patient_id);
	CREATE INDEX IF NOT EXISTS idx_events_date ON medical_events(date);
	CREATE INDEX IF NOT EXISTS idx_photos_event ON event_photos(event_id);
	CREATE INDEX IF NOT EXISTS idx_recordings_event ON event_recordings(event_id);
	`

	// Photos and recordings carry no foreign key to medical_events on
	// purpose: deleting an event leaves its links in place. Pending
	// product sign-off on cascade semantics.
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}
