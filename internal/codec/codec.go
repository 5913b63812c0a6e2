// Package codec reads and writes event archives. An archive is the
// portable form of a household's history: events plus their photo and
// recording links, used for backups and for moving data between the
// in-memory and durable backends.
package codec

import (
	"io"

	"famcare/internal/domain"
)

// Archive is the portable snapshot format
type Archive struct {
	Events     []*domain.MedicalEvent   `json:"events"`
	Photos     []*domain.EventPhoto     `json:"photos,omitempty"`
	Recordings []*domain.EventRecording `json:"recordings,omitempty"`
}

// Importer parses archives from an external format
type Importer interface {
	Parse(r io.Reader) (*Archive, error)
	Format() string
}

// Exporter writes archives to an external format
type Exporter interface {
	Export(archive *Archive, w io.Writer) error
	Format() string
}

// ForFormat returns the codec for a format name, or nil for unknown
// formats. Every codec implements both directions.
func ForFormat(format string) interface {
	Importer
	Exporter
} {
	switch format {
	case "json":
		return NewJSONCodec()
	case "yaml", "yml":
		return NewYAMLCodec()
	}
	return nil
}
