package codec

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"famcare/internal/domain"
)

// YAMLCodec handles YAML import/export
type YAMLCodec struct{}

// NewYAMLCodec creates a new YAML codec
func NewYAMLCodec() *YAMLCodec {
	return &YAMLCodec{}
}

// Format returns the codec format identifier
func (c *YAMLCodec) Format() string {
	return "yaml"
}

// yamlArchive mirrors Archive with snake_case keys. The domain types
// carry only JSON tags, so the YAML shape is spelled out here.
type yamlArchive struct {
	Events     []yamlEvent     `yaml:"events"`
	Photos     []yamlPhoto     `yaml:"photos,omitempty"`
	Recordings []yamlRecording `yaml:"recordings,omitempty"`
}

type yamlEvent struct {
	ID                  string    `yaml:"id"`
	Date                string    `yaml:"date"`
	Type                string    `yaml:"type"`
	Description         string    `yaml:"description"`
	PatientID           string    `yaml:"patient_id"`
	IsapreReimbursed    bool      `yaml:"isapre_reimbursed"`
	InsuranceReimbursed bool      `yaml:"insurance_reimbursed"`
	CreatedAt           time.Time `yaml:"created_at"`
	UpdatedAt           time.Time `yaml:"updated_at"`
}

type yamlPhoto struct {
	ID              string    `yaml:"id"`
	EventID         string    `yaml:"event_id"`
	PhotoURL        string    `yaml:"photo_url"`
	PhotoExternalID string    `yaml:"photo_external_id"`
	Description     string    `yaml:"description,omitempty"`
	CreatedAt       time.Time `yaml:"created_at"`
}

type yamlRecording struct {
	ID              string    `yaml:"id"`
	EventID         string    `yaml:"event_id"`
	RecordingURL    string    `yaml:"recording_url"`
	FileName        string    `yaml:"file_name"`
	DurationSeconds *int      `yaml:"duration_seconds,omitempty"`
	Description     string    `yaml:"description,omitempty"`
	CreatedAt       time.Time `yaml:"created_at"`
}

// Parse imports an archive from YAML
func (c *YAMLCodec) Parse(r io.Reader) (*Archive, error) {
	var ya yamlArchive
	decoder := yaml.NewDecoder(r)
	if err := decoder.Decode(&ya); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	archive := &Archive{}

	for _, ye := range ya.Events {
		archive.Events = append(archive.Events, &domain.MedicalEvent{
			ID:                  ye.ID,
			Date:                ye.Date,
			Type:                domain.EventType(ye.Type),
			Description:         ye.Description,
			PatientID:           ye.PatientID,
			IsapreReimbursed:    ye.IsapreReimbursed,
			InsuranceReimbursed: ye.InsuranceReimbursed,
			CreatedAt:           ye.CreatedAt,
			UpdatedAt:           ye.UpdatedAt,
		})
	}

	for _, yp := range ya.Photos {
		archive.Photos = append(archive.Photos, &domain.EventPhoto{
			ID:              yp.ID,
			EventID:         yp.EventID,
			PhotoURL:        yp.PhotoURL,
			PhotoExternalID: yp.PhotoExternalID,
			Description:     yp.Description,
			CreatedAt:       yp.CreatedAt,
		})
	}

	for _, yr := range ya.Recordings {
		archive.Recordings = append(archive.Recordings, &domain.EventRecording{
			ID:              yr.ID,
			EventID:         yr.EventID,
			RecordingURL:    yr.RecordingURL,
			FileName:        yr.FileName,
			DurationSeconds: yr.DurationSeconds,
			Description:     yr.Description,
			CreatedAt:       yr.CreatedAt,
		})
	}

	return archive, nil
}

// Export writes an archive to YAML
func (c *YAMLCodec) Export(archive *Archive, w io.Writer) error {
	ya := yamlArchive{
		Events:     make([]yamlEvent, 0, len(archive.Events)),
		Photos:     make([]yamlPhoto, 0, len(archive.Photos)),
		Recordings: make([]yamlRecording, 0, len(archive.Recordings)),
	}

	for _, e := range archive.Events {
		ya.Events = append(ya.Events, yamlEvent{
			ID:                  e.ID,
			Date:                e.Date,
			Type:                string(e.Type),
			Description:         e.Description,
			PatientID:           e.PatientID,
			IsapreReimbursed:    e.IsapreReimbursed,
			InsuranceReimbursed: e.InsuranceReimbursed,
			CreatedAt:           e.CreatedAt,
			UpdatedAt:           e.UpdatedAt,
		})
	}

	for _, p := range archive.Photos {
		ya.Photos = append(ya.Photos, yamlPhoto{
			ID:              p.ID,
			EventID:         p.EventID,
			PhotoURL:        p.PhotoURL,
			PhotoExternalID: p.PhotoExternalID,
			Description:     p.Description,
			CreatedAt:       p.CreatedAt,
		})
	}

	for _, r := range archive.Recordings {
		ya.Recordings = append(ya.Recordings, yamlRecording{
			ID:              r.ID,
			EventID:         r.EventID,
			RecordingURL:    r.RecordingURL,
			FileName:        r.FileName,
			DurationSeconds: r.DurationSeconds,
			Description:     r.Description,
			CreatedAt:       r.CreatedAt,
		})
	}

	encoder := yaml.NewEncoder(w)
	encoder.SetIndent(2)
	defer encoder.Close()

	if err := encoder.Encode(&ya); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}

	return nil
}
