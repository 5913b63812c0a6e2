package domain

import "time"

// EventRecording links an event to an externally hosted audio recording.
// Like photo links, recordings are immutable once created.
type EventRecording struct {
	ID              string    `json:"id"`
	EventID         string    `json:"eventId"`
	RecordingURL    string    `json:"recordingUrl"`
	FileName        string    `json:"fileName"`
	DurationSeconds *int      `json:"durationSeconds,omitempty"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Clone returns a copy of the recording link
func (r *EventRecording) Clone() *EventRecording {
	c := *r
	if r.DurationSeconds != nil {
		d := *r.DurationSeconds
		c.DurationSeconds = &d
	}
	return &c
}

// CreateRecordingInput carries the fields for a new recording link
type CreateRecordingInput struct {
	EventID         string `json:"eventId"`
	RecordingURL    string `json:"recordingUrl"`
	FileName        string `json:"fileName"`
	DurationSeconds *int   `json:"durationSeconds,omitempty"`
	Description     string `json:"description,omitempty"`
}
