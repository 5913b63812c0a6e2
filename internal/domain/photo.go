package domain

import "time"

// EventPhoto links an event to an externally hosted image or document.
// Only the link is stored, never the image bytes. Links are immutable
// once created; the lifecycle is link/unlink.
type EventPhoto struct {
	ID              string    `json:"id"`
	EventID         string    `json:"eventId"`
	PhotoURL        string    `json:"photoUrl"`
	PhotoExternalID string    `json:"photoExternalId"`
	Description     string    `json:"description,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Clone returns a copy of the photo link
func (p *EventPhoto) Clone() *EventPhoto {
	c := *p
	return &c
}

// LinkPhotoInput carries the fields for a new photo link
type LinkPhotoInput struct {
	EventID         string `json:"eventId"`
	PhotoURL        string `json:"photoUrl"`
	PhotoExternalID string `json:"photoExternalId"`
	Description     string `json:"description,omitempty"`
}
