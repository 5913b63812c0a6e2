// Package notify broadcasts record changes to connected clients. The
// household UI listens on an SSE stream so a photo linked on one phone
// shows up on another without a refresh.
package notify

// ChangeType defines the kind of change being announced
type ChangeType string

const (
	ChangeEventCreated     ChangeType = "event_created"
	ChangeEventUpdated     ChangeType = "event_updated"
	ChangeEventDeleted     ChangeType = "event_deleted"
	ChangePhotoLinked      ChangeType = "photo_linked"
	ChangePhotoUnlinked    ChangeType = "photo_unlinked"
	ChangeRecordingAdded   ChangeType = "recording_added"
	ChangeRecordingDeleted ChangeType = "recording_deleted"
)

// Change represents one record change
type Change struct {
	Type    ChangeType  `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}

// Bus allows publishing and subscribing to changes. Subscribers that
// fall behind miss changes rather than block writers.
type Bus struct {
	subscribers []chan<- Change
}

// NewBus creates a new change bus
func NewBus() *Bus {
	return &Bus{
		subscribers: make([]chan<- Change, 0),
	}
}

// Subscribe adds a subscriber to receive changes. All subscriptions
// happen during startup, before any publish.
func (b *Bus) Subscribe(ch chan<- Change) {
	b.subscribers = append(b.subscribers, ch)
}

// Publish sends a change to all subscribers
func (b *Bus) Publish(change Change) {
	for _, ch := range b.subscribers {
		select {
		case ch <- change:
		default:
			// Subscriber is slow, skip
		}
	}
}
