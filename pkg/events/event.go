package events

import "time"

// Catalog event codes
const (
	FeatureRecordCreated = "FEATURE_RECORD_CREATED"
	FeatureRecordUpdated = "FEATURE_RECORD_UPDATED"
	FeatureRecordDeleted = "FEATURE_RECORD_DELETED"
	ReferenceRenamed     = "REFERENCE_RENAMED"
	ReferenceRetired     = "REFERENCE_RETIRED"
)

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "FEATURE_RECORD_CREATED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
