package entities

import (
	"time"

	"github.com/google/uuid"
)

// DirectoryEventType identifies what happened to the directory dataset
type DirectoryEventType string

const (
	// EventProvidersImported fires after a bulk import finished; cached
	// facets and responses are stale from this point
	EventProvidersImported DirectoryEventType = "providers.imported"
)

// DirectoryEvent is published on the event bus when the dataset changes
type DirectoryEvent struct {
	ID          string             `json:"id"`
	Type        DirectoryEventType `json:"type"`
	RecordCount int                `json:"record_count"`
	Timestamp   time.Time          `json:"timestamp"`
}

// NewProvidersImportedEvent creates an import-completed event
func NewProvidersImportedEvent(recordCount int) *DirectoryEvent {
	return &DirectoryEvent{
		ID:          uuid.New().String(),
		Type:        EventProvidersImported,
		RecordCount: recordCount,
		Timestamp:   time.Now(),
	}
}
