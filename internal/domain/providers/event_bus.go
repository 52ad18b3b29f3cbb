package providers

import (
	"context"

	"github.com/zatekoja/Therapistdirectorydesign/backend/internal/domain/entities"
)

// EventBus defines the interface for publishing and subscribing to
// directory dataset events
type EventBus interface {
	// Publish publishes an event to all subscribers
	Publish(ctx context.Context, channel string, event *entities.DirectoryEvent) error

	// Subscribe subscribes to events on a channel
	Subscribe(ctx context.Context, channel string) (<-chan *entities.DirectoryEvent, error)

	// Close closes the event bus and all subscriptions
	Close() error
}

// EventChannelDirectoryUpdates is the channel carrying dataset-wide
// update events (imports, reindexes)
const EventChannelDirectoryUpdates = "directory:updates"
