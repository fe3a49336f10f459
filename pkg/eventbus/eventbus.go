// Package eventbus defines the contract for publishing and subscribing
// to domain events.
package eventbus

import (
	"context"

	"github.com/amirasaad/affiliates/pkg/domain"
)

// HandlerFunc processes a single event.
type HandlerFunc func(ctx context.Context, event domain.Event) error

// Bus dispatches domain events to registered handlers.
type Bus interface {
	// Publish dispatches the event to every handler registered for its type.
	Publish(ctx context.Context, event domain.Event) error

	// Subscribe registers a handler for a specific event type.
	Subscribe(eventType string, handler HandlerFunc)
}
