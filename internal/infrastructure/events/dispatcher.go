// Package events provides the in-process domain event dispatcher
package events

import (
	"context"
	"errors"
	"sync"

	"github.com/nutriplan/backend/internal/domain/shared"
	"github.com/nutriplan/backend/internal/ports/outbound"
	"go.uber.org/zap"
)

// AllEvents registers a handler for every event name
const AllEvents = "*"

// Dispatcher delivers events synchronously to registered handlers
type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	logger   *zap.Logger
}

var (
	_ shared.EventDispatcher  = (*Dispatcher)(nil)
	_ outbound.EventPublisher = (*Dispatcher)(nil)
)

// NewDispatcher creates an empty dispatcher
func NewDispatcher(logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]shared.EventHandler),
		logger:   logger.Named("event-dispatcher"),
	}
}

// Register adds a handler for an event name, or AllEvents
func (d *Dispatcher) Register(eventName string, handler shared.EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[eventName] = append(d.handlers[eventName], handler)
}

// Dispatch runs every matching handler. All handlers run even if one fails.
func (d *Dispatcher) Dispatch(ctx context.Context, event shared.DomainEvent) error {
	d.mu.RLock()
	handlers := append([]shared.EventHandler{}, d.handlers[event.EventName()]...)
	handlers = append(handlers, d.handlers[AllEvents]...)
	d.mu.RUnlock()

	var errs []error
	for _, h := range handlers {
		if err := h(ctx, event); err != nil {
			d.logger.Warn("Event handler failed",
				zap.String("event", event.EventName()),
				zap.Error(err),
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Publish implements outbound.EventPublisher
func (d *Dispatcher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	var errs []error
	for _, event := range events {
		if err := d.Dispatch(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
