package events

import (
	"context"
	"sync"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"reelgap/models"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypePointsChange   EventType = "points_change"
	EventTypeProfileCreated EventType = "profile_created"
	EventTypeRatingSaved    EventType = "rating_saved"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// PointsChangeEvent represents a balance mutation applied by the points engine
type PointsChangeEvent struct {
	UserID          uuid.UUID
	MovieID         int64
	EntryType       models.PointsEntryType
	AvailableBefore int64
	AvailableAfter  int64
	OnHoldBefore    int64
	OnHoldAfter     int64
}

func (e PointsChangeEvent) Type() EventType {
	return EventTypePointsChange
}

// ProfileCreatedEvent represents a new profile creation
type ProfileCreatedEvent struct {
	UserID uuid.UUID
}

func (e ProfileCreatedEvent) Type() EventType {
	return EventTypeProfileCreated
}

// RatingSavedEvent represents a pre- or post-rating that was persisted
type RatingSavedEvent struct {
	UserID  uuid.UUID
	MovieID int64
	Pre     *int
	Post    *int
}

func (e RatingSavedEvent) Type() EventType {
	return EventTypeRatingSaved
}

// Handler is a function that handles events
type Handler func(ctx context.Context, event Event)

// Bus manages event subscriptions and dispatching
type Bus struct {
	mu       sync.RWMutex
	handlers map[EventType][]Handler
}

// NewBus creates a new event bus
func NewBus() *Bus {
	return &Bus{
		handlers: make(map[EventType][]Handler),
	}
}

// Subscribe adds a handler for a specific event type
func (b *Bus) Subscribe(eventType EventType, handler Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.handlers[eventType] = append(b.handlers[eventType], handler)

	log.WithFields(log.Fields{
		"eventType":    eventType,
		"handlerCount": len(b.handlers[eventType]),
	}).Debug("Subscribed handler to event type")
}

// Emit publishes an event to all registered handlers
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	// Call handlers asynchronously to avoid blocking
	for i, handler := range handlers {
		go func(h Handler, handlerIndex int) {
			defer func() {
				if r := recover(); r != nil {
					log.WithFields(log.Fields{
						"eventType":    event.Type(),
						"handlerIndex": handlerIndex,
						"panic":        r,
					}).Error("Event handler panicked")
				}
			}()
			h(ctx, event)
		}(handler, i)
	}
}

// TransactionalBus stashes events published during a unit of work and
// flushes them to the underlying bus only after a successful commit.
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush is called after a successful DB commit.
func (b *TransactionalBus) Flush(ctx context.Context) {
	// Events outlive the transaction context, so emission uses a fresh one.
	eventCtx := context.Background()

	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard is called after a rollback to drop the pending events.
func (b *TransactionalBus) Discard() {
	b.pending = nil
}
