package events

import (
	"context"
	"sync"
	"time"

	"arcade/models"

	log "github.com/sirupsen/logrus"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeRoundStarted  EventType = "round_started"
	EventTypeScoreRecorded EventType = "score_recorded"
	EventTypeRoundRejected EventType = "round_rejected"
	EventTypeItemPurchased EventType = "item_purchased"
	EventTypeUserFlagged   EventType = "user_flagged"
)

// AllEventTypes lists every event type emitted by the arcade
func AllEventTypes() []EventType {
	return []EventType{
		EventTypeRoundStarted,
		EventTypeScoreRecorded,
		EventTypeRoundRejected,
		EventTypeItemPurchased,
		EventTypeUserFlagged,
	}
}

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// RoundStartedEvent is emitted when a user opens a round
type RoundStartedEvent struct {
	UserID    int64       `json:"user_id"`
	Game      models.Game `json:"game"`
	StartedAt time.Time   `json:"started_at"`
}

func (e RoundStartedEvent) Type() EventType {
	return EventTypeRoundStarted
}

// ScoreRecordedEvent is emitted after an accepted score is committed
type ScoreRecordedEvent struct {
	UserID   int64         `json:"user_id"`
	RecordID int64         `json:"record_id"`
	Game     models.Game   `json:"game"`
	Score    int64         `json:"score"`
	Tickets  int64         `json:"tickets"`
	Duration time.Duration `json:"duration_ns"`
}

func (e ScoreRecordedEvent) Type() EventType {
	return EventTypeScoreRecorded
}

// RoundRejectedEvent is emitted after a submission fails validation
type RoundRejectedEvent struct {
	UserID   int64               `json:"user_id"`
	Game     models.Game         `json:"game"`
	Score    int64               `json:"score"`
	Duration time.Duration       `json:"duration_ns"`
	Reason   models.RejectReason `json:"reason"`
	Detail   string              `json:"detail"`
}

func (e RoundRejectedEvent) Type() EventType {
	return EventTypeRoundRejected
}

// ItemPurchasedEvent is emitted after a purchase is committed
type ItemPurchasedEvent struct {
	UserID     int64               `json:"user_id"`
	ItemID     string              `json:"item_id"`
	Category   models.ItemCategory `json:"category"`
	Price      int64               `json:"price"`
	NewBalance int64               `json:"new_balance"`
}

func (e ItemPurchasedEvent) Type() EventType {
	return EventTypeItemPurchased
}

// UserFlaggedEvent is emitted when repeated rejections mark a user as suspect
type UserFlaggedEvent struct {
	UserID   int64 `json:"user_id"`
	Failures int   `json:"failures"`
}

func (e UserFlaggedEvent) Type() EventType {
	return EventTypeUserFlagged
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

// SubscribeAll adds a handler for every event type
func (b *Bus) SubscribeAll(handler Handler) {
	for _, eventType := range AllEventTypes() {
		b.Subscribe(eventType, handler)
	}
}

// Emit dispatches an event to all registered handlers asynchronously
func (b *Bus) Emit(ctx context.Context, event Event) {
	b.mu.RLock()
	handlers := make([]Handler, len(b.handlers[event.Type()]))
	copy(handlers, b.handlers[event.Type()])
	b.mu.RUnlock()

	log.WithFields(log.Fields{
		"eventType":    event.Type(),
		"handlerCount": len(handlers),
	}).Debug("Emitting event")

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

// Publish emits immediately. It lets the bus stand in where no transaction is involved.
func (b *Bus) Publish(event Event) {
	b.Emit(context.Background(), event)
}

// TransactionalBus holds events raised inside a unit of work until it commits
type TransactionalBus struct {
	real    *Bus
	pending []Event
}

// NewTransactionalBus creates a transactional bus flushing into real
func NewTransactionalBus(real *Bus) *TransactionalBus {
	return &TransactionalBus{real: real}
}

// Publish queues an event until Flush
func (b *TransactionalBus) Publish(e Event) {
	b.pending = append(b.pending, e)
}

// Flush emits pending events. Called after a successful commit.
func (b *TransactionalBus) Flush(ctx context.Context) {
	log.WithField("pendingEventCount", len(b.pending)).Debug("Flushing transactional bus")

	// Handlers outlive the request, so they get a context detached from its cancellation
	eventCtx := context.WithoutCancel(ctx)
	for _, ev := range b.pending {
		b.real.Emit(eventCtx, ev)
	}
	b.pending = nil
}

// Discard drops pending events. Called after a rollback.
func (b *TransactionalBus) Discard() {
	if len(b.pending) > 0 {
		log.WithField("discardedEventCount", len(b.pending)).Debug("Discarding pending events")
	}
	b.pending = nil
}

// Pending returns the number of queued events
func (b *TransactionalBus) Pending() int {
	return len(b.pending)
}
