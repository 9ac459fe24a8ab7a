package infrastructure

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"arcade/events"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	// EventStreamName is the JetStream stream holding arcade events
	EventStreamName = "arcade_events"
	subjectPrefix   = "arcade."
	sourceService   = "arcade"
)

// EventEnvelope wraps every event forwarded to NATS
type EventEnvelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	Timestamp     time.Time       `json:"timestamp"`
	SourceService string          `json:"source_service"`
	Payload       json.RawMessage `json:"payload"`
}

// MessagePublisher sends raw payloads to a subject
type MessagePublisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
}

// NATSEventPublisher forwards committed bus events to NATS
type NATSEventPublisher struct {
	publisher MessagePublisher
	now       func() time.Time
}

// NewNATSEventPublisher creates a new NATS event publisher
func NewNATSEventPublisher(publisher MessagePublisher) *NATSEventPublisher {
	return &NATSEventPublisher{
		publisher: publisher,
		now:       time.Now,
	}
}

// SubjectFor maps an event type to its NATS subject
func SubjectFor(eventType events.EventType) string {
	return subjectPrefix + string(eventType)
}

// StreamSubjects lists the subjects of every arcade event type
func StreamSubjects() []string {
	types := events.AllEventTypes()
	subjects := make([]string, 0, len(types))
	for _, eventType := range types {
		subjects = append(subjects, SubjectFor(eventType))
	}
	return subjects
}

// Subscribe forwards every event emitted on bus
func (p *NATSEventPublisher) Subscribe(bus *events.Bus) {
	bus.SubscribeAll(func(ctx context.Context, event events.Event) {
		if err := p.Publish(ctx, event); err != nil {
			log.WithFields(log.Fields{
				"eventType": event.Type(),
				"error":     err,
			}).Error("Failed to forward event to NATS")
		}
	})
}

// Publish wraps the event in an envelope and publishes it on its subject
func (p *NATSEventPublisher) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event payload: %w", err)
	}

	envelope := EventEnvelope{
		EventID:       uuid.New().String(),
		EventType:     string(event.Type()),
		Timestamp:     p.now().UTC(),
		SourceService: sourceService,
		Payload:       payload,
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		return fmt.Errorf("failed to marshal event envelope: %w", err)
	}

	subject := SubjectFor(event.Type())
	if err := p.publisher.Publish(ctx, subject, data); err != nil {
		return fmt.Errorf("failed to publish event to NATS: %w", err)
	}

	log.WithFields(log.Fields{
		"eventType": event.Type(),
		"eventId":   envelope.EventID,
		"subject":   subject,
	}).Debug("Forwarded event to NATS")
	return nil
}
