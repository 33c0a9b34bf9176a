package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"staysearch/internal/domain/shared/events"
)

const defaultSource = "staysearch"

type publisher interface {
	Publish(ctx context.Context, topic string, key string, payload []byte, headers map[string]string) error
}

// EventPublisher wraps domain events in a CloudEvents JSON envelope and sends
// them to a single topic keyed by aggregate id.
type EventPublisher struct {
	producer publisher
	topic    string
	source   string
	newID    func() string
}

func NewEventPublisher(producer *Producer, topic string) (*EventPublisher, error) {
	if producer == nil {
		return nil, errors.New("kafka: producer is required")
	}
	return newEventPublisher(producer, topic), nil
}

func newEventPublisher(p publisher, topic string) *EventPublisher {
	return &EventPublisher{producer: p, topic: topic, source: defaultSource, newID: uuid.NewString}
}

func (p *EventPublisher) Publish(ctx context.Context, ev events.DomainEvent) error {
	payload, headers, err := p.encode(ev)
	if err != nil {
		return err
	}
	if err := p.producer.Publish(ctx, p.topic, ev.AggregateID(), payload, headers); err != nil {
		return fmt.Errorf("kafka: publish %s: %w", ev.EventName(), err)
	}
	return nil
}

type cloudEvent struct {
	SpecVersion     string          `json:"specversion"`
	ID              string          `json:"id"`
	Type            string          `json:"type"`
	Source          string          `json:"source"`
	Subject         string          `json:"subject,omitempty"`
	Time            time.Time       `json:"time"`
	DataContentType string          `json:"datacontenttype"`
	Data            json.RawMessage `json:"data"`
}

func (p *EventPublisher) encode(ev events.DomainEvent) ([]byte, map[string]string, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return nil, nil, fmt.Errorf("kafka: encode %s: %w", ev.EventName(), err)
	}
	id := p.newID()
	payload, err := json.Marshal(cloudEvent{
		SpecVersion:     "1.0",
		ID:              id,
		Type:            ev.EventName() + ".v1",
		Source:          p.source,
		Subject:         ev.AggregateID(),
		Time:            ev.OccurredAt().UTC(),
		DataContentType: "application/json",
		Data:            data,
	})
	if err != nil {
		return nil, nil, err
	}
	headers := map[string]string{
		"content-type": "application/cloudevents+json",
		"ce_id":        id,
		"ce_type":      ev.EventName() + ".v1",
	}
	return payload, headers, nil
}
