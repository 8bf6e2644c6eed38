// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package events publishes domain events to a RabbitMQ topic exchange.
package events

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/oops"

	"github.com/holomush/tidewater/internal/ident"
)

// DefaultExchange is the topic exchange events are published to.
const DefaultExchange = "tidewater.events"

// publishTimeout bounds a single broker publish.
const publishTimeout = 5 * time.Second

// Publisher sends events keyed by routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload any) error
	Close() error
}

// Envelope wraps every published payload.
type Envelope struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Version    string    `json:"version"`
	OccurredAt time.Time `json:"occurred_at"`
	Payload    any       `json:"payload"`
}

// EnvelopeVersion is the schema version stamped on every envelope.
const EnvelopeVersion = "v1"

// NewEnvelope wraps payload for routingKey.
func NewEnvelope(routingKey string, payload any) Envelope {
	return Envelope{
		ID:         ident.New().String(),
		Type:       routingKey,
		Version:    EnvelopeVersion,
		OccurredAt: time.Now().UTC(),
		Payload:    payload,
	}
}

// channel is the subset of *amqp.Channel the publisher uses.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher publishes JSON envelopes to a topic exchange.
type AMQPPublisher struct {
	mu       sync.Mutex
	conn     *amqp.Connection
	channel  channel
	exchange string
}

// NewAMQPPublisher dials url and declares a durable topic exchange.
func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, oops.Code("EVENTS_DIAL_FAILED").With("exchange", exchange).Wrap(err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, oops.Code("EVENTS_CHANNEL_FAILED").Wrap(err)
	}
	if err := ch.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-deleted
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, oops.Code("EVENTS_DECLARE_FAILED").With("exchange", exchange).Wrap(err)
	}
	return &AMQPPublisher{conn: conn, channel: ch, exchange: exchange}, nil
}

// Publish marshals payload into an Envelope and publishes it persistently.
func (p *AMQPPublisher) Publish(ctx context.Context, routingKey string, payload any) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel == nil {
		return oops.Code("EVENTS_CLOSED").With("routing_key", routingKey).Wrap(amqp.ErrClosed)
	}

	env := NewEnvelope(routingKey, payload)
	body, err := json.Marshal(env)
	if err != nil {
		return oops.Code("EVENTS_ENCODE_FAILED").With("routing_key", routingKey).Wrap(err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = p.channel.PublishWithContext(ctx,
		p.exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    env.ID,
			Type:         routingKey,
			Body:         body,
			Timestamp:    env.OccurredAt,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return oops.Code("EVENTS_PUBLISH_FAILED").
			With("exchange", p.exchange).
			With("routing_key", routingKey).
			Wrap(err)
	}
	return nil
}

// Close closes the channel and connection. It is safe to call twice.
func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.channel != nil {
		_ = p.channel.Close()
		p.channel = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
	return nil
}

// NoopPublisher drops events, noting each at debug level.
type NoopPublisher struct {
	Logger *slog.Logger
}

// NewNoopPublisher returns a publisher used when no broker is configured.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{Logger: logger}
}

// Publish logs and discards the event.
func (n *NoopPublisher) Publish(ctx context.Context, routingKey string, _ any) error {
	n.Logger.DebugContext(ctx, "event broker not configured, dropping event", "routing_key", routingKey)
	return nil
}

// Close is a no-op.
func (n *NoopPublisher) Close() error { return nil }
