// Package service holds integrations the handlers call out to.  Today that
// is the contact notification publisher.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/codeypas/portfolio-final/internal/metrics"
	"github.com/codeypas/portfolio-final/internal/queue"
)

// QueuePublisher announces accepted contact messages.  Errors are returned
// so callers can log them; they never fail the request that caused them.
type QueuePublisher interface {
	PublishContactReceived(ctx context.Context, ev queue.ContactReceivedEvent) error
}

// NewQueuePublisher returns an AMQP publisher, or a no-op one when url is
// empty.
func NewQueuePublisher(url string) QueuePublisher {
	if url == "" {
		return NoopPublisher{}
	}
	return &AMQPPublisher{URL: url, Timeout: 5 * time.Second}
}

// NoopPublisher drops every event.
type NoopPublisher struct{}

func (NoopPublisher) PublishContactReceived(context.Context, queue.ContactReceivedEvent) error {
	return nil
}

// AMQPPublisher dials the broker per publish.  Contact messages are rare
// enough that a pooled connection would only add reconnect handling.
type AMQPPublisher struct {
	URL     string
	Timeout time.Duration
}

// PublishContactReceived sends ev to the contact.received queue as a
// persistent JSON message.
func (p *AMQPPublisher) PublishContactReceived(ctx context.Context, ev queue.ContactReceivedEvent) (err error) {
	defer func() { metrics.RecordContactEvent("publish", err) }()

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}

	conn, err := amqp.DialConfig(p.URL, amqp.Config{Dial: amqp.DefaultDial(p.Timeout)})
	if err != nil {
		slog.Warn("rabbitmq: dial failed", "err", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		slog.Warn("rabbitmq: channel open failed", "err", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	// Ensure the queue exists (idempotent). Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue.ContactQueueName, // name
		true,                   // durable
		false,                  // autoDelete
		false,                  // exclusive
		false,                  // noWait
		nil,                    // args
	); err != nil {
		slog.Warn("rabbitmq: queue declare failed", "err", err)
		return err
	}

	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    time.Now().UTC(),
		MessageId:    ev.MessageID,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", queue.ContactQueueName, false, false, pub); err != nil {
		slog.Warn("rabbitmq: publish failed", "err", err)
		return err
	}
	return nil
}
