// Package service provides the outbound side of the directory events:
// publishing to RabbitMQ after a mutation has been committed.  Errors are
// returned so callers can log them without interrupting the main request
// flow.
package service

import (
    "context"
    "encoding/json"
    "fmt"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"

    "github.com/iliyamo/venue-directory/internal/queue"
)

// dialTimeout bounds the TCP connect and AMQP handshake of one publish
// when the caller's context has no earlier deadline.
const dialTimeout = 5 * time.Second

// AMQPPublisher publishes DirectoryEvents to a durable queue on the
// default exchange.  It dials per publish; mutations are rare enough that
// a long-lived channel is not worth its reconnect handling.
type AMQPPublisher struct {
    url   string
    queue string
    log   logrus.FieldLogger
}

func NewAMQPPublisher(url, queueName string, log logrus.FieldLogger) *AMQPPublisher {
    return &AMQPPublisher{url: url, queue: queueName, log: log.WithField("component", "event-publisher")}
}

// Publish sends one persistent JSON message.  Failures are returned, not
// logged; the caller decides how loud they are.
func (p *AMQPPublisher) Publish(ctx context.Context, event queue.DirectoryEvent) error {
    timeout := dialTimeout
    if dl, ok := ctx.Deadline(); ok {
        if left := time.Until(dl); left < timeout {
            timeout = left
        }
    }
    if timeout <= 0 {
        return fmt.Errorf("rabbitmq: dial: %w", context.DeadlineExceeded)
    }

    conn, err := amqp.DialConfig(p.url, amqp.Config{
        Locale: "en_US",
        Dial:   amqp.DefaultDial(timeout),
    })
    if err != nil {
        return fmt.Errorf("rabbitmq: dial: %w", err)
    }
    defer func() { _ = conn.Close() }()

    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("rabbitmq: open channel: %w", err)
    }
    defer func() { _ = ch.Close() }()

    // Durable so messages survive broker restarts.
    if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("rabbitmq: declare %s: %w", p.queue, err)
    }

    pub, err := newPublishing(event)
    if err != nil {
        return fmt.Errorf("rabbitmq: marshal event: %w", err)
    }
    if err := ch.PublishWithContext(ctx, "", p.queue, false, false, pub); err != nil {
        return fmt.Errorf("rabbitmq: publish: %w", err)
    }
    p.log.WithFields(logrus.Fields{"kind": event.Kind, "entity_id": event.EntityID}).Debug("event published")
    return nil
}

func newPublishing(event queue.DirectoryEvent) (amqp.Publishing, error) {
    body, err := json.Marshal(event)
    if err != nil {
        return amqp.Publishing{}, err
    }
    return amqp.Publishing{
        ContentType:  "application/json",
        DeliveryMode: amqp.Persistent,
        Timestamp:    time.Now().UTC(),
        Type:         event.Kind,
        Body:         body,
    }, nil
}

// NopPublisher drops every event.  It is used when EVENTS_ENABLED is off.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, queue.DirectoryEvent) error { return nil }
