// Package queue contains the background consumer that listens to the
// directory events queue and appends one line per event to
// <dir>/activity.log.
package queue

import (
    "context"
    "encoding/json"
    "errors"
    "fmt"
    "os"
    "path/filepath"
    "strings"
    "time"

    amqp "github.com/rabbitmq/amqp091-go"
    "github.com/sirupsen/logrus"
)

// ActivityLogName is the file written inside the activity log directory.
const ActivityLogName = "activity.log"

// Consumer drains the events queue into the activity log.
type Consumer struct {
    url   string
    queue string
    dir   string
    log   logrus.FieldLogger
}

func NewConsumer(url, queue, dir string, log logrus.FieldLogger) *Consumer {
    return &Consumer{url: url, queue: queue, dir: dir, log: log.WithField("component", "activity-consumer")}
}

// Run connects to RabbitMQ, declares the queue (durable) and consumes
// messages until ctx is cancelled.  Broker failures are retried with an
// exponential backoff capped at 30s; a message that cannot be handled is
// rejected without requeueing so the consumer keeps going.
func (c *Consumer) Run(ctx context.Context) error {
    backoff := time.Second
    for {
        conn, err := amqp.Dial(c.url)
        if err != nil {
            c.log.WithError(err).Warnf("failed to dial broker, retrying in %s", backoff)
            if !sleep(ctx, backoff) {
                return ctx.Err()
            }
            if backoff < 30*time.Second {
                backoff *= 2
            }
            continue
        }
        backoff = time.Second // reset after successful connect

        err = c.consumeLoop(ctx, conn)
        _ = conn.Close()
        if ctx.Err() != nil {
            return ctx.Err()
        }
        c.log.WithError(err).Warn("consume loop ended, reconnecting")
        if !sleep(ctx, 2*time.Second) {
            return ctx.Err()
        }
    }
}

func sleep(ctx context.Context, d time.Duration) bool {
    t := time.NewTimer(d)
    defer t.Stop()
    select {
    case <-ctx.Done():
        return false
    case <-t.C:
        return true
    }
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
    ch, err := conn.Channel()
    if err != nil {
        return fmt.Errorf("channel open: %w", err)
    }
    defer func() { _ = ch.Close() }()

    if err := ch.Qos(50, 0, false); err != nil {
        c.log.WithError(err).Warn("set QoS failed")
    }
    if _, err := ch.QueueDeclare(c.queue, true, false, false, false, nil); err != nil {
        return fmt.Errorf("queue declare: %w", err)
    }
    msgs, err := ch.Consume(c.queue, "", false, false, false, false, nil)
    if err != nil {
        return fmt.Errorf("queue consume: %w", err)
    }

    for {
        select {
        case <-ctx.Done():
            return ctx.Err()
        case d, ok := <-msgs:
            if !ok {
                return errors.New("deliveries channel closed")
            }
            if err := c.handleMessage(d.Body); err != nil {
                c.log.WithError(err).Error("handle message failed")
                _ = d.Nack(false, false) // reject, do not requeue to avoid tight loops
                continue
            }
            _ = d.Ack(false)
        }
    }
}

func (c *Consumer) handleMessage(body []byte) error {
    var ev DirectoryEvent
    if err := json.Unmarshal(body, &ev); err != nil {
        return fmt.Errorf("unmarshal: %w", err)
    }
    if ev.Kind == "" {
        return errors.New("event without kind")
    }
    if err := os.MkdirAll(c.dir, 0o755); err != nil {
        return fmt.Errorf("mkdir %s: %w", c.dir, err)
    }
    f, err := os.OpenFile(filepath.Join(c.dir, ActivityLogName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
    if err != nil {
        return fmt.Errorf("open log file: %w", err)
    }
    defer f.Close()

    if _, err := f.WriteString(formatLine(ev)); err != nil {
        return fmt.Errorf("write log: %w", err)
    }
    return nil
}

// formatLine renders one human-friendly line; show fields only appear for
// show events.
func formatLine(ev DirectoryEvent) string {
    var b strings.Builder
    fmt.Fprintf(&b, "[%s] %s | id=%d", ev.OccurredAt, ev.Kind, ev.EntityID)
    if ev.EntityName != "" {
        fmt.Fprintf(&b, " | name=%q", ev.EntityName)
    }
    if ev.ArtistID != 0 || ev.VenueID != 0 {
        fmt.Fprintf(&b, " | artist_id=%d | venue_id=%d | start_time=%q", ev.ArtistID, ev.VenueID, ev.StartTime)
    }
    fmt.Fprintf(&b, " | actor=%s\n", ev.Actor)
    return b.String()
}
