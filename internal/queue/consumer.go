package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// AuditConsumer drains the event queue into an append-only log file.
type AuditConsumer struct {
	URL     string
	Queue   string
	LogPath string
}

// Run connects, consumes and reconnects with exponential backoff until
// ctx is cancelled.  It only returns ctx.Err().
func (a *AuditConsumer) Run(ctx context.Context) error {
	backoff := time.Second
	for {
		conn, err := amqp.Dial(a.URL)
		if err != nil {
			log.Printf("audit-consumer: failed to dial broker: %v; retrying in %s", err, backoff)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second

		err = a.consume(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Printf("audit-consumer: consume loop ended: %v; reconnecting", err)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2 * time.Second):
		}
	}
}

func (a *AuditConsumer) consume(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		log.Printf("audit-consumer: set QoS failed: %v", err)
	}
	if _, err := ch.QueueDeclare(a.Queue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	msgs, err := ch.Consume(a.Queue, "", false, false, false, false, nil)
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
			if err := a.handle(d.Body); err != nil {
				log.Printf("audit-consumer: handle message failed: %v", err)
				_ = d.Nack(false, false) // poison messages are dropped, not requeued
				continue
			}
			_ = d.Ack(false)
		}
	}
}

func (a *AuditConsumer) handle(body []byte) error {
	var ev TicketEvent
	if err := json.Unmarshal(body, &ev); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	if ev.Action == "" {
		return errors.New("event without action")
	}
	if err := os.MkdirAll(filepath.Dir(a.LogPath), 0o755); err != nil {
		return fmt.Errorf("mkdir logs: %w", err)
	}
	f, err := os.OpenFile(a.LogPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(FormatAuditLine(ev)); err != nil {
		return fmt.Errorf("write log: %w", err)
	}
	return nil
}

// FormatAuditLine renders ev as one newline-terminated log line.
func FormatAuditLine(ev TicketEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s | event_id=%s | tickets=[%s]", ev.OccurredAt, ev.Action, ev.ID, strings.Join(ev.TicketIDs, ","))
	if ev.Customer != "" {
		fmt.Fprintf(&b, " | customer=%q", ev.Customer)
	}
	if ev.Seats > 0 {
		fmt.Fprintf(&b, " | seats=%d", ev.Seats)
	}
	if ev.Failed > 0 {
		fmt.Fprintf(&b, " | failed=%d", ev.Failed)
	}
	if ev.Operator != "" {
		fmt.Fprintf(&b, " | operator=%s", ev.Operator)
	}
	b.WriteString("\n")
	return b.String()
}
