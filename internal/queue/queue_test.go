package queue

import (
	"context"
	"encoding/json"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewTicketEvent(t *testing.T) {
	at := time.Date(2026, 3, 1, 18, 0, 0, 0, time.FixedZone("X", 3600))
	ev := NewTicketEvent("sell", at, "0001")
	if ev.ID == "" || ev.Action != "sell" || ev.OccurredAt != "2026-03-01T17:00:00Z" {
		t.Fatalf("event = %+v", ev)
	}
	other := NewTicketEvent("sell", at)
	if other.ID == ev.ID {
		t.Fatal("event ids should be unique")
	}
	if other.TicketIDs == nil {
		t.Fatal("TicketIDs should marshal as [] not null")
	}
}

func TestFormatAuditLine(t *testing.T) {
	ev := TicketEvent{ID: "e1", Action: "check_in", TicketIDs: []string{"0002"}, Seats: 1, Customer: "Bob", OccurredAt: "2026-03-01T18:00:00Z"}
	got := FormatAuditLine(ev)
	want := `[2026-03-01T18:00:00Z] check_in | event_id=e1 | tickets=[0002] | customer="Bob" | seats=1` + "\n"
	if got != want {
		t.Fatalf("FormatAuditLine = %q, want %q", got, want)
	}
}

func TestConsumerHandleAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "audit.log")
	a := &AuditConsumer{LogPath: path}
	for _, action := range []string{"sell", "reset"} {
		body, _ := json.Marshal(TicketEvent{ID: "x", Action: action, OccurredAt: "t"})
		if err := a.handle(body); err != nil {
			t.Fatalf("handle(%s): %v", action, err)
		}
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 2 || !strings.Contains(lines[1], "reset") {
		t.Fatalf("log lines = %q", lines)
	}
}

func TestConsumerHandleRejectsGarbage(t *testing.T) {
	a := &AuditConsumer{LogPath: filepath.Join(t.TempDir(), "audit.log")}
	if err := a.handle([]byte("not json")); err == nil {
		t.Fatal("handle accepted invalid json")
	}
	if err := a.handle([]byte(`{"id":"x"}`)); err == nil {
		t.Fatal("handle accepted an event without action")
	}
}

func TestNewPublisherDefaults(t *testing.T) {
	t.Setenv("RABBITMQ_URL", "")
	t.Setenv("AMQP_URL", "amqp://u:p@broker:5672/")
	p := NewPublisher("", "")
	if p.URL != "amqp://u:p@broker:5672/" || p.Queue != DefaultQueue {
		t.Fatalf("publisher = %+v", p)
	}
}

func TestDialTimeout(t *testing.T) {
	if got := dialTimeout(context.Background()); got != DefaultDialTimeout {
		t.Fatalf("no deadline = %v, want %v", got, DefaultDialTimeout)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if got := dialTimeout(ctx); got <= 0 || got > 2*time.Second {
		t.Fatalf("deadline = %v, want within 2s", got)
	}
	expired, cancel2 := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel2()
	if got := dialTimeout(expired); got <= 0 {
		t.Fatalf("expired = %v, want a positive floor", got)
	}
}

func TestPublishGivesUpOnSilentBroker(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			defer conn.Close() // accept and never answer the handshake
		}
	}()

	p := NewPublisher("amqp://guest:guest@"+ln.Addr().String()+"/", "")
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()
	start := time.Now()
	if err := p.Publish(ctx, NewTicketEvent("sell", start, "0001")); err == nil {
		t.Fatal("Publish to a silent broker should fail")
	}
	if elapsed := time.Since(start); elapsed > 5*time.Second {
		t.Fatalf("Publish took %v, want it bounded by the context", elapsed)
	}
}
