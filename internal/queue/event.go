// Package queue defines the audit events published after every
// persisted ticket change, the RabbitMQ publisher and the consumer that
// appends them to the audit log.
package queue

import (
	"time"

	"github.com/google/uuid"
)

// TicketEvent is published once per successful write.  Bulk operations
// produce one event listing every affected ticket.
type TicketEvent struct {
	ID         string   `json:"id"`
	Action     string   `json:"action"`
	TicketIDs  []string `json:"ticket_ids"`
	Customer   string   `json:"customer,omitempty"`
	Seats      int      `json:"seats,omitempty"`
	Failed     int      `json:"failed,omitempty"`
	Operator   string   `json:"operator,omitempty"`
	OccurredAt string   `json:"occurred_at"`
}

// NewTicketEvent stamps a fresh event id and the occurrence time.
func NewTicketEvent(action string, at time.Time, ticketIDs ...string) TicketEvent {
	if ticketIDs == nil {
		ticketIDs = []string{}
	}
	return TicketEvent{
		ID:         uuid.NewString(),
		Action:     action,
		TicketIDs:  ticketIDs,
		OccurredAt: at.UTC().Format(time.RFC3339),
	}
}
