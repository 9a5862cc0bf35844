package model

import (
	"strings"
	"time"
)

// TicketType scopes a category to an audience.  The menu and the ticket
// rows share the same two values.
type TicketType string

const (
	TicketTypePublic TicketType = "Public" // sold to the general public
	TicketTypeGuest  TicketType = "Guest"  // complimentary / invited guests
)

// ParseTicketType maps user input onto a TicketType.  Matching is case
// insensitive; unknown values return false.
func ParseTicketType(s string) (TicketType, bool) {
	s = strings.TrimSpace(s)
	switch {
	case strings.EqualFold(s, string(TicketTypePublic)):
		return TicketTypePublic, true
	case strings.EqualFold(s, string(TicketTypeGuest)):
		return TicketTypeGuest, true
	}
	return "", false
}

// Ticket represents one physical ticket as stored in the `tickets`
// table.  TicketID is the 4-digit zero-padded key and never changes once
// the ticket exists; the remaining state fields are mutated only by the
// inventory transitions.
//
// Fields:
//  TicketID     – zero-padded numeric identifier (e.g. "0042").
//  Type         – Public or Guest.
//  Category     – menu category this ticket was generated from.
//  Admit        – maximum number of people the ticket admits.
//  Seq          – ordering key; nil or zero sorts last.
//  Sold         – whether the ticket has been sold.
//  Customer     – buyer name, empty unless Sold.
//  Visited      – whether the holder has checked in.
//  VisitorSeats – seats actually used at check-in, in [0, Admit].
//  Timestamp    – instant of the last state-changing action (nil when cleared).
//
// Seq and Timestamp are pointers so that nil can represent the missing
// value.  They are treated as immutable: transitions replace the pointer
// instead of writing through it, which keeps shallow copies safe.
type Ticket struct {
	TicketID     string     `json:"TicketID"`      // tickets.ticket_id
	Type         TicketType `json:"Type"`          // tickets.type
	Category     string     `json:"Category"`      // tickets.category
	Admit        int        `json:"Admit"`         // tickets.admit
	Seq          *float64   `json:"Seq"`           // tickets.seq (nullable)
	Sold         bool       `json:"Sold"`          // tickets.sold
	Customer     string     `json:"Customer"`      // tickets.customer
	Visited      bool       `json:"Visited"`       // tickets.visited
	VisitorSeats int        `json:"Visitor_Seats"` // tickets.visitor_seats
	Timestamp    *time.Time `json:"Timestamp"`     // tickets.ts (nullable, stored as text)
}

// ClearState resets every mutable field to its unsold default.
func (t *Ticket) ClearState() {
	t.Sold = false
	t.Customer = ""
	t.Visited = false
	t.VisitorSeats = 0
	t.Timestamp = nil
}
