package inventory

import (
	"fmt"

	"github.com/iliyamo/event-ticket-dashboard/internal/model"
)

// Violation is a ticket that breaks a row invariant.
type Violation struct {
	TicketID string `json:"TicketID"`
	Problem  string `json:"Problem"`
}

// Validate checks 0 <= Visitor_Seats <= Admit and Visited => Sold on
// every ticket, and that TicketIDs are unique.  Transitions never
// produce violations; they come from data edited outside the service.
func Validate(tickets []model.Ticket) []Violation {
	out := make([]Violation, 0)
	seen := make(map[string]bool, len(tickets))
	for _, t := range tickets {
		if seen[t.TicketID] {
			out = append(out, Violation{TicketID: t.TicketID, Problem: "duplicate ticket id"})
		}
		seen[t.TicketID] = true
		if t.VisitorSeats < 0 || t.VisitorSeats > t.Admit {
			out = append(out, Violation{
				TicketID: t.TicketID,
				Problem:  fmt.Sprintf("visitor seats %d outside [0, %d]", t.VisitorSeats, t.Admit),
			})
		}
		if t.Visited && !t.Sold {
			out = append(out, Violation{TicketID: t.TicketID, Problem: "visited but not sold"})
		}
	}
	return out
}
