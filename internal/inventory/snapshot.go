package inventory

import "github.com/iliyamo/event-ticket-dashboard/internal/model"

// Snapshot is the full in-memory view of both tables.  Engine functions
// never modify a Snapshot they are given; they return a fresh one.
type Snapshot struct {
	Tickets []model.Ticket
	Menu    []model.MenuEntry
}

// Clone copies both slices.  Ticket pointer fields are shared, which is
// fine because nothing writes through them.
func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Tickets: make([]model.Ticket, len(s.Tickets)),
		Menu:    make([]model.MenuEntry, len(s.Menu)),
	}
	copy(out.Tickets, s.Tickets)
	copy(out.Menu, s.Menu)
	return out
}

// Find returns the ticket with the given ID.
func (s Snapshot) Find(id string) (model.Ticket, bool) {
	for _, t := range s.Tickets {
		if t.TicketID == id {
			return t, true
		}
	}
	return model.Ticket{}, false
}

func indexByID(tickets []model.Ticket) map[string]int {
	idx := make(map[string]int, len(tickets))
	for i, t := range tickets {
		if _, dup := idx[t.TicketID]; !dup {
			idx[t.TicketID] = i
		}
	}
	return idx
}
