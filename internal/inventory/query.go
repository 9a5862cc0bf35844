package inventory

import (
	"sort"
	"strings"
	"time"

	"github.com/iliyamo/event-ticket-dashboard/internal/model"
)

// Status selects which tickets a selection list returns.
type Status string

const (
	StatusAll       Status = ""
	StatusAvailable Status = "available" // unsold, can be sold
	StatusSold      Status = "sold"      // sold, can be reversed
	StatusEligible  Status = "eligible"  // sold and not yet checked in
	StatusVisited   Status = "visited"   // checked in, can be reversed or adjusted
)

// ParseStatus validates a status filter.
func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusAll, StatusAvailable, StatusSold, StatusEligible, StatusVisited:
		return st, nil
	}
	return "", &ValidationError{Field: "status", Value: s, Reason: "want available, sold, eligible or visited"}
}

func (st Status) match(t model.Ticket) bool {
	switch st {
	case StatusAvailable:
		return !t.Sold
	case StatusSold:
		return t.Sold
	case StatusEligible:
		return t.Sold && !t.Visited
	case StatusVisited:
		return t.Visited
	}
	return true
}

// Filter narrows a selection list.  Empty Type or Category match all.
type Filter struct {
	Type     model.TicketType
	Category string
	Status   Status
}

// Select returns the tickets matching f ordered by TicketID.
func Select(tickets []model.Ticket, f Filter) []model.Ticket {
	out := make([]model.Ticket, 0)
	for _, t := range tickets {
		if f.Type != "" && t.Type != f.Type {
			continue
		}
		if f.Category != "" && t.Category != f.Category {
			continue
		}
		if f.Status.match(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TicketID < out[j].TicketID })
	return out
}

// Categories lists the distinct non-empty categories of typ in menu order.
func Categories(menu []model.MenuEntry, typ model.TicketType) []string {
	seen := make(map[string]bool)
	out := make([]string, 0)
	for _, e := range menu {
		if e.Type != typ || e.Category == "" || seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		out = append(out, e.Category)
	}
	return out
}

// SortMenu returns the menu ordered by Seq with nil/zero last, with the
// derived columns recomputed.
func SortMenu(menu []model.MenuEntry) []model.MenuEntry {
	out := RecomputeMenu(menu)
	sort.SliceStable(out, func(i, j int) bool { return SeqLess(out[i].Seq, out[j].Seq) })
	return out
}

// HistoryRow is one line of the recent sales / recent visitors tables.
type HistoryRow struct {
	Sno          int        `json:"Sno"`
	TicketID     string     `json:"TicketID"`
	Category     string     `json:"Category"`
	Customer     string     `json:"Customer"`
	VisitorSeats int        `json:"Visitor_Seats"`
	Timestamp    *time.Time `json:"Timestamp"`
}

// RecentSales lists sold tickets, newest first.
func RecentSales(tickets []model.Ticket) []HistoryRow {
	return history(tickets, func(t model.Ticket) bool { return t.Sold })
}

// RecentVisitors lists checked-in tickets, newest first.
func RecentVisitors(tickets []model.Ticket) []HistoryRow {
	return history(tickets, func(t model.Ticket) bool { return t.Visited })
}

func history(tickets []model.Ticket, keep func(model.Ticket) bool) []HistoryRow {
	picked := make([]model.Ticket, 0)
	for _, t := range tickets {
		if keep(t) {
			picked = append(picked, t)
		}
	}
	// Missing timestamps sort last.
	sort.SliceStable(picked, func(i, j int) bool {
		a, b := picked[i].Timestamp, picked[j].Timestamp
		if a == nil || b == nil {
			return a != nil && b == nil
		}
		return a.After(*b)
	})
	rows := make([]HistoryRow, len(picked))
	for i, t := range picked {
		rows[i] = HistoryRow{
			Sno:          i + 1,
			TicketID:     t.TicketID,
			Category:     t.Category,
			Customer:     t.Customer,
			VisitorSeats: t.VisitorSeats,
			Timestamp:    t.Timestamp,
		}
	}
	return rows
}
