package inventory

import (
	"testing"
	"time"

	"github.com/iliyamo/event-ticket-dashboard/internal/model"
)

var epoch = time.Date(2026, 3, 1, 18, 0, 0, 0, time.UTC)

func seq(v float64) *float64 { return &v }

func entry(typ model.TicketType, category, series string, admit int, s *float64) model.MenuEntry {
	return model.MenuEntry{Type: typ, Category: category, Series: series, Admit: admit, Seq: s}
}

func mustFind(t testing.TB, s Snapshot, id string) model.Ticket {
	t.Helper()
	tk, ok := s.Find(id)
	if !ok {
		t.Fatalf("ticket %s missing from snapshot", id)
	}
	return tk
}

// generalSnapshot is the single-category menu "1-3", Admit 2.
func generalSnapshot() Snapshot {
	menu := []model.MenuEntry{entry(model.TicketTypePublic, "General", "1-3", 2, seq(1))}
	res := Reconcile(menu, nil)
	return Snapshot{Tickets: res.Tickets, Menu: res.Menu}
}
