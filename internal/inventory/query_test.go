package inventory

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/iliyamo/event-ticket-dashboard/internal/model"
)

func TestSelect(t *testing.T) {
	s := generalSnapshot()
	s, _ = Sell(s, "0001", "Ann", epoch)
	s, _ = Sell(s, "0003", "Cid", epoch)
	s, _ = CheckIn(s, "0003", 2, epoch)

	cases := map[Status][]string{
		StatusAll:       {"0001", "0002", "0003"},
		StatusAvailable: {"0002"},
		StatusSold:      {"0001", "0003"},
		StatusEligible:  {"0001"},
		StatusVisited:   {"0003"},
	}
	for st, want := range cases {
		got := ids(Select(s.Tickets, Filter{Type: model.TicketTypePublic, Category: "General", Status: st}))
		if !reflect.DeepEqual(got, want) {
			t.Errorf("Select(%q) = %v, want %v", st, got, want)
		}
	}
	if got := Select(s.Tickets, Filter{Type: model.TicketTypeGuest}); len(got) != 0 {
		t.Errorf("Select(Guest) = %v, want none", ids(got))
	}
}

func TestParseStatus(t *testing.T) {
	if st, err := ParseStatus(" Sold "); err != nil || st != StatusSold {
		t.Fatalf("ParseStatus(Sold) = %q, %v", st, err)
	}
	if _, err := ParseStatus("refunded"); !errors.Is(err, ErrValidation) {
		t.Fatalf("ParseStatus(refunded) error = %v, want ErrValidation", err)
	}
}

func TestCategories(t *testing.T) {
	menu := []model.MenuEntry{
		entry(model.TicketTypePublic, "General", "1-2", 1, nil),
		entry(model.TicketTypeGuest, "Press", "3-4", 1, nil),
		entry(model.TicketTypePublic, "Family Silver", "5-6", 4, nil),
		entry(model.TicketTypePublic, "General", "7-8", 1, nil),
		entry(model.TicketTypePublic, "", "9-9", 1, nil),
	}
	if got, want := Categories(menu, model.TicketTypePublic), []string{"General", "Family Silver"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("Categories(Public) = %v, want %v", got, want)
	}
}

func TestSortMenu(t *testing.T) {
	menu := []model.MenuEntry{
		entry(model.TicketTypePublic, "Last", "1-2", 1, nil),
		entry(model.TicketTypePublic, "Second", "3-4", 2, seq(5)),
		entry(model.TicketTypePublic, "First", "5-9", 3, seq(1)),
	}
	got := SortMenu(menu)
	if got[0].Category != "First" || got[1].Category != "Second" || got[2].Category != "Last" {
		t.Fatalf("order = %s %s %s", got[0].Category, got[1].Category, got[2].Category)
	}
	if got[0].Alloc != 5 || got[0].TotalCapacity != 15 {
		t.Fatalf("derived = %d/%d, want 5/15", got[0].Alloc, got[0].TotalCapacity)
	}
}

func TestRecentSalesNewestFirst(t *testing.T) {
	s := generalSnapshot()
	s, _ = Sell(s, "0001", "Old", epoch)
	s, _ = Sell(s, "0002", "New", epoch.Add(2*time.Hour))
	s, _ = Sell(s, "0003", "Mid", epoch.Add(time.Hour))
	// A sold row whose timestamp was lost on import.
	s.Tickets[0].Timestamp = nil

	rows := RecentSales(s.Tickets)
	var got []string
	for i, r := range rows {
		if r.Sno != i+1 {
			t.Fatalf("row %d Sno = %d", i, r.Sno)
		}
		got = append(got, r.Customer)
	}
	if want := []string{"New", "Mid", "Old"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("order = %v, want %v", got, want)
	}
}

func TestRecentVisitors(t *testing.T) {
	s := generalSnapshot()
	s, _ = Sell(s, "0001", "Ann", epoch)
	s, _ = CheckIn(s, "0001", 2, epoch)
	rows := RecentVisitors(s.Tickets)
	if len(rows) != 1 || rows[0].TicketID != "0001" || rows[0].VisitorSeats != 2 {
		t.Fatalf("RecentVisitors = %+v", rows)
	}
}
