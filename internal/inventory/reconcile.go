package inventory

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/iliyamo/event-ticket-dashboard/internal/model"
)

// StaleTicket is a pre-existing ticket that was carried forward although
// its metadata no longer matches the menu row covering it.  Reconcile
// reports these but does not rewrite them: the sold/visited state of a
// ticket outranks a later menu edit.
type StaleTicket struct {
	TicketID string          `json:"TicketID"`
	Ticket   model.Ticket    `json:"Ticket"`
	Entry    model.MenuEntry `json:"Entry"`
}

// ReconcileResult is the outcome of regenerating the ticket set.
type ReconcileResult struct {
	Tickets   []model.Ticket    // new ticket collection, replaces the old one wholesale
	Menu      []model.MenuEntry // menu with Alloc/Total_Capacity recomputed
	RowErrors []error           // per menu row problems; the rows were skipped
	Stale     []StaleTicket
}

// Reconcile regenerates tickets from the menu series.  Every ID in every
// parseable series is emitted once, in menu order.  IDs that already
// exist keep their whole record; new IDs start unsold with metadata from
// the menu row.  Existing tickets outside every series are dropped.
//
// A row with a malformed Series is skipped and reported, and so is a row
// whose Type is not Public or Guest, whose Admit is below 1, or whose
// Category repeats an earlier row of the same Type.  An ID covered
// by two rows is emitted for the first row only and the overlap is
// reported against the later one.
func Reconcile(menu []model.MenuEntry, existing []model.Ticket) ReconcileResult {
	res := ReconcileResult{Menu: RecomputeMenu(menu)}

	prior := make(map[string]model.Ticket, len(existing))
	for _, t := range existing {
		if _, ok := prior[t.TicketID]; !ok {
			prior[t.TicketID] = t
		}
	}

	emitted := make(map[string]int)
	categories := make(map[string]bool)
	for row, entry := range menu {
		series, err := ParseSeries(entry.Series)
		if err != nil {
			res.RowErrors = append(res.RowErrors, &MalformedSeriesError{Row: row, Series: entry.Series, Reason: reasonOf(err)})
			continue
		}
		typ, err := checkEntry(row, entry, categories)
		if err != nil {
			res.RowErrors = append(res.RowErrors, err)
			continue
		}
		entry.Type = typ
		res.Menu[row].Type = typ
		overlaps := 0
		for n := series.Start; n <= series.End; n++ {
			id := FormatTicketID(n)
			if _, dup := emitted[id]; dup {
				overlaps++
				continue
			}
			emitted[id] = row

			if t, ok := prior[id]; ok {
				if !matchesEntry(t, entry) {
					res.Stale = append(res.Stale, StaleTicket{TicketID: id, Ticket: t, Entry: entry})
				}
				res.Tickets = append(res.Tickets, t)
				continue
			}
			res.Tickets = append(res.Tickets, newTicket(id, entry))
		}
		if overlaps > 0 {
			res.RowErrors = append(res.RowErrors, &ValidationError{
				Field:  "series",
				Value:  entry.Series,
				Reason: fmt.Sprintf("menu row %d: %d ticket(s) already covered by an earlier row", row, overlaps),
			})
		}
	}
	if res.Tickets == nil {
		res.Tickets = []model.Ticket{}
	}
	return res
}

// RecomputeMenu returns a copy of menu with Alloc and TotalCapacity
// derived from Series and Admit.  Rows with a malformed Series keep
// whatever values they had.
func RecomputeMenu(menu []model.MenuEntry) []model.MenuEntry {
	out := make([]model.MenuEntry, len(menu))
	copy(out, menu)
	for i := range out {
		series, err := ParseSeries(out[i].Series)
		if err != nil {
			continue
		}
		out[i].Alloc = series.Len()
		out[i].TotalCapacity = out[i].Alloc * out[i].Admit
	}
	return out
}

// checkEntry validates the fields of a menu row other than Series and
// returns its canonical Type.  seen collects the Type/Category pairs of
// the rows accepted so far.
func checkEntry(row int, e model.MenuEntry, seen map[string]bool) (model.TicketType, error) {
	typ, ok := model.ParseTicketType(string(e.Type))
	if !ok {
		return "", menuRowError(row, "type", string(e.Type), "want Public or Guest")
	}
	category := strings.TrimSpace(e.Category)
	if category == "" {
		return "", menuRowError(row, "category", "", "empty")
	}
	if e.Admit < 1 {
		return "", menuRowError(row, "admit", strconv.Itoa(e.Admit), "must be at least 1")
	}
	key := string(typ) + "/" + strings.ToUpper(category)
	if seen[key] {
		return "", menuRowError(row, "category", e.Category, "already used by an earlier "+string(typ)+" row")
	}
	seen[key] = true
	return typ, nil
}

func menuRowError(row int, field, value, reason string) error {
	return &ValidationError{Field: field, Value: value, Reason: fmt.Sprintf("menu row %d: %s", row, reason)}
}

func newTicket(id string, entry model.MenuEntry) model.Ticket {
	return model.Ticket{
		TicketID: id,
		Type:     entry.Type,
		Category: entry.Category,
		Admit:    entry.Admit,
		Seq:      entry.Seq,
	}
}

func matchesEntry(t model.Ticket, e model.MenuEntry) bool {
	return t.Type == e.Type && t.Category == e.Category && t.Admit == e.Admit && seqEqual(t.Seq, e.Seq)
}

func seqEqual(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func reasonOf(err error) string {
	if v, ok := err.(*ValidationError); ok {
		return v.Reason
	}
	return err.Error()
}
