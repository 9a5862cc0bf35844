package inventory

import (
	"math"
	"sort"
	"strconv"

	"github.com/iliyamo/event-ticket-dashboard/internal/model"
)

// TotalLabel is the Seq value of the grand-total summary row.
const TotalLabel = "Total"

// SummaryRow is one line of the dashboard inventory table.  JSON names
// follow the column headers the operators already know.
type SummaryRow struct {
	Seq             string           `json:"Seq"`
	Type            model.TicketType `json:"Type"`
	Category        string           `json:"Category"`
	Admit           int              `json:"Admit"`
	TotalTickets    int              `json:"Total_Tickets"`
	TicketsSold     int              `json:"Tickets_Sold"`
	TotalSeats      int              `json:"Total_Seats"`
	SeatsSold       int              `json:"Seats_sold"`
	TotalVisitors   int              `json:"Total_Visitors"`
	BalanceTickets  int              `json:"Balance_Tickets"`
	BalanceSeats    int              `json:"Balance_Seats"`
	BalanceVisitors int              `json:"Balance_Visitors"`
}

type groupKey struct {
	hasSeq   bool
	seq      float64
	typ      model.TicketType
	category string
	admit    int
}

// Summarize groups tickets by (Seq, Type, Category, Admit), sorts the
// groups with SeqLess and appends a total row.  An empty input yields
// no rows at all.
func Summarize(tickets []model.Ticket) []SummaryRow {
	if len(tickets) == 0 {
		return []SummaryRow{}
	}
	groups := make(map[groupKey]*SummaryRow)
	keys := make([]groupKey, 0)
	for _, t := range tickets {
		k := groupKey{typ: t.Type, category: t.Category, admit: t.Admit}
		if t.Seq != nil {
			k.hasSeq, k.seq = true, *t.Seq
		}
		row, ok := groups[k]
		if !ok {
			row = &SummaryRow{Seq: formatSeq(t.Seq), Type: t.Type, Category: t.Category, Admit: t.Admit}
			groups[k] = row
			keys = append(keys, k)
		}
		row.TotalTickets++
		if t.Sold {
			row.TicketsSold++
		}
		row.TotalVisitors += t.VisitorSeats
	}

	sort.SliceStable(keys, func(i, j int) bool {
		a, b := keys[i], keys[j]
		ka, kb := sortKey(a.hasSeq, a.seq), sortKey(b.hasSeq, b.seq)
		if ka != kb {
			return ka < kb
		}
		if a.typ != b.typ {
			return a.typ < b.typ
		}
		if a.category != b.category {
			return a.category < b.category
		}
		return a.admit < b.admit
	})

	rows := make([]SummaryRow, 0, len(keys)+1)
	total := SummaryRow{Seq: TotalLabel}
	for _, k := range keys {
		r := *groups[k]
		r.TotalSeats = r.TotalTickets * r.Admit
		r.SeatsSold = r.TicketsSold * r.Admit
		r.BalanceTickets = r.TotalTickets - r.TicketsSold
		r.BalanceSeats = r.TotalSeats - r.SeatsSold
		r.BalanceVisitors = r.SeatsSold - r.TotalVisitors
		rows = append(rows, r)

		total.Admit += r.Admit
		total.TotalTickets += r.TotalTickets
		total.TicketsSold += r.TicketsSold
		total.TotalSeats += r.TotalSeats
		total.SeatsSold += r.SeatsSold
		total.TotalVisitors += r.TotalVisitors
		total.BalanceTickets += r.BalanceTickets
		total.BalanceSeats += r.BalanceSeats
		total.BalanceVisitors += r.BalanceVisitors
	}
	return append(rows, total)
}

// SeqLess orders two Seq values ascending with nil and zero last.
func SeqLess(a, b *float64) bool {
	return seqKey(a) < seqKey(b)
}

func seqKey(seq *float64) float64 {
	if seq == nil {
		return math.Inf(1)
	}
	return sortKey(true, *seq)
}

func sortKey(hasSeq bool, seq float64) float64 {
	if !hasSeq || seq == 0 || math.IsNaN(seq) {
		return math.Inf(1)
	}
	return seq
}

func formatSeq(seq *float64) string {
	if seq == nil {
		return ""
	}
	return strconv.FormatFloat(*seq, 'f', -1, 64)
}
