package inventory

import (
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iliyamo/event-ticket-dashboard/internal/model"
)

// Operation names used in StateConflictError and audit events.
const (
	OpSell           = "sell"
	OpReverseSale    = "reverse_sale"
	OpBulkSell       = "bulk_sell"
	OpCheckIn        = "check_in"
	OpReverseCheckIn = "reverse_check_in"
	OpAdjustCheckIn  = "adjust_check_in"
	OpReset          = "reset"
	OpUpdateMenu     = "update_menu"
)

// MaxCustomerLength is the longest customer name, in characters, the
// tickets table stores.
const MaxCustomerLength = 255

// Family bundles admit partial attendance, so their check-in is edited
// seat by seat instead of being reversed outright.
var editableCategories = map[string]bool{
	"FAMILY SILVER": true,
	"FAMILY BRONZE": true,
}

// IsEditableCategory reports whether check-ins in category are adjusted
// with AdjustCheckIn rather than ReverseCheckIn.
func IsEditableCategory(category string) bool {
	return editableCategories[strings.ToUpper(strings.TrimSpace(category))]
}

// SaleRow is one line of a bulk sale.  A non-nil Err marks a line that
// was rejected before reaching the engine, such as an unparseable
// Ticket_ID; BulkSell records it as a failure in place.
type SaleRow struct {
	TicketID string
	Customer string
	Err      error
}

// RowFailure names a ticket a bulk operation could not apply and why.
type RowFailure struct {
	TicketID string
	Err      error
}

// BulkResult summarizes BulkSell.  FailedIDs preserves input order.
type BulkResult struct {
	SuccessCount int
	SucceededIDs []string
	FailedIDs    []string
	Failures     []RowFailure
}

// mutate applies fn to a copy of ticket id.  When fn fails the input
// snapshot is returned untouched.
func mutate(s Snapshot, id string, fn func(t *model.Ticket) error) (Snapshot, error) {
	for i := range s.Tickets {
		if s.Tickets[i].TicketID != id {
			continue
		}
		t := s.Tickets[i]
		if err := fn(&t); err != nil {
			return s, err
		}
		out := s.Clone()
		out.Tickets[i] = t
		return out, nil
	}
	return s, &NotFoundError{TicketID: id}
}

func stamp(now time.Time) *time.Time {
	ts := now
	return &ts
}

func sell(t *model.Ticket, customer string, now time.Time) error {
	if n := utf8.RuneCountInString(customer); n > MaxCustomerLength {
		return &ValidationError{
			Field:  "customer",
			Reason: "longer than " + strconv.Itoa(MaxCustomerLength) + " characters (" + strconv.Itoa(n) + ")",
		}
	}
	if t.Sold {
		return &StateConflictError{TicketID: t.TicketID, Op: OpSell, Reason: "already sold"}
	}
	t.Sold = true
	t.Customer = customer
	t.Timestamp = stamp(now)
	return nil
}

// Sell marks an unsold ticket as sold to customer.
func Sell(s Snapshot, id, customer string, now time.Time) (Snapshot, error) {
	return mutate(s, id, func(t *model.Ticket) error { return sell(t, customer, now) })
}

// ReverseSale returns a sold ticket to inventory, dropping any check-in.
func ReverseSale(s Snapshot, id string) (Snapshot, error) {
	return mutate(s, id, func(t *model.Ticket) error {
		if !t.Sold {
			return &StateConflictError{TicketID: id, Op: OpReverseSale, Reason: "not sold"}
		}
		t.ClearState()
		return nil
	})
}

// BulkSell sells every row independently.  A missing or already sold
// ticket, or an over-long customer name, is recorded as a failure and the batch continues; the returned
// snapshot carries every sale that succeeded.  A ticket listed twice
// fails the second time.
func BulkSell(s Snapshot, rows []SaleRow, now time.Time) (Snapshot, BulkResult) {
	out := s.Clone()
	idx := indexByID(out.Tickets)
	res := BulkResult{FailedIDs: []string{}, SucceededIDs: []string{}}
	for _, row := range rows {
		if row.Err != nil {
			res.Fail(row.TicketID, row.Err)
			continue
		}
		i, ok := idx[row.TicketID]
		if !ok {
			res.Fail(row.TicketID, &NotFoundError{TicketID: row.TicketID})
			continue
		}
		t := out.Tickets[i]
		if err := sell(&t, row.Customer, now); err != nil {
			res.Fail(row.TicketID, err)
			continue
		}
		out.Tickets[i] = t
		res.SuccessCount++
		res.SucceededIDs = append(res.SucceededIDs, row.TicketID)
	}
	if res.SuccessCount == 0 {
		return s, res
	}
	return out, res
}

// Fail records a failed row.
func (r *BulkResult) Fail(id string, err error) {
	r.FailedIDs = append(r.FailedIDs, id)
	r.Failures = append(r.Failures, RowFailure{TicketID: id, Err: err})
}

// CheckIn records the arrival of seats visitors on a sold ticket.
func CheckIn(s Snapshot, id string, seats int, now time.Time) (Snapshot, error) {
	return mutate(s, id, func(t *model.Ticket) error {
		switch {
		case !t.Sold:
			return &StateConflictError{TicketID: id, Op: OpCheckIn, Reason: "not sold"}
		case t.Visited:
			return &StateConflictError{TicketID: id, Op: OpCheckIn, Reason: "already checked in"}
		case seats < 1 || seats > t.Admit:
			return seatRangeError(seats, 1, t.Admit)
		}
		t.Visited = true
		t.VisitorSeats = seats
		t.Timestamp = stamp(now)
		return nil
	})
}

// ReverseCheckIn undoes the check-in of a ticket whose category is not
// editable.
func ReverseCheckIn(s Snapshot, id string) (Snapshot, error) {
	return mutate(s, id, func(t *model.Ticket) error {
		switch {
		case !t.Visited:
			return &StateConflictError{TicketID: id, Op: OpReverseCheckIn, Reason: "not checked in"}
		case IsEditableCategory(t.Category):
			return &StateConflictError{TicketID: id, Op: OpReverseCheckIn, Reason: "category " + t.Category + " is adjusted, not reversed"}
		}
		clearVisit(t)
		return nil
	})
}

// AdjustCheckIn changes the seat count of a checked-in ticket in an
// editable category.  Zero seats removes the check-in.
func AdjustCheckIn(s Snapshot, id string, seats int, now time.Time) (Snapshot, error) {
	return mutate(s, id, func(t *model.Ticket) error {
		switch {
		case !t.Visited:
			return &StateConflictError{TicketID: id, Op: OpAdjustCheckIn, Reason: "not checked in"}
		case !IsEditableCategory(t.Category):
			return &StateConflictError{TicketID: id, Op: OpAdjustCheckIn, Reason: "category " + t.Category + " does not allow seat edits"}
		case seats < 0 || seats > t.Admit:
			return seatRangeError(seats, 0, t.Admit)
		}
		if seats == 0 {
			clearVisit(t)
			return nil
		}
		t.VisitorSeats = seats
		t.Timestamp = stamp(now)
		return nil
	})
}

// Reset clears sale and visit state on every ticket.  authorized is the
// caller's admin capability; the engine does not check secrets itself.
func Reset(s Snapshot, authorized bool) (Snapshot, error) {
	if !authorized {
		return s, ErrUnauthorized
	}
	out := s.Clone()
	for i := range out.Tickets {
		out.Tickets[i].ClearState()
	}
	return out, nil
}

func clearVisit(t *model.Ticket) {
	t.Visited = false
	t.VisitorSeats = 0
	t.Timestamp = nil
}

func seatRangeError(seats, lo, hi int) error {
	return &ValidationError{
		Field:  "seats",
		Value:  strconv.Itoa(seats),
		Reason: "must be between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi),
	}
}
