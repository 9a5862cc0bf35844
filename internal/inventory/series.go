package inventory

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// TicketIDWidth is the fixed width TicketIDs are zero-padded to.
const TicketIDWidth = 4

// MaxTicketNumber is the largest number that fits in TicketIDWidth.
const MaxTicketNumber = 9999

// Series is an inclusive ticket number range.
type Series struct {
	Start int
	End   int
}

// ParseSeries parses "start-end".  The string must contain exactly one
// '-' and both sides must be integers; surrounding whitespace is allowed.
func ParseSeries(s string) (Series, error) {
	raw := strings.TrimSpace(s)
	parts := strings.Split(raw, "-")
	if len(parts) != 2 {
		return Series{}, &ValidationError{Field: "series", Value: s, Reason: "want exactly one '-' separator"}
	}
	start, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Series{}, &ValidationError{Field: "series", Value: s, Reason: "start is not an integer"}
	}
	end, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Series{}, &ValidationError{Field: "series", Value: s, Reason: "end is not an integer"}
	}
	if start > MaxTicketNumber || end > MaxTicketNumber {
		return Series{}, &ValidationError{Field: "series", Value: s, Reason: fmt.Sprintf("ticket numbers stop at %d", MaxTicketNumber)}
	}
	return Series{Start: start, End: end}, nil
}

// Len is the number of tickets in the range; an inverted range is empty.
func (s Series) Len() int {
	if n := s.End - s.Start + 1; n > 0 {
		return n
	}
	return 0
}

func (s Series) String() string { return fmt.Sprintf("%d-%d", s.Start, s.End) }

// FormatTicketID renders n as a zero-padded TicketID.
func FormatTicketID(n int) string {
	return fmt.Sprintf("%0*d", TicketIDWidth, n)
}

// NormalizeTicketID converts external input ("7", "0007", "7.0" from a
// spreadsheet cell) into the canonical TicketID.
func NormalizeTicketID(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return "", &ValidationError{Field: "ticket_id", Reason: "empty"}
	}
	if n, err := strconv.Atoi(s); err == nil && n >= 0 {
		return FormatTicketID(n), nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f >= 0 && f == math.Trunc(f) && f < math.MaxInt32 {
		return FormatTicketID(int(f)), nil
	}
	return "", &ValidationError{Field: "ticket_id", Value: raw, Reason: "not a non-negative integer"}
}
