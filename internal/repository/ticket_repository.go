package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/event-ticket-dashboard/internal/inventory"
	"github.com/iliyamo/event-ticket-dashboard/internal/model"
)

// insertChunk caps the rows per INSERT statement.
const insertChunk = 1000

// TicketRepo reads and replaces the tickets table.
type TicketRepo struct {
	db     *sql.DB
	legacy *time.Location
}

// NewTicketRepo constructs a TicketRepo with the given DB handle.  legacy
// is the zone of timestamps stored without an offset; nil means
// time.Local.
func NewTicketRepo(db *sql.DB, legacy *time.Location) *TicketRepo {
	if legacy == nil {
		legacy = time.Local
	}
	return &TicketRepo{db: db, legacy: legacy}
}

// ListAll returns every ticket ordered by ticket_id.  Nullable columns
// are normalized the way the dashboard always has: missing seats are 0,
// missing flags are false, missing admit is 1 and ids are zero-padded.
func (r *TicketRepo) ListAll(ctx context.Context) ([]model.Ticket, error) {
	const q = `SELECT ticket_id, type, category, admit, seq, sold, customer, visited, visitor_seats, ts
	           FROM tickets
	           ORDER BY ticket_id`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.Ticket, 0)
	for rows.Next() {
		var (
			id, typ, category, customer, ts sql.NullString
			admit, seats                    sql.NullInt64
			seq                             sql.NullFloat64
			sold, visited                   sql.NullBool
		)
		if err := rows.Scan(&id, &typ, &category, &admit, &seq, &sold, &customer, &visited, &seats, &ts); err != nil {
			return nil, err
		}
		t := model.Ticket{
			TicketID:     padID(id.String),
			Type:         model.TicketType(typ.String),
			Category:     category.String,
			Admit:        1,
			Sold:         sold.Valid && sold.Bool,
			Customer:     customer.String,
			Visited:      visited.Valid && visited.Bool,
			VisitorSeats: int(seats.Int64),
			Timestamp:    parseTimestamp(ts.String, r.legacy),
		}
		if admit.Valid {
			t.Admit = int(admit.Int64)
		}
		if seq.Valid {
			v := seq.Float64
			t.Seq = &v
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ReplaceAllTx deletes every ticket and inserts tickets inside tx.  The
// caller commits or rolls back.
func (r *TicketRepo) ReplaceAllTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM tickets`); err != nil {
		return err
	}
	for start := 0; start < len(tickets); start += insertChunk {
		end := start + insertChunk
		if end > len(tickets) {
			end = len(tickets)
		}
		if err := r.insertTx(ctx, tx, tickets[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *TicketRepo) insertTx(ctx context.Context, tx *sql.Tx, tickets []model.Ticket) error {
	var b strings.Builder
	b.WriteString(`INSERT INTO tickets (ticket_id, type, category, admit, seq, sold, customer, visited, visitor_seats, ts) VALUES `)
	args := make([]interface{}, 0, len(tickets)*10)
	for i, t := range tickets {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			t.TicketID, string(t.Type), t.Category, t.Admit, nullSeq(t.Seq),
			t.Sold, t.Customer, t.Visited, t.VisitorSeats, formatTimestamp(t.Timestamp),
		)
	}
	_, err := tx.ExecContext(ctx, b.String(), args...)
	return err
}

func nullSeq(seq *float64) any {
	if seq == nil {
		return nil
	}
	return *seq
}

// padID left-pads numeric ids that lost their zeros in a spreadsheet
// round trip.  Anything else is returned trimmed.
func padID(raw string) string {
	if id, err := inventory.NormalizeTicketID(raw); err == nil {
		return id
	}
	return strings.TrimSpace(raw)
}
