package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/iliyamo/event-ticket-dashboard/internal/model"
)

// MenuRepo reads and replaces the menu table.  Row order survives a
// round trip through the position column.
type MenuRepo struct {
	db *sql.DB
}

// NewMenuRepo constructs a MenuRepo with the given DB handle.
func NewMenuRepo(db *sql.DB) *MenuRepo {
	return &MenuRepo{db: db}
}

// ListAll returns every menu row in the order it was written.
func (r *MenuRepo) ListAll(ctx context.Context) ([]model.MenuEntry, error) {
	const q = `SELECT type, category, series, admit, seq, alloc, total_capacity
	           FROM menu
	           ORDER BY position`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]model.MenuEntry, 0)
	for rows.Next() {
		var (
			typ, category, series       sql.NullString
			admit, alloc, totalCapacity sql.NullInt64
			seq                         sql.NullFloat64
		)
		if err := rows.Scan(&typ, &category, &series, &admit, &seq, &alloc, &totalCapacity); err != nil {
			return nil, err
		}
		e := model.MenuEntry{
			Type:          model.TicketType(typ.String),
			Category:      category.String,
			Series:        series.String,
			Admit:         1,
			Alloc:         int(alloc.Int64),
			TotalCapacity: int(totalCapacity.Int64),
		}
		if admit.Valid {
			e.Admit = int(admit.Int64)
		}
		if seq.Valid {
			v := seq.Float64
			e.Seq = &v
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ReplaceAllTx deletes every menu row and inserts menu inside tx.
func (r *MenuRepo) ReplaceAllTx(ctx context.Context, tx *sql.Tx, menu []model.MenuEntry) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM menu`); err != nil {
		return err
	}
	if len(menu) == 0 {
		return nil
	}
	var b strings.Builder
	b.WriteString(`INSERT INTO menu (position, type, category, series, admit, seq, alloc, total_capacity) VALUES `)
	args := make([]interface{}, 0, len(menu)*8)
	for i, e := range menu {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("(?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args, i+1, string(e.Type), e.Category, e.Series, e.Admit, nullSeq(e.Seq), e.Alloc, e.TotalCapacity)
	}
	_, err := tx.ExecContext(ctx, b.String(), args...)
	return err
}
