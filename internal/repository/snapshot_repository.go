package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/iliyamo/event-ticket-dashboard/internal/inventory"
	"github.com/iliyamo/event-ticket-dashboard/internal/model"
)

// SnapshotRepo loads and replaces both tables.  Each replace runs in a
// single transaction, so readers see either the old tables or the new
// ones.
type SnapshotRepo struct {
	db      *sql.DB
	tickets *TicketRepo
	menu    *MenuRepo
}

// NewSnapshotRepo constructs a SnapshotRepo with the given DB handle.
// legacy is passed through to NewTicketRepo.
func NewSnapshotRepo(db *sql.DB, legacy *time.Location) *SnapshotRepo {
	return &SnapshotRepo{db: db, tickets: NewTicketRepo(db, legacy), menu: NewMenuRepo(db)}
}

// Load reads both tables.
func (r *SnapshotRepo) Load(ctx context.Context) (inventory.Snapshot, error) {
	tickets, err := r.tickets.ListAll(ctx)
	if err != nil {
		return inventory.Snapshot{}, fmt.Errorf("load tickets: %w", err)
	}
	menu, err := r.menu.ListAll(ctx)
	if err != nil {
		return inventory.Snapshot{}, fmt.Errorf("load menu: %w", err)
	}
	return inventory.Snapshot{Tickets: tickets, Menu: menu}, nil
}

// ReplaceTickets overwrites the tickets table.
func (r *SnapshotRepo) ReplaceTickets(ctx context.Context, tickets []model.Ticket) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return r.tickets.ReplaceAllTx(ctx, tx, tickets)
	})
}

// ReplaceAll overwrites both tables in one transaction.
func (r *SnapshotRepo) ReplaceAll(ctx context.Context, tickets []model.Ticket, menu []model.MenuEntry) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		if err := r.tickets.ReplaceAllTx(ctx, tx, tickets); err != nil {
			return fmt.Errorf("replace tickets: %w", err)
		}
		if err := r.menu.ReplaceAllTx(ctx, tx, menu); err != nil {
			return fmt.Errorf("replace menu: %w", err)
		}
		return nil
	})
}

func (r *SnapshotRepo) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()
	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}
