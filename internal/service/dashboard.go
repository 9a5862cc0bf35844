// Package service coordinates the inventory engines with persistence.
// Every write is a read-modify-write of the whole snapshot: load through
// the cache, apply a pure transition, replace the tables, invalidate.
package service

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/iliyamo/event-ticket-dashboard/internal/cache"
	"github.com/iliyamo/event-ticket-dashboard/internal/inventory"
	"github.com/iliyamo/event-ticket-dashboard/internal/model"
	"github.com/iliyamo/event-ticket-dashboard/internal/queue"
)

// Store is the persistence gateway.  ReplaceAll and ReplaceTickets are
// each expected to be atomic.
type Store interface {
	Load(ctx context.Context) (inventory.Snapshot, error)
	ReplaceAll(ctx context.Context, tickets []model.Ticket, menu []model.MenuEntry) error
	ReplaceTickets(ctx context.Context, tickets []model.Ticket) error
}

// EventPublisher receives one event per persisted write.
type EventPublisher interface {
	Publish(ctx context.Context, ev queue.TicketEvent) error
}

const publishTimeout = 10 * time.Second

// Dashboard serves reads from the snapshot cache and serializes writes
// within the process.
type Dashboard struct {
	store  Store
	cache  *cache.Snapshot
	events EventPublisher
	now    func() time.Time
	hooks  []func(ctx context.Context)

	mu      sync.Mutex // serializes writes
	pending sync.WaitGroup
}

// Option customizes a Dashboard.
type Option func(*Dashboard)

// WithClock overrides time.Now for timestamps.
func WithClock(now func() time.Time) Option { return func(d *Dashboard) { d.now = now } }

// WithEvents publishes audit events after each write.
func WithEvents(p EventPublisher) Option { return func(d *Dashboard) { d.events = p } }

// WithInvalidationHook registers fn to run after every cache
// invalidation, for example to purge shared HTTP response caches.
func WithInvalidationHook(fn func(ctx context.Context)) Option {
	return func(d *Dashboard) { d.hooks = append(d.hooks, fn) }
}

// NewDashboard wires store and snapshot cache c.  A nil cache disables
// caching.
func NewDashboard(store Store, c *cache.Snapshot, opts ...Option) *Dashboard {
	d := &Dashboard{store: store, cache: c, now: time.Now}
	for _, opt := range opts {
		opt(d)
	}
	if d.cache == nil {
		d.cache = cache.NewSnapshot(0, d.now)
	}
	return d
}

type operatorKey struct{}

// WithOperator tags ctx with the operator performing a write.  The name
// is copied into audit events.
func WithOperator(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operatorKey{}, name)
}

func operatorFrom(ctx context.Context) string {
	name, _ := ctx.Value(operatorKey{}).(string)
	return name
}

// Snapshot returns the current tickets and menu.
func (d *Dashboard) Snapshot(ctx context.Context) (inventory.Snapshot, error) {
	return d.cache.GetOrLoad(ctx, d.load)
}

func (d *Dashboard) load(ctx context.Context) (inventory.Snapshot, error) {
	s, err := d.store.Load(ctx)
	if err != nil {
		return inventory.Snapshot{}, &inventory.StoreUnavailableError{Op: "load", Err: err}
	}
	return s, nil
}

// Refresh drops the cached snapshot and loads it again.
func (d *Dashboard) Refresh(ctx context.Context) (inventory.Snapshot, error) {
	d.invalidate(ctx)
	return d.Snapshot(ctx)
}

// Summary returns the aggregated dashboard rows with the total row last.
func (d *Dashboard) Summary(ctx context.Context) ([]inventory.SummaryRow, error) {
	s, err := d.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.Summarize(s.Tickets), nil
}

// MenuView returns the menu sorted by Seq with derived columns filled.
func (d *Dashboard) MenuView(ctx context.Context) ([]model.MenuEntry, error) {
	s, err := d.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.SortMenu(s.Menu), nil
}

// Categories lists the menu categories offered for typ.
func (d *Dashboard) Categories(ctx context.Context, typ model.TicketType) ([]string, error) {
	s, err := d.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.Categories(s.Menu, typ), nil
}

// Tickets returns the selection list described by f.
func (d *Dashboard) Tickets(ctx context.Context, f inventory.Filter) ([]model.Ticket, error) {
	s, err := d.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.Select(s.Tickets, f), nil
}

// RecentSales returns sold tickets, newest first.
func (d *Dashboard) RecentSales(ctx context.Context) ([]inventory.HistoryRow, error) {
	s, err := d.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.RecentSales(s.Tickets), nil
}

// RecentVisitors returns checked-in tickets, newest first.
func (d *Dashboard) RecentVisitors(ctx context.Context) ([]inventory.HistoryRow, error) {
	s, err := d.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.RecentVisitors(s.Tickets), nil
}

// Integrity reports stored tickets that break the ticket invariants.
func (d *Dashboard) Integrity(ctx context.Context) ([]inventory.Violation, error) {
	s, err := d.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return inventory.Validate(s.Tickets), nil
}

// Sell sells ticket id to customer.
func (d *Dashboard) Sell(ctx context.Context, id, customer string) (model.Ticket, error) {
	return d.writeOne(ctx, inventory.OpSell, id, func(s inventory.Snapshot, now time.Time) (inventory.Snapshot, error) {
		return inventory.Sell(s, id, customer, now)
	})
}

// ReverseSale returns ticket id to inventory.
func (d *Dashboard) ReverseSale(ctx context.Context, id string) (model.Ticket, error) {
	return d.writeOne(ctx, inventory.OpReverseSale, id, func(s inventory.Snapshot, _ time.Time) (inventory.Snapshot, error) {
		return inventory.ReverseSale(s, id)
	})
}

// CheckIn admits seats visitors on ticket id.
func (d *Dashboard) CheckIn(ctx context.Context, id string, seats int) (model.Ticket, error) {
	return d.writeOne(ctx, inventory.OpCheckIn, id, func(s inventory.Snapshot, now time.Time) (inventory.Snapshot, error) {
		return inventory.CheckIn(s, id, seats, now)
	})
}

// ReverseCheckIn undoes the check-in of ticket id.
func (d *Dashboard) ReverseCheckIn(ctx context.Context, id string) (model.Ticket, error) {
	return d.writeOne(ctx, inventory.OpReverseCheckIn, id, func(s inventory.Snapshot, _ time.Time) (inventory.Snapshot, error) {
		return inventory.ReverseCheckIn(s, id)
	})
}

// AdjustCheckIn sets the admitted seat count of a family ticket.
func (d *Dashboard) AdjustCheckIn(ctx context.Context, id string, seats int) (model.Ticket, error) {
	return d.writeOne(ctx, inventory.OpAdjustCheckIn, id, func(s inventory.Snapshot, now time.Time) (inventory.Snapshot, error) {
		return inventory.AdjustCheckIn(s, id, seats, now)
	})
}

func (d *Dashboard) writeOne(ctx context.Context, op, id string, fn func(inventory.Snapshot, time.Time) (inventory.Snapshot, error)) (model.Ticket, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.Snapshot(ctx)
	if err != nil {
		return model.Ticket{}, err
	}
	now := d.now()
	next, err := fn(s, now)
	if err != nil {
		return model.Ticket{}, err
	}
	if err := d.persistTickets(ctx, op, next.Tickets); err != nil {
		return model.Ticket{}, err
	}
	t, _ := next.Find(id)
	ev := queue.NewTicketEvent(op, now, id)
	ev.Customer = t.Customer
	ev.Seats = t.VisitorSeats
	d.publish(ctx, ev)
	return t, nil
}

// BulkSell sells every row that can be sold and reports the rest.  The
// tickets table is rewritten only when at least one row succeeded.
func (d *Dashboard) BulkSell(ctx context.Context, rows []inventory.SaleRow) (inventory.BulkResult, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.Snapshot(ctx)
	if err != nil {
		return inventory.BulkResult{}, err
	}
	now := d.now()
	next, res := inventory.BulkSell(s, rows, now)
	if res.SuccessCount == 0 {
		return res, nil
	}
	if err := d.persistTickets(ctx, inventory.OpBulkSell, next.Tickets); err != nil {
		return inventory.BulkResult{}, err
	}
	ev := queue.NewTicketEvent(inventory.OpBulkSell, now, res.SucceededIDs...)
	ev.Failed = len(res.FailedIDs)
	d.publish(ctx, ev)
	return res, nil
}

// Reset clears every sale and check-in.  authorized is the result of the
// caller's admin check.
func (d *Dashboard) Reset(ctx context.Context, authorized bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.Snapshot(ctx)
	if err != nil {
		return err
	}
	next, err := inventory.Reset(s, authorized)
	if err != nil {
		return err
	}
	if err := d.persistTickets(ctx, inventory.OpReset, next.Tickets); err != nil {
		return err
	}
	d.publish(ctx, queue.NewTicketEvent(inventory.OpReset, d.now()))
	return nil
}

// UpdateMenu replaces the menu and regenerates tickets from it, keeping
// the state of tickets that survive.  Malformed rows are skipped and
// reported in the result.
func (d *Dashboard) UpdateMenu(ctx context.Context, menu []model.MenuEntry, authorized bool) (inventory.ReconcileResult, error) {
	if !authorized {
		return inventory.ReconcileResult{}, inventory.ErrUnauthorized
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	s, err := d.Snapshot(ctx)
	if err != nil {
		return inventory.ReconcileResult{}, err
	}
	res := inventory.Reconcile(menu, s.Tickets)
	if err := d.store.ReplaceAll(ctx, res.Tickets, res.Menu); err != nil {
		return inventory.ReconcileResult{}, &inventory.StoreUnavailableError{Op: inventory.OpUpdateMenu, Err: err}
	}
	d.invalidate(ctx)
	ev := queue.NewTicketEvent(inventory.OpUpdateMenu, d.now())
	ev.Seats = len(res.Tickets)
	ev.Failed = len(res.RowErrors)
	d.publish(ctx, ev)
	return res, nil
}

func (d *Dashboard) persistTickets(ctx context.Context, op string, tickets []model.Ticket) error {
	if err := d.store.ReplaceTickets(ctx, tickets); err != nil {
		return &inventory.StoreUnavailableError{Op: op, Err: err}
	}
	d.invalidate(ctx)
	return nil
}

func (d *Dashboard) invalidate(ctx context.Context) {
	d.cache.Invalidate()
	for _, fn := range d.hooks {
		fn(ctx)
	}
}

// publish sends ev in the background.  A broker outage never fails the
// write that produced the event.
func (d *Dashboard) publish(ctx context.Context, ev queue.TicketEvent) {
	if d.events == nil {
		return
	}
	ev.Operator = operatorFrom(ctx)
	d.pending.Add(1)
	go func() {
		defer d.pending.Done()
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		defer cancel()
		if err := d.events.Publish(pctx, ev); err != nil && !errors.Is(err, context.Canceled) {
			log.Printf("service: publish %s event failed: %v", ev.Action, err)
		}
	}()
}

// Drain waits for in-flight event publishes.
func (d *Dashboard) Drain() { d.pending.Wait() }
