package repository

import (
	"context"
	"sync"

	"github.com/iliyamo/event-ticket-dashboard/internal/inventory"
	"github.com/iliyamo/event-ticket-dashboard/internal/model"
)

// MemoryStore keeps both tables in process.  It backs the service and
// handler tests.
type MemoryStore struct {
	mu       sync.Mutex
	snap     inventory.Snapshot
	seeded   bool
	loads    int
	replaces int

	// FailLoad and FailReplace, when non-nil, are returned by the next
	// matching calls instead of touching the data.
	FailLoad    error
	FailReplace error
}

// NewMemoryStore returns a store seeded with s.
func NewMemoryStore(s inventory.Snapshot) *MemoryStore {
	return &MemoryStore{snap: s.Clone(), seeded: true}
}

// Load returns a copy of the stored snapshot.
func (m *MemoryStore) Load(ctx context.Context) (inventory.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loads++
	if m.FailLoad != nil {
		return inventory.Snapshot{}, m.FailLoad
	}
	if !m.seeded {
		return inventory.Snapshot{}, ErrNoSnapshot
	}
	return m.snap.Clone(), nil
}

// ReplaceTickets overwrites the stored tickets.
func (m *MemoryStore) ReplaceTickets(ctx context.Context, tickets []model.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReplace != nil {
		return m.FailReplace
	}
	m.replaces++
	m.snap = inventory.Snapshot{Tickets: tickets, Menu: m.snap.Menu}.Clone()
	m.seeded = true
	return nil
}

// ReplaceAll overwrites both tables.
func (m *MemoryStore) ReplaceAll(ctx context.Context, tickets []model.Ticket, menu []model.MenuEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailReplace != nil {
		return m.FailReplace
	}
	m.replaces++
	m.snap = inventory.Snapshot{Tickets: tickets, Menu: menu}.Clone()
	m.seeded = true
	return nil
}

// Loads reports how many times Load was called.
func (m *MemoryStore) Loads() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.loads
}

// Replaces reports how many successful replace calls were made.
func (m *MemoryStore) Replaces() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.replaces
}
