// Package repository implements the persistence gateway for the
// dashboard.  The two tables are only ever read whole and replaced
// whole; there are no row-level writes.
package repository

import "errors"

// ErrNoSnapshot is returned by a MemoryStore that was never seeded.
// SQL stores return empty slices instead.
var ErrNoSnapshot = errors.New("no snapshot stored")

// ErrInjected is a stock failure for arming MemoryStore.FailLoad and
// FailReplace.
var ErrInjected = errors.New("injected store failure")
