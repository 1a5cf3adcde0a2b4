// Package wasmctx implements the per-invocation context cell,
// an opaque aggregate attached to an executing instance, reachable from
// host callbacks that run on the guest's stack, holding storage, querier,
// open iterators, the readonly flag and gas state. It is the Go answer to
// "host callback closures need mutable access to state that doesn't exist
// yet when the closures are registered", grounded on the
// teacher's hostCtx in core/virtual_machine.go (HeavyVM's registerHost),
// generalized from a single in-memory KVStore field to the full backend
// trio plus iterator bookkeeping a context cell needs.
package wasmctx

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/vortexchain/wasmhost/internal/backend"
	"github.com/vortexchain/wasmhost/internal/gas"
)

// ErrBorrowConflict is returned by WithStorage/WithQuerier when a host
// callback re-enters the same cell while already holding a borrow; two
// nested host callbacks both trying to mutably borrow storage must fail
// rather than alias a mutable reference.
var ErrBorrowConflict = fmt.Errorf("borrow-conflict")

// ErrNotAttached is returned when a storage/querier operation runs
// against a cell that has no backend attached, e.g. after move_out, or
// before move_in. It is a backend error, never undefined behavior.
var ErrNotAttached = fmt.Errorf("backend not attached to context")

// Cell is the per-invocation mutable slot. Exactly one Cell exists per
// guest invocation; it must never be a package-level global.
type Cell struct {
	id uuid.UUID

	mu       sync.Mutex
	storage  backend.Storage
	querier  backend.Querier
	address  backend.AddressCodec
	readonly bool

	iterMu   sync.Mutex
	iters    map[uint32]backend.Iterator
	nextIter uint32

	borrowed int32 // atomic flag: 0 = free, 1 = held

	Gas *gas.State
}

// New constructs an empty cell; Gas must be set by the caller before any
// host-function handler runs against it.
func New(g *gas.State) *Cell {
	return &Cell{id: uuid.New(), iters: make(map[uint32]backend.Iterator), Gas: g}
}

// ID is the invocation-correlation identifier; internal/instance attaches
// it as the "cell" field of the instance's log entries.
func (c *Cell) ID() uuid.UUID { return c.id }

// MoveIn deposits storage, querier and the address codec into the cell
// before a call begins.
func (c *Cell) MoveIn(storage backend.Storage, querier backend.Querier, addr backend.AddressCodec) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.storage = storage
	c.querier = querier
	c.address = addr
}

// MoveOut releases all open iterators (iterators borrow storage
// semantically and must die first), then returns storage and querier to
// the outer caller, leaving the cell empty.
func (c *Cell) MoveOut() (backend.Storage, backend.Querier) {
	c.iterMu.Lock()
	c.iters = make(map[uint32]backend.Iterator)
	c.iterMu.Unlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	s, q := c.storage, c.querier
	c.storage, c.querier, c.address = nil, nil, nil
	return s, q
}

// SetStorageReadonly toggles the readonly flag around query-like
// entrypoints so mutating imports reject.
func (c *Cell) SetStorageReadonly(ro bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.readonly = ro
}

// Readonly reports the current readonly flag.
func (c *Cell) Readonly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readonly
}

// WithStorage lends a mutable reference to the inner Storage to f for the
// duration of the call only. Re-entrant calls on the same cell fail
// ErrBorrowConflict instead of aliasing.
func (c *Cell) WithStorage(f func(backend.Storage) (interface{}, error)) (interface{}, error) {
	if !atomic.CompareAndSwapInt32(&c.borrowed, 0, 1) {
		return nil, ErrBorrowConflict
	}
	defer atomic.StoreInt32(&c.borrowed, 0)

	c.mu.Lock()
	s := c.storage
	c.mu.Unlock()
	if s == nil {
		return nil, ErrNotAttached
	}
	return f(s)
}

// WithQuerier lends a reference to the inner Querier for the duration of
// the call only, with the same borrow-conflict semantics as WithStorage.
func (c *Cell) WithQuerier(f func(backend.Querier) (interface{}, error)) (interface{}, error) {
	if !atomic.CompareAndSwapInt32(&c.borrowed, 0, 1) {
		return nil, ErrBorrowConflict
	}
	defer atomic.StoreInt32(&c.borrowed, 0)

	c.mu.Lock()
	q := c.querier
	c.mu.Unlock()
	if q == nil {
		return nil, ErrNotAttached
	}
	return f(q)
}

// Address returns the attached address codec, or ErrNotAttached.
func (c *Cell) Address() (backend.AddressCodec, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.address == nil {
		return nil, ErrNotAttached
	}
	return c.address, nil
}

// RegisterIterator allocates the next small-int id and stores iter under
// it. Ids are unique per cell, never across invocations.
func (c *Cell) RegisterIterator(iter backend.Iterator) uint32 {
	c.iterMu.Lock()
	defer c.iterMu.Unlock()
	c.nextIter++
	id := c.nextIter
	c.iters[id] = iter
	return id
}

// Iterator looks up an iterator by id. An unknown id returns ok=false;
// the caller must surface a backend error, never a trap.
func (c *Cell) Iterator(id uint32) (backend.Iterator, bool) {
	c.iterMu.Lock()
	defer c.iterMu.Unlock()
	it, ok := c.iters[id]
	return it, ok
}
