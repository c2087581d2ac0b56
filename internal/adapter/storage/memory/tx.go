package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var errForeignTx = errors.New("memory: transaction not opened by this store")

// Tx is the in-process unit of work. Writes apply immediately and push an
// undo step; Rollback replays the steps in reverse. Every row a unit of work
// writes is staged with its committed image, and reads made without a Tx
// see that image until the outermost Tx ends. Row locks taken through lock
// are held until then too.
//
// Only Begin, Commit and Rollback are implemented. Calling any other pgx.Tx
// method panics.
type Tx struct {
	pgx.Tx

	store  *Store
	root   *Tx
	parent *Tx
	undo   []func()
	held   map[string]struct{}
	staged []string
	stock  map[uuid.UUID]int
	closed bool
}

// Begin opens a savepoint.
func (t *Tx) Begin(ctx context.Context) (pgx.Tx, error) {
	if t.closed {
		return nil, pgx.ErrTxClosed
	}
	return &Tx{store: t.store, root: t.root, parent: t}, nil
}

// Commit keeps the writes. A savepoint hands its undo steps to its parent.
func (t *Tx) Commit(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true
	if t.parent != nil {
		t.parent.undo = append(t.parent.undo, t.undo...)
		t.undo = nil
		return nil
	}
	t.undo = nil

	t.store.mu.Lock()
	t.settle()
	t.store.mu.Unlock()
	t.release()
	return nil
}

// Rollback discards every write made through this Tx.
func (t *Tx) Rollback(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.closed = true

	t.store.mu.Lock()
	for i := len(t.undo) - 1; i >= 0; i-- {
		t.undo[i]()
	}
	t.undo = nil
	if t.parent == nil {
		t.settle()
	}
	t.store.mu.Unlock()

	if t.parent == nil {
		t.release()
	}
	return nil
}

// lock takes the row lock for key until the unit of work ends.
func (t *Tx) lock(ctx context.Context, key string) error {
	r := t.root
	if _, ok := r.held[key]; ok {
		return nil
	}
	if err := t.store.locks.acquire(ctx, key); err != nil {
		return fmt.Errorf("lock %s: %w", key, err)
	}
	r.held[key] = struct{}{}
	return nil
}

// record pushes an undo step. Callers hold store.mu.
func (t *Tx) record(fn func()) {
	t.undo = append(t.undo, fn)
}

// stage keeps prev as the image outside readers see for key until the unit
// of work ends. Only the first write to a key is staged. Callers hold
// store.mu.
func (t *Tx) stage(key string, prev any) {
	if _, ok := t.store.pending[key]; ok {
		return
	}
	r := t.root
	t.store.pending[key] = pendingRow{owner: r, prev: prev}
	r.staged = append(r.staged, key)
}

// stageStock hides an uncommitted stock delta from outside readers.
// Callers hold store.mu.
func (t *Tx) stageStock(productID uuid.UUID, delta int) {
	t.root.stock[productID] += delta
	t.store.pendingStock[productID] += delta
	if t.store.pendingStock[productID] == 0 {
		delete(t.store.pendingStock, productID)
	}
}

// settle publishes the root unit of work's rows to outside readers. After a
// rollback the undo steps have already restored the committed images.
// Callers hold store.mu.
func (t *Tx) settle() {
	for _, key := range t.staged {
		if p, ok := t.store.pending[key]; ok && p.owner == t {
			delete(t.store.pending, key)
		}
	}
	for productID, delta := range t.stock {
		if delta != 0 {
			t.store.pendingStock[productID] -= delta
			if t.store.pendingStock[productID] == 0 {
				delete(t.store.pendingStock, productID)
			}
		}
	}
	t.staged = nil
	t.stock = nil
}

func (t *Tx) release() {
	for key := range t.held {
		t.store.locks.release(key)
	}
	t.held = nil
}

// asTx unwraps a pgx.Tx handed to a memory repository.
func asTx(tx pgx.Tx) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok {
		return nil, errForeignTx
	}
	if t.closed {
		return nil, pgx.ErrTxClosed
	}
	return t, nil
}

// keyLocks is a set of context-aware mutexes keyed by row identity.
type keyLocks struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func (l *keyLocks) slot(key string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.slots == nil {
		l.slots = make(map[string]chan struct{})
	}
	ch, ok := l.slots[key]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[key] = ch
	}
	return ch
}

func (l *keyLocks) acquire(ctx context.Context, key string) error {
	select {
	case l.slot(key) <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *keyLocks) release(key string) {
	<-l.slot(key)
}

// Transactor implements ports.DBTransactor over a Store.
type Transactor struct {
	store *Store
}

// NewTransactor creates a new Transactor.
func NewTransactor(s *Store) *Transactor {
	return &Transactor{store: s}
}

// Begin opens a unit of work.
func (tr *Transactor) Begin(ctx context.Context) (pgx.Tx, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	t := &Tx{store: tr.store, held: make(map[string]struct{}), stock: make(map[uuid.UUID]int)}
	t.root = t
	return t, nil
}

// HealthCheck implements ports.HealthChecker for the in-process store.
type HealthCheck struct{}

func NewHealthCheck() *HealthCheck { return &HealthCheck{} }

func (h *HealthCheck) Ping(ctx context.Context) error { return nil }

func (h *HealthCheck) Name() string { return "memory" }
