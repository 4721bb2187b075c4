// Package ledger implements the authoritative in-memory transaction
// collection. Every mutation re-serializes the whole collection to the
// backing key-value store; persistence is best-effort and the in-memory
// state is the source of truth for the session.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"fintrack/internal/core"
	"fintrack/internal/kv"
	applog "fintrack/internal/log"
)

// ErrPersistFailed wraps a storage write failure that happened after the
// mutation was already applied in memory. Callers should surface it as a
// warning, not roll anything back; the next successful write reconciles.
var ErrPersistFailed = errors.New("persist transactions")

// Store owns the transaction collection and is the only component allowed
// to mutate it. New records are prepended, so insertion order is
// most-recent-first; display ordering is a read-time concern.
type Store struct {
	mu    sync.Mutex
	kv    kv.Store
	key   string
	log   *applog.Logger
	items []core.Transaction
}

// New creates a store backed by the given key-value store under a fixed
// storage key. Call Load before serving reads.
func New(store kv.Store, key string) *Store {
	return &Store{
		kv:  store,
		key: key,
		log: applog.ForComponent(applog.ComponentLedger),
	}
}

// Load reads the persisted collection once at startup. A missing or
// unreadable payload is non-fatal: the collection starts empty and the
// problem is logged.
func (s *Store) Load(ctx context.Context) {
	data, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to read stored transactions, starting empty",
			applog.FieldKey, s.key, applog.FieldError, err)
		return
	}
	if !ok {
		s.log.InfoContext(ctx, "No stored transactions found", applog.FieldKey, s.key)
		return
	}
	txs, err := Decode(data)
	if err != nil {
		s.log.ErrorContext(ctx, "Stored transactions are unreadable, starting empty",
			applog.FieldKey, s.key, applog.FieldError, err)
		return
	}
	s.mu.Lock()
	s.items = txs
	s.mu.Unlock()
	s.log.InfoContext(ctx, "Transactions loaded",
		applog.FieldKey, s.key, applog.FieldCount, len(txs))
}

// Add validates the draft, assigns a fresh id and prepends the new record.
// The returned error is a validation error or ErrPersistFailed; in the
// latter case the record was still added in memory.
func (s *Store) Add(ctx context.Context, d core.Draft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := uuid.NewString()
	for s.indexOfLocked(id) >= 0 {
		id = uuid.NewString()
	}
	tx := core.Transaction{
		ID:          id,
		Type:        d.Type,
		Category:    d.Category,
		Amount:      d.Amount,
		Date:        d.Date,
		Description: d.Description,
	}
	s.items = append([]core.Transaction{tx}, s.items...)

	s.log.InfoContext(ctx, "Transaction added",
		applog.FieldTransactionID, tx.ID,
		applog.FieldType, tx.Type,
		applog.FieldCategory, tx.Category,
		applog.FieldAmount, tx.Amount,
		applog.FieldDate, tx.Date.String())

	return tx, s.persistLocked(ctx)
}

// Update replaces the record matching tx.ID in place, preserving its
// position. An unknown id is a no-op: stale references from the
// presentation layer must not create records or fail loudly.
func (s *Store) Update(ctx context.Context, tx core.Transaction) error {
	if err := tx.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(tx.ID)
	if i < 0 {
		s.log.DebugContext(ctx, "Update for unknown transaction ignored",
			applog.FieldTransactionID, tx.ID)
		return nil
	}
	s.items[i] = tx

	s.log.InfoContext(ctx, "Transaction updated",
		applog.FieldTransactionID, tx.ID,
		applog.FieldType, tx.Type,
		applog.FieldCategory, tx.Category,
		applog.FieldAmount, tx.Amount)

	return s.persistLocked(ctx)
}

// Delete removes the record with the given id if present. Deleting an
// absent id is a no-op, so the operation is idempotent.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOfLocked(id)
	if i < 0 {
		s.log.DebugContext(ctx, "Delete for unknown transaction ignored",
			applog.FieldTransactionID, id)
		return nil
	}
	s.items = append(s.items[:i], s.items[i+1:]...)

	s.log.InfoContext(ctx, "Transaction deleted", applog.FieldTransactionID, id)

	return s.persistLocked(ctx)
}

// List returns a copy of the full collection in insertion order. No
// filtering or sorting is applied here.
func (s *Store) List() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.items))
	copy(out, s.items)
	return out
}

// Len returns the number of records.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) indexOfLocked(id string) int {
	for i, tx := range s.items {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

// persistLocked writes the whole collection to the backing store. Failures
// are logged and reported through ErrPersistFailed without touching the
// in-memory state.
func (s *Store) persistLocked(ctx context.Context) error {
	data, err := Encode(s.items)
	if err == nil {
		err = s.kv.Set(ctx, s.key, data)
	}
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to persist transactions",
			applog.FieldKey, s.key,
			applog.FieldCount, len(s.items),
			applog.FieldError, err)
		return fmt.Errorf("%w: %w", ErrPersistFailed, err)
	}
	return nil
}
