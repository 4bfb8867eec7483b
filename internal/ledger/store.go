package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store holds the account records and the global append-only
// transaction log. Its mutex makes each primitive atomic on its own;
// it provides no operation-level atomicity. The Coordinator layers
// per-account locking on top and is the only permitted caller of the
// balance-mutating primitives.
type Store struct {
	mu       sync.RWMutex
	accounts map[string]*Account
	order    []string // account ids in creation order
	log      []LogEntry
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{accounts: make(map[string]*Account)}
}

// CreateAccount registers a new account under a fresh id. Duplicate
// names are allowed here; name uniqueness is a boundary-layer policy.
func (s *Store) CreateAccount(name string, initialBalance int64) (Account, error) {
	if initialBalance < 0 {
		return Account{}, fmt.Errorf("initial balance %d: %w", initialBalance, ErrInvalidAmount)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	a := &Account{
		ID:        uuid.NewString(),
		Name:      name,
		Balance:   initialBalance,
		CreatedAt: time.Now().UTC(),
	}
	s.accounts[a.ID] = a
	s.order = append(s.order, a.ID)
	return *a, nil
}

// Account returns a snapshot of the account. A miss is an expected
// result, not an error.
func (s *Store) Account(id string) (Account, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.accounts[id]
	if !ok {
		return Account{}, false
	}
	return *a, true
}

// Accounts returns snapshots of all accounts in creation order.
func (s *Store) Accounts() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Account, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.accounts[id])
	}
	return out
}

// AdjustBalance applies a signed delta to one account and returns the
// new balance. Callers must hold the account's coordinator lock; this
// primitive does not validate the result against the non-negative
// invariant, that check belongs to the critical section above it.
func (s *Store) AdjustBalance(id string, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.accounts[id]
	if !ok {
		return 0, ErrAccountNotFound
	}
	a.Balance += delta
	return a.Balance, nil
}

// MoveBalance debits fromID and credits toID under a single mutex
// hold, so no reader can observe a state where only one side of the
// transfer has been applied.
func (s *Store) MoveBalance(fromID, toID string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	from, ok := s.accounts[fromID]
	if !ok {
		return ErrAccountNotFound
	}
	to, ok := s.accounts[toID]
	if !ok {
		return ErrAccountNotFound
	}
	from.Balance -= amount
	to.Balance += amount
	return nil
}

// AppendEntry appends to the global log. Entries are immutable once
// appended and are never removed.
func (s *Store) AppendEntry(e LogEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.log = append(s.log, e)
}

// EntriesFor returns the log entries where id is source or
// destination, in append order.
func (s *Store) EntriesFor(id string) ([]LogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.accounts[id]; !ok {
		return nil, ErrAccountNotFound
	}
	var out []LogEntry
	for _, e := range s.log {
		if e.FromAccountID == id || e.ToAccountID == id {
			out = append(out, e)
		}
	}
	return out, nil
}

// Entries returns the full log in append order.
func (s *Store) Entries() []LogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]LogEntry, len(s.log))
	copy(out, s.log)
	return out
}
