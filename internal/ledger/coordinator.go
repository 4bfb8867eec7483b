package ledger

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/example/bank-ledger/pkg/audit"
)

// Auditor receives a tamper-evident record of every committed
// operation. It is a side channel: Append cannot fail and its outcome
// never affects the operation result.
type Auditor interface {
	Append(op audit.Operation) *audit.Record
}

// Coordinator is the only writer of account balances. It layers
// per-account mutual exclusion over the Store so that each
// operation's read-validate-mutate-append span is a single critical
// section, and it orders multi-account lock acquisition by account id
// so concurrent transfers cannot deadlock.
//
// A caller contending for a held lock blocks until the holder
// releases it; there is no fail-fast path.
type Coordinator struct {
	store   *Store
	locks   sync.Map // account id -> *sync.Mutex, created on first use
	logger  *slog.Logger
	auditor Auditor
}

// NewCoordinator wires a coordinator over store. logger and auditor
// are optional observability sinks.
func NewCoordinator(store *Store, logger *slog.Logger, auditor Auditor) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{store: store, logger: logger, auditor: auditor}
}

func (c *Coordinator) lockFor(id string) *sync.Mutex {
	mu, _ := c.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// CreateAccount registers a new account. Fails with ErrInvalidAmount
// if initialBalance is negative.
func (c *Coordinator) CreateAccount(ctx context.Context, name string, initialBalance int64) (Account, error) {
	a, err := c.store.CreateAccount(name, initialBalance)
	if err != nil {
		return Account{}, err
	}
	c.logger.InfoContext(ctx, "account_created", "account_id", a.ID, "name", a.Name, "balance", a.Balance)
	return a, nil
}

// GetAccount returns a snapshot of the account.
func (c *Coordinator) GetAccount(ctx context.Context, id string) (Account, error) {
	a, ok := c.store.Account(id)
	if !ok {
		return Account{}, fmt.Errorf("account %s: %w", id, ErrAccountNotFound)
	}
	return a, nil
}

// ListAccounts returns all accounts in creation order.
func (c *Coordinator) ListAccounts(ctx context.Context) ([]Account, error) {
	return c.store.Accounts(), nil
}

// Deposit credits amount to the account and appends a deposit entry.
func (c *Coordinator) Deposit(ctx context.Context, accountID string, amount int64) (LogEntry, error) {
	if amount <= 0 {
		return LogEntry{}, ErrInvalidAmount
	}

	mu := c.lockFor(accountID)
	mu.Lock()
	defer mu.Unlock()

	if _, ok := c.store.Account(accountID); !ok {
		return LogEntry{}, fmt.Errorf("account %s: %w", accountID, ErrAccountNotFound)
	}
	if _, err := c.store.AdjustBalance(accountID, amount); err != nil {
		return LogEntry{}, err
	}
	return c.commit(ctx, KindDeposit, "", accountID, amount), nil
}

// Withdraw debits amount from the account and appends a withdraw
// entry. The balance check happens inside the critical section: a
// check taken before the lock could be stale by the time the mutation
// runs.
func (c *Coordinator) Withdraw(ctx context.Context, accountID string, amount int64) (LogEntry, error) {
	if amount <= 0 {
		return LogEntry{}, ErrInvalidAmount
	}

	mu := c.lockFor(accountID)
	mu.Lock()
	defer mu.Unlock()

	a, ok := c.store.Account(accountID)
	if !ok {
		return LogEntry{}, fmt.Errorf("account %s: %w", accountID, ErrAccountNotFound)
	}
	if a.Balance < amount {
		return LogEntry{}, fmt.Errorf("withdraw %d from balance %d: %w", amount, a.Balance, ErrInsufficientFunds)
	}
	if _, err := c.store.AdjustBalance(accountID, -amount); err != nil {
		return LogEntry{}, err
	}
	return c.commit(ctx, KindWithdraw, accountID, "", amount), nil
}

// Transfer moves amount from one account to another as one indivisible
// step and appends a single transfer entry referencing both.
//
// Both locks are acquired in lexicographic id order regardless of
// transfer direction, so any two concurrent transfers take a shared
// account's lock in the same relative order and no wait-for cycle can
// form. The deferred unlocks release in the mirror order.
func (c *Coordinator) Transfer(ctx context.Context, fromID, toID string, amount int64) (LogEntry, error) {
	if amount <= 0 {
		return LogEntry{}, ErrInvalidAmount
	}
	if fromID == toID {
		return LogEntry{}, fmt.Errorf("account %s: %w", fromID, ErrSelfTransfer)
	}

	first, second := fromID, toID
	if second < first {
		first, second = second, first
	}
	firstMu := c.lockFor(first)
	firstMu.Lock()
	defer firstMu.Unlock()
	secondMu := c.lockFor(second)
	secondMu.Lock()
	defer secondMu.Unlock()

	from, ok := c.store.Account(fromID)
	if !ok {
		return LogEntry{}, fmt.Errorf("account %s: %w", fromID, ErrAccountNotFound)
	}
	if _, ok := c.store.Account(toID); !ok {
		return LogEntry{}, fmt.Errorf("account %s: %w", toID, ErrAccountNotFound)
	}
	if from.Balance < amount {
		return LogEntry{}, fmt.Errorf("transfer %d from balance %d: %w", amount, from.Balance, ErrInsufficientFunds)
	}
	if err := c.store.MoveBalance(fromID, toID, amount); err != nil {
		return LogEntry{}, err
	}
	return c.commit(ctx, KindTransfer, fromID, toID, amount), nil
}

// Transactions returns the log entries touching the account, in
// append order. Fails with ErrAccountNotFound on an unknown id.
func (c *Coordinator) Transactions(ctx context.Context, accountID string) ([]LogEntry, error) {
	entries, err := c.store.EntriesFor(accountID)
	if err != nil {
		return nil, fmt.Errorf("account %s: %w", accountID, err)
	}
	return entries, nil
}

// AllTransactions returns the full log in append order.
func (c *Coordinator) AllTransactions(ctx context.Context) ([]LogEntry, error) {
	return c.store.Entries(), nil
}

// commit appends the log entry for a finished mutation and notifies
// the observability sinks. Callers hold the account lock(s), so the
// append is ordered with the balance change it records.
func (c *Coordinator) commit(ctx context.Context, kind Kind, fromID, toID string, amount int64) LogEntry {
	entry := LogEntry{
		ID:            uuid.NewString(),
		Kind:          kind,
		FromAccountID: fromID,
		ToAccountID:   toID,
		Amount:        amount,
		Timestamp:     time.Now().UTC(),
	}
	c.store.AppendEntry(entry)

	c.logger.InfoContext(ctx, "ledger_operation",
		"kind", string(kind),
		"entry_id", entry.ID,
		"from_account_id", fromID,
		"to_account_id", toID,
		"amount", amount,
	)
	if c.auditor != nil {
		c.auditor.Append(audit.Operation{
			Kind:          string(kind),
			FromAccountID: fromID,
			ToAccountID:   toID,
			Amount:        amount,
			Timestamp:     entry.Timestamp.Format(time.RFC3339Nano),
		})
	}
	return entry
}
