package ledger

import "time"

// Kind identifies the operation that produced a log entry.
type Kind string

const (
	KindDeposit  Kind = "deposit"
	KindWithdraw Kind = "withdraw"
	KindTransfer Kind = "transfer"
)

// Account is a named balance holder. Balance is stored in minor
// currency units (cents) and is never negative.
type Account struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Balance   int64     `json:"balance"`
	CreatedAt time.Time `json:"created_at"`
}

// LogEntry is an immutable record of one completed financial
// operation. FromAccountID is set for withdrawals and transfers,
// ToAccountID for deposits and transfers; a transfer produces a
// single entry referencing both accounts. Amount is always positive.
type LogEntry struct {
	ID            string    `json:"id"`
	Kind          Kind      `json:"kind"`
	FromAccountID string    `json:"from_account_id,omitempty"`
	ToAccountID   string    `json:"to_account_id,omitempty"`
	Amount        int64     `json:"amount"`
	Timestamp     time.Time `json:"timestamp"`
}
