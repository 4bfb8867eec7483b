// Package audit provides a tamper-evident, hash-chained record of
// committed ledger operations. Each record's hash covers the previous
// record's hash, so any edit or removal breaks verification for every
// record after it.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"
)

// Operation describes one committed ledger mutation.
type Operation struct {
	Kind          string `json:"kind"`
	FromAccountID string `json:"from_account_id,omitempty"`
	ToAccountID   string `json:"to_account_id,omitempty"`
	Amount        int64  `json:"amount"`
	Timestamp     string `json:"timestamp"`
}

// Record is one link in the chain.
type Record struct {
	Sequence     int       `json:"sequence"`
	PreviousHash string    `json:"previous_hash"`
	Operation    Operation `json:"operation"`
	Hash         string    `json:"hash"`
}

// ChainLogger accumulates operation records with hash chaining.
type ChainLogger struct {
	mu           sync.Mutex
	previousHash string
	records      []Record
}

// NewChainLogger returns a logger whose chain starts from a zero hash.
func NewChainLogger() *ChainLogger {
	return &ChainLogger{previousHash: strings.Repeat("0", 64)}
}

// Append links a new operation record onto the chain and returns it.
func (c *ChainLogger) Append(op Operation) *Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	rec := Record{
		Sequence:     len(c.records),
		PreviousHash: c.previousHash,
		Operation:    op,
	}
	rec.Hash = hashRecord(rec.PreviousHash, op)

	c.previousHash = rec.Hash
	c.records = append(c.records, rec)
	return &rec
}

// Records returns a copy of the chain in append order.
func (c *ChainLogger) Records() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Record, len(c.records))
	copy(out, c.records)
	return out
}

// VerifyChain reports whether the records form an unbroken, unaltered
// hash chain.
func VerifyChain(records []Record) bool {
	for i, rec := range records {
		if i > 0 && rec.PreviousHash != records[i-1].Hash {
			return false
		}
		if hashRecord(rec.PreviousHash, rec.Operation) != rec.Hash {
			return false
		}
	}
	return true
}

func hashRecord(previousHash string, op Operation) string {
	input := fmt.Sprintf("%s|%s|%s|%s|%d|%s",
		previousHash, op.Kind, op.FromAccountID, op.ToAccountID, op.Amount, op.Timestamp)
	sum := sha256.Sum256([]byte(input))
	return hex.EncodeToString(sum[:])
}
