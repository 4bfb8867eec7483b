package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAccount(t *testing.T) {
	s := NewStore()

	a, err := s.CreateAccount("Alice", 100)
	require.NoError(t, err)
	assert.NotEmpty(t, a.ID)
	assert.Equal(t, "Alice", a.Name)
	assert.Equal(t, int64(100), a.Balance)
	assert.False(t, a.CreatedAt.IsZero())
}

func TestCreateAccountNegativeBalance(t *testing.T) {
	s := NewStore()

	_, err := s.CreateAccount("Alice", -1)
	require.ErrorIs(t, err, ErrInvalidAmount)
	assert.Empty(t, s.Accounts())
}

func TestCreateAccountAllowsDuplicateNames(t *testing.T) {
	s := NewStore()

	a, err := s.CreateAccount("Alice", 0)
	require.NoError(t, err)
	b, err := s.CreateAccount("Alice", 0)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAccountLookup(t *testing.T) {
	s := NewStore()

	a, err := s.CreateAccount("Alice", 100)
	require.NoError(t, err)

	got, ok := s.Account(a.ID)
	require.True(t, ok)
	assert.Equal(t, a, got)

	_, ok = s.Account("no-such-id")
	assert.False(t, ok)
}

func TestAccountsCreationOrder(t *testing.T) {
	s := NewStore()

	names := []string{"Alice", "Bob", "Carol"}
	for _, n := range names {
		_, err := s.CreateAccount(n, 0)
		require.NoError(t, err)
	}

	accounts := s.Accounts()
	require.Len(t, accounts, len(names))
	for i, n := range names {
		assert.Equal(t, n, accounts[i].Name)
	}
}

func TestAccountReturnsSnapshot(t *testing.T) {
	s := NewStore()

	a, err := s.CreateAccount("Alice", 100)
	require.NoError(t, err)

	got, ok := s.Account(a.ID)
	require.True(t, ok)
	got.Balance = 9999

	again, ok := s.Account(a.ID)
	require.True(t, ok)
	assert.Equal(t, int64(100), again.Balance)
}

func TestAdjustBalance(t *testing.T) {
	s := NewStore()

	a, err := s.CreateAccount("Alice", 100)
	require.NoError(t, err)

	got, err := s.AdjustBalance(a.ID, 50)
	require.NoError(t, err)
	assert.Equal(t, int64(150), got)

	got, err = s.AdjustBalance(a.ID, -30)
	require.NoError(t, err)
	assert.Equal(t, int64(120), got)

	_, err = s.AdjustBalance("no-such-id", 10)
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestMoveBalance(t *testing.T) {
	s := NewStore()

	alice, err := s.CreateAccount("Alice", 100)
	require.NoError(t, err)
	bob, err := s.CreateAccount("Bob", 50)
	require.NoError(t, err)

	require.NoError(t, s.MoveBalance(alice.ID, bob.ID, 20))

	a, _ := s.Account(alice.ID)
	b, _ := s.Account(bob.ID)
	assert.Equal(t, int64(80), a.Balance)
	assert.Equal(t, int64(70), b.Balance)

	assert.ErrorIs(t, s.MoveBalance("no-such-id", bob.ID, 10), ErrAccountNotFound)
	assert.ErrorIs(t, s.MoveBalance(alice.ID, "no-such-id", 10), ErrAccountNotFound)
}

func TestEntriesFor(t *testing.T) {
	s := NewStore()

	alice, err := s.CreateAccount("Alice", 100)
	require.NoError(t, err)
	bob, err := s.CreateAccount("Bob", 50)
	require.NoError(t, err)

	now := time.Now().UTC()
	s.AppendEntry(LogEntry{ID: "e1", Kind: KindDeposit, ToAccountID: alice.ID, Amount: 50, Timestamp: now})
	s.AppendEntry(LogEntry{ID: "e2", Kind: KindWithdraw, FromAccountID: bob.ID, Amount: 10, Timestamp: now})
	s.AppendEntry(LogEntry{ID: "e3", Kind: KindTransfer, FromAccountID: alice.ID, ToAccountID: bob.ID, Amount: 20, Timestamp: now})

	aliceEntries, err := s.EntriesFor(alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceEntries, 2)
	assert.Equal(t, "e1", aliceEntries[0].ID)
	assert.Equal(t, "e3", aliceEntries[1].ID)

	bobEntries, err := s.EntriesFor(bob.ID)
	require.NoError(t, err)
	require.Len(t, bobEntries, 2)
	assert.Equal(t, "e2", bobEntries[0].ID)
	assert.Equal(t, "e3", bobEntries[1].ID)

	_, err = s.EntriesFor("no-such-id")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestEntriesSnapshotIsolated(t *testing.T) {
	s := NewStore()

	s.AppendEntry(LogEntry{ID: "e1", Kind: KindDeposit, Amount: 1})
	entries := s.Entries()
	require.Len(t, entries, 1)

	entries[0].ID = "mutated"
	assert.Equal(t, "e1", s.Entries()[0].ID)
}
