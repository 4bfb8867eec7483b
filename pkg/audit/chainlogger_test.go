package audit

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendLinksRecords(t *testing.T) {
	c := NewChainLogger()

	first := c.Append(Operation{Kind: "deposit", ToAccountID: "a1", Amount: 50, Timestamp: "t1"})
	second := c.Append(Operation{Kind: "withdraw", FromAccountID: "a1", Amount: 20, Timestamp: "t2"})

	assert.Equal(t, 0, first.Sequence)
	assert.Equal(t, strings.Repeat("0", 64), first.PreviousHash)
	assert.Equal(t, 1, second.Sequence)
	assert.Equal(t, first.Hash, second.PreviousHash)
	assert.NotEqual(t, first.Hash, second.Hash)
}

func TestVerifyChain(t *testing.T) {
	c := NewChainLogger()
	c.Append(Operation{Kind: "deposit", ToAccountID: "a1", Amount: 50, Timestamp: "t1"})
	c.Append(Operation{Kind: "transfer", FromAccountID: "a1", ToAccountID: "a2", Amount: 10, Timestamp: "t2"})
	c.Append(Operation{Kind: "withdraw", FromAccountID: "a2", Amount: 5, Timestamp: "t3"})

	records := c.Records()
	require.Len(t, records, 3)
	assert.True(t, VerifyChain(records))
	assert.True(t, VerifyChain(nil))
}

func TestVerifyChainDetectsTampering(t *testing.T) {
	c := NewChainLogger()
	c.Append(Operation{Kind: "deposit", ToAccountID: "a1", Amount: 50, Timestamp: "t1"})
	c.Append(Operation{Kind: "withdraw", FromAccountID: "a1", Amount: 20, Timestamp: "t2"})

	tampered := c.Records()
	tampered[0].Operation.Amount = 5000
	assert.False(t, VerifyChain(tampered))

	removed := c.Records()[1:]
	assert.False(t, VerifyChain(removed))
}

func TestRecordsReturnsCopy(t *testing.T) {
	c := NewChainLogger()
	c.Append(Operation{Kind: "deposit", Amount: 1, Timestamp: "t1"})

	records := c.Records()
	records[0].Hash = "mutated"
	assert.True(t, VerifyChain(c.Records()))
}

func TestConcurrentAppends(t *testing.T) {
	c := NewChainLogger()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				c.Append(Operation{Kind: "deposit", ToAccountID: "a1", Amount: 1, Timestamp: "t"})
			}
		}()
	}
	wg.Wait()

	records := c.Records()
	require.Len(t, records, 500)
	assert.True(t, VerifyChain(records))
}
