package ledger

import (
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veriledger/registry-attestation-backend/interfaces"
)

func TestJournalAppendOrdering(t *testing.T) {
	j := NewJournal()
	now := time.Now()

	assert.Equal(t, 0, j.Len())
	assert.Equal(t, common.Hash{}, j.Head())

	rec0 := j.Append(now, interfaces.RoleGranted{Account: alice, Role: interfaces.RoleCurator, Sender: bob})
	rec1 := j.Append(now, interfaces.ItemRegistered{ID: 0, Submitter: alice, URI: "ipfs://x", Timestamp: now})
	rec2 := j.Append(now, interfaces.ItemStatusUpdated{ID: 0, Verified: true, Active: true, Timestamp: now})

	assert.Equal(t, uint64(0), rec0.Sequence)
	assert.Equal(t, uint64(1), rec1.Sequence)
	assert.Equal(t, uint64(2), rec2.Sequence)
	assert.Equal(t, 3, j.Len())
	assert.Equal(t, rec2.Digest, j.Head())

	require.NoError(t, j.Verify())
}

func TestJournalDigestChainIsDeterministic(t *testing.T) {
	now := time.Now()
	events := []interfaces.Event{
		interfaces.RoleGranted{Account: alice, Role: interfaces.RoleAdmin, Sender: bob},
		interfaces.DocumentCreated{ID: 1, Creator: alice, DocumentHash: "0xdead"},
		interfaces.DocumentSigned{ID: 1, Signer: bob},
	}

	a, b := NewJournal(), NewJournal()
	for _, ev := range events {
		a.Append(now, ev)
		b.Append(now, ev)
	}
	assert.Equal(t, a.Head(), b.Head())

	// Divergence in any payload diverges the head.
	c := NewJournal()
	c.Append(now, events[0])
	c.Append(now, interfaces.DocumentCreated{ID: 1, Creator: alice, DocumentHash: "0xbeef"})
	c.Append(now, events[2])
	assert.NotEqual(t, a.Head(), c.Head())
}

func TestJournalRecordsFrom(t *testing.T) {
	j := NewJournal()
	now := time.Now()
	for i := 0; i < 5; i++ {
		j.Append(now, interfaces.DocumentSigned{ID: uint64(i), Signer: alice})
	}

	all := j.Records(0)
	require.Len(t, all, 5)

	tail := j.Records(3)
	require.Len(t, tail, 2)
	assert.Equal(t, uint64(3), tail[0].Sequence)
	assert.Equal(t, uint64(4), tail[1].Sequence)

	assert.Nil(t, j.Records(5))
	assert.Nil(t, j.Records(100))
}

func TestJournalByName(t *testing.T) {
	j := NewJournal()
	now := time.Now()

	j.Append(now, interfaces.DocumentCreated{ID: 1, Creator: alice, DocumentHash: "0x01"})
	j.Append(now, interfaces.DocumentSigned{ID: 1, Signer: alice})
	j.Append(now, interfaces.DocumentSigned{ID: 1, Signer: bob})
	j.Append(now, interfaces.DocumentCompleted{ID: 1})

	signed := j.ByName(interfaces.EventDocumentSigned)
	require.Len(t, signed, 2)
	assert.Equal(t, uint64(1), signed[0].Sequence)
	assert.Equal(t, uint64(2), signed[1].Sequence)

	assert.Len(t, j.ByName(interfaces.EventDocumentCompleted), 1)
	assert.Empty(t, j.ByName(interfaces.EventDocumentRevoked))
}
