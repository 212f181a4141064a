package ledger

import (
	"go.uber.org/atomic"

	"github.com/veriledger/registry-attestation-backend/interfaces"
)

// Guard is the re-entrancy latch for operations that perform external value
// transfers. A transfer's receive hook runs synchronously inside the guarded
// operation; if the hook calls back into the same operation, Enter observes
// the latch still held and rejects the nested call.
type Guard struct {
	busy atomic.Bool
}

// Enter acquires the latch, failing with ErrReentrant if it is already held.
// Callers must pair a successful Enter with a deferred Exit.
func (g *Guard) Enter() error {
	if !g.busy.CompareAndSwap(false, true) {
		return interfaces.ErrReentrant
	}
	return nil
}

// Exit releases the latch.
func (g *Guard) Exit() {
	g.busy.Store(false)
}
