package ledger

import (
	"math/big"
	"time"

	"github.com/veriledger/registry-attestation-backend/interfaces"
)

// Env assembles the per-operation Call context. One Env backs the whole
// process; the clock is injectable so tests control timestamps.
type Env struct {
	bank    *Bank
	journal *Journal
	clock   func() time.Time
}

// NewEnv creates an environment over the given bank and journal using the
// wall clock.
func NewEnv(bank *Bank, journal *Journal) *Env {
	return &Env{bank: bank, journal: journal, clock: time.Now}
}

// WithClock replaces the environment clock and returns the Env for chaining.
func (e *Env) WithClock(clock func() time.Time) *Env {
	e.clock = clock
	return e
}

// Call builds a value-free call context for the caller.
func (e *Env) Call(caller interfaces.Account) interfaces.Call {
	return interfaces.Call{Caller: caller, Value: new(big.Int), Now: e.clock()}
}

// PaidCall builds a call context with attached native value. The value is
// not moved here; the receiving engine deposits it as part of its operation.
func (e *Env) PaidCall(caller interfaces.Account, value *big.Int) interfaces.Call {
	if value == nil {
		value = new(big.Int)
	}
	return interfaces.Call{Caller: caller, Value: new(big.Int).Set(value), Now: e.clock()}
}

// Bank returns the environment's native-balance bank.
func (e *Env) Bank() *Bank { return e.bank }

// Journal returns the environment's event journal.
func (e *Env) Journal() *Journal { return e.journal }

// Now returns the environment timestamp.
func (e *Env) Now() time.Time { return e.clock() }
