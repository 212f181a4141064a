package ledger

import (
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/veriledger/registry-attestation-backend/interfaces"
)

// ErrInsufficientFunds is returned when a transfer exceeds the sender's
// native balance. It is an environment-level failure, distinct from the
// engines' ErrInsufficientFee.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrTransferRejected wraps a receive hook error when the recipient refuses
// an incoming transfer. The transfer is fully reversed before it is returned.
var ErrTransferRejected = errors.New("transfer rejected by recipient")

// ReceiveHook is invoked after value is credited to the hooked account.
// Returning an error rejects the transfer and reverses it. The hook runs
// outside the bank lock, so its body may call back into the bank or into an
// engine; guarded engine operations reject such re-entry.
type ReceiveHook func(from interfaces.Account, amount *big.Int) error

// Bank tracks native value balances per account. It is the authoritative
// holder of the fee treasury balance: engines never mirror it internally, so
// a failed withdrawal transfer leaves nothing to reconcile.
type Bank struct {
	mu       sync.Mutex
	balances map[interfaces.Account]*big.Int
	hooks    map[interfaces.Account]ReceiveHook
}

// NewBank creates an empty bank. Fund accounts with Mint before attaching
// value to calls.
func NewBank() *Bank {
	return &Bank{
		balances: make(map[interfaces.Account]*big.Int),
		hooks:    make(map[interfaces.Account]ReceiveHook),
	}
}

// Mint credits amount to the account out of thin air. Genesis and faucet
// only; ordinary value movement goes through Transfer.
func (b *Bank) Mint(account interfaces.Account, amount *big.Int) {
	if amount == nil || amount.Sign() <= 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.credit(account, amount)
}

// BalanceOf returns a copy of the account's balance.
func (b *Bank) BalanceOf(account interfaces.Account) *big.Int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if bal, ok := b.balances[account]; ok {
		return new(big.Int).Set(bal)
	}
	return new(big.Int)
}

// SetReceiveHook installs a hook invoked whenever the account receives a
// transfer. A nil hook removes any previous one.
func (b *Bank) SetReceiveHook(account interfaces.Account, hook ReceiveHook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if hook == nil {
		delete(b.hooks, account)
		return
	}
	b.hooks[account] = hook
}

// Transfer moves amount from one account to another. The balance movement
// happens first; the recipient's receive hook (if any) runs after, outside
// the lock. A hook error reverses the movement and surfaces as
// ErrTransferRejected. A zero amount is a no-op that still invokes the hook,
// matching native transfers of zero value.
func (b *Bank) Transfer(from, to interfaces.Account, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return fmt.Errorf("%w: negative transfer amount", interfaces.ErrInvalidInput)
	}

	b.mu.Lock()
	bal := b.balances[from]
	if amount.Sign() > 0 {
		if bal == nil || bal.Cmp(amount) < 0 {
			b.mu.Unlock()
			return fmt.Errorf("%w: account %s", ErrInsufficientFunds, from)
		}
		bal.Sub(bal, amount)
		b.credit(to, amount)
	}
	hook := b.hooks[to]
	b.mu.Unlock()

	if hook != nil {
		if err := hook(from, amount); err != nil {
			b.mu.Lock()
			if amount.Sign() > 0 {
				b.balances[to].Sub(b.balances[to], amount)
				b.credit(from, amount)
			}
			b.mu.Unlock()
			return fmt.Errorf("%w: %w", ErrTransferRejected, err)
		}
	}
	return nil
}

// credit adds amount to the account balance. Caller holds the lock.
func (b *Bank) credit(account interfaces.Account, amount *big.Int) {
	if bal, ok := b.balances[account]; ok {
		bal.Add(bal, amount)
		return
	}
	b.balances[account] = new(big.Int).Set(amount)
}
