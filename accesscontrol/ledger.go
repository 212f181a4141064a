package accesscontrol

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/veriledger/registry-attestation-backend/interfaces"
	"github.com/veriledger/registry-attestation-backend/ledger"
)

// Ledger holds role grants and the owner identity. All mutations are
// serialized behind one lock; each either fully applies and emits its event
// or fails with no effect.
type Ledger struct {
	mu      sync.RWMutex
	owner   interfaces.Account
	grants  map[interfaces.Account]map[interfaces.Role]bool
	journal *ledger.Journal
	log     *slog.Logger
}

// New creates a ledger owned by owner. The owner holds ADMIN immediately,
// before any explicit grant.
func New(owner interfaces.Account, journal *ledger.Journal, log *slog.Logger) (*Ledger, error) {
	if owner == interfaces.ZeroAccount {
		return nil, interfaces.ErrInvalidAccount
	}
	l := &Ledger{
		owner:   owner,
		grants:  make(map[interfaces.Account]map[interfaces.Role]bool),
		journal: journal,
		log:     log,
	}
	l.setGrant(owner, interfaces.RoleAdmin, true)
	return l, nil
}

// Owner returns the current owner identity.
func (l *Ledger) Owner() interfaces.Account {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.owner
}

// HasRole reports whether the account currently holds the role.
func (l *Ledger) HasRole(account interfaces.Account, role interfaces.Role) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.grants[account][role]
}

// GrantRole sets the grant for (account, role). The caller must hold ADMIN,
// the account must be non-zero, and the role must not already be held.
func (l *Ledger) GrantRole(call interfaces.Call, account interfaces.Account, role interfaces.Role) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.grants[call.Caller][interfaces.RoleAdmin] {
		return fmt.Errorf("%w: caller %s lacks %s", interfaces.ErrUnauthorized, call.Caller, interfaces.RoleAdmin)
	}
	if account == interfaces.ZeroAccount {
		return interfaces.ErrInvalidAccount
	}
	if !role.Valid() {
		return interfaces.ErrInvalidRole
	}
	if l.grants[account][role] {
		return interfaces.ErrAlreadyGranted
	}

	l.setGrant(account, role, true)
	l.journal.Append(call.Now, interfaces.RoleGranted{Account: account, Role: role, Sender: call.Caller})
	l.log.Info("role granted", "account", account, "role", role, "sender", call.Caller)
	return nil
}

// RevokeRole clears the grant for (account, role). The caller must hold
// ADMIN and the role must currently be held.
func (l *Ledger) RevokeRole(call interfaces.Call, account interfaces.Account, role interfaces.Role) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.grants[call.Caller][interfaces.RoleAdmin] {
		return fmt.Errorf("%w: caller %s lacks %s", interfaces.ErrUnauthorized, call.Caller, interfaces.RoleAdmin)
	}
	if !l.grants[account][role] {
		return interfaces.ErrNotGranted
	}

	l.setGrant(account, role, false)
	l.journal.Append(call.Now, interfaces.RoleRevoked{Account: account, Role: role, Sender: call.Caller})
	l.log.Info("role revoked", "account", account, "role", role, "sender", call.Caller)
	return nil
}

// TransferOwnership replaces the owner. Only the current owner may call, the
// new owner must be non-zero, and no role grant is altered.
func (l *Ledger) TransferOwnership(call interfaces.Call, newOwner interfaces.Account) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if call.Caller != l.owner {
		return fmt.Errorf("%w: caller %s is not the owner", interfaces.ErrUnauthorized, call.Caller)
	}
	if newOwner == interfaces.ZeroAccount {
		return interfaces.ErrInvalidAccount
	}

	previous := l.owner
	l.owner = newOwner
	l.journal.Append(call.Now, interfaces.OwnershipTransferred{Previous: previous, New: newOwner})
	l.log.Info("ownership transferred", "previous", previous, "new", newOwner)
	return nil
}

// setGrant writes the grant map. Caller holds the lock (or, in New, has
// exclusive access).
func (l *Ledger) setGrant(account interfaces.Account, role interfaces.Role, held bool) {
	roles, ok := l.grants[account]
	if !ok {
		roles = make(map[interfaces.Role]bool)
		l.grants[account] = roles
	}
	if held {
		roles[role] = true
	} else {
		delete(roles, role)
	}
}
