package registry

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/veriledger/registry-attestation-backend/interfaces"
	"github.com/veriledger/registry-attestation-backend/ledger"
)

// item is the authoritative entry. Presence in the map is the existence
// indicator; there is no zero-identity sentinel.
type item struct {
	submitter interfaces.Account
	uri       string
	category  string
	createdAt time.Time
	verified  bool
	active    bool
}

// Engine is the registry state machine. All mutations are serialized behind
// one lock and validate every precondition before touching state, so a
// failed operation has no effect.
type Engine struct {
	mu          sync.RWMutex
	items       map[uint64]*item
	seq         *ledger.Sequence
	bySubmitter map[interfaces.Account][]uint64
	roles       interfaces.RoleSource
	journal     *ledger.Journal
	log         *slog.Logger
}

// NewEngine creates an empty registry. Item ids start at 0.
func NewEngine(roles interfaces.RoleSource, journal *ledger.Journal, log *slog.Logger) *Engine {
	return &Engine{
		items:       make(map[uint64]*item),
		seq:         ledger.NewSequence(0),
		bySubmitter: make(map[interfaces.Account][]uint64),
		roles:       roles,
		journal:     journal,
		log:         log,
	}
}

// RegisterItem stores a new item for the caller and returns its id. Any
// caller may register; only the URI is validated.
func (e *Engine) RegisterItem(call interfaces.Call, uri, category string) (uint64, error) {
	if uri == "" {
		return 0, fmt.Errorf("%w: empty uri", interfaces.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.seq.Next()
	e.items[id] = &item{
		submitter: call.Caller,
		uri:       uri,
		category:  category,
		createdAt: call.Now,
		verified:  false,
		active:    true,
	}
	e.bySubmitter[call.Caller] = append(e.bySubmitter[call.Caller], id)
	e.journal.Append(call.Now, interfaces.ItemRegistered{
		ID:        id,
		Submitter: call.Caller,
		URI:       uri,
		Category:  category,
		Timestamp: call.Now,
	})
	e.log.Info("item registered", "id", id, "submitter", call.Caller, "category", category)
	return id, nil
}

// ModerateItem overwrites both lifecycle flags with the supplied values.
// The caller must hold CURATOR. There is no transition restriction: curators
// may re-activate an item its submitter deactivated.
func (e *Engine) ModerateItem(call interfaces.Call, id uint64, verified, active bool) error {
	if !e.roles.HasRole(call.Caller, interfaces.RoleCurator) {
		return fmt.Errorf("%w: caller %s lacks %s", interfaces.ErrUnauthorized, call.Caller, interfaces.RoleCurator)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	it, ok := e.items[id]
	if !ok {
		return fmt.Errorf("%w: item %d", interfaces.ErrNotFound, id)
	}

	it.verified = verified
	it.active = active
	e.journal.Append(call.Now, interfaces.ItemStatusUpdated{
		ID:        id,
		Verified:  verified,
		Active:    active,
		Timestamp: call.Now,
	})
	e.log.Info("item moderated", "id", id, "verified", verified, "active", active, "curator", call.Caller)
	return nil
}

// DeactivateOwnItem sets the caller's item inactive. Only the submitter may
// call, and only while the item is active; the verified flag is untouched.
func (e *Engine) DeactivateOwnItem(call interfaces.Call, id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	it, ok := e.items[id]
	if !ok {
		return fmt.Errorf("%w: item %d", interfaces.ErrNotFound, id)
	}
	if it.submitter != call.Caller {
		return fmt.Errorf("%w: caller %s is not the submitter", interfaces.ErrUnauthorized, call.Caller)
	}
	if !it.active {
		return interfaces.ErrAlreadyInactive
	}

	it.active = false
	e.journal.Append(call.Now, interfaces.ItemStatusUpdated{
		ID:        id,
		Verified:  it.verified,
		Active:    false,
		Timestamp: call.Now,
	})
	e.log.Info("item deactivated by submitter", "id", id, "submitter", call.Caller)
	return nil
}

// GetItem returns a copy of the item.
func (e *Engine) GetItem(id uint64) (interfaces.Item, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	it, ok := e.items[id]
	if !ok {
		return interfaces.Item{}, fmt.Errorf("%w: item %d", interfaces.ErrNotFound, id)
	}
	return interfaces.Item{
		ID:        id,
		Submitter: it.submitter,
		URI:       it.uri,
		Category:  it.category,
		CreatedAt: it.createdAt,
		Verified:  it.verified,
		Active:    it.active,
	}, nil
}

// ItemsOf returns the ids the account registered, in registration order.
func (e *Engine) ItemsOf(account interfaces.Account) []uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := e.bySubmitter[account]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out
}

// Len returns the number of items ever registered.
func (e *Engine) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.items)
}
