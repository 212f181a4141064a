package attestation

import (
	"fmt"
	"log/slog"
	"math/big"
	"sync"
	"time"

	"github.com/veriledger/registry-attestation-backend/interfaces"
	"github.com/veriledger/registry-attestation-backend/ledger"
)

// firstDocumentID is where the document sequence starts. Item ids start at
// 0; document ids start at 1.
const firstDocumentID = 1

type document struct {
	hash            string
	creator         interfaces.Account
	createdAt       time.Time
	requiredSigners []interfaces.Account
	signatures      map[interfaces.Account]bool
	signatureCount  int
	active          bool
	completed       bool
}

// Config carries the engine's construction parameters.
type Config struct {
	// Owner resolves the identity allowed to set the fee and withdraw.
	Owner interfaces.OwnerSource

	// Bank is the environment's native-balance ledger.
	Bank *ledger.Bank

	// Treasury is the account creation deposits accumulate under.
	Treasury interfaces.Account

	// StorageFee is the initial per-creation fee. Nil means zero.
	StorageFee *big.Int

	Journal *ledger.Journal
	Log     *slog.Logger
}

// Engine is the document state machine and fee treasury. Mutations are
// serialized behind one lock and validate every precondition before
// touching state.
type Engine struct {
	mu         sync.RWMutex
	docs       map[uint64]*document
	seq        *ledger.Sequence
	byCreator  map[interfaces.Account][]uint64
	bySigner   map[interfaces.Account][]uint64
	storageFee *big.Int

	owner    interfaces.OwnerSource
	bank     *ledger.Bank
	treasury interfaces.Account
	journal  *ledger.Journal
	guard    ledger.Guard
	log      *slog.Logger
}

// NewEngine creates an empty attestation engine. Document ids start at 1.
func NewEngine(cfg Config) (*Engine, error) {
	if cfg.Treasury == interfaces.ZeroAccount {
		return nil, fmt.Errorf("%w: zero treasury account", interfaces.ErrInvalidInput)
	}
	fee := cfg.StorageFee
	if fee == nil {
		fee = new(big.Int)
	}
	return &Engine{
		docs:       make(map[uint64]*document),
		seq:        ledger.NewSequence(firstDocumentID),
		byCreator:  make(map[interfaces.Account][]uint64),
		bySigner:   make(map[interfaces.Account][]uint64),
		storageFee: new(big.Int).Set(fee),
		owner:      cfg.Owner,
		bank:       cfg.Bank,
		treasury:   cfg.Treasury,
		journal:    cfg.Journal,
		log:        cfg.Log,
	}, nil
}

// TreasuryAccount returns the account deposits accumulate under.
func (e *Engine) TreasuryAccount() interfaces.Account { return e.treasury }

// CreateDocument stores a new document and deposits the attached value into
// the treasury. The attached value must cover the current storage fee; the
// signer list must be non-empty and is de-duplicated preserving first
// occurrence order. The operation is re-entrancy guarded: a deposit receive
// hook that calls back in fails with ErrReentrant.
func (e *Engine) CreateDocument(call interfaces.Call, documentHash string, requiredSigners []interfaces.Account) (uint64, error) {
	if err := e.guard.Enter(); err != nil {
		return 0, err
	}
	defer e.guard.Exit()

	if documentHash == "" {
		return 0, fmt.Errorf("%w: empty document hash", interfaces.ErrInvalidInput)
	}
	if len(requiredSigners) == 0 {
		return 0, fmt.Errorf("%w: empty required signer list", interfaces.ErrInvalidInput)
	}

	e.mu.Lock()
	fee := new(big.Int).Set(e.storageFee)
	e.mu.Unlock()

	value := call.AttachedValue()
	if value.Cmp(fee) < 0 {
		return 0, fmt.Errorf("%w: attached %s, fee %s", interfaces.ErrInsufficientFee, value, fee)
	}

	signers := dedupeSigners(requiredSigners)

	// Deposit before any state mutation. The guard is held, so a receive
	// hook re-entering the engine is rejected; a failed deposit leaves the
	// document counter and maps untouched.
	if err := e.bank.Transfer(call.Caller, e.treasury, value); err != nil {
		return 0, err
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	id := e.seq.Next()
	e.docs[id] = &document{
		hash:            documentHash,
		creator:         call.Caller,
		createdAt:       call.Now,
		requiredSigners: signers,
		signatures:      make(map[interfaces.Account]bool),
		active:          true,
	}
	e.byCreator[call.Caller] = append(e.byCreator[call.Caller], id)
	for _, signer := range signers {
		e.bySigner[signer] = append(e.bySigner[signer], id)
	}
	e.journal.Append(call.Now, interfaces.DocumentCreated{
		ID:           id,
		Creator:      call.Caller,
		DocumentHash: documentHash,
	})
	e.log.Info("document created", "id", id, "creator", call.Caller, "signers", len(signers), "deposit", value)
	return id, nil
}

// SignDocument records the caller's attestation. The caller must be a
// required signer who has not signed; the document must be active and not
// completed. When the last required signer lands, the document completes in
// the same transition and DocumentCompleted is emitted exactly once.
func (e *Engine) SignDocument(call interfaces.Call, id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, ok := e.docs[id]
	if !ok || !doc.active {
		return fmt.Errorf("%w: document %d not found or inactive", interfaces.ErrNotFound, id)
	}
	if doc.completed {
		return interfaces.ErrAlreadyCompleted
	}
	if doc.signatures[call.Caller] {
		return interfaces.ErrAlreadySigned
	}
	if !containsAccount(doc.requiredSigners, call.Caller) {
		return fmt.Errorf("%w: %s is not a required signer of document %d", interfaces.ErrUnauthorized, call.Caller, id)
	}

	doc.signatures[call.Caller] = true
	doc.signatureCount++
	e.journal.Append(call.Now, interfaces.DocumentSigned{ID: id, Signer: call.Caller})
	e.log.Info("document signed", "id", id, "signer", call.Caller, "signatures", doc.signatureCount)

	if doc.signatureCount == len(doc.requiredSigners) {
		doc.completed = true
		e.journal.Append(call.Now, interfaces.DocumentCompleted{ID: id})
		e.log.Info("document completed", "id", id)
	}
	return nil
}

// RevokeDocument deactivates the document. Only the creator may call, only
// before completion, and only once; signatures and the completed flag are
// untouched. The deposit is not refunded.
func (e *Engine) RevokeDocument(call interfaces.Call, id uint64) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	doc, ok := e.docs[id]
	if !ok {
		return fmt.Errorf("%w: document %d", interfaces.ErrNotFound, id)
	}
	if doc.creator != call.Caller {
		return fmt.Errorf("%w: caller %s is not the creator", interfaces.ErrUnauthorized, call.Caller)
	}
	if doc.completed {
		return interfaces.ErrAlreadyCompleted
	}
	if !doc.active {
		return interfaces.ErrAlreadyInactive
	}

	doc.active = false
	e.journal.Append(call.Now, interfaces.DocumentRevoked{ID: id})
	e.log.Info("document revoked", "id", id, "creator", call.Caller)
	return nil
}

// GetDocumentDetails returns a copy of the document, active or not.
func (e *Engine) GetDocumentDetails(id uint64) (interfaces.Document, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	doc, ok := e.docs[id]
	if !ok {
		return interfaces.Document{}, fmt.Errorf("%w: document %d", interfaces.ErrNotFound, id)
	}
	signers := make([]interfaces.Account, len(doc.requiredSigners))
	copy(signers, doc.requiredSigners)
	return interfaces.Document{
		ID:              id,
		DocumentHash:    doc.hash,
		Creator:         doc.creator,
		CreatedAt:       doc.createdAt,
		RequiredSigners: signers,
		SignatureCount:  doc.signatureCount,
		Active:          doc.active,
		Completed:       doc.completed,
	}, nil
}

// HasUserSigned reports whether the account's attestation is recorded.
func (e *Engine) HasUserSigned(id uint64, account interfaces.Account) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	doc, ok := e.docs[id]
	if !ok {
		return false, fmt.Errorf("%w: document %d", interfaces.ErrNotFound, id)
	}
	return doc.signatures[account], nil
}

// IsRequiredSigner reports whether the account is named in the document's
// required signer list.
func (e *Engine) IsRequiredSigner(id uint64, account interfaces.Account) (bool, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	doc, ok := e.docs[id]
	if !ok {
		return false, fmt.Errorf("%w: document %d", interfaces.ErrNotFound, id)
	}
	return containsAccount(doc.requiredSigners, account), nil
}

// UserDocuments returns the ids the account created, in creation order.
func (e *Engine) UserDocuments(account interfaces.Account) []uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := e.byCreator[account]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out
}

// SignerDocuments returns the ids the account is a required signer of, in
// creation order.
func (e *Engine) SignerDocuments(account interfaces.Account) []uint64 {
	e.mu.RLock()
	defer e.mu.RUnlock()

	ids := e.bySigner[account]
	out := make([]uint64, len(ids))
	copy(out, ids)
	return out
}

// StorageFee returns the current per-creation fee.
func (e *Engine) StorageFee() *big.Int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return new(big.Int).Set(e.storageFee)
}

// SetStorageFee replaces the fee for subsequent creations. Owner only.
func (e *Engine) SetStorageFee(call interfaces.Call, fee *big.Int) error {
	if call.Caller != e.owner.Owner() {
		return fmt.Errorf("%w: caller %s is not the owner", interfaces.ErrUnauthorized, call.Caller)
	}
	if fee == nil || fee.Sign() < 0 {
		return fmt.Errorf("%w: negative fee", interfaces.ErrInvalidInput)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.storageFee = new(big.Int).Set(fee)
	e.log.Info("storage fee updated", "fee", fee)
	return nil
}

// TreasuryBalance returns the accumulated deposit balance held by the bank.
func (e *Engine) TreasuryBalance() *big.Int {
	return e.bank.BalanceOf(e.treasury)
}

// WithdrawFees transfers the entire treasury balance to the owner and
// returns the amount moved. Owner only. The transfer is the terminal step
// and the balance is bank-held, so a recipient rejection propagates without
// corrupting any internal bookkeeping.
func (e *Engine) WithdrawFees(call interfaces.Call) (*big.Int, error) {
	if err := e.guard.Enter(); err != nil {
		return nil, err
	}
	defer e.guard.Exit()

	owner := e.owner.Owner()
	if call.Caller != owner {
		return nil, fmt.Errorf("%w: caller %s is not the owner", interfaces.ErrUnauthorized, call.Caller)
	}

	amount := e.bank.BalanceOf(e.treasury)
	if err := e.bank.Transfer(e.treasury, owner, amount); err != nil {
		return nil, err
	}
	e.log.Info("fees withdrawn", "owner", owner, "amount", amount)
	return amount, nil
}

// dedupeSigners drops duplicate identities, preserving first occurrence
// order. Keeping duplicates would raise the completion threshold above the
// reachable unique signature count.
func dedupeSigners(signers []interfaces.Account) []interfaces.Account {
	seen := make(map[interfaces.Account]bool, len(signers))
	out := make([]interfaces.Account, 0, len(signers))
	for _, s := range signers {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func containsAccount(list []interfaces.Account, account interfaces.Account) bool {
	for _, a := range list {
		if a == account {
			return true
		}
	}
	return false
}
