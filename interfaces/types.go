package interfaces

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Account identifies a ledger participant. It is a 20-byte address in the
// execution environment's address space and serializes as a 0x-prefixed hex
// string.
type Account = common.Address

// ZeroAccount is the null identity. No grant, item, or document may ever be
// associated with it; operations receiving it as a target fail with
// ErrInvalidAccount.
var ZeroAccount = Account{}

// NewAccountFromHex parses a 40-character hex string (0x prefix optional)
// into an Account.
func NewAccountFromHex(s string) (Account, error) {
	if !common.IsHexAddress(s) {
		return ZeroAccount, fmt.Errorf("%w: malformed account %q", ErrInvalidAccount, s)
	}
	return common.HexToAddress(s), nil
}

// Role is an opaque named capability grantable per account. The role set is
// fixed at system initialization.
type Role string

const (
	// RoleAdmin controls role administration alongside the owner.
	RoleAdmin Role = "ADMIN"

	// RoleCurator may verify and moderate registry items.
	RoleCurator Role = "CURATOR"
)

// Valid reports whether the role is one of the fixed identifiers known at
// initialization.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleCurator
}

// Call carries the execution-environment context for a single operation:
// the verified caller identity, the native value attached to the call, and
// the environment's timestamp. The environment guarantees one Call executes
// atomically before the next begins.
type Call struct {
	Caller Account
	Value  *big.Int
	Now    time.Time
}

// AttachedValue returns the value attached to the call, treating nil as zero.
func (c Call) AttachedValue() *big.Int {
	if c.Value == nil {
		return new(big.Int)
	}
	return c.Value
}

// Item is a registry entry referencing off-chain content. Submitter, URI,
// Category and CreatedAt are immutable after creation; Verified and Active
// are the moderated lifecycle flags.
type Item struct {
	ID        uint64    `json:"id"`
	Submitter Account   `json:"submitter"`
	URI       string    `json:"uri"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	Verified  bool      `json:"verified"`
	Active    bool      `json:"active"`
}

// Document is an attestation record requiring signatures from a fixed set of
// identities before being marked completed. RequiredSigners is immutable
// after creation; SignatureCount caches the size of the unique signature set
// for an O(1) completion check.
type Document struct {
	ID              uint64    `json:"id"`
	DocumentHash    string    `json:"document_hash"`
	Creator         Account   `json:"creator"`
	CreatedAt       time.Time `json:"created_at"`
	RequiredSigners []Account `json:"required_signers"`
	SignatureCount  int       `json:"signature_count"`
	Active          bool      `json:"active"`
	Completed       bool      `json:"completed"`
}

// RoleSource reports role grants. Implemented by the access-control ledger
// and consumed by engines that gate operations on a role.
type RoleSource interface {
	HasRole(account Account, role Role) bool
}

// OwnerSource reports the current owner identity. Ownership controls role
// administration and the fee treasury; it is a separate axis of authority
// from the ADMIN role.
type OwnerSource interface {
	Owner() Account
}

// Failure taxonomy. Specific conditions wrap their class so both are
// observable via errors.Is.
var (
	// ErrUnauthorized reports a role, ownership, or identity mismatch.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNotFound reports an unknown or unreachable id.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput reports an empty or zero-valued argument.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidState reports an operation attempted from a state that
	// forbids it. Retrying without an intervening transition cannot succeed.
	ErrInvalidState = errors.New("invalid state")

	// ErrInsufficientFee reports attached value below the configured fee.
	ErrInsufficientFee = errors.New("insufficient fee")

	// ErrReentrant reports a nested invocation of a guarded operation.
	ErrReentrant = errors.New("reentrant call")
)

var (
	ErrInvalidAccount   = fmt.Errorf("%w: zero account", ErrInvalidInput)
	ErrInvalidRole      = fmt.Errorf("%w: unknown role", ErrInvalidInput)
	ErrAlreadyGranted   = fmt.Errorf("%w: role already granted", ErrInvalidState)
	ErrNotGranted       = fmt.Errorf("%w: role not granted", ErrInvalidState)
	ErrAlreadyInactive  = fmt.Errorf("%w: already inactive", ErrInvalidState)
	ErrAlreadyCompleted = fmt.Errorf("%w: already completed", ErrInvalidState)
	ErrAlreadySigned    = fmt.Errorf("%w: already signed", ErrInvalidState)
)
