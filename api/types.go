// Package api defines the request/response types and provider interfaces
// for the ledger HTTP boundary.
package api

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/veriledger/registry-attestation-backend/interfaces"
	"github.com/veriledger/registry-attestation-backend/ledger"
)

// CallerHeader carries the caller identity for mutating operations, as a
// hex account string. The execution environment is responsible for caller
// verification; authenticating this header is outside the system's scope.
const CallerHeader = "X-Ledger-Caller"

// ErrorResponse is the JSON body returned for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// RegisterItemRequest submits a new registry item.
type RegisterItemRequest struct {
	URI      string `json:"uri"`
	Category string `json:"category"`
}

// RegisterItemResponse returns the allocated item id.
type RegisterItemResponse struct {
	ID uint64 `json:"id"`
}

// ModerateItemRequest overwrites both item lifecycle flags.
type ModerateItemRequest struct {
	Verified bool `json:"verified"`
	Active   bool `json:"active"`
}

// IDListResponse lists entity ids in creation order.
type IDListResponse struct {
	IDs []uint64 `json:"ids"`
}

// RoleRequest targets a (account, role) grant or revocation.
type RoleRequest struct {
	Account interfaces.Account `json:"account"`
	Role    interfaces.Role    `json:"role"`
}

// TransferOwnershipRequest names the new owner.
type TransferOwnershipRequest struct {
	NewOwner interfaces.Account `json:"new_owner"`
}

// OwnerResponse reports the current owner.
type OwnerResponse struct {
	Owner interfaces.Account `json:"owner"`
}

// CreateDocumentRequest creates an attestation document. Value is the
// native value attached to the call and must cover the storage fee.
type CreateDocumentRequest struct {
	DocumentHash    string               `json:"document_hash"`
	RequiredSigners []interfaces.Account `json:"required_signers"`
	Value           *hexutil.Big         `json:"value"`
}

// CreateDocumentResponse returns the allocated document id.
type CreateDocumentResponse struct {
	ID uint64 `json:"id"`
}

// SignerStatusResponse reports an account's standing on a document.
type SignerStatusResponse struct {
	Required bool `json:"required"`
	Signed   bool `json:"signed"`
}

// FeeRequest updates the storage fee.
type FeeRequest struct {
	Fee *hexutil.Big `json:"fee"`
}

// FeeResponse reports the current fee and accumulated treasury balance.
type FeeResponse struct {
	Fee             *hexutil.Big `json:"fee"`
	TreasuryBalance *hexutil.Big `json:"treasury_balance"`
}

// WithdrawResponse reports the amount moved to the owner.
type WithdrawResponse struct {
	Amount *hexutil.Big `json:"amount"`
}

// FundRequest mints native value to an account (owner-gated faucet).
type FundRequest struct {
	Account interfaces.Account `json:"account"`
	Amount  *hexutil.Big       `json:"amount"`
}

// BalanceResponse reports an account's native balance.
type BalanceResponse struct {
	Account interfaces.Account `json:"account"`
	Balance *hexutil.Big       `json:"balance"`
}

// EventsResponse returns journal records and the current chain head digest.
type EventsResponse struct {
	Head    string          `json:"head"`
	Records []ledger.Record `json:"records"`
}

// RegistryProvider abstracts the item operations for clients of the HTTP
// boundary.
type RegistryProvider interface {
	RegisterItem(uri, category string) (uint64, error)
	ModerateItem(id uint64, verified, active bool) error
	DeactivateItem(id uint64) error
	GetItem(id uint64) (interfaces.Item, error)
	ItemsOf(account interfaces.Account) ([]uint64, error)
}

// AttestationProvider abstracts the document operations for clients of the
// HTTP boundary.
type AttestationProvider interface {
	CreateDocument(documentHash string, requiredSigners []interfaces.Account, value *big.Int) (uint64, error)
	SignDocument(id uint64) error
	RevokeDocument(id uint64) error
	GetDocument(id uint64) (interfaces.Document, error)
	SignerStatus(id uint64, account interfaces.Account) (SignerStatusResponse, error)
	UserDocuments(account interfaces.Account) ([]uint64, error)
	SignerDocuments(account interfaces.Account) ([]uint64, error)
}

// AdminProvider abstracts role administration and treasury operations.
type AdminProvider interface {
	GrantRole(account interfaces.Account, role interfaces.Role) error
	RevokeRole(account interfaces.Account, role interfaces.Role) error
	TransferOwnership(newOwner interfaces.Account) error
	Owner() (interfaces.Account, error)
	SetStorageFee(fee *big.Int) error
	StorageFee() (FeeResponse, error)
	WithdrawFees() (*big.Int, error)
}
