package interfaces

import "time"

// Event is a record emitted by a state transition. Every mutating operation
// emits at least one event; read-only queries emit none. Events are appended
// to the ledger journal in transition order and never rewritten.
type Event interface {
	// EventName returns the stable record name used for journal queries.
	EventName() string
}

// Event names, stable across releases.
const (
	EventRoleGranted          = "RoleGranted"
	EventRoleRevoked          = "RoleRevoked"
	EventOwnershipTransferred = "OwnershipTransferred"
	EventItemRegistered       = "ItemRegistered"
	EventItemStatusUpdated    = "ItemStatusUpdated"
	EventDocumentCreated      = "DocumentCreated"
	EventDocumentSigned       = "DocumentSigned"
	EventDocumentCompleted    = "DocumentCompleted"
	EventDocumentRevoked      = "DocumentRevoked"
)

// RoleGranted records a role grant, including the administrator who set it.
type RoleGranted struct {
	Account Account `json:"account"`
	Role    Role    `json:"role"`
	Sender  Account `json:"sender"`
}

func (RoleGranted) EventName() string { return EventRoleGranted }

// RoleRevoked records a role revocation.
type RoleRevoked struct {
	Account Account `json:"account"`
	Role    Role    `json:"role"`
	Sender  Account `json:"sender"`
}

func (RoleRevoked) EventName() string { return EventRoleRevoked }

// OwnershipTransferred records a single-step ownership transfer. Role grants
// are unaffected by the transfer.
type OwnershipTransferred struct {
	Previous Account `json:"previous_owner"`
	New      Account `json:"new_owner"`
}

func (OwnershipTransferred) EventName() string { return EventOwnershipTransferred }

// ItemRegistered records a new registry item.
type ItemRegistered struct {
	ID        uint64    `json:"id"`
	Submitter Account   `json:"submitter"`
	URI       string    `json:"uri"`
	Category  string    `json:"category"`
	Timestamp time.Time `json:"timestamp"`
}

func (ItemRegistered) EventName() string { return EventItemRegistered }

// ItemStatusUpdated records the item flags after a moderation or
// self-deactivation, whichever path produced it.
type ItemStatusUpdated struct {
	ID        uint64    `json:"id"`
	Verified  bool      `json:"verified"`
	Active    bool      `json:"active"`
	Timestamp time.Time `json:"timestamp"`
}

func (ItemStatusUpdated) EventName() string { return EventItemStatusUpdated }

// DocumentCreated records a new attestation document.
type DocumentCreated struct {
	ID           uint64  `json:"id"`
	Creator      Account `json:"creator"`
	DocumentHash string  `json:"document_hash"`
}

func (DocumentCreated) EventName() string { return EventDocumentCreated }

// DocumentSigned records one required signer's attestation.
type DocumentSigned struct {
	ID     uint64  `json:"id"`
	Signer Account `json:"signer"`
}

func (DocumentSigned) EventName() string { return EventDocumentSigned }

// DocumentCompleted records the final signature landing. Emitted exactly
// once per document, in the same transition as the last DocumentSigned.
type DocumentCompleted struct {
	ID uint64 `json:"id"`
}

func (DocumentCompleted) EventName() string { return EventDocumentCompleted }

// DocumentRevoked records a creator-initiated revocation.
type DocumentRevoked struct {
	ID uint64 `json:"id"`
}

func (DocumentRevoked) EventName() string { return EventDocumentRevoked }
