// Package accesscontrol implements the (account, role) grant ledger and the
// single-step ownership transfer.
//
// Owner and the ADMIN role are two independent axes of authority: the owner
// controls ownership transfer and the fee treasury, while any ADMIN holder
// (the owner included, from initialization) administers role grants.
// Transferring ownership never touches grants, and revoking a role never
// touches ownership. Migrating full authority therefore takes two
// coordinated actions.
//
// Grants are idempotency-checked: granting a held role and revoking an
// unset one both fail with an invalid-state error rather than silently
// succeeding, so every emitted RoleGranted/RoleRevoked corresponds to a real
// transition.
package accesscontrol
