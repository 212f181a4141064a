// Package interfaces defines the core types and component contracts for the
// ledger-backed registry and attestation system. It provides the boundary
// between the state-machine engines without implementation details.
//
// The package contains:
//
// - Account and Role identity types shared by every component
// - The Call context supplied by the execution environment for each operation
// - The failure taxonomy every engine reports against
// - The event records emitted by state transitions
// - Narrow capability interfaces (RoleSource, OwnerSource) that engines
//   accept instead of depending on each other directly
//
// Every public operation in the system takes a Call, applies at most one
// state transition, and either fully succeeds (emitting its events) or fully
// fails with an error from the taxonomy below. Errors wrap their taxonomy
// class, so callers can test either the specific condition or the class:
//
//	if errors.Is(err, interfaces.ErrAlreadySigned) { ... }
//	if errors.Is(err, interfaces.ErrInvalidState) { ... } // any state conflict
package interfaces
