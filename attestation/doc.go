// Package attestation implements the multi-party document workflow: a
// creator deposits a fee and names a fixed set of required signers, each
// named signer attests exactly once, and the document completes when the
// last of them lands.
//
// "Signing" here means a caller recording its own attestation against its
// own environment-verified identity; no cryptographic signature of the
// document is verified.
//
// Per-document state machine:
//
//	Created(active) -> [Signed]* -> Completed(active, terminal for signing)
//
// with an orthogonal Active -> Revoked edge available only to the creator
// and only pre-completion. Completed and Revoked are independent terminal
// flags: completion does not deactivate the document.
//
// Required signer lists are de-duplicated at creation, preserving first
// occurrence order. The completion threshold is therefore the unique-signer
// count; a list whose duplicates would otherwise push the threshold beyond
// the reachable signature count cannot be constructed.
//
// The creation deposit and the fee withdrawal are the only operations that
// move native value, and both hold the engine's re-entrancy guard across the
// transfer. The treasury balance lives in the environment bank under the
// engine's treasury account and is never mirrored internally, so a rejected
// withdrawal transfer leaves no bookkeeping to repair.
package attestation
