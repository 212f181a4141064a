// Package registry implements the item lifecycle: permissionless
// submission, curator moderation, and submitter self-deactivation.
//
// Items are identified by strictly increasing ids starting at 0, never
// reused and never deleted. The submitter, URI, category, and creation
// timestamp are immutable; only the Verified and Active flags move.
//
// Moderation and self-deactivation are intentionally asymmetric: a CURATOR
// may overwrite both flags unconditionally, including re-activating an item
// the submitter deactivated, while the submitter's own deactivation is
// one-directional and final from their side.
//
// A per-submitter reverse index records ids in registration order. It is
// rebuildable from the item set and maintained incrementally for O(1)
// discovery queries; it is not authoritative state.
package registry
