// Package ledger simulates the execution environment the state-machine
// engines run against. The environment is responsible for everything the
// engines assume and do not implement themselves: verified caller identity,
// a monotonic timestamp, native value transfer, and serialized, atomic
// execution of one operation at a time.
//
// Components:
//
//   - Env builds the per-operation Call context (caller, attached value,
//     timestamp) with an injectable clock for tests.
//   - Bank holds native balances and moves value between accounts. A
//     recipient may register a receive hook; a hook error models a recipient
//     that rejects the transfer, and a hook body may attempt re-entrant
//     engine calls, which the engines' guards must reject.
//   - Journal is the append-only event log. Each record chains a keccak256
//     digest over the previous record, making the log tamper-evident and
//     verifiable end to end.
//   - Guard is the re-entrancy latch for operations that perform external
//     value transfers.
//   - Sequence is a monotonic id allocator with a single owning engine.
package ledger
