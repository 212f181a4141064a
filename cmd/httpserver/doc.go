// Package main (cmd/httpserver) implements the ledger API server for the
// registry and attestation system.
//
// The server hosts three engines over one in-process execution environment:
//
//   - an access-control ledger holding the owner identity and per-account
//     role grants (ADMIN, CURATOR),
//
//   - a registry engine where any account submits content items and curators
//     moderate their verified/active lifecycle flags,
//
//   - an attestation engine where accounts create documents carrying a fee
//     deposit, a fixed signer set attests, and completion is detected when
//     the last required signature lands.
//
// All state transitions append to a digest-chained event journal exposed at
// /api/v1/events. Native value (fee deposits, treasury withdrawals) moves
// through the environment's bank; the owner can mint development balances
// over the faucet endpoint.
//
// The caller identity for mutating requests is taken from the X-Ledger-Caller
// header. Verifying that header is the deployment's concern; the server
// enforces the authorization rules on whatever identity it is handed.
//
// Configuration is handled through command-line flags: the initial owner and
// treasury accounts, the document storage fee, an optional genesis balance
// minted to the owner, and the usual listen/metrics/logging settings.
//
// The server implements graceful shutdown on SIGINT/SIGTERM and supports
// health checks, drain/undrain for load-balancer rotation, Prometheus
// metrics, and optional profiling endpoints.
//
// Example usage:
//
//	ledger-server --owner=0x00000000000000000000000000000000000000a1 \
//	    --listen-addr=0.0.0.0:8080 \
//	    --storage-fee=1000000000000000 \
//	    --genesis-balance=1000000000000000000
package main
