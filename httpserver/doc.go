// Package httpserver exposes the ledger operations over HTTP.
//
// One route per boundary operation, all under /api/v1. Mutating routes take
// the caller identity from the X-Ledger-Caller header; the environment, not
// this server, is the authority on caller identity, so the header is parsed
// but not authenticated.
//
// Failure taxonomy to status mapping:
//
//	Unauthorized    403
//	NotFound        404
//	InvalidInput    400
//	InvalidState    409 (AlreadyGranted, NotGranted, AlreadyInactive,
//	                     AlreadyCompleted, AlreadySigned)
//	InsufficientFee 402
//	Reentrant       409
//
// The server also provides /livez, /readyz, and drain endpoints for load
// balancer coordination, an optional pprof mount, and a Prometheus metrics
// listener on its own address.
package httpserver
