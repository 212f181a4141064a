// Package main (cmd/ledger_client) implements a command-line client for the
// ledger API server.
//
// Every invocation acts as one caller identity, set with the --caller flag
// and sent as the X-Ledger-Caller header. Subcommands cover the full API
// surface:
//
//	register-item, moderate-item, deactivate-item, get-item - registry item
//	submission, curator moderation, and submitter self-deactivation.
//
//	grant-role, revoke-role, transfer-ownership - role administration,
//	available to accounts holding ADMIN (ownership transfer to the owner).
//
//	create-document, sign-document, revoke-document, get-document -
//	attestation document lifecycle. Document creation attaches native value
//	covering the storage fee.
//
//	set-fee, withdraw-fees, fund - treasury administration, owner only.
//
//	events - fetch the journal, optionally filtered by event name.
//
// Amounts are decimal wei strings; accounts are 40-character hex strings
// with an optional 0x prefix.
//
// Example usage:
//
//	ledger-client --caller=0x00000000000000000000000000000000000000a1 \
//	    create-document 0xdeadbeef 1000000000000000 \
//	    0x00000000000000000000000000000000000000b2 \
//	    0x00000000000000000000000000000000000000c3
package main
