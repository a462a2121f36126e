// Package share provides the transport layer for the remote file share
// where scanning machines deposit batch evidence.
//
// The share is modeled as an object store: the share name maps to a bucket
// and directories map to key prefixes. The Client interface is deliberately
// read-only; this system only ever browses and downloads evidence files.
//
// Connection setup, TLS handshake and first-byte timeouts are all bounded by
// the configured timeout so an unreachable file server degrades a single
// request instead of hanging it.
package share
