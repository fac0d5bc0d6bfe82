// Package rp is the gateway to an RPKI relying party's HTTP API.
//
// It validates the upstream endpoint once at startup, issues single-attempt
// read queries (status, route validity, per-origin ROA sets), and normalizes
// every outcome into either a typed response or a typed *Error carrying the
// upstream HTTP status when one was observed.
//
// The package holds no mutable state beyond the immutable endpoint; every
// response is a transient value owned by the caller. Failure handling is
// uniform across the three queries: a failure is classified where it is
// detected, logged once, and returned as-is. There is no retry, no caching
// and no local validation of ASN or prefix syntax.
package rp
