// Package httpserver serves the relying-party operations over plain HTTP for
// debugging a running gateway with curl.
//
// The server mirrors the four tool operations one route each:
//
//   - GET  /api/status
//   - GET  /api/validity/{asn}/{prefix}   (the CIDR slash stays in the path,
//     e.g. /api/validity/AS65000/192.0.2.0/24)
//   - GET  /api/roas/{asn}
//   - POST /api/roa           (body: {"path": "/path/to/object.roa"})
//   - GET  /livez
//
// Successful operations reply 200 with the same normalized JSON payload the
// tool surface returns. Failures reply with the typed {code, message} pair;
// upstream failures relay the upstream HTTP status, transport and decode
// failures map to 502.
//
// The server is off unless a listen address is configured; it carries no
// authentication and is not part of the gateway's contract.
package httpserver
