// Package cmd provides the rpki-mcp binary.
//
// rpki-mcp: MCP server exposing relying-party queries over stdio. The
// upstream endpoint comes from the first positional argument or the
// RPKI_ENDPOINT environment variable; the argument wins.
//
//	go run ./cmd/rpki-mcp https://rpki-validator.example.net
//	RPKI_ENDPOINT=http://localhost:8323 go run ./cmd/rpki-mcp
//
// Logs go to an append-only file (RPKI_LOG_PATH, default logs/rpki_mcp.log)
// because stdout carries the stdio protocol. An optional plain-HTTP mirror of
// the four operations can be enabled for debugging:
//
//	go run ./cmd/rpki-mcp -http 127.0.0.1:8088 http://localhost:8323
//	curl http://127.0.0.1:8088/api/status
package cmd
