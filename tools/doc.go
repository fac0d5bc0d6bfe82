// Package tools exposes the relying-party queries as MCP tools: status,
// validity, roas and parseRoaFile. Each tool shapes its arguments, delegates
// to the gateway client or the local ROA decoder, and converts the outcome
// into a structured payload or a tool error carrying {code, message}.
package tools
