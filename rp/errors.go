package rp

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure.
type Kind string

const (
	// KindInput marks invalid configuration or arguments detected before any
	// I/O happens. Only produced at startup, never mid-operation.
	KindInput Kind = "input"
	// KindNetwork marks a transport-level failure reaching the upstream
	// (DNS, connect, TLS, timeout). No HTTP status is available.
	KindNetwork Kind = "network"
	// KindUpstream marks a non-2xx response from the upstream.
	KindUpstream Kind = "upstream"
	// KindDecode marks a body or binary object that did not match the
	// expected shape or encoding.
	KindDecode Kind = "decode"
	// KindIO marks a local filesystem read failure.
	KindIO Kind = "io"
)

// CodeNone is the sentinel error code used when no HTTP status is available.
const CodeNone = -1

// Error is the single caller-visible error type of the gateway. Code carries
// the upstream HTTP status when one was observed and CodeNone otherwise.
type Error struct {
	Kind    Kind   `json:"kind"`
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error (code %d): %s", e.Kind, e.Code, e.Message)
}

// NewError builds a typed gateway error.
func NewError(kind Kind, code int, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// AsError unwraps err into a *Error. Errors that escaped the gateway's own
// mapping are reported as decode failures with the sentinel code, so callers
// always see the {code, message} shape.
func AsError(err error) *Error {
	var gwErr *Error
	if errors.As(err, &gwErr) {
		return gwErr
	}
	return &Error{Kind: KindDecode, Code: CodeNone, Message: err.Error()}
}
