package rp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
)

// Endpoint is the validated base URL of the upstream relying party.
// Created once at startup and immutable afterwards.
type Endpoint string

// ParseEndpoint performs the syntactic pre-check on a raw endpoint string.
// A malformed-but-schemed URL passes; the HTTP layer rejects those later.
func ParseEndpoint(raw string) (Endpoint, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", NewError(KindInput, CodeNone, "endpoint must not be empty")
	}
	if !strings.HasPrefix(trimmed, "http://") && !strings.HasPrefix(trimmed, "https://") {
		return "", NewError(KindInput, CodeNone,
			fmt.Sprintf("endpoint %q must start with http:// or https://", trimmed))
	}
	return Endpoint(trimmed), nil
}

// Client queries a relying party's HTTP API. All queries are read-only and
// single-attempt; no retries, no caching. The client holds no mutable state,
// so it is safe for concurrent use.
type Client struct {
	endpoint   Endpoint
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a gateway client for the given endpoint. A nil httpClient
// falls back to http.DefaultClient; no timeout is imposed here, callers bound
// latency through the context or their own http.Client.
func NewClient(endpoint Endpoint, httpClient *http.Client, log zerolog.Logger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		endpoint:   endpoint,
		httpClient: httpClient,
		log:        log,
	}
}

// Endpoint returns the validated base URL the client was built with.
func (c *Client) Endpoint() Endpoint {
	return c.endpoint
}

// Status fetches the relying party's status report.
func (c *Client) Status(ctx context.Context) (*StatusResponse, error) {
	return fetch[StatusResponse](ctx, c, fmt.Sprintf("%s/api/v1/status", c.endpoint))
}

// Validity asks the relying party to judge the route (asn, prefix).
// Both identifiers are passed through verbatim; the upstream owns their syntax.
func (c *Client) Validity(ctx context.Context, asn, prefix string) (*ValidityResponse, error) {
	return fetch[ValidityResponse](ctx, c, fmt.Sprintf("%s/api/v1/validity/%s/%s", c.endpoint, asn, prefix))
}

// Roas fetches the exported ROA set for one origin ASN.
func (c *Client) Roas(ctx context.Context, asn string) (*RoaSetResponse, error) {
	return fetch[RoaSetResponse](ctx, c, fmt.Sprintf("%s/json?select-asn=%s", c.endpoint, asn))
}

const unreadableBody = "<unreadable response body>"

// fetch is the shared fetch-and-decode core behind the three queries. The
// error mapping is identical for every call site: transport failure ->
// network error with the sentinel code, non-2xx -> upstream error carrying
// the status and body text, undecodable 2xx body -> decode error.
func fetch[T any](ctx context.Context, c *Client, url string) (*T, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		// Request construction fails after startup validation, so it is a
		// network failure like any other unreachable URL, not an input one.
		return nil, c.fail(NewError(KindNetwork, CodeNone, err.Error()))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.fail(NewError(KindNetwork, CodeNone, err.Error()))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		text := unreadableBody
		if body, readErr := io.ReadAll(io.LimitReader(resp.Body, 64*1024)); readErr == nil {
			text = string(body)
		}
		return nil, c.fail(NewError(KindUpstream, resp.StatusCode, text))
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		// The connection died mid-body; the 2xx status already on the wire
		// says nothing about the failure, so keep the network sentinel code.
		return nil, c.fail(NewError(KindNetwork, CodeNone, err.Error()))
	}

	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, c.fail(NewError(KindDecode, resp.StatusCode, err.Error()))
	}
	return &out, nil
}

// fail logs a typed error once at the point of detection and returns it
// unchanged. No recovery, no fallback.
func (c *Client) fail(gwErr *Error) *Error {
	c.log.Error().
		Str("kind", string(gwErr.Kind)).
		Int("code", gwErr.Code).
		Msg(gwErr.Message)
	return gwErr
}

// Structured re-serializes a typed result into a generic JSON object. This is
// the normalization step: the caller-visible payload always carries the
// documented field names regardless of how the upstream spelled them.
func Structured(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, NewError(KindDecode, CodeNone, err.Error())
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, NewError(KindDecode, CodeNone, err.Error())
	}
	return out, nil
}
