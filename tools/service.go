package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/zerolog"

	"github.com/dadepo/rpki-mcp/roa"
	"github.com/dadepo/rpki-mcp/rp"
)

// Instructions is the server description handed to tool-calling clients.
const Instructions = "MCP server that exposes functionalities of RPKI relying parties"

// Service binds the four relying-party operations to the tool-calling
// surface. Network operations delegate to the gateway client, the local one
// to the roa decoder; results come back as generic structured payloads,
// failures as tool errors carrying {code, message}.
type Service struct {
	client *rp.Client
	log    zerolog.Logger
}

// NewService creates the dispatcher. The zerolog handle is the persistent
// process log; gateway-side failures are already logged by the client at
// detection, so the service only logs failures it detects itself.
func NewService(client *rp.Client, log zerolog.Logger) *Service {
	return &Service{client: client, log: log}
}

// NewServer builds an MCP server with the service's tools registered.
func NewServer(svc *Service, version string) *server.MCPServer {
	srv := server.NewMCPServer("rpki-mcp", version,
		server.WithToolCapabilities(false),
		server.WithInstructions(Instructions),
	)
	svc.Register(srv)
	return srv
}

// Register declares the four named operations and their argument schemas.
func (s *Service) Register(srv *server.MCPServer) {
	srv.AddTool(mcp.NewTool("status",
		mcp.WithDescription("Status of the RPKI relying party"),
	), s.handleStatus)

	srv.AddTool(mcp.NewTool("validity",
		mcp.WithDescription("RPKI validity of a route announcement"),
		mcp.WithString("asn", mcp.Required(),
			mcp.Description("Origin autonomous system number, e.g. AS65000")),
		mcp.WithString("prefix", mcp.Required(),
			mcp.Description("Announced prefix in CIDR form, e.g. 192.0.2.0/24")),
	), s.handleValidity)

	srv.AddTool(mcp.NewTool("roas",
		mcp.WithDescription("ROAs for a given origin autonomous system"),
		mcp.WithString("asn", mcp.Required(),
			mcp.Description("Origin autonomous system number, e.g. AS65000")),
	), s.handleRoas)

	srv.AddTool(mcp.NewTool("parseRoaFile",
		mcp.WithDescription("Decode a local binary ROA file into its origin AS and prefixes"),
		mcp.WithString("path", mcp.Required(),
			mcp.Description("Filesystem path of the DER-encoded ROA object")),
	), s.handleParseRoaFile)
}

func (s *Service) handleStatus(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	status, err := s.client.Status(ctx)
	if err != nil {
		return errorResult(rp.AsError(err)), nil
	}
	return s.structuredResult(status)
}

func (s *Service) handleValidity(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	asn, err := req.RequireString("asn")
	if err != nil {
		return s.argumentError("validity", err), nil
	}
	prefix, err := req.RequireString("prefix")
	if err != nil {
		return s.argumentError("validity", err), nil
	}

	validity, err := s.client.Validity(ctx, asn, prefix)
	if err != nil {
		return errorResult(rp.AsError(err)), nil
	}
	return s.structuredResult(validity)
}

func (s *Service) handleRoas(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	asn, err := req.RequireString("asn")
	if err != nil {
		return s.argumentError("roas", err), nil
	}

	roas, err := s.client.Roas(ctx, asn)
	if err != nil {
		return errorResult(rp.AsError(err)), nil
	}
	return s.structuredResult(roas)
}

func (s *Service) handleParseRoaFile(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return s.argumentError("parseRoaFile", err), nil
	}

	parsed, err := roa.ParseFile(path)
	if err != nil {
		gwErr := rp.AsError(err)
		s.log.Error().
			Str("tool", "parseRoaFile").
			Str("kind", string(gwErr.Kind)).
			Int("code", gwErr.Code).
			Msg(gwErr.Message)
		return errorResult(gwErr), nil
	}
	return s.structuredResult(parsed)
}

// structuredResult normalizes a typed result into a generic structured
// payload with a JSON text fallback for clients without structured-content
// support.
func (s *Service) structuredResult(v any) (*mcp.CallToolResult, error) {
	payload, err := rp.Structured(v)
	if err != nil {
		gwErr := rp.AsError(err)
		s.log.Error().
			Str("kind", string(gwErr.Kind)).
			Int("code", gwErr.Code).
			Msg(gwErr.Message)
		return errorResult(gwErr), nil
	}
	fallback, err := json.Marshal(payload)
	if err != nil {
		return errorResult(rp.AsError(err)), nil
	}
	return mcp.NewToolResultStructured(payload, string(fallback)), nil
}

func (s *Service) argumentError(tool string, err error) *mcp.CallToolResult {
	gwErr := rp.NewError(rp.KindInput, rp.CodeNone, err.Error())
	s.log.Error().
		Str("tool", tool).
		Str("kind", string(gwErr.Kind)).
		Int("code", gwErr.Code).
		Msg(gwErr.Message)
	return errorResult(gwErr)
}

// errorResult renders a typed error as a tool error; StructuredContent keeps
// the exact {code, message} pair machine-readable.
func errorResult(gwErr *rp.Error) *mcp.CallToolResult {
	result := mcp.NewToolResultError(fmt.Sprintf("%d: %s", gwErr.Code, gwErr.Message))
	result.StructuredContent = gwErr
	return result
}
