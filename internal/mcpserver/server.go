// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes relationship validation tools for LLM integration via
// stdio transport.
package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/adrgraph/internal/adrservice"
	"github.com/starford/adrgraph/internal/apperr"
	"github.com/starford/adrgraph/internal/report"
)

const contractURI = "adrgraph://relationship-format"

// Server wraps the MCP server with adrgraph tools.
type Server struct {
	mcp *server.MCPServer
	svc *adrservice.Service
}

// New creates a new MCP server with all tools registered.
func New(svc *adrservice.Service, version string) *Server {
	s := &Server{svc: svc}

	s.mcp = server.NewMCPServer(
		"adrgraph",
		version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
	)

	s.mcp.AddTool(mcp.NewTool("validate_relationships",
		mcp.WithDescription("Re-validate every ADR in the corpus and return the report: "+
			"bidirectional consistency errors, dependency cycles, orphaned references, "+
			"statistics and the pass/fail verdict."),
		mcp.WithString("format", mcp.Description("Report format"), mcp.Enum("text", "json")),
	), s.validateRelationships)

	s.mcp.AddTool(mcp.NewTool("get_relationships",
		mcp.WithDescription("Return one ADR's declared relationships, the ADRs that reference it "+
			"and the findings that mention it."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Identifier, e.g. ADR-0001 or 0001")),
	), s.getRelationships)

	s.mcp.AddTool(mcp.NewTool("list_documents",
		mcp.WithDescription("List every ADR of the latest validation with its path and relation count."),
	), s.listDocuments)

	s.mcp.AddTool(mcp.NewTool("get_relationship_map",
		mcp.WithDescription("Render the Markdown relationship map grouped by ADR category."),
	), s.getRelationshipMap)

	s.mcp.AddTool(mcp.NewTool("get_relationship_contract",
		mcp.WithDescription("Returns the relationship section format the validator expects. "+
			"Call this before editing ADR relationships."),
	), s.getRelationshipContract)

	s.mcp.AddResource(
		mcp.NewResource(contractURI, "Relationship Format Contract",
			mcp.WithResourceDescription("How ADRs declare relationships and which rules the validator enforces."),
			mcp.WithMIMEType("text/markdown"),
		),
		s.readContractResource,
	)

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcp)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) validateRelationships(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	rep, err := s.svc.Refresh(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	var buf bytes.Buffer
	if req.GetString("format", "text") == "json" {
		err = report.WriteJSON(&buf, rep)
	} else {
		err = report.WriteText(&buf, rep, report.TextOptions{})
	}
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(buf.String()), nil
}

func (s *Server) getRelationships(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	doc, err := s.svc.Document(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return mcp.NewToolResultError(fmt.Sprintf("not found: %s", id)), nil
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.MarshalIndent(doc, "", "  ")
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) listDocuments(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := s.svc.Documents(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if len(docs) == 0 {
		return mcp.NewToolResultText("no documents found"), nil
	}
	lines := make([]string, 0, len(docs))
	for _, d := range docs {
		lines = append(lines, fmt.Sprintf("%s\t%s\t%d relation(s)", d.Label, d.Path, d.Relations))
	}
	return mcp.NewToolResultText(strings.Join(lines, "\n")), nil
}

func (s *Server) getRelationshipMap(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	out, err := s.svc.RelationshipMap(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(out), nil
}

func (s *Server) getRelationshipContract(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(RelationshipFormatContract), nil
}

func (s *Server) readContractResource(_ context.Context, _ mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      contractURI,
			MIMEType: "text/markdown",
			Text:     RelationshipFormatContract,
		},
	}, nil
}
