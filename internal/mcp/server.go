// Package mcp registers the core read-only query tools on an MCP server so
// MCP clients can run the same assertion queries the HTTP API serves.
package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/tmkp/assertions-api/internal/config"
	"github.com/tmkp/assertions-api/internal/core"
	"github.com/tmkp/assertions-api/internal/db"
)

// NewServer creates an MCPServer with the query tools registered.
func NewServer(database *db.DB, query config.QueryConfig) *server.MCPServer {
	srv := server.NewMCPServer(
		"tmkp-assertions",
		"0.1.0",
		server.WithToolCapabilities(true),
	)

	registerQueryAssertions(srv, database, query)
	registerGetAssertion(srv, database)
	registerGetEvidence(srv, database)

	return srv
}

// ServeStdio runs the MCP server over stdin/stdout.
func ServeStdio(srv *server.MCPServer) error {
	return server.ServeStdio(srv)
}

// --- query_assertions ---

func registerQueryAssertions(srv *server.MCPServer, database *db.DB, query config.QueryConfig) {
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"subject":   map[string]string{"type": "string", "description": "Subject CURIE, cross-reference id, or 'any'"},
			"predicate": map[string]string{"type": "string", "description": "Predicate CURIE or 'any'"},
			"object":    map[string]string{"type": "string", "description": "Object CURIE, cross-reference id, or 'any'"},
		},
		"required": []string{"subject", "predicate", "object"},
	})
	tool := mcp.NewToolWithRawSchema("query_assertions",
		"Query text-mined assertions by subject/predicate/object pattern; returns ranked evidence edges", schema)

	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := req.GetArguments()
		spec, err := core.ParseQuerySpec(
			stringArg(args, "subject"), stringArg(args, "predicate"), stringArg(args, "object"),
			query.XrefPrefixes)
		if err != nil {
			return mcp.NewToolResultError("subject, predicate and object are required"), nil
		}
		assertions, err := database.FindAssertions(ctx, spec, query.EdgeLimit)
		if err != nil {
			return nil, err
		}
		edges := core.BuildEdges(assertions, spec, query.CurrentVersion)
		b, err := json.Marshal(map[string]any{"results": edges, "count": len(edges)})
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(b)), nil
	})
}

// --- get_assertion ---

func registerGetAssertion(srv *server.MCPServer, database *db.DB) {
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"assertion_id": map[string]string{"type": "string", "description": "Assertion identifier"},
		},
		"required": []string{"assertion_id"},
	})
	tool := mcp.NewToolWithRawSchema("get_assertion",
		"Fetch one assertion with its evidence, scores, and per-predicate aggregates", schema)

	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		assertion, err := database.GetAssertion(ctx, stringArg(req.GetArguments(), "assertion_id"))
		if errors.Is(err, db.ErrNotFound) {
			return mcp.NewToolResultError("no results found"), nil
		}
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(map[string]any{
			"assertion":        assertion,
			"predicate_scores": core.PredicateScores(assertion),
		})
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(b)), nil
	})
}

// --- get_evidence ---

func registerGetEvidence(srv *server.MCPServer, database *db.DB) {
	schema, _ := json.Marshal(map[string]any{
		"type": "object",
		"properties": map[string]any{
			"evidence_id": map[string]string{"type": "string", "description": "Evidence identifier"},
		},
		"required": []string{"evidence_id"},
	})
	tool := mcp.NewToolWithRawSchema("get_evidence",
		"Fetch one evidence record with its sentence, spans, and predicate scores", schema)

	srv.AddTool(tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		evidence, err := database.GetEvidence(ctx, stringArg(req.GetArguments(), "evidence_id"))
		if errors.Is(err, db.ErrNotFound) {
			return mcp.NewToolResultError("no results found"), nil
		}
		if err != nil {
			return nil, err
		}
		b, err := json.Marshal(map[string]any{"evidence": evidence})
		if err != nil {
			return nil, err
		}
		return mcp.NewToolResultText(string(b)), nil
	})
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
