// Package mcptools exposes the snippet catalog to AI assistants as MCP tools.
//
// Each tool follows the same shape:
//   - a struct holding the service it needs, injected via constructor
//   - Definition() returns the mcp.Tool schema
//   - Handle() processes the request and returns a result
//
// Business failures (validation, not found) come back as tool errors with
// IsError set, so the assistant sees the message. Handle only returns a Go
// error for protocol-level problems, which none of these tools have.
package mcptools

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/sakif/datanest/internal/apperror"
	"github.com/sakif/datanest/internal/service"
)

// QuerySource marks assistant queries recorded by these tools.
const QuerySource = "mcp"

// Services are the dependencies of the tool set.
type Services struct {
	Snippets   *service.SnippetService
	Categories *service.CategoryService
	Tags       *service.TagService
	Stats      *service.StatsService
}

// Tools returns every datanest tool paired with its handler.
func Tools(svc Services) []server.ServerTool {
	search := NewSearchTool(svc.Snippets, svc.Stats)
	get := NewGetTool(svc.Snippets)
	save := NewSaveTool(svc.Snippets)
	tags := NewTagListTool(svc.Tags)
	categories := NewCategoryListTool(svc.Categories)
	stats := NewStatsTool(svc.Stats)

	return []server.ServerTool{
		{Tool: search.Definition(), Handler: search.Handle},
		{Tool: get.Definition(), Handler: get.Handle},
		{Tool: save.Definition(), Handler: save.Handle},
		{Tool: tags.Definition(), Handler: tags.Handle},
		{Tool: categories.Definition(), Handler: categories.Handle},
		{Tool: stats.Definition(), Handler: stats.Handle},
	}
}

// NewServer builds an MCP server with the datanest tools registered.
func NewServer(version string, svc Services) *server.MCPServer {
	s := server.NewMCPServer(
		"datanest",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	s.AddTools(Tools(svc)...)
	return s
}

const instructions = `datanest is the user's personal code-snippet catalog.
Use snippet_search before writing boilerplate the user may already have saved.
Use tag_list and category_list to find valid ids before calling snippet_save.`

// intArg extracts an integer argument, returning defaultVal if the key is
// missing or not a number (JSON numbers are float64).
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// toolError turns a service error into a tool result. Store failures are
// already logged by the service, so their details stay out of the reply.
func toolError(action string, err error) *mcp.CallToolResult {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) && !errors.Is(err, apperror.ErrStore) {
		return mcp.NewToolResultError(fmt.Sprintf("%s: %s", action, appErr.Message))
	}
	return mcp.NewToolResultError(fmt.Sprintf("%s: internal error", action))
}

// truncate shortens s to at most n runes, marking the cut.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

func tagList(names []string) string {
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
