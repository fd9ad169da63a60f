package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sakif/datanest/internal/model"
	"github.com/sakif/datanest/internal/repository"
	"github.com/sakif/datanest/internal/service"
)

const (
	defaultSearchLimit = 10
	maxSearchLimit     = 50
	previewLength      = 200
)

// SearchTool handles the snippet_search MCP tool.
type SearchTool struct {
	snippets *service.SnippetService
	stats    *service.StatsService
}

// NewSearchTool creates a SearchTool. Every call is counted through stats.
func NewSearchTool(snippets *service.SnippetService, stats *service.StatsService) *SearchTool {
	return &SearchTool{snippets: snippets, stats: stats}
}

// Definition returns the MCP tool definition for snippet_search.
func (t *SearchTool) Definition() mcp.Tool {
	return mcp.NewTool("snippet_search",
		mcp.WithDescription(
			"Search the user's saved code snippets. All filters are optional and combined with AND; "+
				"results are ordered most recently updated first.",
		),
		mcp.WithString("query",
			mcp.Description("Substring matched against title, description and code"),
		),
		mcp.WithString("language",
			mcp.Description("Exact language, e.g. go, python (\"all\" means any)"),
		),
		mcp.WithString("category",
			mcp.Description("Exact category name"),
		),
		mcp.WithString("tag",
			mcp.Description("Exact tag name"),
		),
		mcp.WithNumber("limit",
			mcp.Description(fmt.Sprintf("Max results (default: %d, max: %d)", defaultSearchLimit, maxSearchLimit)),
		),
	)
}

// Handle processes the snippet_search tool call.
func (t *SearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := req.GetString("query", "")

	limit := intArg(req, "limit", defaultSearchLimit)
	if limit <= 0 {
		limit = defaultSearchLimit
	}
	limit = min(limit, maxSearchLimit)

	// StatsService logs its own failures. The counter never blocks a search.
	_ = t.stats.RecordQuery(ctx, QuerySource, query)

	results, err := t.snippets.List(ctx, repository.SnippetFilter{
		Language: req.GetString("language", ""),
		Category: req.GetString("category", ""),
		Tag:      req.GetString("tag", ""),
		Search:   query,
		Limit:    limit,
	})
	if err != nil {
		return toolError("search failed", err), nil
	}

	if len(results) == 0 {
		return mcp.NewToolResultText("No snippets found matching your query."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d snippets:\n\n", len(results))
	for i, s := range results {
		fmt.Fprintf(&b, "[%d] %s (%s) id=%s\n    category: %s | tags: %s\n",
			i+1, s.Title, s.Language, s.ID, categoryName(s), tagList(tagNames(s)))
		if s.Description != "" {
			fmt.Fprintf(&b, "    %s\n", truncate(s.Description, previewLength))
		}
		b.WriteString("\n")
	}

	return mcp.NewToolResultText(b.String()), nil
}

// GetTool handles the snippet_get MCP tool.
type GetTool struct {
	snippets *service.SnippetService
}

// NewGetTool creates a GetTool.
func NewGetTool(snippets *service.SnippetService) *GetTool {
	return &GetTool{snippets: snippets}
}

// Definition returns the MCP tool definition for snippet_get.
func (t *GetTool) Definition() mcp.Tool {
	return mcp.NewTool("snippet_get",
		mcp.WithDescription("Fetch one snippet, including its full code, by id."),
		mcp.WithString("id",
			mcp.Required(),
			mcp.Description("Snippet id as returned by snippet_search"),
		),
	)
}

// Handle processes the snippet_get tool call.
func (t *GetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("id", "")
	if id == "" {
		return mcp.NewToolResultError("'id' is required"), nil
	}

	s, err := t.snippets.GetByID(ctx, id)
	if err != nil {
		return toolError("get failed", err), nil
	}

	return mcp.NewToolResultText(formatSnippet(s)), nil
}

// SaveTool handles the snippet_save MCP tool. It only creates; editing stays
// with the user in the UI.
type SaveTool struct {
	snippets *service.SnippetService
}

// NewSaveTool creates a SaveTool.
func NewSaveTool(snippets *service.SnippetService) *SaveTool {
	return &SaveTool{snippets: snippets}
}

// Definition returns the MCP tool definition for snippet_save.
func (t *SaveTool) Definition() mcp.Tool {
	return mcp.NewTool("snippet_save",
		mcp.WithDescription(
			"Save a new code snippet to the user's catalog. Look up category and tag ids with "+
				"category_list and tag_list first; unknown ids are rejected.",
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Short, searchable title"),
		),
		mcp.WithString("code",
			mcp.Required(),
			mcp.Description("The code, verbatim"),
		),
		mcp.WithString("language",
			mcp.Required(),
			mcp.Description("Language identifier, e.g. go, typescript"),
		),
		mcp.WithString("description",
			mcp.Description("What the snippet does"),
		),
		mcp.WithString("category_id",
			mcp.Description("Category id (optional)"),
		),
		mcp.WithArray("tag_ids",
			mcp.WithStringItems(),
			mcp.Description("Tag ids (optional)"),
		),
	)
}

// Handle processes the snippet_save tool call.
func (t *SaveTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	in := service.SnippetInput{
		Title:       req.GetString("title", ""),
		Description: req.GetString("description", ""),
		Code:        req.GetString("code", ""),
		Language:    req.GetString("language", ""),
		TagIDs:      req.GetStringSlice("tag_ids", nil),
	}
	if categoryID := req.GetString("category_id", ""); categoryID != "" {
		in.CategoryID = &categoryID
	}

	s, err := t.snippets.Create(ctx, in)
	if err != nil {
		return toolError("save failed", err), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("Snippet saved: %q (%s)\nID: %s", s.Title, s.Language, s.ID)), nil
}

func formatSnippet(s *model.Snippet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Title)
	fmt.Fprintf(&b, "id: %s\nlanguage: %s\ncategory: %s\ntags: %s\nupdated: %s\n",
		s.ID, s.Language, categoryName(*s), tagList(tagNames(*s)), s.UpdatedAt.Format("2006-01-02 15:04"))
	if s.Description != "" {
		fmt.Fprintf(&b, "\n%s\n", s.Description)
	}
	fmt.Fprintf(&b, "\n```%s\n%s\n```\n", s.Language, s.Code)
	return b.String()
}

func categoryName(s model.Snippet) string {
	if s.Category == nil {
		return "-"
	}
	return s.Category.Name
}

func tagNames(s model.Snippet) []string {
	names := make([]string, 0, len(s.Tags))
	for _, t := range s.Tags {
		names = append(names, t.Name)
	}
	return names
}
