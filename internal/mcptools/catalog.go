package mcptools

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/sakif/datanest/internal/service"
)

// TagListTool handles the tag_list MCP tool.
type TagListTool struct {
	tags *service.TagService
}

func NewTagListTool(tags *service.TagService) *TagListTool {
	return &TagListTool{tags: tags}
}

// Definition returns the MCP tool definition for tag_list.
func (t *TagListTool) Definition() mcp.Tool {
	return mcp.NewTool("tag_list",
		mcp.WithDescription("List every tag with its id and how many snippets use it."),
	)
}

// Handle processes the tag_list tool call.
func (t *TagListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	tags, err := t.tags.List(ctx)
	if err != nil {
		return toolError("listing tags failed", err), nil
	}
	if len(tags) == 0 {
		return mcp.NewToolResultText("No tags yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d tags:\n", len(tags))
	for _, tag := range tags {
		fmt.Fprintf(&b, "- %s (id=%s, snippets=%d)\n", tag.Name, tag.ID, tag.SnippetCount)
	}
	return mcp.NewToolResultText(b.String()), nil
}

// CategoryListTool handles the category_list MCP tool.
type CategoryListTool struct {
	categories *service.CategoryService
}

func NewCategoryListTool(categories *service.CategoryService) *CategoryListTool {
	return &CategoryListTool{categories: categories}
}

// Definition returns the MCP tool definition for category_list.
func (t *CategoryListTool) Definition() mcp.Tool {
	return mcp.NewTool("category_list",
		mcp.WithDescription("List every category with its id, description and snippet count."),
	)
}

// Handle processes the category_list tool call.
func (t *CategoryListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categories, err := t.categories.List(ctx)
	if err != nil {
		return toolError("listing categories failed", err), nil
	}
	if len(categories) == 0 {
		return mcp.NewToolResultText("No categories yet."), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%d categories:\n", len(categories))
	for _, c := range categories {
		fmt.Fprintf(&b, "- %s (id=%s, snippets=%d)", c.Name, c.ID, c.SnippetCount)
		if c.Description != "" {
			fmt.Fprintf(&b, ": %s", truncate(c.Description, previewLength))
		}
		b.WriteString("\n")
	}
	return mcp.NewToolResultText(b.String()), nil
}

// StatsTool handles the dashboard_stats MCP tool.
type StatsTool struct {
	stats *service.StatsService
}

func NewStatsTool(stats *service.StatsService) *StatsTool {
	return &StatsTool{stats: stats}
}

// Definition returns the MCP tool definition for dashboard_stats.
func (t *StatsTool) Definition() mcp.Tool {
	return mcp.NewTool("dashboard_stats",
		mcp.WithDescription("Catalog totals and the most recently updated snippets."),
	)
}

// Handle processes the dashboard_stats tool call.
func (t *StatsTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	d, err := t.stats.Dashboard(ctx)
	if err != nil {
		return toolError("loading stats failed", err), nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "snippets: %d\ncategories: %d\ntags: %d\nassistant queries: %d\n",
		d.Stats.Snippets, d.Stats.Categories, d.Stats.Tags, d.Stats.AIQueries)

	if len(d.RecentSnippets) > 0 {
		b.WriteString("\nRecently updated:\n")
		for _, s := range d.RecentSnippets {
			fmt.Fprintf(&b, "- %s (%s) id=%s\n", s.Title, s.Language, s.ID)
		}
	}
	return mcp.NewToolResultText(b.String()), nil
}
