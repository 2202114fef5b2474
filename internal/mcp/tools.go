package mcp

import (
	gomcp "github.com/mark3labs/mcp-go/mcp"

	"github.com/cliffyan/go-searxng-mcp/internal/config"
	"github.com/cliffyan/go-searxng-mcp/internal/search"
)

// SearchTool 搜索工具定义
func SearchTool(cfg *config.Config) gomcp.Tool {
	return gomcp.NewTool(cfg.GetMCPSearchToolName(),
		gomcp.WithDescription(cfg.GetMCPSearchToolDescription()),
		gomcp.WithString("query",
			gomcp.Required(),
			gomcp.Description("The search query"),
		),
		gomcp.WithNumber("num_results",
			gomcp.Description("Number of results to return (default: 10)"),
			gomcp.DefaultNumber(search.DefaultNumResults),
			gomcp.Min(1),
		),
		gomcp.WithString("engines",
			gomcp.Description("Comma-separated list of search engines to use, e.g. \"google,duckduckgo\". See searx-engines://"),
		),
		gomcp.WithString("categories",
			gomcp.Description("Comma-separated list of categories to use, e.g. \"news\". See searx-categories://"),
		),
		gomcp.WithString("time_range",
			gomcp.Description("Restrict results to a time range (optional)"),
			gomcp.Enum(search.ValidTimeRanges...),
		),
		gomcp.WithReadOnlyHintAnnotation(true),
	)
}
