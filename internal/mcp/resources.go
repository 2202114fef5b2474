package mcp

import (
	"context"

	gomcp "github.com/mark3labs/mcp-go/mcp"

	"github.com/cliffyan/go-searxng-mcp/internal/search"
)

const (
	CategoriesURI = "searx-categories://"
	EnginesURI    = "searx-engines://"
	InfoURI       = "searx-info://"
)

// InfoDocument searx-info:// 的内容
const InfoDocument = `# SearXNG Search

SearXNG is a privacy-respecting, hackable metasearch engine. It aggregates results from various search engines while respecting your privacy.

## How to use this MCP server

1. Use the ` + "`search`" + ` tool to perform web searches through SearXNG
2. Customize your search with engines and categories parameters
3. Browse available categories with the ` + "`searx-categories://`" + ` resource
4. Browse common engines with the ` + "`searx-engines://`" + ` resource

## Examples

- Basic search: ` + "`search(query=\"climate change\")`" + `
- Search with specific engines: ` + "`search(query=\"python tutorial\", engines=\"google,stackoverflow,github\")`" + `
- Search news only: ` + "`search(query=\"latest developments\", categories=\"news\")`" + `
- Recent results only: ` + "`search(query=\"go release\", time_range=\"month\")`" + `

## Note

Make sure the SearxNG instance is running and accessible at the provided host URL.
`

func textResource(uri, text string) []gomcp.ResourceContents {
	return []gomcp.ResourceContents{
		gomcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/markdown",
			Text:     text,
		},
	}
}

// handleCategories 返回分类列表
func (h *Handler) handleCategories(ctx context.Context, req gomcp.ReadResourceRequest) ([]gomcp.ResourceContents, error) {
	return textResource(req.Params.URI, search.CategoriesMarkdown()), nil
}

// handleEngines 返回按分类分组的引擎列表
func (h *Handler) handleEngines(ctx context.Context, req gomcp.ReadResourceRequest) ([]gomcp.ResourceContents, error) {
	return textResource(req.Params.URI, search.EnginesMarkdown()), nil
}

// handleInfo 返回使用说明
func (h *Handler) handleInfo(ctx context.Context, req gomcp.ReadResourceRequest) ([]gomcp.ResourceContents, error) {
	return textResource(req.Params.URI, InfoDocument), nil
}
