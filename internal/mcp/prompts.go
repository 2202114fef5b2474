package mcp

import (
	"context"
	"fmt"

	gomcp "github.com/mark3labs/mcp-go/mcp"
)

const (
	SearchPromptName   = "search_prompt"
	SearchPromptTitle  = "Search Assistant"
	defaultPromptQuery = "climate change"
)

// SearchPrompt 把查询嵌入固定的指令模板
func SearchPrompt(query string) string {
	return fmt.Sprintf(`Please help me find information about: %s
Use the search tool to look for relevant information, and provide a summary of the findings.
You may want to try different search engines or categories if the initial results aren't helpful.
`, query)
}

func (h *Handler) handlePrompt(ctx context.Context, req gomcp.GetPromptRequest) (*gomcp.GetPromptResult, error) {
	query := req.Params.Arguments["query"]
	if query == "" {
		query = defaultPromptQuery
	}

	return gomcp.NewGetPromptResult(SearchPromptTitle, []gomcp.PromptMessage{
		gomcp.NewPromptMessage(gomcp.RoleUser, gomcp.NewTextContent(SearchPrompt(query))),
	}), nil
}
