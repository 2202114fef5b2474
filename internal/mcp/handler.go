package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	gomcp "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/cliffyan/go-searxng-mcp/internal/config"
	"github.com/cliffyan/go-searxng-mcp/internal/search"
)

// Searcher 搜索入口，由 search.Adapter 实现
type Searcher interface {
	Search(ctx context.Context, req search.Request) search.Response
}

// Handler MCP 工具、资源和提示词处理器
type Handler struct {
	config   *config.Config
	searcher Searcher
	log      logrus.FieldLogger
}

// NewHandler 创建 MCP 处理器
func NewHandler(cfg *config.Config, searcher Searcher, log logrus.FieldLogger) *Handler {
	return &Handler{
		config:   cfg,
		searcher: searcher,
		log:      log,
	}
}

// NewServer 创建注册好工具、资源和提示词的 MCP 服务器
func NewServer(cfg *config.Config, searcher Searcher, log logrus.FieldLogger) *server.MCPServer {
	s := server.NewMCPServer(
		cfg.GetMCPServerName(),
		cfg.GetMCPServerVersion(),
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithPromptCapabilities(false),
		server.WithLogging(),
		server.WithRecovery(),
	)
	NewHandler(cfg, searcher, log).Register(s)
	return s
}

// Register 注册所有能力
func (h *Handler) Register(s *server.MCPServer) {
	s.AddTool(SearchTool(h.config), h.handleSearch)

	s.AddResource(gomcp.NewResource(CategoriesURI, "categories",
		gomcp.WithResourceDescription("Get a list of available SearxNG search categories"),
		gomcp.WithMIMEType("text/markdown"),
	), h.handleCategories)
	s.AddResource(gomcp.NewResource(EnginesURI, "engines",
		gomcp.WithResourceDescription("Get a list of common SearxNG search engines"),
		gomcp.WithMIMEType("text/markdown"),
	), h.handleEngines)
	s.AddResource(gomcp.NewResource(InfoURI, "info",
		gomcp.WithResourceDescription("Get information about SearXNG and how to use it"),
		gomcp.WithMIMEType("text/markdown"),
	), h.handleInfo)

	s.AddPrompt(gomcp.NewPrompt(SearchPromptName,
		gomcp.WithPromptDescription("Create a prompt to help with searching"),
		gomcp.WithArgument("query",
			gomcp.ArgumentDescription("What to search for (default: climate change)"),
		),
	), h.handlePrompt)

	h.log.Debugf("📝 Registered MCP tool %q, 3 resources and prompt %q", h.config.GetMCPSearchToolName(), SearchPromptName)
}

// handleSearch 处理搜索工具调用
// 参数错误以工具错误返回；后端失败已在适配器里转成空结果
func (h *Handler) handleSearch(ctx context.Context, req gomcp.CallToolRequest) (*gomcp.CallToolResult, error) {
	query := req.GetString("query", "")
	if strings.TrimSpace(query) == "" {
		return gomcp.NewToolResultError("query is required"), nil
	}

	numResults := req.GetInt("num_results", search.DefaultNumResults)
	if numResults < 1 {
		return gomcp.NewToolResultError("num_results must be a positive integer"), nil
	}

	timeRange, err := search.ParseTimeRange(req.GetString("time_range", ""))
	if err != nil {
		return gomcp.NewToolResultError(err.Error()), nil
	}

	host := h.config.GetSearxHost()
	h.log.Infof("🔧 Tool call: query=%q, host=%s", query, host)
	h.notifyLog(ctx, fmt.Sprintf("Searching for: %s with %s", query, host))
	h.progress(ctx, req, 0.2, "Starting search...")

	h.progress(ctx, req, 0.5, "Querying SearxNG...")
	resp := h.searcher.Search(ctx, search.Request{
		Host:       host,
		Query:      query,
		NumResults: numResults,
		Engines:    search.ParseList(req.GetString("engines", "")),
		Categories: search.ParseList(req.GetString("categories", "")),
		TimeRange:  timeRange,
	})

	h.progress(ctx, req, 1.0, fmt.Sprintf("Search complete, found %d results", len(resp.Results)))

	text, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return gomcp.NewToolResultError(fmt.Sprintf("Failed to format results: %v", err)), nil
	}
	return gomcp.NewToolResultStructured(resp, string(text)), nil
}

// progress 客户端带了 progressToken 时发送进度通知
func (h *Handler) progress(ctx context.Context, req gomcp.CallToolRequest, progress float64, message string) {
	if req.Params.Meta == nil || req.Params.Meta.ProgressToken == nil {
		return
	}
	h.notify(ctx, "notifications/progress", map[string]any{
		"progressToken": req.Params.Meta.ProgressToken,
		"progress":      progress,
		"total":         1.0,
		"message":       message,
	})
}

// notifyLog 向客户端发送 info 级别日志通知
func (h *Handler) notifyLog(ctx context.Context, message string) {
	h.notify(ctx, "notifications/message", map[string]any{
		"level":  "info",
		"logger": h.config.GetMCPServerName(),
		"data":   message,
	})
}

func (h *Handler) notify(ctx context.Context, method string, params map[string]any) {
	srv := server.ServerFromContext(ctx)
	if srv == nil {
		return
	}
	if err := srv.SendNotificationToClient(ctx, method, params); err != nil {
		h.log.Debugf("⚠️ Failed to send %s: %v", method, err)
	}
}
