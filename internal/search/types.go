package search

import (
	"context"

	"github.com/cliffyan/go-searxng-mcp/internal/searx"
)

// DefaultNumResults 默认返回条数
const DefaultNumResults = 10

// Request 搜索请求
type Request struct {
	Host       string    `json:"host"`
	Query      string    `json:"query"`
	NumResults int       `json:"num_results,omitempty"`
	Engines    []string  `json:"engines,omitempty"`
	Categories []string  `json:"categories,omitempty"`
	TimeRange  TimeRange `json:"time_range,omitempty"`
}

// Result 归一化后的单条结果，字段可能为空串但不会缺失
type Result struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Response 搜索响应
type Response struct {
	Results      []Result `json:"results"`
	Query        string   `json:"query"`
	TotalResults int      `json:"total_results"`
}

// Backend 一次性的后端查询会话
type Backend interface {
	Results(ctx context.Context, query string, opts ...searx.QueryOption) ([]searx.Record, error)
}

// BackendFactory 按请求的 host、引擎和分类创建后端
type BackendFactory func(req Request) (Backend, error)
