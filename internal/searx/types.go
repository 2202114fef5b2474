package searx

import (
	"context"
	"errors"
)

// Record SearXNG 返回的单条原始结果，字段不固定
type Record map[string]any

// Format 结果页格式
type Format string

const (
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

var (
	// ErrInvalidHost host 不是合法的 http(s) URL
	ErrInvalidHost = errors.New("searx: host must be an absolute http(s) URL")
	// ErrUnexpectedStatus SearXNG 返回非 200 状态码
	ErrUnexpectedStatus = errors.New("searx: unexpected status code")
	// ErrMalformedResponse 响应体无法解析
	ErrMalformedResponse = errors.New("searx: malformed response")
	// ErrBrowserRequiresHTML 浏览器抓取只支持 HTML 结果页
	ErrBrowserRequiresHTML = errors.New("searx: browser fetcher requires html format")
)

// Fetcher 获取结果页内容
type Fetcher interface {
	// Fetch 请求 rawURL 并返回响应体
	Fetch(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error)
}

type queryOptions struct {
	params  map[string]string
	headers map[string]string
}

// QueryOption 单次查询的附加参数
type QueryOption func(o *queryOptions)

// WithTimeRange 按时间范围过滤，空值不发送
func WithTimeRange(timeRange string) QueryOption {
	return func(o *queryOptions) {
		if timeRange != "" {
			o.params["time_range"] = timeRange
		}
	}
}

// WithRequestID 通过 X-Request-ID 头传递请求 ID
func WithRequestID(id string) QueryOption {
	return func(o *queryOptions) {
		if id != "" {
			o.headers["X-Request-ID"] = id
		}
	}
}
