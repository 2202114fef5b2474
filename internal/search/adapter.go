package search

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cliffyan/go-searxng-mcp/internal/searx"
)

// DefaultSentinelKey 部分后端版本在没有结果时返回 [{"Result": "..."}]
const DefaultSentinelKey = "Result"

// Adapter 搜索适配器：一次请求，一次后端调用，结果归一化
// 后端的任何错误都在这里被吞掉并记录，调用方只会拿到空结果
type Adapter struct {
	newBackend  BackendFactory
	sentinelKey string
	log         logrus.FieldLogger
	newID       func() string
}

// AdapterOption 适配器配置项
type AdapterOption func(a *Adapter)

// WithSentinelKey 设置"无结果"哨兵记录的字段名
func WithSentinelKey(key string) AdapterOption {
	return func(a *Adapter) {
		if key != "" {
			a.sentinelKey = key
		}
	}
}

// NewAdapter 创建搜索适配器
func NewAdapter(factory BackendFactory, log logrus.FieldLogger, opts ...AdapterOption) *Adapter {
	if log == nil {
		log = logrus.StandardLogger()
	}
	a := &Adapter{
		newBackend:  factory,
		sentinelKey: DefaultSentinelKey,
		log:         log,
		newID:       uuid.NewString,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Search 执行搜索，从不返回错误
// 失败时记录一行诊断日志并返回空结果，与"没有匹配"无法区分
func (a *Adapter) Search(ctx context.Context, req Request) Response {
	requestID := a.newID()
	log := a.log.WithField("request_id", requestID)

	results, err := a.search(ctx, req, requestID)
	if err != nil {
		log.Errorf("Error performing search: %v", err)
		results = []Result{}
	} else {
		log.Debugf("🔍 Search %q returned %d results", req.Query, len(results))
	}

	return Response{
		Results:      results,
		Query:        req.Query,
		TotalResults: len(results),
	}
}

func (a *Adapter) search(ctx context.Context, req Request, requestID string) ([]Result, error) {
	if a.newBackend == nil {
		return nil, fmt.Errorf("no search backend configured")
	}

	backend, err := a.newBackend(req)
	if err != nil {
		return nil, fmt.Errorf("create backend: %w", err)
	}

	records, err := backend.Results(ctx, req.Query,
		searx.WithTimeRange(string(req.TimeRange)),
		searx.WithRequestID(requestID),
	)
	if err != nil {
		return nil, err
	}

	// 先判断哨兵再截断，哨兵只看后端返回的完整列表
	results := a.normalize(records)

	numResults := req.NumResults
	if numResults <= 0 {
		numResults = DefaultNumResults
	}
	if len(results) > numResults {
		results = results[:numResults]
	}
	return results, nil
}

// normalize 把原始记录映射为 Result，保持顺序
func (a *Adapter) normalize(records []searx.Record) []Result {
	if len(records) == 1 {
		if _, ok := records[0][a.sentinelKey]; ok {
			return []Result{}
		}
	}

	results := make([]Result, 0, len(records))
	for _, r := range records {
		results = append(results, Result{
			Title:   field(r, "title"),
			URL:     field(r, "link", "url"),
			Content: field(r, "snippet", "content"),
		})
	}
	return results
}

// field 按顺序取第一个字符串字段，缺失、null 或非字符串时看下一个，都没有返回空串
func field(r searx.Record, keys ...string) string {
	for _, k := range keys {
		if s, ok := r[k].(string); ok {
			return s
		}
	}
	return ""
}
