package searx

import (
	"context"
	"fmt"
	"net/url"
	"strings"
)

// Client SearXNG API 客户端，作用域为一个实例及固定的引擎、分类
type Client struct {
	baseURL    *url.URL
	engines    []string
	categories []string
	language   string
	format     Format
	userAgent  string
	fetcher    Fetcher
}

// Option 客户端配置项
type Option func(c *Client)

// WithEngines 限定使用的引擎，原样传递给 SearXNG
func WithEngines(engines []string) Option {
	return func(c *Client) {
		c.engines = engines
	}
}

// WithCategories 限定使用的分类，原样传递给 SearXNG
func WithCategories(categories []string) Option {
	return func(c *Client) {
		c.categories = categories
	}
}

// WithLanguage 设置结果语言
func WithLanguage(language string) Option {
	return func(c *Client) {
		c.language = language
	}
}

// WithFormat 设置结果页格式（json 或 html）
func WithFormat(format Format) Option {
	return func(c *Client) {
		c.format = format
	}
}

// WithUserAgent 设置 User-Agent
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// WithFetcher 替换默认的 HTTP 抓取器
func WithFetcher(f Fetcher) Option {
	return func(c *Client) {
		c.fetcher = f
	}
}

// NewClient 创建 SearXNG 客户端，host 必须是 http(s) URL
// 不检查实例是否可达
func NewClient(host string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimSpace(host))
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidHost, host, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidHost, host)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawQuery = ""
	u.Fragment = ""

	c := &Client{
		baseURL: u,
		format:  FormatJSON,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.format != FormatJSON && c.format != FormatHTML {
		return nil, fmt.Errorf("searx: unsupported format %q", c.format)
	}
	if c.fetcher == nil {
		c.fetcher = NewHTTPFetcher(0, "")
	}
	if _, ok := c.fetcher.(*BrowserFetcher); ok && c.format != FormatHTML {
		return nil, ErrBrowserRequiresHTML
	}

	return c, nil
}

// Host 返回规范化后的实例地址
func (c *Client) Host() string {
	return c.baseURL.String()
}

// SearchURL 构建 /search 请求地址
func (c *Client) SearchURL(query string, opts ...QueryOption) string {
	u, _ := c.build(query, opts)
	return u
}

func (c *Client) build(query string, opts []QueryOption) (string, map[string]string) {
	o := &queryOptions{
		params:  make(map[string]string),
		headers: make(map[string]string),
	}
	for _, opt := range opts {
		opt(o)
	}

	q := url.Values{}
	q.Set("q", query)
	q.Set("pageno", "1")
	if c.format == FormatJSON {
		q.Set("format", "json")
	}
	if c.language != "" {
		q.Set("language", c.language)
	}
	if len(c.engines) > 0 {
		q.Set("engines", strings.Join(c.engines, ","))
	}
	if len(c.categories) > 0 {
		q.Set("categories", strings.Join(c.categories, ","))
	}
	for k, v := range o.params {
		q.Set(k, v)
	}

	u := *c.baseURL
	u.Path = c.baseURL.Path + "/search"
	u.RawQuery = q.Encode()

	headers := map[string]string{}
	if c.userAgent != "" {
		headers["User-Agent"] = c.userAgent
	}
	if c.format == FormatJSON {
		headers["Accept"] = "application/json"
	} else {
		headers["Accept"] = "text/html,application/xhtml+xml"
	}
	for k, v := range o.headers {
		headers[k] = v
	}

	return u.String(), headers
}

// Results 执行一次查询，返回第一页的全部原始结果
// SearXNG 没有条数参数，截断由调用方在归一化之后完成
func (c *Client) Results(ctx context.Context, query string, opts ...QueryOption) ([]Record, error) {
	searchURL, headers := c.build(query, opts)

	body, err := c.fetcher.Fetch(ctx, searchURL, headers)
	if err != nil {
		return nil, err
	}

	var records []Record
	switch c.format {
	case FormatHTML:
		records, err = decodeHTML(body)
	default:
		records, err = decodeJSON(body)
	}
	if err != nil {
		return nil, err
	}
	return records, nil
}
