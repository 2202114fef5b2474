package searx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// maxBodySize 响应体上限
const maxBodySize = 2 << 20

// HTTPFetcher 基于 net/http 的抓取器
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher 创建 HTTP 抓取器
// timeout 为 0 时不设置超时；proxyURL 为空时不走代理
func NewHTTPFetcher(timeout time.Duration, proxyURL string) *HTTPFetcher {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if proxyURL != "" {
		if proxy, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(proxy)
		}
	}

	return &HTTPFetcher{
		client: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
	}
}

// NewHTTPFetcherWithClient 使用现成的 http.Client
func NewHTTPFetcherWithClient(client *http.Client) *HTTPFetcher {
	return &HTTPFetcher{client: client}
}

// Fetch 发送 GET 请求并读取响应体
func (f *HTTPFetcher) Fetch(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("read body failed: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d, body: %s", ErrUnexpectedStatus, resp.StatusCode, string(body[:min(len(body), 200)]))
	}

	return body, nil
}
