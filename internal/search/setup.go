package search

import (
	"github.com/sirupsen/logrus"

	"github.com/cliffyan/go-searxng-mcp/internal/config"
	"github.com/cliffyan/go-searxng-mcp/internal/searx"
)

// ClientFactory 返回按请求创建 searx.Client 的工厂
// 每次调用都新建客户端，base 中的配置项对所有请求生效
func ClientFactory(base ...searx.Option) BackendFactory {
	return func(req Request) (Backend, error) {
		opts := append([]searx.Option{}, base...)
		opts = append(opts,
			searx.WithEngines(req.Engines),
			searx.WithCategories(req.Categories),
		)
		return searx.NewClient(req.Host, opts...)
	}
}

// NewFromConfig 根据配置组装适配器
// 返回的 close 函数用于释放浏览器等共享资源
func NewFromConfig(cfg *config.Config, log logrus.FieldLogger) (*Adapter, func()) {
	proxyURL := ""
	if cfg.IsUseProxy() {
		proxyURL = cfg.GetProxyURL()
	}

	opts := []searx.Option{
		searx.WithLanguage(cfg.Searx.Language),
		searx.WithFormat(searx.Format(cfg.Searx.Format)),
		searx.WithUserAgent(cfg.Searx.UserAgent),
	}

	closeFn := func() {}
	if cfg.IsBrowserEnabled() {
		browser := searx.NewBrowserFetcher(proxyURL, cfg.IsBrowserHeadless(), cfg.GetSearxTimeout(), log)
		opts = append(opts, searx.WithFetcher(browser))
		closeFn = browser.Close
	} else {
		opts = append(opts, searx.WithFetcher(searx.NewHTTPFetcher(cfg.GetSearxTimeout(), proxyURL)))
	}

	adapter := NewAdapter(ClientFactory(opts...), log, WithSentinelKey(cfg.Searx.SentinelKey))
	return adapter, closeFn
}
