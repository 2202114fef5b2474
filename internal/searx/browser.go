package searx

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
	"github.com/sirupsen/logrus"
)

// BrowserFetcher 使用无头浏览器抓取 SearXNG 结果页
// 用于开启了 JS 反爬校验的实例，只能配合 html 格式使用
type BrowserFetcher struct {
	proxyURL string
	headless bool
	timeout  time.Duration
	log      logrus.FieldLogger

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
	browserCtx  context.Context
	cancelFunc  context.CancelFunc
	initialized bool
}

// NewBrowserFetcher 创建浏览器抓取器，浏览器在首次 Fetch 时启动
func NewBrowserFetcher(proxyURL string, headless bool, timeout time.Duration, log logrus.FieldLogger) *BrowserFetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &BrowserFetcher{
		proxyURL: proxyURL,
		headless: headless,
		timeout:  timeout,
		log:      log,
	}
}

// chromeNames 在 PATH 中依次查找的可执行文件名
var chromeNames = []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "chrome"}

// chromeExecPath 优先用 CHROME_PATH，其次是 PATH 中第一个可用的 Chrome
// 都找不到时返回空串，交给 chromedp 按平台默认路径查找
func chromeExecPath(lookPath func(string) (string, error)) string {
	if p := os.Getenv("CHROME_PATH"); p != "" {
		return p
	}
	for _, name := range chromeNames {
		if p, err := lookPath(name); err == nil {
			return p
		}
	}
	return ""
}

// extraHeaders 把请求头转成 CDP 附加头，Accept 留给浏览器
func extraHeaders(headers map[string]string) network.Headers {
	out := make(network.Headers, len(headers))
	for k, v := range headers {
		if v == "" || http.CanonicalHeaderKey(k) == "Accept" {
			continue
		}
		out[k] = v
	}
	return out
}

// initialize 启动浏览器，调用方需持有 mu
func (b *BrowserFetcher) initialize() error {
	if b.initialized {
		return nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.WindowSize(1280, 900),
	)
	if chromePath := chromeExecPath(exec.LookPath); chromePath != "" {
		opts = append(opts, chromedp.ExecPath(chromePath))
		b.log.Debugf("🔍 Found Chrome at: %s", chromePath)
	}
	if b.proxyURL != "" {
		opts = append(opts, chromedp.ProxyServer(b.proxyURL))
		b.log.Debugf("🌐 Browser using proxy: %s", b.proxyURL)
	}

	b.allocCtx, b.allocCancel = chromedp.NewExecAllocator(context.Background(), opts...)
	b.browserCtx, b.cancelFunc = chromedp.NewContext(b.allocCtx, chromedp.WithLogf(b.log.Debugf))

	if err := chromedp.Run(b.browserCtx); err != nil {
		b.cancelFunc()
		b.allocCancel()
		return fmt.Errorf("failed to start browser: %w", err)
	}

	b.initialized = true
	b.log.Infof("✅ Browser initialized (headless=%v)", b.headless)
	return nil
}

// newTab 打开新标签页，超时或调用方取消时关闭
func (b *BrowserFetcher) newTab(ctx context.Context) (context.Context, context.CancelFunc, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.initialize(); err != nil {
		return nil, nil, err
	}

	tabCtx, tabCancel := chromedp.NewContext(b.browserCtx)
	timeoutCtx, timeoutCancel := context.WithTimeout(tabCtx, b.timeout)
	stop := context.AfterFunc(ctx, tabCancel)

	return timeoutCtx, func() {
		stop()
		timeoutCancel()
		tabCancel()
	}, nil
}

// Fetch 在新标签页中打开 rawURL 并返回页面 HTML
// User-Agent 和 X-Request-ID 通过 Network.setExtraHTTPHeaders 随导航发送
func (b *BrowserFetcher) Fetch(ctx context.Context, rawURL string, headers map[string]string) ([]byte, error) {
	tabCtx, cancel, err := b.newTab(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	b.log.WithField("request_id", headers["X-Request-ID"]).Debugf("🌐 Browser navigating to %s", rawURL)

	var html string
	var actions []chromedp.Action
	if extra := extraHeaders(headers); len(extra) > 0 {
		actions = append(actions, network.Enable(), network.SetExtraHTTPHeaders(extra))
	}
	actions = append(actions,
		chromedp.Navigate(rawURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)
	err = chromedp.Run(tabCtx, actions...)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("browser fetch cancelled: %w", ctx.Err())
		}
		return nil, fmt.Errorf("browser fetch failed: %w", err)
	}

	return []byte(html), nil
}

// Close 关闭浏览器
func (b *BrowserFetcher) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.initialized {
		return
	}
	b.cancelFunc()
	b.allocCancel()
	b.initialized = false
	b.log.Infof("🔴 Browser closed")
}
