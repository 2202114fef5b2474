package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	// 服务器配置
	Server ServerConfig `yaml:"server"`

	// SearXNG 后端配置
	Searx SearxConfig `yaml:"searx"`

	// 代理配置
	Proxy ProxyConfig `yaml:"proxy"`

	// MCP 配置
	MCP MCPConfig `yaml:"mcp"`

	// 浏览器配置
	Browser BrowserConfig `yaml:"browser"`

	// 日志配置
	Log LogConfig `yaml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port      int        `yaml:"port"`
	Host      string     `yaml:"host"`
	Transport string     `yaml:"transport"`
	CORS      CORSConfig `yaml:"cors"`
}

// CORSConfig CORS 配置
type CORSConfig struct {
	Enabled bool   `yaml:"enabled"`
	Origin  string `yaml:"origin"`
}

// SearxConfig SearXNG 实例配置
type SearxConfig struct {
	Host        string `yaml:"host"`
	Language    string `yaml:"language"`
	Format      string `yaml:"format"`
	Timeout     int    `yaml:"timeout"` // 秒，0 表示沿用 HTTP 客户端默认值
	UserAgent   string `yaml:"user_agent"`
	SentinelKey string `yaml:"sentinel_key"`
}

// ProxyConfig 代理配置
type ProxyConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// MCPConfig MCP 协议配置
type MCPConfig struct {
	// 服务器信息
	ServerName    string `yaml:"server_name"`
	ServerVersion string `yaml:"server_version"`

	// 工具名称配置
	Tools MCPToolsConfig `yaml:"tools"`
}

// MCPToolsConfig MCP 工具名称配置
type MCPToolsConfig struct {
	SearchName        string `yaml:"search_name"`
	SearchDescription string `yaml:"search_description"`
}

// BrowserConfig 浏览器配置
type BrowserConfig struct {
	Enabled  bool `yaml:"enabled"`
	Headless bool `yaml:"headless"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

const (
	TransportStdio = "stdio"
	TransportHTTP  = "http"

	FormatJSON = "json"
	FormatHTML = "html"
)

// DefaultSearxHost 默认 SearXNG 地址
const DefaultSearxHost = "http://localhost:8888"

// DefaultConfig 默认配置
var DefaultConfig = &Config{
	Server: ServerConfig{
		Port:      3456,
		Host:      "0.0.0.0",
		Transport: TransportStdio,
		CORS: CORSConfig{
			Enabled: false,
			Origin:  "*",
		},
	},
	Searx: SearxConfig{
		Host:        DefaultSearxHost,
		Language:    "en",
		Format:      FormatJSON,
		Timeout:     0,
		UserAgent:   "go-searxng-mcp/0.2.1",
		SentinelKey: "Result",
	},
	Proxy: ProxyConfig{
		Enabled: false,
		URL:     "http://127.0.0.1:7890",
	},
	MCP: MCPConfig{
		ServerName:    "SearXNG Search",
		ServerVersion: "0.2.1",
		Tools: MCPToolsConfig{
			SearchName:        "search",
			SearchDescription: "Search the web using SearXNG. Returns structured results with title, URL and content snippet.",
		},
	},
	Browser: BrowserConfig{
		Enabled:  false,
		Headless: true,
	},
	Log: LogConfig{
		Level: "info",
		File:  "",
	},
}

// configSearchPaths 配置文件搜索路径
var configSearchPaths = []string{
	"config.yaml",
	"config.yml",
	"configs/config.yaml",
	"configs/config.yml",
}

// loadDotenv 加载 .env 文件（测试中可替换）
var loadDotenv = func() {
	_ = godotenv.Load()
}

// log 配置阶段使用的日志实例，日志系统初始化前只能用默认 logger
var log logrus.FieldLogger = logrus.StandardLogger()

// SetLogger 替换配置加载阶段的日志实例
func SetLogger(l logrus.FieldLogger) {
	if l != nil {
		log = l
	}
}

// Load 从 YAML 配置文件加载配置
// 支持通过 CONFIG_FILE 环境变量指定配置文件路径，环境变量覆盖文件中的值
func Load() *Config {
	loadDotenv()

	// 复制默认配置
	cfg := *DefaultConfig

	// 查找配置文件
	configPath := findConfigFile()
	if configPath == "" {
		log.Debugf("⚠️ No config file found, using default configuration")
		cfg.applyEnv()
		cfg.validate()
		return &cfg
	}

	// 读取配置文件
	log.Debugf("📄 Loading configuration from: %s", configPath)
	data, err := os.ReadFile(configPath)
	if err != nil {
		log.Warnf("⚠️ Failed to read config file: %v, using defaults", err)
		cfg.applyEnv()
		cfg.validate()
		return &cfg
	}

	// 解析 YAML
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Warnf("⚠️ Failed to parse config file: %v, using defaults", err)
		cfg = *DefaultConfig
	}

	cfg.applyEnv()
	cfg.validate()
	return &cfg
}

// LoadFromFile 从指定路径加载配置
func LoadFromFile(path string) (*Config, error) {
	loadDotenv()

	cfg := *DefaultConfig

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file failed: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config file failed: %w", err)
	}

	cfg.applyEnv()
	cfg.validate()
	return &cfg, nil
}

// findConfigFile 查找配置文件
func findConfigFile() string {
	// 优先使用环境变量指定的配置文件
	if envPath := os.Getenv("CONFIG_FILE"); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
		log.Warnf("⚠️ CONFIG_FILE=%s not found, searching default paths", envPath)
	}

	// 获取可执行文件所在目录
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	// 获取当前工作目录
	workDir, _ := os.Getwd()

	searchDirs := []string{workDir}
	if execDir != "" && execDir != workDir {
		searchDirs = append(searchDirs, execDir)
	}

	for _, dir := range searchDirs {
		for _, name := range configSearchPaths {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// applyEnv 用环境变量覆盖配置
func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("SEARX_HOST")); v != "" {
		c.Searx.Host = v
	}
	if v := strings.TrimSpace(os.Getenv("SEARX_LOG_LEVEL")); v != "" {
		c.Log.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("MCP_TRANSPORT")); v != "" {
		c.Server.Transport = v
	}
	if v := strings.TrimSpace(os.Getenv("MCP_PORT")); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			log.Warnf("⚠️ Invalid MCP_PORT %q ignored", v)
		} else {
			c.Server.Port = port
		}
	}
}

// validate 验证并修正配置
func (c *Config) validate() {
	// 验证端口
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		log.Warnf("⚠️ Invalid port %d, using default %d", c.Server.Port, DefaultConfig.Server.Port)
		c.Server.Port = DefaultConfig.Server.Port
	}

	if c.Server.Host == "" {
		c.Server.Host = DefaultConfig.Server.Host
	}

	c.Server.Transport = strings.ToLower(strings.TrimSpace(c.Server.Transport))
	if c.Server.Transport != TransportStdio && c.Server.Transport != TransportHTTP {
		log.Warnf("⚠️ Invalid transport %q, falling back to %s", c.Server.Transport, DefaultConfig.Server.Transport)
		c.Server.Transport = DefaultConfig.Server.Transport
	}

	if c.Server.CORS.Origin == "" {
		c.Server.CORS.Origin = DefaultConfig.Server.CORS.Origin
	}

	// 验证 SearXNG 地址
	c.Searx.Host = strings.TrimSpace(c.Searx.Host)
	if c.Searx.Host == "" {
		c.Searx.Host = DefaultConfig.Searx.Host
	}
	if !IsHTTPURL(c.Searx.Host) {
		// 不在这里修正：错误会在搜索边界上被记录
		log.Warnf("⚠️ SearXNG host %q is not a valid http(s) URL", c.Searx.Host)
	}

	c.Searx.Format = strings.ToLower(strings.TrimSpace(c.Searx.Format))
	if c.Searx.Format != FormatJSON && c.Searx.Format != FormatHTML {
		log.Warnf("⚠️ Invalid searx format %q, falling back to %s", c.Searx.Format, DefaultConfig.Searx.Format)
		c.Searx.Format = DefaultConfig.Searx.Format
	}

	if c.Searx.Timeout < 0 {
		log.Warnf("⚠️ Negative searx timeout %d, disabling explicit timeout", c.Searx.Timeout)
		c.Searx.Timeout = 0
	}

	if c.Searx.UserAgent == "" {
		c.Searx.UserAgent = DefaultConfig.Searx.UserAgent
	}
	if c.Searx.SentinelKey == "" {
		c.Searx.SentinelKey = DefaultConfig.Searx.SentinelKey
	}

	// 浏览器只能渲染 HTML 结果页
	if c.Browser.Enabled && c.Searx.Format != FormatHTML {
		log.Warnf("⚠️ Browser fetching requires searx.format=html, disabling browser")
		c.Browser.Enabled = false
	}

	// 验证代理 URL
	if c.Proxy.Enabled && c.Proxy.URL == "" {
		log.Warnf("⚠️ Proxy enabled but URL is empty, using default")
		c.Proxy.URL = DefaultConfig.Proxy.URL
	}

	// 验证 MCP 配置
	if c.MCP.ServerName == "" {
		c.MCP.ServerName = DefaultConfig.MCP.ServerName
	}
	if c.MCP.ServerVersion == "" {
		c.MCP.ServerVersion = DefaultConfig.MCP.ServerVersion
	}
	if c.MCP.Tools.SearchName == "" {
		c.MCP.Tools.SearchName = DefaultConfig.MCP.Tools.SearchName
	}
	if c.MCP.Tools.SearchDescription == "" {
		c.MCP.Tools.SearchDescription = DefaultConfig.MCP.Tools.SearchDescription
	}

	if c.Log.Level == "" {
		c.Log.Level = DefaultConfig.Log.Level
	}
}

// Print 打印配置信息
func (c *Config) Print(l logrus.FieldLogger) {
	l.Infof("🔍 SearXNG host: %s (format=%s, language=%s)", c.Searx.Host, c.Searx.Format, c.Searx.Language)
	if c.Searx.Timeout > 0 {
		l.Infof("⏱️ SearXNG timeout: %ds", c.Searx.Timeout)
	}
	if c.Proxy.Enabled {
		l.Infof("🌐 Using proxy: %s", c.Proxy.URL)
	} else {
		l.Infof("🌐 No proxy configured")
	}
	if c.Browser.Enabled {
		l.Infof("🖥️ Browser fetching enabled (headless=%v)", c.Browser.Headless)
	}
	l.Infof("🔧 MCP Server: %s v%s", c.MCP.ServerName, c.MCP.ServerVersion)
	l.Infof("🔧 MCP Search tool name: %s", c.MCP.Tools.SearchName)
	if c.Server.Transport == TransportHTTP {
		if c.Server.CORS.Enabled {
			l.Infof("🔒 CORS enabled with origin: %s", c.Server.CORS.Origin)
		} else {
			l.Infof("🔒 CORS disabled")
		}
		l.Infof("🖥️ Server will listen on %s:%d", c.Server.Host, c.Server.Port)
	} else {
		l.Infof("🖥️ Server will speak MCP over stdio")
	}
}

// 兼容性方法

// GetPort 获取端口
func (c *Config) GetPort() int {
	return c.Server.Port
}

// GetHost 获取监听地址
func (c *Config) GetHost() string {
	return c.Server.Host
}

// GetTransport 获取 MCP 传输方式
func (c *Config) GetTransport() string {
	return c.Server.Transport
}

// IsEnableCORS 是否启用 CORS
func (c *Config) IsEnableCORS() bool {
	return c.Server.CORS.Enabled
}

// GetCORSOrigin 获取 CORS Origin
func (c *Config) GetCORSOrigin() string {
	return c.Server.CORS.Origin
}

// GetSearxHost 获取 SearXNG 地址
func (c *Config) GetSearxHost() string {
	return c.Searx.Host
}

// GetSearxTimeout 获取 SearXNG 请求超时，0 表示不设置
func (c *Config) GetSearxTimeout() time.Duration {
	return time.Duration(c.Searx.Timeout) * time.Second
}

// IsUseProxy 是否使用代理
func (c *Config) IsUseProxy() bool {
	return c.Proxy.Enabled
}

// GetProxyURL 获取代理 URL
func (c *Config) GetProxyURL() string {
	return c.Proxy.URL
}

// GetMCPServerName 获取 MCP 服务器名称
func (c *Config) GetMCPServerName() string {
	return c.MCP.ServerName
}

// GetMCPServerVersion 获取 MCP 服务器版本
func (c *Config) GetMCPServerVersion() string {
	return c.MCP.ServerVersion
}

// GetMCPSearchToolName 获取 MCP 搜索工具名称
func (c *Config) GetMCPSearchToolName() string {
	return c.MCP.Tools.SearchName
}

// GetMCPSearchToolDescription 获取 MCP 搜索工具描述
func (c *Config) GetMCPSearchToolDescription() string {
	return c.MCP.Tools.SearchDescription
}

// IsBrowserEnabled 是否启用浏览器抓取
func (c *Config) IsBrowserEnabled() bool {
	return c.Browser.Enabled
}

// IsBrowserHeadless 浏览器是否使用无头模式
func (c *Config) IsBrowserHeadless() bool {
	return c.Browser.Headless
}

// IsHTTPURL 检查是否为合法的 http(s) URL
func IsHTTPURL(raw string) bool {
	u, err := url.Parse(raw)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}
