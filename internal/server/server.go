package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"

	"github.com/cliffyan/go-searxng-mcp/internal/config"
)

// Server MCP 服务器，支持 stdio 和 streamable HTTP 两种传输
type Server struct {
	config    *config.Config
	mcpServer *server.MCPServer
	log       logrus.FieldLogger

	stdin  io.Reader
	stdout io.Writer
}

// New 创建新的服务器实例
func New(cfg *config.Config, mcpServer *server.MCPServer, log logrus.FieldLogger) *Server {
	return &Server{
		config:    cfg,
		mcpServer: mcpServer,
		log:       log,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
	}
}

// Start 按配置的传输方式启动，ctx 取消时退出
func (s *Server) Start(ctx context.Context) error {
	switch s.config.GetTransport() {
	case config.TransportHTTP:
		return s.serveHTTP(ctx)
	default:
		return s.serveStdio(ctx)
	}
}

// serveStdio 通过标准输入输出提供 MCP 服务
func (s *Server) serveStdio(ctx context.Context) error {
	s.log.Infof("🚀 Serving MCP over stdio")

	stdio := server.NewStdioServer(s.mcpServer)
	err := stdio.Listen(ctx, s.stdin, s.stdout)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return fmt.Errorf("stdio server: %w", err)
	}
	return nil
}

// Handler 返回 HTTP 处理器：/mcp 和 /health，按配置包上 CORS
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// MCP 端点
	mux.Handle("/mcp", server.NewStreamableHTTPServer(s.mcpServer,
		server.WithEndpointPath("/mcp"),
		server.WithHeartbeatInterval(30*time.Second),
	))

	// 健康检查
	mux.HandleFunc("/health", s.handleHealth)

	var handler http.Handler = mux
	if s.config.IsEnableCORS() {
		c := cors.New(cors.Options{
			AllowedOrigins:   []string{s.config.GetCORSOrigin()},
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Content-Type", "Mcp-Session-Id", "Mcp-Protocol-Version"},
			ExposedHeaders:   []string{"Mcp-Session-Id"},
			AllowCredentials: true,
		})
		handler = c.Handler(mux)
	}
	return handler
}

// serveHTTP 启动 HTTP 服务器
func (s *Server) serveHTTP(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.GetHost(), s.config.GetPort())
	httpServer := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.log.Infof("🚀 Starting MCP HTTP server on %s", addr)
	s.log.Infof("📡 MCP endpoint: http://%s/mcp", addr)
	s.log.Infof("❤️ Health check: http://%s/health", addr)

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.log.Infof("🛑 Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	}
}

// handleHealth 健康检查端点
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]interface{}{
		"status":     "ok",
		"service":    s.config.GetMCPServerName(),
		"version":    s.config.GetMCPServerVersion(),
		"transport":  s.config.GetTransport(),
		"searx_host": s.config.GetSearxHost(),
	}); err != nil {
		s.log.Errorf("❌ Failed to encode health response: %v", err)
	}
}
