package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/cliffyan/go-searxng-mcp/internal/config"
	"github.com/cliffyan/go-searxng-mcp/internal/logger"
	"github.com/cliffyan/go-searxng-mcp/internal/mcp"
	"github.com/cliffyan/go-searxng-mcp/internal/search"
	"github.com/cliffyan/go-searxng-mcp/internal/server"
)

func main() {
	var (
		configPath string
		transport  string
		port       int
	)

	cmd := &cobra.Command{
		Use:           "searxng-mcp",
		Short:         "MCP server exposing SearXNG search",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if transport != "" {
				if transport != config.TransportStdio && transport != config.TransportHTTP {
					return fmt.Errorf("invalid transport %q (allowed: %s, %s)", transport, config.TransportStdio, config.TransportHTTP)
				}
				cfg.Server.Transport = transport
			}
			if port != 0 {
				cfg.Server.Port = port
			}
			return serve(cmd.Context(), cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&transport, "transport", "", "Transport mode (stdio, http)")
	cmd.Flags().IntVar(&port, "port", 0, "HTTP listen port")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := cmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Server failed: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load(), nil
	}
	return config.LoadFromFile(path)
}

func serve(ctx context.Context, cfg *config.Config) error {
	closeLog, err := logger.Init(cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	log := logger.Log
	log.Info("🔍 Starting SearXNG MCP Server...")
	cfg.Print(log)

	// 初始化搜索适配器
	adapter, closeAdapter := search.NewFromConfig(cfg, log)
	defer closeAdapter()

	// 创建并启动服务器
	srv := server.New(cfg, mcp.NewServer(cfg, adapter, log), log)
	if err := srv.Start(ctx); err != nil {
		return err
	}
	log.Info("🛑 Server stopped")
	return nil
}
