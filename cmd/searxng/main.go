package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/cliffyan/go-searxng-mcp/internal/cli"
	"github.com/cliffyan/go-searxng-mcp/internal/config"
	"github.com/cliffyan/go-searxng-mcp/internal/logger"
	"github.com/cliffyan/go-searxng-mcp/internal/search"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Execute(ctx, cli.NewRootCmd(build), os.Args[1:])
	stop()
	os.Exit(code)
}

// build 初始化日志并创建搜索适配器
func build(cfg *config.Config) (cli.SearchFunc, func(), error) {
	closeLog, err := logger.Init(cfg.Log)
	if err != nil {
		return nil, nil, err
	}

	adapter, closeAdapter := search.NewFromConfig(cfg, logger.Log)
	return adapter.Search, func() {
		closeAdapter()
		_ = closeLog()
	}, nil
}
