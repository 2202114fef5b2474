package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cliffyan/go-searxng-mcp/internal/config"
	"github.com/cliffyan/go-searxng-mcp/internal/search"
)

// ErrNoResults 没有结果，CLI 以非零状态退出
var ErrNoResults = errors.New("no results found")

// SearchFunc 执行搜索，由 search.Adapter.Search 提供
type SearchFunc func(ctx context.Context, req search.Request) search.Response

// Builder 根据最终配置组装搜索函数，返回的 close 在命令结束时调用
type Builder func(cfg *config.Config) (SearchFunc, func(), error)

// options 命令行参数
type options struct {
	host       string
	numResults int
	engines    string
	categories string
	timeRange  string
	json       bool
	configPath string
	logLevel   string
}

// NewRootCmd 创建 searxng 命令
func NewRootCmd(build Builder) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "searxng [flags] <query...>",
		Short:         "Search using SearXNG",
		Example:       examples,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MinimumNArgs(1)(cmd, args); err != nil {
				return usageError(cmd, err)
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args, build)
		},
	}
	cmd.SetUsageTemplate(cmd.UsageTemplate() + catalogHelp())
	cmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return usageError(cmd, err)
	})

	flags := cmd.Flags()
	flags.StringVar(&opts.host, "host", "", "SearxNG host URL (default: $SEARX_HOST, config file, or "+config.DefaultSearxHost+")")
	flags.IntVar(&opts.numResults, "num-results", search.DefaultNumResults, "Number of results to return")
	flags.StringVar(&opts.engines, "engines", "", "Comma-separated list of search engines to use")
	flags.StringVar(&opts.categories, "categories", "", "Comma-separated list of categories to use")
	flags.StringVar(&opts.timeRange, "time-range", "", "Time range for search results (optional, allowed: "+strings.Join(search.ValidTimeRanges, ", ")+")")
	flags.BoolVar(&opts.json, "json", false, "Output results in JSON format")
	flags.StringVar(&opts.configPath, "config", "", "Path to a YAML config file")
	flags.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	return cmd
}

func run(cmd *cobra.Command, opts *options, args []string, build Builder) error {
	ctx := cmd.Context()

	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.host == "" {
		opts.host = cfg.GetSearxHost()
	}

	req, err := opts.request(args)
	if err != nil {
		return usageError(cmd, err)
	}

	searchFn, closeFn, err := build(cfg)
	if err != nil {
		return err
	}
	defer closeFn()

	resp := searchFn(ctx, req)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return render(cmd.OutOrStdout(), resp, opts.json)
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load(), nil
	}
	return config.LoadFromFile(path)
}

// Execute 执行命令并返回进程退出码
// 0 成功；1 无结果、取消或其他错误；2 参数错误
func Execute(ctx context.Context, cmd *cobra.Command, args []string) int {
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(ctx)

	var usageErr *UsageError
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrNoResults):
		return 1
	case ctx.Err() != nil:
		fmt.Fprintln(cmd.OutOrStdout(), "\nSearch cancelled.")
		return 1
	case errors.As(err, &usageErr):
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 2
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		return 1
	}
}

// request 校验参数并构造搜索请求，校验失败时不会发出网络请求
func (o *options) request(args []string) (search.Request, error) {
	query := strings.Join(args, " ")
	if strings.TrimSpace(query) == "" {
		return search.Request{}, errors.New("query must not be empty")
	}
	if o.numResults < 1 {
		return search.Request{}, fmt.Errorf("--num-results must be a positive integer, got %d", o.numResults)
	}
	if !config.IsHTTPURL(o.host) {
		return search.Request{}, fmt.Errorf("--host must be an http(s) URL, got %q", o.host)
	}

	timeRange, err := search.ParseTimeRange(o.timeRange)
	if err != nil {
		return search.Request{}, fmt.Errorf("--time-range: %w", err)
	}

	return search.Request{
		Host:       o.host,
		Query:      query,
		NumResults: o.numResults,
		Engines:    search.ParseList(o.engines),
		Categories: search.ParseList(o.categories),
		TimeRange:  timeRange,
	}, nil
}

// UsageError 参数错误，在发起搜索前返回
type UsageError struct {
	Err error
}

func (e *UsageError) Error() string { return e.Err.Error() }
func (e *UsageError) Unwrap() error { return e.Err }

func usageError(cmd *cobra.Command, err error) error {
	fmt.Fprintln(cmd.ErrOrStderr(), cmd.UsageString())
	return &UsageError{Err: err}
}

// render 输出结果，没有结果时返回 ErrNoResults
func render(out io.Writer, resp search.Response, asJSON bool) error {
	if len(resp.Results) == 0 {
		if asJSON {
			fmt.Fprintln(out, "[]")
		} else {
			fmt.Fprintln(out, "No results found.")
		}
		return ErrNoResults
	}

	if asJSON {
		data, err := json.MarshalIndent(resp.Results, "", "  ")
		if err != nil {
			return fmt.Errorf("encode results: %w", err)
		}
		fmt.Fprintln(out, string(data))
		return nil
	}

	for i, r := range resp.Results {
		fmt.Fprintf(out, "%d. %s\n", i+1, r.Title)
		fmt.Fprintf(out, "   URL: %s\n", r.URL)
		if r.Content != "" {
			fmt.Fprintf(out, "   %s\n", r.Content)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "Found %d results.\n", len(resp.Results))
	return nil
}

const examples = `  searxng "python programming"
  searxng "climate change" --engines "google,duckduckgo"
  searxng "latest news" --categories "news" --num-results 5
  searxng "go release notes" --time-range month --json`

// catalogHelp 帮助信息末尾的分类和引擎列表
func catalogHelp() string {
	var sb strings.Builder
	sb.WriteString("\nAvailable categories:\n  ")
	sb.WriteString(strings.Join(search.Categories, ", "))
	sb.WriteString("\n\nEngines by category:\n")
	for _, group := range search.EnginesByCategory {
		fmt.Fprintf(&sb, "  %s: %s\n", group.Category, strings.Join(group.Engines, ", "))
	}
	return sb.String()
}
