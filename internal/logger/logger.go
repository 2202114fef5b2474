package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/cliffyan/go-searxng-mcp/internal/config"
)

// Log 全局日志实例，Init 之前指向 logrus 标准 logger
var Log = logrus.StandardLogger()

// CustomFormatter 自定义日志格式
type CustomFormatter struct{}

// Format 实现 logrus.Formatter 接口
func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var fileLine string
	if entry.HasCaller() {
		fileLine = fmt.Sprintf("%s:%d", filepath.Base(entry.Caller.File), entry.Caller.Line)
	}

	// 对齐级别长度，例如 INFO, WARN, ERRO
	level := strings.ToUpper(entry.Level.String())
	if len(level) > 4 {
		level = level[:4]
	}

	timeStr := entry.Time.Format("2006-01-02 15:04:05")

	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] [%s]", timeStr, level)
	if fileLine != "" {
		fmt.Fprintf(&sb, " [%s]", fileLine)
	}
	sb.WriteString(" ")
	sb.WriteString(entry.Message)

	// 附加字段按 key=value 输出
	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&sb, " %s=%v", k, entry.Data[k])
	}
	sb.WriteString("\n")

	return []byte(sb.String()), nil
}

// New 根据配置创建日志实例
// 日志默认写到 stderr：stdout 留给 CLI 输出和 stdio 传输
func New(cfg config.LogConfig) (*logrus.Logger, func() error, error) {
	l := logrus.New()
	l.SetReportCaller(true)
	l.SetFormatter(&CustomFormatter{})

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	closer := func() error { return nil }
	writers := []io.Writer{os.Stderr}
	if cfg.File != "" {
		logDir := filepath.Dir(cfg.File)
		if logDir != "." {
			if err := os.MkdirAll(logDir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
			}
		}

		file, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file failed: %w", err)
		}
		writers = append(writers, file)
		closer = file.Close
	}
	l.SetOutput(io.MultiWriter(writers...))

	return l, closer, nil
}

// Init 初始化全局日志实例
func Init(cfg config.LogConfig) (func() error, error) {
	l, closer, err := New(cfg)
	if err != nil {
		return nil, err
	}
	Log = l
	config.SetLogger(l)
	return closer, nil
}
