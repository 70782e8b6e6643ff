package renderer

import (
	"context"
	"log/slog"
	"sync/atomic"
)

// nopHandler 丢弃所有日志；Enabled 返回 false，调用方不会格式化消息。
type nopHandler struct{}

func (nopHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (nopHandler) Handle(context.Context, slog.Record) error { return nil }
func (nopHandler) WithAttrs([]slog.Attr) slog.Handler        { return nopHandler{} }
func (nopHandler) WithGroup(string) slog.Handler             { return nopHandler{} }

func newNopLogger() *slog.Logger { return slog.New(nopHandler{}) }

var loggerPtr atomic.Pointer[slog.Logger]

func init() {
	loggerPtr.Store(newNopLogger())
}

// SetLogger 设置包级日志记录器，默认不输出任何日志。传入 nil 恢复静默。
//
// 使用的日志级别：
//   - [slog.LevelDebug]: 翻页、测量缓存等内部细节
//   - [slog.LevelWarn]: 内容超出页面等降级输出
//   - [slog.LevelError]: 输出目标写入失败
func SetLogger(l *slog.Logger) {
	if l == nil {
		l = newNopLogger()
	}
	loggerPtr.Store(l)
}

// Logger 返回当前包级日志记录器。
func Logger() *slog.Logger {
	return loggerPtr.Load()
}
