package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// LegacyLogger 純文字 logger（用於回退），所有級別都寫到 stderr
type LegacyLogger struct {
	level Level
	out   io.Writer
	mu    sync.Mutex
}

// NewLegacyLogger 建立 legacy logger
func NewLegacyLogger(out io.Writer) *LegacyLogger {
	if out == nil {
		out = os.Stderr
	}
	return &LegacyLogger{
		level: LevelWarn,
		out:   out,
	}
}

// SetLevel 設定日誌級別
func (l *LegacyLogger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

func (l *LegacyLogger) log(level Level, msg string, args []any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", strings.ToUpper(level.String()), escapeControl(msg))
	for i := 0; i+1 < len(args); i += 2 {
		fmt.Fprintf(&b, " %v=%v", args[i], escapeControl(fmt.Sprint(args[i+1])))
	}
	b.WriteByte('\n')
	io.WriteString(l.out, b.String())
}

func (l *LegacyLogger) Debug(msg string, args ...any) { l.log(LevelDebug, msg, args) }
func (l *LegacyLogger) Info(msg string, args ...any)  { l.log(LevelInfo, msg, args) }
func (l *LegacyLogger) Warn(msg string, args ...any)  { l.log(LevelWarn, msg, args) }
func (l *LegacyLogger) Error(msg string, args ...any) { l.log(LevelError, msg, args) }

// With legacy 不支援 context，回傳自己
func (l *LegacyLogger) With(args ...any) Logger {
	return l
}

func (l *LegacyLogger) Sync() error {
	return nil
}

func (l *LegacyLogger) Shutdown() error {
	return nil
}
