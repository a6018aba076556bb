// Package logger is the process-wide leveled logging sink.
//
// Messages carry alternating key/value pairs. The default sink discards
// everything until SetLogger or Configure installs one, so library code can
// log unconditionally.
package logger

import (
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
)

// LogLevel represents log severity
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

var severity = map[LogLevel]int{
	DebugLevel: 0,
	InfoLevel:  1,
	WarnLevel:  2,
	ErrorLevel: 3,
}

// ParseLevel maps a level name to a LogLevel.
func ParseLevel(s string) (LogLevel, error) {
	level := LogLevel(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := severity[level]; !ok {
		return "", fmt.Errorf("unknown log level %q (expected debug, info, warn or error)", s)
	}
	return level, nil
}

// LogFunc is a single logger function that handles all levels
type LogFunc func(level LogLevel, msg string, keyvals ...any)

var (
	mu      sync.RWMutex
	logFunc LogFunc = func(LogLevel, string, ...any) {}
)

// SetLogger sets the global logger function
func SetLogger(f LogFunc) {
	if f == nil {
		return
	}
	mu.Lock()
	logFunc = f
	mu.Unlock()
}

// Configure installs a standard library logger writing to w that drops
// messages below minLevel.
func Configure(w io.Writer, minLevel LogLevel) {
	SetLogger(NewStdLogger(log.New(w, "", log.LstdFlags), minLevel))
}

// NewStdLogger adapts a *log.Logger into a LogFunc.
func NewStdLogger(l *log.Logger, minLevel LogLevel) LogFunc {
	threshold := severity[minLevel]
	return func(level LogLevel, msg string, keyvals ...any) {
		if severity[level] < threshold {
			return
		}
		l.Print(format(level, msg, keyvals))
	}
}

func format(level LogLevel, msg string, keyvals []any) string {
	var b strings.Builder
	b.WriteString(strings.ToUpper(string(level)))
	b.WriteString(" ")
	b.WriteString(msg)
	for i := 0; i < len(keyvals); i += 2 {
		if i+1 < len(keyvals) {
			fmt.Fprintf(&b, " %v=%v", keyvals[i], keyvals[i+1])
		} else {
			fmt.Fprintf(&b, " %v=?", keyvals[i])
		}
	}
	return b.String()
}

func emit(level LogLevel, msg string, keyvals []any) {
	mu.RLock()
	f := logFunc
	mu.RUnlock()
	f(level, msg, keyvals...)
}

// Debug logs a message at debug level
func Debug(msg string, keyvals ...any) {
	emit(DebugLevel, msg, keyvals)
}

// Info logs a message at info level
func Info(msg string, keyvals ...any) {
	emit(InfoLevel, msg, keyvals)
}

// Warn logs a message at warn level
func Warn(msg string, keyvals ...any) {
	emit(WarnLevel, msg, keyvals)
}

// Error logs a message at error level
func Error(msg string, keyvals ...any) {
	emit(ErrorLevel, msg, keyvals)
}
