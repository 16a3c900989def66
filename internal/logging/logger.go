// Package logging implements the structured logger used across the
// bioreactor optimization core, plus a zapcore bridge for dependencies
// that expect a *zap.Logger.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"
)

// LogLevel is the severity of a log entry. Levels order from Debug up.
type LogLevel int8

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	// FatalLevel logs the entry and then exits the process.
	FatalLevel
)

// String returns the upper-case level name.
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	case FatalLevel:
		return "FATAL"
	default:
		return fmt.Sprintf("LEVEL(%d)", int8(l))
	}
}

// exit is swapped out in tests so Fatal can be exercised.
var exit = os.Exit

// Logger emits structured entries at or above its configured level.
// Derived loggers share the output writer and its mutex, so one Logger
// tree is safe for concurrent use.
type Logger struct {
	level    LogLevel
	jsonMode bool
	output   io.Writer
	mu       *sync.Mutex
	fields   map[string]interface{}
}

// New creates a JSON logger writing at or above level.
func New(level LogLevel, output io.Writer) *Logger {
	return &Logger{
		level:    level,
		jsonMode: true,
		output:   output,
		mu:       &sync.Mutex{},
		fields:   map[string]interface{}{},
	}
}

// WithFields returns a derived logger that attaches the given fields to
// every entry. The receiver is not modified.
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{
		level:    l.level,
		jsonMode: l.jsonMode,
		output:   l.output,
		mu:       l.mu,
		fields:   merged,
	}
}

// WithField returns a derived logger with one extra field.
func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(map[string]interface{}{key: value})
}

// WithError returns a derived logger with the error field set.
func (l *Logger) WithError(err error) *Logger {
	return l.WithField("error", err.Error())
}

// Debug logs at DebugLevel.
func (l *Logger) Debug(msg string, fields ...map[string]interface{}) {
	l.log(DebugLevel, msg, first(fields))
}

// Info logs at InfoLevel.
func (l *Logger) Info(msg string, fields ...map[string]interface{}) {
	l.log(InfoLevel, msg, first(fields))
}

// Warn logs at WarnLevel.
func (l *Logger) Warn(msg string, fields ...map[string]interface{}) {
	l.log(WarnLevel, msg, first(fields))
}

// Error logs at ErrorLevel.
func (l *Logger) Error(msg string, fields ...map[string]interface{}) {
	l.log(ErrorLevel, msg, first(fields))
}

// Fatal logs at FatalLevel and exits the process.
func (l *Logger) Fatal(msg string, fields ...map[string]interface{}) {
	l.log(FatalLevel, msg, first(fields))
}

func first(fields []map[string]interface{}) map[string]interface{} {
	if len(fields) > 0 {
		return fields[0]
	}
	return nil
}

func (l *Logger) shouldLog(level LogLevel) bool {
	return level >= l.level
}

func (l *Logger) log(level LogLevel, msg string, extra map[string]interface{}) {
	if !l.shouldLog(level) {
		return
	}

	merged := make(map[string]interface{}, len(l.fields)+len(extra))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range extra {
		merged[k] = v
	}

	var line []byte
	if l.jsonMode {
		line = l.jsonLine(level, msg, merged)
	} else {
		line = l.textLine(level, msg, merged)
	}

	l.mu.Lock()
	_, _ = l.output.Write(line)
	l.mu.Unlock()

	if level == FatalLevel {
		exit(1)
	}
}

func (l *Logger) jsonLine(level LogLevel, msg string, fields map[string]interface{}) []byte {
	entry := map[string]interface{}{
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"level":     level.String(),
		"message":   msg,
		"caller":    callerRef(),
	}
	for k, v := range fields {
		entry[k] = v
	}
	data, err := json.Marshal(entry)
	if err != nil {
		// Some field failed to serialize; fall back to the text form.
		return l.textLine(level, msg, fields)
	}
	return append(data, '\n')
}

func (l *Logger) textLine(level LogLevel, msg string, fields map[string]interface{}) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %-5s %s", time.Now().UTC().Format(time.RFC3339), level, msg)

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, fields[k])
	}
	b.WriteByte('\n')
	return []byte(b.String())
}

// callerRef locates the first frame outside this package, trimmed to the
// last two path elements.
func callerRef() string {
	for skip := 3; skip < 8; skip++ {
		_, file, line, ok := runtime.Caller(skip)
		if !ok {
			break
		}
		if strings.Contains(file, "internal/logging") {
			continue
		}
		parts := strings.Split(file, "/")
		if len(parts) > 2 {
			file = strings.Join(parts[len(parts)-2:], "/")
		}
		return fmt.Sprintf("%s:%d", file, line)
	}
	return "???:0"
}

type ctxLoggerKey struct{}

// FromContext returns the logger stored in ctx, or a default stderr
// logger when none is present.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(ctxLoggerKey{}).(*Logger); ok {
		return logger
	}
	return New(InfoLevel, os.Stderr)
}

// IntoContext stores the logger in a derived context.
func IntoContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, ctxLoggerKey{}, l)
}
