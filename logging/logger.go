// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing users to plug any
// structured logger. It also offers a richer SimLogger with contextual
// helpers (agent, cycle, component) and domain specific logging helpers for
// cycles and reasoning calls.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
)

// LogLevel is a thin enum for user friendly level configuration decoupled from slog.
type LogLevel int

const (
	// LogLevelDebug is the debug logging level.
	LogLevelDebug LogLevel = iota
	// LogLevelInfo is the informational logging level.
	LogLevelInfo
	// LogLevelWarn is the warning logging level.
	LogLevelWarn
	// LogLevelError is the error logging level.
	LogLevelError
)

// String returns the string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger defines the minimal logging interface for econsim.
// This allows users to provide their own logger implementation or use the built-in adapters.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface.
type SlogAdapter struct {
	*slog.Logger
}

// Debug logs a debug message.
func (s *SlogAdapter) Debug(msg string, args ...any) { s.Logger.Debug(msg, args...) }

// Info logs an informational message.
func (s *SlogAdapter) Info(msg string, args ...any) { s.Logger.Info(msg, args...) }

// Warn logs a warning message.
func (s *SlogAdapter) Warn(msg string, args ...any) { s.Logger.Warn(msg, args...) }

// Error logs an error message.
func (s *SlogAdapter) Error(msg string, args ...any) { s.Logger.Error(msg, args...) }

// NewSlogAdapter creates a Logger from *slog.Logger.
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default().
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// CycleLogger is implemented by loggers that record completed agent cycles
// with dedicated structured fields instead of a generic debug line.
type CycleLogger interface {
	LogCycle(agentID string, cycle int, decision string, dur time.Duration, err string)
}

// ReasonerCallLogger is implemented by loggers that record reasoning model
// calls, including latency and fallback substitution.
type ReasonerCallLogger interface {
	LogReasonerCall(model string, dur time.Duration, success, fallback bool, err error)
}

// SimLogger wraps slog.Logger adding contextual cloning helpers and domain
// convenience methods. It should be cheap to copy via With* methods.
type SimLogger struct {
	logger    *slog.Logger
	level     LogLevel
	context   map[string]interface{}
	component string
	agentID   string
}

// LoggerConfig configures construction of a SimLogger.
type LoggerConfig struct {
	Level       LogLevel
	Format      string // json or text
	Output      io.Writer
	AddSource   bool
	Component   string
	AgentID     string
	CustomAttrs map[string]interface{}
}

// DefaultLoggerConfig returns a baseline JSON info level configuration.
func DefaultLoggerConfig() *LoggerConfig {
	return &LoggerConfig{Level: LogLevelInfo, Format: "json", Output: os.Stdout, CustomAttrs: map[string]interface{}{}}
}

// NewLogger builds a SimLogger from a config (or defaults if nil).
func NewLogger(cfg *LoggerConfig) *SimLogger {
	if cfg == nil {
		cfg = DefaultLoggerConfig()
	}
	opts := &slog.HandlerOptions{Level: slogLevel(cfg.Level), AddSource: cfg.AddSource}
	var handler slog.Handler
	if cfg.Format == "text" {
		handler = slog.NewTextHandler(cfg.Output, opts)
	} else {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	}
	return &SimLogger{logger: slog.New(handler), level: cfg.Level, context: map[string]interface{}{}, component: cfg.Component, agentID: cfg.AgentID}
}

func slogLevel(l LogLevel) slog.Level {
	switch l {
	case LogLevelDebug:
		return slog.LevelDebug
	case LogLevelInfo:
		return slog.LevelInfo
	case LogLevelWarn:
		return slog.LevelWarn
	case LogLevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *SimLogger) clone() *SimLogger {
	nl := *l
	nl.context = map[string]interface{}{}
	for k, v := range l.context {
		nl.context[k] = v
	}
	return &nl
}

// WithContext adds a key/value attribute that will be attached to every log entry.
func (l *SimLogger) WithContext(key string, value interface{}) *SimLogger {
	nl := l.clone()
	nl.context[key] = value
	return nl
}

// WithComponent sets the logical component (engine, runner, backend, etc.).
func (l *SimLogger) WithComponent(c string) *SimLogger {
	nl := l.clone()
	nl.component = c
	return nl
}

// WithAgent attaches an agent identifier.
func (l *SimLogger) WithAgent(agentID string) *SimLogger {
	nl := l.clone()
	nl.agentID = agentID
	return nl
}

func (l *SimLogger) buildAttrs() []slog.Attr {
	attrs := make([]slog.Attr, 0, len(l.context)+3)
	if l.component != "" {
		attrs = append(attrs, slog.String("component", l.component))
	}
	if l.agentID != "" {
		attrs = append(attrs, slog.String("agent_id", l.agentID))
	}
	for k, v := range l.context {
		attrs = append(attrs, slog.Any(k, v))
	}
	return attrs
}

func (l *SimLogger) log(level slog.Level, allowed bool, msg string, args ...interface{}) {
	if !allowed {
		return
	}
	attrs := l.buildAttrs()
	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// Debug logs at debug level.
func (l *SimLogger) Debug(msg string, args ...interface{}) {
	l.log(slog.LevelDebug, l.level <= LogLevelDebug, msg, args...)
}

// Info logs at info level.
func (l *SimLogger) Info(msg string, args ...interface{}) {
	l.log(slog.LevelInfo, l.level <= LogLevelInfo, msg, args...)
}

// Warn logs at warn level.
func (l *SimLogger) Warn(msg string, args ...interface{}) {
	l.log(slog.LevelWarn, l.level <= LogLevelWarn, msg, args...)
}

// Error logs at error level.
func (l *SimLogger) Error(msg string, args ...interface{}) {
	l.log(slog.LevelError, l.level <= LogLevelError, msg, args...)
}

// LogCycle records outcome details for one completed agent cycle.
func (l *SimLogger) LogCycle(agentID string, cycle int, decision string, dur time.Duration, err string) {
	attrs := l.buildAttrs()
	attrs = append(attrs,
		slog.String("agent_id", agentID),
		slog.Int("cycle", cycle),
		slog.String("decision", decision),
		slog.Duration("duration", dur))
	level := slog.LevelInfo
	msg := "Cycle completed"
	if err != "" {
		attrs = append(attrs, slog.String("error", err))
		level = slog.LevelWarn
		msg = "Cycle completed with error"
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// LogReasonerCall records reasoning call latency, success and fallback use.
func (l *SimLogger) LogReasonerCall(model string, dur time.Duration, success, fallback bool, err error) {
	attrs := l.buildAttrs()
	attrs = append(attrs,
		slog.String("model", model),
		slog.Duration("duration", dur),
		slog.Bool("success", success),
		slog.Bool("fallback_used", fallback))
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	level := slog.LevelInfo
	msg := "Reasoning call completed"
	if !success {
		level = slog.LevelWarn
		msg = "Reasoning call failed"
	}
	l.logger.LogAttrs(context.Background(), level, msg, attrs...)
}

// StartTimer returns a closure that logs the elapsed duration when invoked.
func (l *SimLogger) StartTimer(op string) func() {
	start := time.Now()
	return func() { l.Info("Operation completed", "operation", op, "duration", time.Since(start)) }
}

// NewSlogLogger is a convenience constructor mirroring common usage: level,
// format ("json" or "text") and whether to include source positions.
func NewSlogLogger(level LogLevel, format string, addSource bool) *SimLogger {
	cfg := DefaultLoggerConfig()
	cfg.Level = level
	if format != "" {
		cfg.Format = format
	}
	cfg.AddSource = addSource
	return NewLogger(cfg)
}

var (
	_ Logger             = (*SimLogger)(nil)
	_ CycleLogger        = (*SimLogger)(nil)
	_ ReasonerCallLogger = (*SimLogger)(nil)
)

// NoOpLogger discards all log messages. Useful for testing or when logging is disabled.
type NoOpLogger struct{}

// Debug logs a debug message.
func (NoOpLogger) Debug(string, ...any) {}

// Info logs an informational message.
func (NoOpLogger) Info(string, ...any) {}

// Warn logs a warning message.
func (NoOpLogger) Warn(string, ...any) {}

// Error logs an error message.
func (NoOpLogger) Error(string, ...any) {}
