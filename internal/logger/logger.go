package logger

import (
	"context"
	"log/slog"
	"os"
	"runtime"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	oteltrace "go.opentelemetry.io/otel/trace"

	"stockpilot/internal/trace"
)

var (
	globalLogger    *slog.Logger
	logLevel        slog.Level
	detailedLogging bool
)

// LogConfig holds logging configuration
type LogConfig struct {
	Level           string // DEBUG, INFO, WARN, ERROR
	Format          string // json or text
	DetailedLogging bool
}

// Init initializes the global logger from environment variables.
func Init() error {
	return InitWithConfig(LoadConfigFromEnv())
}

// LoadConfigFromEnv loads logging configuration from environment variables
func LoadConfigFromEnv() LogConfig {
	return LogConfig{
		Level:           getEnvOrDefault("LOG_LEVEL", "INFO"),
		Format:          getEnvOrDefault("LOG_FORMAT", "json"),
		DetailedLogging: getEnvOrDefault("LOG_DETAILED", "false") == "true",
	}
}

// InitWithConfig initializes the logger with a specific configuration
func InitWithConfig(config LogConfig) error {
	logLevel = parseLogLevel(config.Level)
	detailedLogging = config.DetailedLogging

	// Source is attached manually in logWithTrace so the caller location
	// survives the wrapper functions.
	opts := &slog.HandlerOptions{
		Level:     logLevel,
		AddSource: false,
	}

	var handler slog.Handler
	if config.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger)
	return nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToUpper(level) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// Debug logs a debug message
func Debug(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelDebug, msg, 2, args...)
}

// Info logs an info message
func Info(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelInfo, msg, 2, args...)
}

// Warn logs a warning message
func Warn(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelWarn, msg, 2, args...)
}

// Error logs an error message
func Error(ctx context.Context, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelError, msg, 2, args...)
}

// ErrorWithErr logs an error message with an error object
func ErrorWithErr(ctx context.Context, msg string, err error, args ...any) {
	if trace.Enabled() {
		span := oteltrace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}

	allArgs := append([]any{"error", err}, args...)
	logWithTrace(ctx, slog.LevelError, msg, 2, allArgs...)
}

// DebugSkip/InfoSkip/ErrorWithErrSkip log on behalf of a wrapper, skipping
// extra stack frames so the source attribution points at the real caller.
func DebugSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelDebug, msg, 2+skip, args...)
}

func InfoSkip(ctx context.Context, skip int, msg string, args ...any) {
	logWithTrace(ctx, slog.LevelInfo, msg, 2+skip, args...)
}

func ErrorWithErrSkip(ctx context.Context, skip int, msg string, err error, args ...any) {
	allArgs := append([]any{"error", err}, args...)
	logWithTrace(ctx, slog.LevelError, msg, 2+skip, allArgs...)
}

func logWithTrace(ctx context.Context, level slog.Level, msg string, skip int, args ...any) {
	if globalLogger == nil {
		return
	}

	if traceID, spanID, ok := trace.GetTraceFields(ctx); ok {
		args = append([]any{"trace_id", traceID, "span_id", spanID}, args...)
	}

	if detailedLogging {
		if pc, file, line, ok := runtime.Caller(skip); ok {
			if fn := runtime.FuncForPC(pc); fn != nil {
				args = append(args, "source", slog.GroupValue(
					slog.String("function", fn.Name()),
					slog.String("file", file),
					slog.Int("line", line),
				))
			}
		}
	}

	globalLogger.Log(ctx, level, msg, args...)
}

// Decision logs a scored trading decision.
func Decision(ctx context.Context, symbol, action string, confidence int, reasons []string, fields ...any) {
	if trace.Enabled() {
		span := oteltrace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.AddEvent("trading_decision", oteltrace.WithAttributes(
				attribute.String("symbol", symbol),
				attribute.String("action", action),
				attribute.Int("confidence", confidence),
			))
		}
	}

	allFields := append([]any{
		"type", "DECISION",
		"symbol", symbol,
		"action", action,
		"confidence", confidence,
		"reasons", strings.Join(reasons, "; "),
	}, fields...)
	logWithTrace(ctx, slog.LevelInfo, "Trading decision made", 2, allFields...)
}

// Trade logs an executed order.
func Trade(ctx context.Context, symbol, side string, qty int, price float64, orderID string, fields ...any) {
	if trace.Enabled() {
		span := oteltrace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.AddEvent("trade_executed", oteltrace.WithAttributes(
				attribute.String("symbol", symbol),
				attribute.String("side", side),
				attribute.Int("quantity", qty),
				attribute.Float64("price", price),
				attribute.String("order_id", orderID),
			))
		}
	}

	allFields := append([]any{
		"type", "TRADE",
		"symbol", symbol,
		"side", side,
		"quantity", qty,
		"price", price,
		"order_id", orderID,
	}, fields...)
	logWithTrace(ctx, slog.LevelInfo, "Trade executed", 2, allFields...)
}

// Risk logs a risk management event (cap hit, stop-loss, take-profit).
func Risk(ctx context.Context, symbol, eventType string, fields ...any) {
	if trace.Enabled() {
		span := oteltrace.SpanFromContext(ctx)
		if span.SpanContext().IsValid() {
			span.AddEvent("risk_event", oteltrace.WithAttributes(
				attribute.String("symbol", symbol),
				attribute.String("event_type", eventType),
			))
		}
	}

	allFields := append([]any{
		"type", "RISK",
		"symbol", symbol,
		"event_type", eventType,
	}, fields...)
	logWithTrace(ctx, slog.LevelWarn, "Risk event", 2, allFields...)
}

// IsDebugEnabled returns whether detailed logging is enabled
func IsDebugEnabled() bool {
	return detailedLogging
}
