// Package pixlog provides the structured logging used throughout pix.
package pixlog

import (
	"context"
	"log/slog"
	"os"
)

// Logger is the capability pix depends on for diagnostics. Implementations
// wrap a concrete backend (slog by default); callers that already have their
// own logging stack can satisfy this interface directly.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	DebugCtx(ctx context.Context, msg string, args ...any)
	InfoCtx(ctx context.Context, msg string, args ...any)
	WarnCtx(ctx context.Context, msg string, args ...any)
	ErrorCtx(ctx context.Context, msg string, args ...any)
}

type defaultLogger struct {
	logger *slog.Logger
}

// New returns the default slog-backed Logger at the given level.
func New(level slog.Level) Logger {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	return &defaultLogger{logger: logger}
}

const prefix = "[pix] "

func (d *defaultLogger) Debug(msg string, args ...any) { d.logger.Debug(prefix+msg, args...) }
func (d *defaultLogger) Info(msg string, args ...any)  { d.logger.Info(prefix+msg, args...) }
func (d *defaultLogger) Warn(msg string, args ...any)  { d.logger.Warn(prefix+msg, args...) }
func (d *defaultLogger) Error(msg string, args ...any) { d.logger.Error(prefix+msg, args...) }

type defaultArgsKey struct{}

func getDefaultArgs(ctx context.Context) []any {
	args := ctx.Value(defaultArgsKey{})
	if args == nil {
		return nil
	}
	return args.([]any)
}

// WithDefaultArgs attaches key/value pairs that every *Ctx call made with
// the returned context will append to its own args.
func WithDefaultArgs(ctx context.Context, args ...any) context.Context {
	merged := append(append([]any{}, getDefaultArgs(ctx)...), args...)
	return context.WithValue(ctx, defaultArgsKey{}, merged)
}

func (d *defaultLogger) DebugCtx(ctx context.Context, msg string, args ...any) {
	d.logger.Debug(prefix+msg, append(args, getDefaultArgs(ctx)...)...)
}

func (d *defaultLogger) InfoCtx(ctx context.Context, msg string, args ...any) {
	d.logger.Info(prefix+msg, append(args, getDefaultArgs(ctx)...)...)
}

func (d *defaultLogger) WarnCtx(ctx context.Context, msg string, args ...any) {
	d.logger.Warn(prefix+msg, append(args, getDefaultArgs(ctx)...)...)
}

func (d *defaultLogger) ErrorCtx(ctx context.Context, msg string, args ...any) {
	d.logger.Error(prefix+msg, append(args, getDefaultArgs(ctx)...)...)
}

// WithFields returns a Logger that appends fields to the args of every
// call, useful for tagging all of one component's log lines with a
// stable identifier (an engine instance id, say) without threading it
// through every call site.
func WithFields(l Logger, fields ...any) Logger {
	return &fieldLogger{inner: l, fields: fields}
}

type fieldLogger struct {
	inner  Logger
	fields []any
}

func (f *fieldLogger) Debug(msg string, args ...any) { f.inner.Debug(msg, append(args, f.fields...)...) }
func (f *fieldLogger) Info(msg string, args ...any)  { f.inner.Info(msg, append(args, f.fields...)...) }
func (f *fieldLogger) Warn(msg string, args ...any)  { f.inner.Warn(msg, append(args, f.fields...)...) }
func (f *fieldLogger) Error(msg string, args ...any) { f.inner.Error(msg, append(args, f.fields...)...) }

func (f *fieldLogger) DebugCtx(ctx context.Context, msg string, args ...any) {
	f.inner.DebugCtx(ctx, msg, append(args, f.fields...)...)
}

func (f *fieldLogger) InfoCtx(ctx context.Context, msg string, args ...any) {
	f.inner.InfoCtx(ctx, msg, append(args, f.fields...)...)
}

func (f *fieldLogger) WarnCtx(ctx context.Context, msg string, args ...any) {
	f.inner.WarnCtx(ctx, msg, append(args, f.fields...)...)
}

func (f *fieldLogger) ErrorCtx(ctx context.Context, msg string, args ...any) {
	f.inner.ErrorCtx(ctx, msg, append(args, f.fields...)...)
}

// Noop returns a Logger that discards everything, useful for tests.
func Noop() Logger { return noopLogger{} }

type noopLogger struct{}

func (noopLogger) Debug(string, ...any)                             {}
func (noopLogger) Info(string, ...any)                              {}
func (noopLogger) Warn(string, ...any)                              {}
func (noopLogger) Error(string, ...any)                             {}
func (noopLogger) DebugCtx(context.Context, string, ...any)         {}
func (noopLogger) InfoCtx(context.Context, string, ...any)          {}
func (noopLogger) WarnCtx(context.Context, string, ...any)          {}
func (noopLogger) ErrorCtx(context.Context, string, ...any)         {}
