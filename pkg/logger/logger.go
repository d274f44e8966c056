package logger

import (
	"context"
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type ctxKey struct{}

var (
	mu     sync.RWMutex
	global = &logger{zap: zap.NewNop()}
)

type logger struct {
	zap *zap.Logger
}

// Init builds the process-wide logger. Level is one of debug, info, warn, error.
func Init(level string, asJSON bool) error {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("logger.Init: parse level %q: %w", level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if asJSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, zapcore.AddSync(os.Stdout), zap.NewAtomicLevelAt(lvl))

	mu.Lock()
	global = &logger{zap: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))}
	mu.Unlock()

	return nil
}

// SetNopLogger silences logging, used by tests.
func SetNopLogger() {
	mu.Lock()
	global = &logger{zap: zap.NewNop()}
	mu.Unlock()
}

func L() *logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

func With(fields ...Field) *logger {
	return &logger{zap: L().zap.With(fields...)}
}

// ContextWith attaches fields that every entry logged with ctx will carry.
func ContextWith(ctx context.Context, fields ...Field) context.Context {
	prev := fieldsFromContext(ctx)
	merged := make([]Field, 0, len(prev)+len(fields))
	merged = append(merged, prev...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, ctxKey{}, merged)
}

func fieldsFromContext(ctx context.Context) []Field {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(ctxKey{}).([]Field)
	return fields
}

func (l *logger) With(fields ...Field) *logger {
	return &logger{zap: l.zap.With(fields...)}
}

func (l *logger) Debug(ctx context.Context, msg string, fields ...Field) {
	l.zap.Debug(msg, append(fieldsFromContext(ctx), fields...)...)
}

func (l *logger) Info(ctx context.Context, msg string, fields ...Field) {
	l.zap.Info(msg, append(fieldsFromContext(ctx), fields...)...)
}

func (l *logger) Warn(ctx context.Context, msg string, fields ...Field) {
	l.zap.Warn(msg, append(fieldsFromContext(ctx), fields...)...)
}

func (l *logger) Error(ctx context.Context, msg string, fields ...Field) {
	l.zap.Error(msg, append(fieldsFromContext(ctx), fields...)...)
}

func (l *logger) Sync() error { return l.zap.Sync() }

func Debug(ctx context.Context, msg string, fields ...Field) { L().Debug(ctx, msg, fields...) }
func Info(ctx context.Context, msg string, fields ...Field)  { L().Info(ctx, msg, fields...) }
func Warn(ctx context.Context, msg string, fields ...Field)  { L().Warn(ctx, msg, fields...) }
func Error(ctx context.Context, msg string, fields ...Field) { L().Error(ctx, msg, fields...) }
