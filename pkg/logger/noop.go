package logger

import "context"

// NoopLogger satisfies the small Info/Error logger interfaces used across pkg/.
type NoopLogger struct{}

func (NoopLogger) Info(context.Context, string, ...Field)  {}
func (NoopLogger) Error(context.Context, string, ...Field) {}
