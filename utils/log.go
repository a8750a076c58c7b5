package utils

import (
	"context"

	"go.uber.org/zap"
)

type logFieldsKey struct{}

// WithLogFields returns a context carrying fields on top of any already stored on ctx.
func WithLogFields(ctx context.Context, fields ...zap.Field) context.Context {
	old := LogFields(ctx)
	merged := make([]zap.Field, 0, len(old)+len(fields))
	merged = append(merged, old...)
	merged = append(merged, fields...)
	return context.WithValue(ctx, logFieldsKey{}, merged)
}

func LogFields(ctx context.Context) []zap.Field {
	if ctx == nil {
		return nil
	}
	fields, ok := ctx.Value(logFieldsKey{}).([]zap.Field)
	if !ok {
		return nil
	}
	return fields
}

// Logger returns parentLog decorated with the fields stored on ctx.
func Logger(ctx context.Context, parentLog *zap.Logger) *zap.Logger {
	fields := LogFields(ctx)
	if len(fields) == 0 {
		return parentLog
	}
	return parentLog.With(fields...)
}

// WithLog stores fields on ctx and returns parentLog decorated with the same fields.
func WithLog(ctx context.Context, parentLog *zap.Logger, fields ...zap.Field) (context.Context, *zap.Logger) {
	return WithLogFields(ctx, fields...), parentLog.With(fields...)
}
