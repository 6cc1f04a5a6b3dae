package log

import (
	"context"

	"github.com/rs/zerolog"
)

// WithLogger returns a copy of ctx carrying l.
func WithLogger(ctx context.Context, l zerolog.Logger) context.Context {
	return l.WithContext(ctx)
}

// Logger returns the logger carried by ctx, or zerolog's default context logger.
func Logger(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

func Error(ctx context.Context, msg string, err error, fields ...any) {
	event(Logger(ctx).Error(), err, fields).Msg(msg)
}

func Warn(ctx context.Context, msg string, err error, fields ...any) {
	event(Logger(ctx).Warn(), err, fields).Msg(msg)
}

func Info(ctx context.Context, msg string, err error, fields ...any) {
	event(Logger(ctx).Info(), err, fields).Msg(msg)
}

func Debug(ctx context.Context, msg string, err error, fields ...any) {
	event(Logger(ctx).Debug(), err, fields).Msg(msg)
}

// fields are key/value pairs, as accepted by zerolog's Event.Fields.
func event(e *zerolog.Event, err error, fields []any) *zerolog.Event {
	if err != nil {
		e = e.Err(err)
	}
	if len(fields) != 0 {
		e = e.Fields(fields)
	}
	return e
}
