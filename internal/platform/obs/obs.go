package obs

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ctxKey string

const RequestIDKey ctxKey = "req_id"

// Init configures the global zerolog logger. level accepts the usual
// zerolog level names; anything unparsable falls back to info.
func Init(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	log.Logger = zerolog.New(os.Stderr).Level(lvl).With().Timestamp().Logger()
}

// Ctx returns the global logger annotated with the request id carried
// by ctx, if any.
func Ctx(ctx context.Context) *zerolog.Logger {
	if reqID, ok := ctx.Value(RequestIDKey).(string); ok && reqID != "" {
		l := log.Logger.With().Str("req_id", reqID).Logger()
		return &l
	}
	return &log.Logger
}

// WithRequestID stores a request id on the context for Ctx to pick up.
func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, reqID)
}

// Time logs the duration of an operation. Use as:
//
//	defer obs.Time(ctx, "geo.Route")(&err)
func Time(ctx context.Context, name string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)

		ev := Ctx(ctx).Debug()
		if errp != nil && *errp != nil {
			ev = Ctx(ctx).Warn().Err(*errp)
		}
		ev.Str("op", name).Int64("dur_ms", dur.Milliseconds()).Msg("op finished")
	}
}
