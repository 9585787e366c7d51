package tracing

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type traceIDKey struct{}

func InjectTraceID(ctx context.Context) context.Context {
	return InjectGivenTraceID(ctx, uuid.New().String())
}

// InjectGivenTraceID attaches id to ctx and to the context logger.
func InjectGivenTraceID(ctx context.Context, id string) context.Context {
	logger := log.With().Str("traceId", id).Logger()
	ctx = context.WithValue(ctx, traceIDKey{}, id)
	return logger.WithContext(ctx)
}

// TraceID returns the id injected into ctx, or an empty string.
func TraceID(ctx context.Context) string {
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}
