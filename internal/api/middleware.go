package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tokenfarm-io/staking-rewards-ledger/internal/observability/metrics"
	"github.com/tokenfarm-io/staking-rewards-ledger/internal/observability/tracing"
)

const traceIDHeader = "X-Trace-Id"

// traceMiddleware gives every request a trace id, reusing the caller's one when sent.
func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if id := r.Header.Get(traceIDHeader); id != "" {
			ctx = tracing.InjectGivenTraceID(ctx, id)
		} else {
			ctx = tracing.InjectTraceID(ctx)
		}

		w.Header().Set(traceIDHeader, tracing.TraceID(ctx))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		stop := metrics.StartHTTPRequestDurationTimer(r.Method)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		stop(route, ww.Status())
	})
}
