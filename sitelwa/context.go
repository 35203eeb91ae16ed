package sitelwa

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ctxKey int

const (
	ctxKeyLogger ctxKey = iota
	ctxKeyLWAContext
)

// LWAContext is the Lambda invocation context LWA passes in the
// x-amzn-lambda-context header.
type LWAContext struct {
	RequestID          string       `json:"request_id"`
	Deadline           int64        `json:"deadline"`
	InvokedFunctionARN string       `json:"invoked_function_arn"`
	XRayTraceID        string       `json:"xray_trace_id"`
	EnvConfig          LWAEnvConfig `json:"env_config"`
}

// LWAEnvConfig describes the function being invoked.
type LWAEnvConfig struct {
	FunctionName string `json:"function_name"`
	Memory       int    `json:"memory"`
	Version      string `json:"version"`
	LogGroup     string `json:"log_group"`
	LogStream    string `json:"log_stream"`
}

// RemainingTime returns the time left until the invocation deadline.
func (lc *LWAContext) RemainingTime() time.Duration {
	if lc.Deadline == 0 {
		return 0
	}
	return max(time.Until(time.UnixMilli(lc.Deadline)), 0)
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, ctxKeyLogger, logger)
}

func withLogger(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithLogger(r.Context(), logger)))
		})
	}
}

func withLWAContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if header := r.Header.Get("x-amzn-lambda-context"); header != "" {
			var lc LWAContext
			if err := json.Unmarshal([]byte(header), &lc); err == nil {
				ctx = context.WithValue(ctx, ctxKeyLWAContext, &lc)
			}
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// LWA returns the Lambda invocation context, or nil outside Lambda.
func LWA(ctx context.Context) *LWAContext {
	lc, _ := ctx.Value(ctxKeyLWAContext).(*LWAContext)
	return lc
}

// Log returns the request logger with trace_id and span_id fields. Without a
// logger in ctx it returns a no-op logger.
func Log(ctx context.Context) *zap.Logger {
	logger, ok := ctx.Value(ctxKeyLogger).(*zap.Logger)
	if !ok {
		return zap.NewNop()
	}
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return logger
	}
	return logger.With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}

// Span returns the current span.
func Span(ctx context.Context) trace.Span {
	return trace.SpanFromContext(ctx)
}
