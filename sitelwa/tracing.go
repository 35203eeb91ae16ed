package sitelwa

import (
	"context"
	"net/http"
	"os"
	"slices"

	"github.com/aws-observability/aws-otel-go/exporters/xrayudp"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/detectors/aws/lambda"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/contrib/propagators/aws/xray"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/fx"
)

func newExporter(ctx context.Context, exporterType string) (sdktrace.SpanExporter, error) {
	switch exporterType {
	case "stdout", "":
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	case "xrayudp":
		return xrayudp.NewSpanExporter(ctx)
	default:
		return nil, errors.Newf("unsupported SITE_OTEL_EXPORTER: %q (supported: stdout, xrayudp)", exporterType)
	}
}

func newResource(ctx context.Context, exporterType, serviceName string) (*resource.Resource, error) {
	service := resource.NewSchemaless(attribute.String("service.name", serviceName))
	if exporterType != "xrayudp" {
		return service, nil
	}

	detected, err := lambda.NewResourceDetector().Detect(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "detect lambda resource")
	}
	return resource.Merge(detected, service)
}

// NewTracerProvider creates the tracer provider and flushes it on shutdown.
// Spans are exported synchronously because Lambda may freeze the process
// between invocations. OTEL_SDK_DISABLED=true yields a no-op provider.
func NewTracerProvider(lc fx.Lifecycle, env Environment) (trace.TracerProvider, error) {
	if os.Getenv("OTEL_SDK_DISABLED") == "true" {
		return noop.NewTracerProvider(), nil
	}

	ctx := context.Background()
	exporter, err := newExporter(ctx, env.otelExporter())
	if err != nil {
		return nil, err
	}
	res, err := newResource(ctx, env.otelExporter(), env.serviceName())
	if err != nil {
		return nil, err
	}

	opts := []sdktrace.TracerProviderOption{
		sdktrace.WithSpanProcessor(sdktrace.NewSimpleSpanProcessor(exporter)),
		sdktrace.WithResource(res),
	}
	if env.otelExporter() == "xrayudp" {
		opts = append(opts, sdktrace.WithIDGenerator(xray.NewIDGenerator()))
	}
	tp := sdktrace.NewTracerProvider(opts...)

	lc.Append(fx.Hook{
		OnStop: tp.Shutdown,
	})
	return tp, nil
}

// NewPropagator returns the X-Ray propagator when exporting to X-Ray and the
// W3C trace context plus baggage otherwise.
func NewPropagator(env Environment) propagation.TextMapPropagator {
	if env.otelExporter() == "xrayudp" {
		return xray.Propagator{}
	}
	return propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	)
}

func withTracing(
	tp trace.TracerProvider,
	prop propagation.TextMapPropagator,
	serviceName string,
	excludedPaths ...string,
) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return otelhttp.NewHandler(next, serviceName,
			otelhttp.WithTracerProvider(tp),
			otelhttp.WithPropagators(prop),
			otelhttp.WithFilter(func(r *http.Request) bool {
				return !slices.Contains(excludedPaths, r.URL.Path)
			}),
		)
	}
}
