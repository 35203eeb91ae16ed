// Package redirecthttp serves the redirect resolver over HTTP and processes
// access log notifications forwarded by Lambda Web Adapter.
package redirecthttp

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/advdv/bhttp"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-sdk-go-v2/service/cloudfrontkeyvaluestore"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/cockroachdb/errors"
	"github.com/dev0psfyi/website/internal/logscan"
	"github.com/dev0psfyi/website/redirect"
	"github.com/dev0psfyi/website/redirect/redirectdynamo"
	"github.com/dev0psfyi/website/redirect/redirectkvs"
	"github.com/dev0psfyi/website/sitelwa"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

const maxEventSize = 256 * 1024

// OpenStore opens the store selected by env.
func OpenStore(env Env, kvs redirectkvs.API, dynamo redirectdynamo.API) (redirect.Store, error) {
	switch env.StoreKind {
	case StoreKVS:
		return redirectkvs.Open(kvs, env.KVSARN)
	case StoreDynamo:
		return redirectdynamo.Open(dynamo, env.TableName)
	default:
		return nil, errors.Newf("unknown redirect store kind %q", env.StoreKind)
	}
}

// NewResolver acquires the store once and builds the resolver.
func NewResolver(
	rt *sitelwa.Runtime[Env],
	logger *zap.Logger,
	kvs *sitelwa.InRegion[cloudfrontkeyvaluestore.Client],
	dynamo *sitelwa.Primary[dynamodb.Client],
) *redirect.Resolver {
	env := rt.Env()
	store := redirect.AcquireStore(logger, func() (redirect.Store, error) {
		return OpenStore(env, kvs.Client, dynamo.Client)
	})
	return redirect.NewResolver(redirect.StaticMap(env.StaticRedirects), store, redirect.WithLogger(logger))
}

// NewLogProcessor creates the access log processor.
func NewLogProcessor(objects *s3.Client, logger *zap.Logger) *logscan.Processor {
	return logscan.NewProcessor(objects, logger)
}

// Handlers holds the HTTP handlers.
type Handlers struct {
	resolver   *redirect.Resolver
	logs       *logscan.Processor
	pathPrefix string
}

// NewHandlers creates Handlers. Requests under pathPrefix, the path the CDN
// routes to the function, resolve with the prefix removed.
func NewHandlers(resolver *redirect.Resolver, logs *logscan.Processor, pathPrefix string) *Handlers {
	return &Handlers{resolver: resolver, logs: logs, pathPrefix: strings.TrimSuffix(pathPrefix, "/")}
}

// ProvideHandlers creates Handlers for the prefix configured in the
// environment.
func ProvideHandlers(rt *sitelwa.Runtime[Env], resolver *redirect.Resolver, logs *logscan.Processor) *Handlers {
	return NewHandlers(resolver, logs, rt.Env().PathPrefix)
}

// Register adds the routes to m.
func Register(m *sitelwa.Mux, h *Handlers) {
	m.HandleFunc("POST /l/resolve", h.ResolveEvent, "resolve-event")
	m.HandleFunc("POST /l/process-logs", h.ProcessLogs, "process-logs")
	m.HandleFunc("GET /{path...}", h.Resolve, "resolve")
}

// Resolve answers a plain HTTP request with a redirect or a 404.
func (h *Handlers) Resolve(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
	resp := h.resolver.Resolve(ctx, redirect.Request{URI: h.lookupPath(r.URL.Path)})
	sitelwa.Span(ctx).SetAttributes(attribute.String("redirect.outcome", resp.Kind.String()))
	resp.WriteHTTP(w)
	return nil
}

// lookupPath removes the CDN path prefix. Paths outside the prefix, such as
// direct function URL calls, are used as is.
func (h *Handlers) lookupPath(path string) string {
	if h.pathPrefix == "" {
		return path
	}
	if rest, ok := strings.CutPrefix(path, h.pathPrefix); ok && strings.HasPrefix(rest, "/") {
		return rest
	}
	return path
}

// ResolveEvent answers a raw viewer-request event with the response in the
// CloudFront function shape. Undecodable events resolve to 404.
func (h *Handlers) ResolveEvent(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxEventSize))
	if err != nil {
		return errors.Wrap(err, "read event")
	}

	resp := redirect.NotFound()
	req, err := redirect.ParseEvent(body)
	if err != nil {
		sitelwa.Log(ctx).Warn("undecodable edge event", zap.Error(err))
	} else {
		resp = h.resolver.Resolve(ctx, req)
	}

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}

// ProcessLogs handles an SQS batch of access log notifications and reports
// the failed messages.
func (h *Handlers) ProcessLogs(ctx context.Context, w bhttp.ResponseWriter, r *http.Request) error {
	var ev events.SQSEvent
	if err := json.NewDecoder(r.Body).Decode(&ev); err != nil {
		sitelwa.Log(ctx).Warn("undecodable sqs event", zap.Error(err))
		w.WriteHeader(http.StatusBadRequest)
		return nil
	}

	resp, report := h.logs.ProcessSQS(ctx, ev)
	sitelwa.Log(ctx).Info("processed log notifications",
		zap.Int("messages", len(ev.Records)),
		zap.Int("failed", len(resp.BatchItemFailures)),
		zap.Int("lines", report.Lines))

	w.Header().Set("Content-Type", "application/json")
	return json.NewEncoder(w).Encode(resp)
}
