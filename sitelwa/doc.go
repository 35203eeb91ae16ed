// Package sitelwa is the HTTP service framework for the site's Lambda
// functions, which run behind the AWS Lambda Web Adapter (LWA).
//
// It wires environment parsing, structured logging, OpenTelemetry tracing,
// AWS SDK clients and graceful shutdown through [go.uber.org/fx]:
//
//	sitelwa.NewApp[Env](func(m *sitelwa.Mux, h *Handlers) {
//	    m.HandleFunc("GET /{path...}", h.Resolve)
//	},
//	    sitelwa.WithAWSClient(func(cfg aws.Config) *dynamodb.Client {
//	        return dynamodb.NewFromConfig(cfg)
//	    }),
//	    sitelwa.WithFx(fx.Provide(NewHandlers)),
//	).Run()
//
// # Environment
//
// Embed [BaseEnvironment] in the service environment:
//
//	| Variable                     | Required | Default | Description                                   |
//	|------------------------------|----------|---------|-----------------------------------------------|
//	| AWS_LWA_PORT                 | Yes      | -       | Port the HTTP server listens on               |
//	| AWS_LWA_READINESS_CHECK_PATH | Yes      | -       | Readiness endpoint polled by LWA              |
//	| AWS_REGION                   | Yes      | -       | Set by the Lambda runtime                     |
//	| SITE_SERVICE_NAME            | Yes      | -       | Service name for logs and traces              |
//	| SITE_PRIMARY_REGION          | Yes      | -       | Region of the site stack (injected by CDK)    |
//	| SITE_LOG_LEVEL               | No       | info    | debug, info, warn or error                    |
//	| SITE_OTEL_EXPORTER           | No       | stdout  | "stdout" or "xrayudp"                         |
//
// # Request context
//
//   - [Log] returns a logger correlated with the current trace
//   - [Span] returns the current span
//   - [LWA] returns the Lambda invocation context, nil outside Lambda
//
// App-scoped dependencies, including the environment, are injected through
// [Runtime].
//
// # AWS clients
//
// Clients registered with [WithAWSClient] are instrumented with otelaws and
// target AWS_REGION unless [ForPrimaryRegion] or [ForRegion] is given. Wrap
// them in [Primary] or [InRegion] so the region shows up in the type.
//
// # Health
//
// A readiness handler is registered at AWS_LWA_READINESS_CHECK_PATH. Replace
// it with [WithHealthHandler]. Readiness requests are not traced.
package sitelwa
