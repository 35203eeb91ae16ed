package sitelwa

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/github.com/aws/aws-sdk-go-v2/otelaws"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
)

// Primary wraps a client that targets SITE_PRIMARY_REGION.
//
//	sitelwa.WithAWSClient(func(cfg aws.Config) *sitelwa.Primary[dynamodb.Client] {
//	    return sitelwa.NewPrimary(dynamodb.NewFromConfig(cfg))
//	}, sitelwa.ForPrimaryRegion())
type Primary[T any] struct {
	Client *T
}

// NewPrimary wraps client for the primary region.
func NewPrimary[T any](client *T) *Primary[T] {
	return &Primary[T]{Client: client}
}

// InRegion wraps a client that targets a fixed region.
//
//	sitelwa.WithAWSClient(func(cfg aws.Config) *sitelwa.InRegion[cloudfrontkeyvaluestore.Client] {
//	    return sitelwa.NewInRegion(cloudfrontkeyvaluestore.NewFromConfig(cfg), cfg.Region)
//	}, sitelwa.ForRegion("us-east-1"))
type InRegion[T any] struct {
	Client *T
	Region string
}

// NewInRegion wraps client for region.
func NewInRegion[T any](client *T, region string) *InRegion[T] {
	return &InRegion[T]{Client: client, Region: region}
}

type clientOptions struct {
	region Region
}

// ClientOption configures AWS client registration.
type ClientOption func(*clientOptions)

// ForPrimaryRegion configures the client for SITE_PRIMARY_REGION.
func ForPrimaryRegion() ClientOption {
	return func(o *clientOptions) {
		o.region = PrimaryRegion()
	}
}

// ForRegion configures the client for a fixed region.
func ForRegion(region string) ClientOption {
	return func(o *clientOptions) {
		o.region = FixedRegion(region)
	}
}

const awsConfigTimeout = 10 * time.Second

// provideAWSConfig loads the default AWS configuration and instruments it
// with the injected tracer provider and propagator.
func provideAWSConfig(tp trace.TracerProvider, prop propagation.TextMapPropagator) (aws.Config, error) {
	ctx, cancel := context.WithTimeout(context.Background(), awsConfigTimeout)
	defer cancel()

	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return cfg, errors.Wrap(err, "load aws config")
	}
	otelaws.AppendMiddlewares(&cfg.APIOptions,
		otelaws.WithTracerProvider(tp),
		otelaws.WithTextMapPropagator(prop),
	)
	return cfg, nil
}

// awsClientProvider provides the value built by factory from a copy of the
// AWS config with the region resolved.
func awsClientProvider[T any](factory func(aws.Config) T, opts ...ClientOption) fx.Option {
	options := &clientOptions{region: LocalRegion()}
	for _, opt := range opts {
		opt(options)
	}

	return fx.Provide(func(cfg aws.Config, env Environment) T {
		awsCfg := cfg.Copy()
		if r := options.region.resolve(env); r != "" {
			awsCfg.Region = r
		}
		return factory(awsCfg)
	})
}
