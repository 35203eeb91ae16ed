package sitelwa

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/advdv/bhttp"
	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/cockroachdb/errors"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type appConfig struct {
	fxOptions []fx.Option
	health    HandlerFunc
}

// Option configures an App.
type Option func(*appConfig)

// WithAWSClient registers an AWS client built by factory. See [ForPrimaryRegion]
// and [ForRegion] to target another region than AWS_REGION.
func WithAWSClient[T any](factory func(aws.Config) T, opts ...ClientOption) Option {
	return func(c *appConfig) {
		c.fxOptions = append(c.fxOptions, awsClientProvider(factory, opts...))
	}
}

// WithFx adds fx options, typically providers for handlers.
func WithFx(opts ...fx.Option) Option {
	return func(c *appConfig) {
		c.fxOptions = append(c.fxOptions, opts...)
	}
}

// WithHealthHandler replaces the default readiness handler.
func WithHealthHandler(h HandlerFunc) Option {
	return func(c *appConfig) {
		c.health = h
	}
}

// App is a configured service, ready to run.
type App struct {
	options []fx.Option
}

// NewApp creates an App. routing is an fx invoke function that receives the
// *Mux and any provided dependency and registers the routes.
func NewApp[E Environment](routing any, opts ...Option) *App {
	cfg := &appConfig{health: defaultHealth}
	for _, opt := range opts {
		opt(cfg)
	}

	return &App{options: []fx.Option{
		fx.WithLogger(func(logger *zap.Logger) fxevent.Logger {
			l := &fxevent.ZapLogger{Logger: logger.Named("fx")}
			l.UseLogLevel(zapcore.DebugLevel)
			return l
		}),
		fx.Provide(
			ParseEnv[E](),
			func(e E) Environment { return e },
			NewLogger,
			NewTracerProvider,
			NewPropagator,
			provideAWSConfig,
			NewMux,
			NewRuntime[E],
		),
		fx.Options(cfg.fxOptions...),
		fx.Invoke(func(m *Mux, env Environment) {
			m.HandleFunc("GET "+env.readinessCheckPath(), cfg.health)
		}),
		fx.Invoke(routing),
		fx.Invoke(serve),
	}}
}

func defaultHealth(_ context.Context, w bhttp.ResponseWriter, _ *http.Request) error {
	w.WriteHeader(http.StatusOK)
	return nil
}

// NewLogger creates the JSON logger at SITE_LOG_LEVEL.
func NewLogger(lc fx.Lifecycle, env Environment) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(env.logLevel())
	logger, err := cfg.Build()
	if err != nil {
		return nil, errors.Wrap(err, "build logger")
	}
	logger = logger.With(zap.String("service", env.serviceName()))

	lc.Append(fx.StopHook(func() {
		_ = logger.Sync()
	}))
	return logger, nil
}

const readHeaderTimeout = 10 * time.Second

func serve(
	lc fx.Lifecycle,
	shutdowner fx.Shutdowner,
	env Environment,
	mux *Mux,
	logger *zap.Logger,
	tp trace.TracerProvider,
	prop propagation.TextMapPropagator,
) {
	handler := withTracing(tp, prop, env.serviceName(), env.readinessCheckPath())(
		withLogger(logger)(withLWAContext(mux)))

	srv := &http.Server{
		Addr:              net.JoinHostPort("", strconv.Itoa(env.port())),
		Handler:           handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return errors.Wrapf(err, "listen on %s", srv.Addr)
			}
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Error("server stopped", zap.Error(err))
					_ = shutdowner.Shutdown(fx.ExitCode(1))
				}
			}()
			logger.Info("listening", zap.String("addr", ln.Addr().String()))
			return nil
		},
		OnStop: srv.Shutdown,
	})
}

// Start runs the app until ctx is done or the app shuts itself down.
func (a *App) Start(ctx context.Context) error {
	app := fx.New(a.options...)
	if err := app.Start(ctx); err != nil {
		return errors.Wrap(err, "start app")
	}

	var exitCode int
	select {
	case <-ctx.Done():
	case sig := <-app.Wait():
		exitCode = sig.ExitCode
	}

	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), app.StopTimeout())
	defer cancel()
	if err := app.Stop(stopCtx); err != nil {
		return errors.Wrap(err, "stop app")
	}
	if exitCode != 0 {
		return errors.Newf("app exited with code %d", exitCode)
	}
	return nil
}

// Run starts the app and blocks until SIGINT or SIGTERM. It exits the process
// on failure.
func (a *App) Run() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := a.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
