package redirect

import (
	"context"
	"maps"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// StaticMap maps exact request paths to redirect targets. It is fixed at build
// time.
type StaticMap map[string]string

// Resolver answers requests from a static map and an optional store. It is
// safe for concurrent use.
type Resolver struct {
	static StaticMap
	store  Store
	logger *zap.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger diagnostics are written to.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Resolver) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewResolver creates a resolver. The static map is copied. A nil store means
// only the static map is consulted.
func NewResolver(static StaticMap, store Store, opts ...Option) *Resolver {
	r := &Resolver{
		static: maps.Clone(static),
		store:  store,
		logger: zap.NewNop(),
	}
	if r.static == nil {
		r.static = StaticMap{}
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

type lookupResult struct {
	target  string
	source  string
	failure FailureKind
	err     error
}

// Resolve returns the response for req. It never panics and never fails: all
// failures become a not-found response.
func (r *Resolver) Resolve(ctx context.Context, req Request) Response {
	res := r.lookup(ctx, req.URI)
	switch res.failure {
	case failureNone:
		r.logger.Debug("redirect resolved",
			zap.String("uri", req.URI),
			zap.String("source", res.source))
		return Redirect(res.target)
	case LookupFailed:
		r.logger.Error(LookupFailed.title(),
			zap.Stringer("failure", LookupFailed),
			zap.String("uri", req.URI),
			zap.Object("error", diagnostic{err: res.err}))
	default:
		r.logger.Debug(res.failure.title(),
			zap.Stringer("failure", res.failure),
			zap.String("uri", req.URI))
	}
	return NotFound()
}

func (r *Resolver) lookup(ctx context.Context, uri string) lookupResult {
	if target, ok := r.static[uri]; ok && target != "" {
		return lookupResult{target: target, source: "static"}
	}
	if r.store == nil {
		return lookupResult{failure: ResolutionMiss}
	}

	target, err := r.get(ctx, uri)
	switch {
	case errors.Is(err, ErrKeyNotFound):
		return lookupResult{failure: ResolutionMiss}
	case err != nil:
		return lookupResult{failure: LookupFailed, err: err}
	case target == "":
		return lookupResult{failure: ResolutionMiss}
	}
	return lookupResult{target: target, source: "store"}
}

func (r *Resolver) get(ctx context.Context, uri string) (target string, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = errors.Newf("store panicked: %v", p)
		}
	}()
	return r.store.Get(ctx, uri)
}
