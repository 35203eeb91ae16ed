package redirect

import (
	"context"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"
)

// ErrKeyNotFound is returned by a Store when it holds no target for a key.
var ErrKeyNotFound = errors.New("redirect: key not found")

// Store is an external key-value store bound to a single store identifier.
// Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
}

// StoreFunc adapts a plain function to the Store interface.
type StoreFunc func(ctx context.Context, key string) (string, error)

// Get calls f(ctx, key).
func (f StoreFunc) Get(ctx context.Context, key string) (string, error) {
	return f(ctx, key)
}

// AcquireStore opens the store handle once per execution context. When open
// fails a single StoreUnavailable diagnostic is logged and nil is returned, in
// which case the resolver works from the static map alone.
func AcquireStore(logger *zap.Logger, open func() (Store, error)) Store {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := open()
	if err != nil {
		logger.Error(StoreUnavailable.title(),
			zap.Stringer("failure", StoreUnavailable),
			zap.Object("error", diagnostic{err: err}))
		return nil
	}
	return store
}
