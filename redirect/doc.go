// Package redirect resolves request paths to redirect targets at the edge.
//
// A [Resolver] is built once per execution context from a build-time
// [StaticMap] and an optional external [Store]. Every request is answered with
// exactly one [Response]: a 302 redirect when a target is found, a 404
// otherwise. Failures never cross the resolver boundary; they are logged as
// structured diagnostics and turned into a not-found response.
//
//	store := redirect.AcquireStore(logger, func() (redirect.Store, error) {
//	    return redirectkvs.Open(client, kvsARN)
//	})
//	resolver := redirect.NewResolver(static, store, redirect.WithLogger(logger))
//
//	resp := resolver.Resolve(ctx, redirect.Request{URI: "/old"})
//
// # Lookup order
//
// The static map is consulted first using an exact match on the URI. Only when
// it has no entry is the store queried, once, with the URI as key. Store
// errors are logged with their message, error code and stack trace when
// available. A key that is absent from both sources is a miss and is only
// logged at debug level.
//
// # Host shape
//
// [Response] marshals to the JSON shape expected by CloudFront viewer-request
// functions, and [ParseEvent] decodes the matching event shape.
package redirect
