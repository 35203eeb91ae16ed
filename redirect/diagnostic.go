package redirect

import (
	"fmt"

	"github.com/aws/smithy-go"
	"github.com/cockroachdb/errors"
	"go.uber.org/zap/zapcore"
)

// FailureKind classifies why a request did not resolve to a redirect.
type FailureKind int

const (
	failureNone FailureKind = iota
	// StoreUnavailable means the store handle could not be acquired.
	StoreUnavailable
	// LookupFailed means the store returned an error for a lookup.
	LookupFailed
	// ResolutionMiss means neither the static map nor the store had a target.
	ResolutionMiss
)

func (k FailureKind) String() string {
	switch k {
	case StoreUnavailable:
		return "store_unavailable"
	case LookupFailed:
		return "lookup_failed"
	case ResolutionMiss:
		return "resolution_miss"
	default:
		return "none"
	}
}

func (k FailureKind) title() string {
	switch k {
	case StoreUnavailable:
		return "Failed to setup redirect store."
	case LookupFailed:
		return "Failed to fetch redirect target."
	default:
		return "No redirect target."
	}
}

// diagnostic renders an error as {message, code, stack}.
type diagnostic struct {
	err error
}

func (d diagnostic) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("message", d.err.Error())
	if code := errorCode(d.err); code != "" {
		enc.AddString("code", code)
	}
	if stack := stackTrace(d.err); stack != "" {
		enc.AddString("stack", stack)
	}
	return nil
}

func errorCode(err error) string {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return apiErr.ErrorCode()
	}
	var coded interface{ Code() string }
	if errors.As(err, &coded) {
		return coded.Code()
	}
	return ""
}

// stackTrace is empty for errors that carry no more detail than their message.
func stackTrace(err error) string {
	verbose := fmt.Sprintf("%+v", err)
	if verbose == err.Error() {
		return ""
	}
	return verbose
}
