package gemini

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/randalmurphal/sculpt/provider"
)

// wrap classifies a gRPC error into a provider.Error.
func wrap(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return provider.NewError(Name, op, provider.Classify(provider.ErrTimeout, err), true)
	}
	if errors.Is(err, context.Canceled) {
		return provider.NewError(Name, op, provider.Classify(provider.ErrStreamInterrupted, err), false)
	}

	s, ok := status.FromError(err)
	if !ok {
		sentinel := provider.ErrUnavailable
		if op == "stream" {
			sentinel = provider.ErrStreamInterrupted
		}
		return provider.NewError(Name, op, provider.Classify(sentinel, err), false)
	}

	switch s.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return provider.NewError(Name, op, provider.Classify(provider.ErrAuth, err), false)
	case codes.ResourceExhausted:
		return provider.NewError(Name, op, provider.Classify(provider.ErrRateLimited, err), true)
	case codes.Unavailable:
		return provider.NewError(Name, op, provider.Classify(provider.ErrUnavailable, err), true)
	case codes.DeadlineExceeded:
		return provider.NewError(Name, op, provider.Classify(provider.ErrTimeout, err), true)
	case codes.InvalidArgument, codes.NotFound, codes.FailedPrecondition:
		return provider.NewError(Name, op, provider.Classify(provider.ErrInvalidRequest, err), false)
	default:
		return provider.NewError(Name, op, provider.Classify(provider.ErrStatus, err), false)
	}
}
