package queries

import (
	"context"
	"errors"
)

// Query represents a read intent routed through the application bus.
type Query interface {
	Key() string
}

// Handler answers a query.
type Handler[Q Query, R any] interface {
	Handle(ctx context.Context, q Q) (R, error)
}

// Bus asks queries, optionally through middleware.
type Bus interface {
	Ask(ctx context.Context, q Query) (any, error)
}

var (
	ErrHandlerNotFound = errors.New("queries: handler not found")
	ErrInvalidQuery    = errors.New("queries: invalid query for handler")
	ErrResultType      = errors.New("queries: result type mismatch")
	ErrNilBus          = errors.New("queries: nil bus")
)

// Ask performs type-safe query invocation against a bus.
func Ask[Q Query, R any](ctx context.Context, bus Bus, q Q) (R, error) {
	var zero R
	if bus == nil {
		return zero, ErrNilBus
	}
	res, err := bus.Ask(ctx, q)
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	value, ok := res.(R)
	if !ok {
		return zero, ErrResultType
	}
	return value, nil
}
