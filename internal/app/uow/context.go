package uow

import (
	"context"
	"errors"
)

// ErrUnitOfWorkMissing signals that a handler expected an ambient unit of
// work (installed by the transaction middleware) and none was there.
var ErrUnitOfWorkMissing = errors.New("uow: unit of work missing from context")

type ctxKey struct{}

// ContextWithUnitOfWork returns a child context carrying the unit, making
// it the ambient unit for downstream handlers.
func ContextWithUnitOfWork(ctx context.Context, unit UnitOfWork) context.Context {
	return context.WithValue(ctx, ctxKey{}, unit)
}

// FromContext reports the ambient unit of work, when one is installed.
func FromContext(ctx context.Context) (UnitOfWork, bool) {
	unit, ok := ctx.Value(ctxKey{}).(UnitOfWork)
	return unit, ok
}
