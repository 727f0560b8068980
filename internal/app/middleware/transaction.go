package middleware

import (
	"context"

	"roamstay/internal/app/commands"
	"roamstay/internal/app/uow"
)

// Transaction opens a unit of work per command, commits on success and
// rolls back on any error.
func Transaction(factory uow.Factory) CommandMiddleware {
	if factory == nil {
		panic("middleware: uow factory required")
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			unit, err := factory.Begin(ctx, uow.TxOptions{})
			if err != nil {
				return nil, err
			}
			execCtx := uow.ContextWithUnitOfWork(ctx, unit)
			committed := false
			defer func() {
				if !committed {
					_ = unit.Rollback(execCtx)
				}
			}()

			res, err := nextFn(execCtx, cmd)
			if err != nil {
				return nil, err
			}
			if err := unit.Commit(execCtx); err != nil {
				return nil, err
			}
			committed = true
			return res, nil
		})
	}
}
