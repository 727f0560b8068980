package middleware

import (
	"context"
	"log/slog"

	"roamstay/internal/app/commands"
	"roamstay/internal/app/policies"
	"roamstay/internal/domain/shared/events"
)

type eventsKey struct{}

// EventCollector accumulates domain events raised while handling a command
// so they can be published after the transaction commits.
type EventCollector struct {
	pending []events.DomainEvent
}

func (c *EventCollector) Add(evts ...events.DomainEvent) {
	c.pending = append(c.pending, evts...)
}

// CollectorFromContext returns the command-scoped event collector, if any.
func CollectorFromContext(ctx context.Context) (*EventCollector, bool) {
	c, ok := ctx.Value(eventsKey{}).(*EventCollector)
	return c, ok
}

// EventPublish installs a collector for each command and, once the inner
// bus (including the transaction middleware) has succeeded, publishes the
// collected events. Publish failures are logged, never surfaced: the write
// already happened.
func EventPublish(publisher policies.Publisher, logger *slog.Logger) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			collector := &EventCollector{}
			ctx = context.WithValue(ctx, eventsKey{}, collector)

			res, err := nextFn(ctx, cmd)
			if err != nil {
				return nil, err
			}
			if publisher != nil {
				for _, event := range collector.pending {
					if pubErr := publisher.Publish(ctx, event); pubErr != nil && logger != nil {
						logger.Warn("event publish failed", "event", event.EventName(), "aggregate", event.AggregateID(), "error", pubErr)
					}
				}
			}
			return res, nil
		})
	}
}
