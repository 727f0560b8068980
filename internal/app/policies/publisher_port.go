package policies

import (
	"context"

	"roamstay/internal/domain/shared/events"
)

// Publisher ships committed domain events to the message broker. Publishing
// is best-effort after commit; a broker outage never fails the request.
type Publisher interface {
	Publish(ctx context.Context, event events.DomainEvent) error
}
