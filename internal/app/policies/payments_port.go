package policies

import (
	"context"

	"roamstay/internal/domain/shared/money"
)

// CheckoutSession is what the payment collaborator hands back for a
// created booking; the guest is redirected to URL to pay.
type CheckoutSession struct {
	ID  string
	URL string
}

// PaymentsPort delegates payment handling to the external gateway. This
// core only quotes a total and asks for a session; capture and webhooks
// stay outside.
type PaymentsPort interface {
	CreateCheckoutSession(ctx context.Context, bookingID string, amount money.Money) (CheckoutSession, error)
}
