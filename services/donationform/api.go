package donationform

import "context"

//go:generate mockgen -source=api.go -package donationform -destination api_mock.go SessionCreator Redirector

// SessionCreator asks the checkout session service for a hosted session.
type SessionCreator interface {
	CreateCheckoutSession(c context.Context, amountInCents int64) (CheckoutSession, error)
}

// Redirector hands the donor over to the processor's hosted checkout page.
type Redirector interface {
	RedirectToCheckout(c context.Context, session CheckoutSession) error
}
