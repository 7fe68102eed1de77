package checkoutsession

import (
	"context"
	"fmt"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/client"
)

//go:generate mockgen -source=payer.go -package checkoutsession -destination payer_mock.go Payer
type Payer interface {
	CreateCheckoutSession(c context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error)
}

type stripePayer struct {
	client *client.API
}

// NewPayer binds the secret key to its own client instead of the package-global stripe.Key.
func NewPayer(secretKey string) Payer {
	return &stripePayer{
		client: client.New(secretKey, nil),
	}
}

func (p *stripePayer) CreateCheckoutSession(c context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error) {
	params.Context = c

	session, err := p.client.CheckoutSessions.New(&params)
	if err != nil {
		return stripe.CheckoutSession{}, fmt.Errorf("error creating stripe session: %w", err)
	}

	return *session, nil
}
