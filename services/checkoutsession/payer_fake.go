package checkoutsession

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/stripe/stripe-go/v74"

	"github.com/dayp-uci/donationsite/lib/myuuid"
)

// FakePayer behaves like the hosted checkout API for the parts this site uses.
// It keeps every session it created in memory.
type FakePayer struct {
	sync.Mutex
	uuider   myuuid.UUIDer
	Sessions map[string]stripe.CheckoutSession
}

func NewFakePayer(uuider myuuid.UUIDer) *FakePayer {
	return &FakePayer{
		uuider:   uuider,
		Sessions: map[string]stripe.CheckoutSession{},
	}
}

func (p *FakePayer) CreateCheckoutSession(c context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error) {
	if c.Err() != nil {
		return stripe.CheckoutSession{}, fmt.Errorf("error creating fake session: %w", c.Err())
	}

	var total int64
	currency := ""
	for _, item := range params.LineItems {
		if item.PriceData == nil || item.PriceData.UnitAmount == nil || item.Quantity == nil {
			return stripe.CheckoutSession{}, invalidRequest("You must specify either `price` or `price_data` for each line item.")
		}
		total += *item.PriceData.UnitAmount * *item.Quantity
		currency = stripe.StringValue(item.PriceData.Currency)
	}
	if total < MinimumAmountInCents {
		return stripe.CheckoutSession{}, invalidRequest(fmt.Sprintf("The Checkout Session's total amount due must add up to at least $0.50 %s", currency))
	}

	id := "cs_test_" + strings.ReplaceAll(p.uuider.Create(), "-", "")
	session := stripe.CheckoutSession{
		ID:                id,
		URL:               "https://checkout.stripe.com/c/pay/" + id,
		ClientReferenceID: stripe.StringValue(params.ClientReferenceID),
		AmountTotal:       total,
		Currency:          stripe.Currency(currency),
		Metadata:          params.Metadata,
		SuccessURL:        stripe.StringValue(params.SuccessURL),
		CancelURL:         stripe.StringValue(params.CancelURL),
	}

	p.Lock()
	defer p.Unlock()
	p.Sessions[id] = session

	return session, nil
}

func invalidRequest(msg string) error {
	return &stripe.Error{
		Type:           stripe.ErrorTypeInvalidRequest,
		HTTPStatusCode: 400,
		Msg:            msg,
	}
}
