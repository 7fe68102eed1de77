package checkoutsession

import (
	"context"
	"errors"
	"fmt"

	"github.com/stripe/stripe-go/v74"

	"github.com/dayp-uci/donationsite/lib/myerrors"
	"github.com/dayp-uci/donationsite/lib/myhttp"
	"github.com/dayp-uci/donationsite/lib/mylog"
	"github.com/dayp-uci/donationsite/lib/mypublisher"
	"github.com/dayp-uci/donationsite/lib/myuuid"
	"github.com/dayp-uci/donationsite/services/donationevents"
)

type service struct {
	logger    mylog.Logger
	payer     Payer
	uuider    myuuid.UUIDer
	publisher mypublisher.Publisher
}

// Use dependency injection to isolate the infrastructure and ease testing.
// A nil payer means the secret key was absent at startup.
func newService(logger mylog.Logger, payer Payer, uuider myuuid.UUIDer, publisher mypublisher.Publisher) *service {
	if payer == nil {
		logger.Log(context.Background(), "", mylog.SeverityError, "Stripe not initialized: STRIPE_SECRET_KEY missing")
	}
	return &service{
		logger:    logger,
		payer:     payer,
		uuider:    uuider,
		publisher: publisher,
	}
}

func (s *service) configured() bool {
	return s.payer != nil
}

// createCheckoutSession asks the processor for exactly one hosted checkout
// session. Repeated calls create independent sessions.
func (s *service) createCheckoutSession(c context.Context, amountInCents int64, headers myhttp.ForwardedHeaders) (CheckoutSession, error) {
	if !s.configured() {
		return CheckoutSession{}, myerrors.NewConfigurationError(fmt.Errorf("stripe not initialized: STRIPE_SECRET_KEY missing"))
	}

	if amountInCents < MinimumAmountInCents {
		return CheckoutSession{}, newInvalidAmountError(fmt.Errorf("amount %d below minimum of %d", amountInCents, MinimumAmountInCents))
	}

	clientReferenceID := s.uuider.Create()
	baseURL := myhttp.BaseURL(headers)
	params := composeSessionParams(amountInCents, baseURL, clientReferenceID)

	s.logger.Log(c, clientReferenceID, mylog.SeverityInfo, "Create checkout session for %s %s (return to %s)", FormatDonationAmount(amountInCents), Currency, baseURL)

	session, err := s.payer.CreateCheckoutSession(c, params)
	if err != nil {
		s.logger.Log(c, clientReferenceID, mylog.SeverityError, "Error creating checkout session: %s", err)
		return CheckoutSession{}, myerrors.NewUpstreamError(err, processorMessage(err))
	}

	err = s.publisher.Publish(c, donationevents.TopicName, donationevents.CheckoutSessionCreated{
		SessionID:         session.ID,
		ClientReferenceID: clientReferenceID,
		AmountInCents:     amountInCents,
		Currency:          Currency,
		DonationAmount:    FormatDonationAmount(amountInCents),
	})
	if err != nil {
		// The remote session exists already, so the payer may still proceed.
		s.logger.Log(c, clientReferenceID, mylog.SeverityWarn, "Error publishing event for session %s: %s", session.ID, err)
	}

	s.logger.Log(c, clientReferenceID, mylog.SeverityInfo, "Created checkout session %s", session.ID)

	return CheckoutSession{
		ID:                session.ID,
		URL:               session.URL,
		SuccessURL:        *params.SuccessURL,
		CancelURL:         *params.CancelURL,
		ClientReferenceID: clientReferenceID,
	}, nil
}

func composeSessionParams(amountInCents int64, baseURL string, clientReferenceID string) stripe.CheckoutSessionParams {
	params := stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(Currency),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name:        stripe.String(ProductName),
						Description: stripe.String(ProductDescription),
					},
					UnitAmount: stripe.Int64(amountInCents),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:              stripe.String(string(stripe.CheckoutSessionModePayment)),
		SubmitType:        stripe.String(string(stripe.CheckoutSessionSubmitTypeDonate)),
		SuccessURL:        stripe.String(successURL(baseURL)),
		CancelURL:         stripe.String(cancelURL(baseURL)),
		ClientReferenceID: stripe.String(clientReferenceID),
	}
	params.AddMetadata(donationAmountMetaKey, FormatDonationAmount(amountInCents))

	return params
}

// processorMessage passes on what Stripe itself says, never transport details.
func processorMessage(err error) string {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) && stripeErr.Msg != "" {
		return stripeErr.Msg
	}
	return upstreamErrorMessage
}

func newInvalidAmountError(err error) error {
	return myerrors.NewInvalidInputErrorWithMessage(err, invalidAmountMessage)
}
