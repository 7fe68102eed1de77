package donationpage

import (
	"context"

	"github.com/dayp-uci/donationsite/lib/myerrors"
	"github.com/dayp-uci/donationsite/lib/myhttp"
	"github.com/dayp-uci/donationsite/lib/myhttpclient"
	"github.com/dayp-uci/donationsite/services/checkoutsession"
	"github.com/dayp-uci/donationsite/services/donationform"
)

//go:generate mockgen -source=creators.go -package donationpage -destination creators_mock.go CheckoutSessionService
type CheckoutSessionService interface {
	CreateCheckoutSession(c context.Context, amountInCents int64, headers myhttp.ForwardedHeaders) (checkoutsession.CheckoutSession, error)
}

// SessionCreatorFactory gives every page request its own creator, bound to
// the headers that decide where the donor returns to.
type SessionCreatorFactory func(headers myhttp.ForwardedHeaders) donationform.SessionCreator

func InProcessSessionCreators(service CheckoutSessionService) SessionCreatorFactory {
	return func(headers myhttp.ForwardedHeaders) donationform.SessionCreator {
		return &inProcessSessionCreator{
			service: service,
			headers: headers,
		}
	}
}

func RemoteSessionCreators(apiURL string, sender myhttpclient.HTTPSender) SessionCreatorFactory {
	return func(headers myhttp.ForwardedHeaders) donationform.SessionCreator {
		return donationform.NewHTTPSessionCreator(apiURL, myhttp.BaseURL(headers), sender)
	}
}

type inProcessSessionCreator struct {
	service CheckoutSessionService
	headers myhttp.ForwardedHeaders
}

func (ic *inProcessSessionCreator) CreateCheckoutSession(c context.Context, amountInCents int64) (donationform.CheckoutSession, error) {
	session, err := ic.service.CreateCheckoutSession(c, amountInCents, ic.headers)
	if err != nil {
		return donationform.CheckoutSession{}, &donationform.CheckoutError{
			Kind:    donationform.NetworkError,
			Message: myerrors.GetPublicMessage(err),
			Err:     err,
		}
	}

	return donationform.CheckoutSession{
		ID:  session.ID,
		URL: session.URL,
	}, nil
}
