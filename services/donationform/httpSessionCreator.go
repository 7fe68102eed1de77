package donationform

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/dayp-uci/donationsite/lib/myhttpclient"
)

const checkoutSessionPath = "/api/create-checkout-session"

type createCheckoutSessionRequest struct {
	Amount int64 `json:"amount"`
}

type createCheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
	Error     string `json:"error"`
}

type httpSessionCreator struct {
	url    string
	origin string
	sender myhttpclient.HTTPSender
}

// NewHTTPSessionCreator talks to a checkout session service at apiURL. origin
// decides where the processor sends the donor back to.
func NewHTTPSessionCreator(apiURL string, origin string, sender myhttpclient.HTTPSender) SessionCreator {
	return &httpSessionCreator{
		url:    strings.TrimSuffix(apiURL, "/") + checkoutSessionPath,
		origin: origin,
		sender: sender,
	}
}

func (hc *httpSessionCreator) CreateCheckoutSession(c context.Context, amountInCents int64) (CheckoutSession, error) {
	body, err := json.Marshal(createCheckoutSessionRequest{Amount: amountInCents})
	if err != nil {
		return CheckoutSession{}, &CheckoutError{Kind: NetworkError, Message: GenericErrorMessage, Err: err}
	}

	headers := http.Header{}
	if hc.origin != "" {
		headers.Set("Origin", hc.origin)
	}

	status, respBody, err := hc.sender.Send(c, http.MethodPost, hc.url, headers, body)
	if err != nil {
		return CheckoutSession{}, &CheckoutError{Kind: NetworkError, Message: GenericErrorMessage, Err: err}
	}

	resp := createCheckoutSessionResponse{}
	decodeErr := json.Unmarshal(respBody, &resp)

	if status < 200 || status >= 300 {
		message := resp.Error
		if decodeErr != nil || message == "" {
			message = CreateSessionFailedMessage
		}
		return CheckoutSession{}, &CheckoutError{
			Kind:    NetworkError,
			Message: message,
			Err:     fmt.Errorf("checkout session service answered with status %d", status),
		}
	}

	if decodeErr != nil || resp.SessionID == "" {
		return CheckoutSession{}, &CheckoutError{
			Kind:    NetworkError,
			Message: CreateSessionFailedMessage,
			Err:     fmt.Errorf("unexpected checkout session response: %s", respBody),
		}
	}

	return CheckoutSession{
		ID:  resp.SessionID,
		URL: resp.URL,
	}, nil
}
