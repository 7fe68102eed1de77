package donationpage

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dayp-uci/donationsite/services/donationform"
)

const redirectFailedMessage = "Unable to open the secure checkout page. Please try again."

// hostedCheckoutRedirector sends the browser to the processor's hosted page.
type hostedCheckoutRedirector struct {
	w http.ResponseWriter
	r *http.Request
}

func (hr *hostedCheckoutRedirector) RedirectToCheckout(c context.Context, session donationform.CheckoutSession) error {
	if session.URL == "" {
		return &donationform.CheckoutError{
			Kind:    donationform.RedirectError,
			Message: redirectFailedMessage,
			Err:     fmt.Errorf("checkout session %s has no url", session.ID),
		}
	}

	http.Redirect(hr.w, hr.r, session.URL, http.StatusSeeOther)

	return nil
}
