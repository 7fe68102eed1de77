package checkoutsession

import "fmt"

const (
	MinimumAmountInCents = 50
	Currency             = "usd"
	ProductName          = "Donation to Developing Aspiring Young Professionals"
	ProductDescription   = "Support UCI students with professional development opportunities"

	invalidAmountMessage  = "Invalid amount. Minimum donation is $0.50."
	upstreamErrorMessage  = "An error occurred while creating the checkout session"
	methodNotAllowedMsg   = "Method not allowed"
	donationAmountMetaKey = "donation_amount"
)

// CheckoutSession is the hosted checkout session as far as this site cares:
// it is handed to the payer once and never stored.
type CheckoutSession struct {
	ID                string
	URL               string
	SuccessURL        string
	CancelURL         string
	ClientReferenceID string
}

type createCheckoutSessionRequest struct {
	Amount *int64 `json:"amount"`
}

type createCheckoutSessionResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url,omitempty"`
}

// FormatDonationAmount renders minor units as major units with two decimals.
func FormatDonationAmount(amountInCents int64) string {
	sign := ""
	if amountInCents < 0 {
		sign = "-"
		amountInCents = -amountInCents
	}
	return fmt.Sprintf("%s%d.%02d", sign, amountInCents/100, amountInCents%100)
}

func successURL(baseURL string) string {
	return baseURL + "/?success=true"
}

func cancelURL(baseURL string) string {
	return baseURL + "/?canceled=true"
}
