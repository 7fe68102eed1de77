package donationpage

import "github.com/dayp-uci/donationsite/services/donationform"

const (
	statusCookieName = "donation_status"
	statusSuccess    = "success"
	statusCanceled   = "canceled"

	publicKeyMissingMessage = "Stripe public key not configured. Please check your environment variables."
)

type donationRequest struct {
	Preset int64  `form:"preset"`
	Custom string `form:"custom"`
}

type pageData struct {
	Presets  []int64
	State    donationform.State
	ThankYou bool
	Notice   string
	Year     int
}

func (p pageData) Message() string {
	if p.State.Message != "" {
		return p.State.Message
	}
	return p.Notice
}
