package donationevents

const (
	TopicName                  = "donation"
	checkoutSessionCreatedName = TopicName + ".checkoutSessionCreated"
)

// CheckoutSessionCreated announces that a payer has been handed a hosted
// checkout session. It says nothing about whether the payment completes.
type CheckoutSessionCreated struct {
	SessionID         string
	ClientReferenceID string
	AmountInCents     int64
	Currency          string
	DonationAmount    string
}

func (e CheckoutSessionCreated) GetEventTypeName() string {
	return checkoutSessionCreatedName
}

func (e CheckoutSessionCreated) GetAggregateName() string {
	return e.SessionID
}
