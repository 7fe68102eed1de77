package donationform

import (
	"errors"
	"fmt"
)

// Phase is the single explicit state of an Amount Selector.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAmountChosen
	PhaseSubmitting
	PhaseRedirecting
	PhaseError
	PhaseConfirmed
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "Idle"
	case PhaseAmountChosen:
		return "AmountChosen"
	case PhaseSubmitting:
		return "Submitting"
	case PhaseRedirecting:
		return "Redirecting"
	case PhaseError:
		return "Error"
	case PhaseConfirmed:
		return "Confirmed"
	default:
		return fmt.Sprintf("Phase(%d)", int(p))
	}
}

const (
	NoAmountMessage            = "Please select or enter a donation amount."
	ProcessorNotLoadedMessage  = "Stripe is not loaded. Please refresh the page."
	GenericErrorMessage        = "An error occurred. Please try again."
	CreateSessionFailedMessage = "Failed to create checkout session"
)

// DefaultPresets are the one-click amounts in whole US dollars.
var DefaultPresets = []int64{10, 25, 50, 100}

var (
	ErrNoAmount             = errors.New(NoAmountMessage)
	ErrInvalidCustomAmount  = errors.New("custom amount must be a positive decimal number")
	ErrUnknownPreset        = errors.New("unknown preset amount")
	ErrSubmissionInFlight   = errors.New("a submission is already in flight")
	ErrConfirmed            = errors.New("donation already confirmed")
	ErrProcessorUnavailable = errors.New(ProcessorNotLoadedMessage)
)

type CheckoutErrorKind int

const (
	NetworkError CheckoutErrorKind = iota
	RedirectError
)

func (k CheckoutErrorKind) String() string {
	if k == RedirectError {
		return "RedirectError"
	}
	return "NetworkError"
}

// CheckoutError carries a message that is safe to show to the donor.
type CheckoutError struct {
	Kind    CheckoutErrorKind
	Message string
	Err     error
}

func (e *CheckoutError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *CheckoutError) Unwrap() error {
	return e.Err
}

type CheckoutSession struct {
	ID  string
	URL string
}

// State is a snapshot. Preset is in whole dollars and zero when unset.
type State struct {
	Phase   Phase
	Preset  int64
	Custom  string
	Message string
}

func (s State) HasAmount() bool {
	return s.Preset > 0 || s.Custom != ""
}

func (s State) CanSubmit() bool {
	switch s.Phase {
	case PhaseSubmitting, PhaseRedirecting, PhaseConfirmed:
		return false
	}
	return s.HasAmount()
}

// DisplayAmount renders the chosen amount in dollars, custom amounts with cents.
func (s State) DisplayAmount() string {
	if s.Preset > 0 {
		return fmt.Sprintf("%d", s.Preset)
	}
	amount, err := parseCustomAmount(s.Custom)
	if err != nil {
		return s.Custom
	}
	return fmt.Sprintf("%.2f", amount)
}
