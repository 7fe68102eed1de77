package donationform

import (
	"context"
	"errors"
	"math"
	"regexp"
	"strconv"
	"sync"

	"github.com/dayp-uci/donationsite/lib/mylog"
)

var customAmountPattern = regexp.MustCompile(`^\d+(\.\d*)?$|^\.\d+$`)

// Selector holds the donor's choice of amount and drives one checkout attempt
// at a time.
type Selector struct {
	mutex      sync.Mutex
	logger     mylog.Logger
	presets    []int64
	creator    SessionCreator
	redirector Redirector
	state      State
}

// New returns an idle selector. A nil redirector means the processor client
// could not be loaded, which surfaces on submit.
func New(presets []int64, creator SessionCreator, redirector Redirector) *Selector {
	return &Selector{
		logger:     mylog.New("donationform"),
		presets:    presets,
		creator:    creator,
		redirector: redirector,
		state:      State{Phase: PhaseIdle},
	}
}

func (s *Selector) State() State {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	return s.state
}

func (s *Selector) Presets() []int64 {
	return s.presets
}

func (s *Selector) SelectPreset(value int64) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	err := s.checkSelectable()
	if err != nil {
		return err
	}

	if !s.isPreset(value) {
		return ErrUnknownPreset
	}

	s.state = State{
		Phase:  PhaseAmountChosen,
		Preset: value,
	}
	return nil
}

// SetCustomAmount accepts "" or a positive plain decimal. Rejected input
// leaves the state as it was.
func (s *Selector) SetCustomAmount(text string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	err := s.checkSelectable()
	if err != nil {
		return err
	}

	if text == "" {
		s.state = State{Phase: PhaseIdle}
		return nil
	}

	_, err = parseCustomAmount(text)
	if err != nil {
		return err
	}

	s.state = State{
		Phase:  PhaseAmountChosen,
		Custom: text,
	}
	return nil
}

// Confirm is applied when the page is loaded with the success marker.
func (s *Selector) Confirm() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.state = State{Phase: PhaseConfirmed}
}

// Submit creates a checkout session for the chosen amount and hands the donor
// over to the processor. The network call happens without holding the lock.
// When c is done before the creator answers, the answer is ignored.
func (s *Selector) Submit(c context.Context) error {
	amountInCents, err := s.startSubmission()
	if err != nil {
		return err
	}

	session, err := s.creator.CreateCheckoutSession(c, amountInCents)
	if c.Err() != nil {
		s.logger.Log(c, "", mylog.SeverityInfo, "Dropping late checkout session result: %s", c.Err())
		return c.Err()
	}
	if err != nil {
		return s.fail(c, err)
	}

	s.mutex.Lock()
	s.state.Phase = PhaseRedirecting
	s.mutex.Unlock()

	err = s.redirector.RedirectToCheckout(c, session)
	if err != nil {
		return s.fail(c, err)
	}

	s.logger.Log(c, session.ID, mylog.SeverityInfo, "Redirecting to checkout session %s", session.ID)

	return nil
}

func (s *Selector) startSubmission() (int64, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	switch s.state.Phase {
	case PhaseSubmitting, PhaseRedirecting:
		return 0, ErrSubmissionInFlight
	case PhaseConfirmed:
		return 0, ErrConfirmed
	}

	amountInCents, ok := s.amountInCents()
	if !ok {
		s.state.Phase = PhaseError
		s.state.Message = NoAmountMessage
		return 0, ErrNoAmount
	}

	if s.redirector == nil {
		s.state.Phase = PhaseError
		s.state.Message = ProcessorNotLoadedMessage
		return 0, ErrProcessorUnavailable
	}

	s.state.Phase = PhaseSubmitting
	s.state.Message = ""

	return amountInCents, nil
}

func (s *Selector) fail(c context.Context, err error) error {
	s.logger.Log(c, "", mylog.SeverityWarn, "Checkout failed: %s", err)

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.state.Phase = PhaseError
	s.state.Message = displayMessage(err)

	return err
}

func (s *Selector) checkSelectable() error {
	switch s.state.Phase {
	case PhaseSubmitting, PhaseRedirecting:
		return ErrSubmissionInFlight
	case PhaseConfirmed:
		return ErrConfirmed
	}
	return nil
}

func (s *Selector) isPreset(value int64) bool {
	for _, p := range s.presets {
		if p == value {
			return true
		}
	}
	return false
}

func (s *Selector) amountInCents() (int64, bool) {
	if s.state.Preset > 0 {
		return s.state.Preset * 100, true
	}
	if s.state.Custom != "" {
		amount, err := parseCustomAmount(s.state.Custom)
		if err != nil {
			return 0, false
		}
		return int64(math.Round(amount * 100)), true
	}
	return 0, false
}

func parseCustomAmount(text string) (float64, error) {
	if !customAmountPattern.MatchString(text) {
		return 0, ErrInvalidCustomAmount
	}
	amount, err := strconv.ParseFloat(text, 64)
	if err != nil || amount <= 0 || amount*100 >= math.MaxInt64 {
		return 0, ErrInvalidCustomAmount
	}
	return amount, nil
}

func displayMessage(err error) string {
	var checkoutErr *CheckoutError
	if errors.As(err, &checkoutErr) && checkoutErr.Message != "" {
		return checkoutErr.Message
	}
	return GenericErrorMessage
}
