package checkoutsession

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dayp-uci/donationsite/lib/mycontext"
	"github.com/dayp-uci/donationsite/lib/myerrors"
	"github.com/dayp-uci/donationsite/lib/myhttp"
	"github.com/dayp-uci/donationsite/lib/mylog"
	"github.com/dayp-uci/donationsite/lib/mypublisher"
	"github.com/dayp-uci/donationsite/lib/myuuid"
)

const (
	CheckoutSessionPath = "/api/create-checkout-session"

	maxRequestBodyBytes = 1 << 10
)

type webService struct {
	logger  mylog.Logger
	limiter *myhttp.ClientLimiter
	service *service
}

// Use dependency injection to isolate the infrastructure and ease testing.
// payer is nil when no secret key is configured; limiter is nil when rate limiting is off.
func NewWebService(payer Payer, uuider myuuid.UUIDer, publisher mypublisher.Publisher, limiter *myhttp.ClientLimiter) *webService {
	logger := mylog.New("checkoutsession")
	return &webService{
		logger:  logger,
		limiter: limiter,
		service: newService(logger, payer, uuider, publisher),
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	errorWriter := myhttp.NewWriter(s.logger)

	router.Handle(CheckoutSessionPath, myhttp.AllowCrossOrigin(s.preflight())).Methods("OPTIONS")
	router.Handle(CheckoutSessionPath, myhttp.AllowCrossOrigin(myhttp.RateLimited(s.limiter, errorWriter)(s.createCheckoutSessionPage()))).Methods("POST")
	router.Handle(CheckoutSessionPath, myhttp.AllowCrossOrigin(s.methodNotAllowed()))

	return nil
}

// Configured reports whether the processor credential was present at startup.
func (s *webService) Configured() bool {
	return s.service.configured()
}

// CreateCheckoutSession lets other services in this process create a session
// without going over HTTP.
func (s *webService) CreateCheckoutSession(c context.Context, amountInCents int64, headers myhttp.ForwardedHeaders) (CheckoutSession, error) {
	return s.service.createCheckoutSession(c, amountInCents, headers)
}

func (s *webService) preflight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}
}

func (s *webService) methodNotAllowed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		errorWriter.WriteError(c, w, 1, myerrors.NewMethodNotAllowedError(fmt.Errorf(methodNotAllowedMsg)))
	}
}

func (s *webService) createCheckoutSessionPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		if !s.service.configured() {
			errorWriter.WriteError(c, w, 1, myerrors.NewConfigurationError(fmt.Errorf("stripe not initialized: STRIPE_SECRET_KEY missing")))
			return
		}

		amountInCents, err := parseRequest(w, r)
		if err != nil {
			errorWriter.WriteError(c, w, 2, err)
			return
		}

		session, err := s.service.createCheckoutSession(c, amountInCents, myhttp.ForwardedHeadersFromRequest(r))
		if err != nil {
			errorWriter.WriteError(c, w, 3, err)
			return
		}

		errorWriter.Write(c, w, http.StatusOK, createCheckoutSessionResponse{
			SessionID: session.ID,
			URL:       session.URL,
		})
	}
}

func parseRequest(w http.ResponseWriter, r *http.Request) (int64, error) {
	req := createCheckoutSessionRequest{}
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodyBytes)).Decode(&req)
	if err != nil {
		return 0, newInvalidAmountError(fmt.Errorf("error parsing request-body: %s", err))
	}

	if req.Amount == nil {
		return 0, newInvalidAmountError(fmt.Errorf("missing amount"))
	}

	return *req.Amount, nil
}
