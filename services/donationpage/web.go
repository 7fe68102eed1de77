package donationpage

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	formcodec "github.com/go-playground/form/v4"
	"github.com/gorilla/mux"

	"github.com/dayp-uci/donationsite/lib/mycontext"
	"github.com/dayp-uci/donationsite/lib/myerrors"
	"github.com/dayp-uci/donationsite/lib/myhttp"
	"github.com/dayp-uci/donationsite/lib/mylog"
	"github.com/dayp-uci/donationsite/lib/mytime"
	"github.com/dayp-uci/donationsite/services/donationform"
)

type webService struct {
	logger    mylog.Logger
	publicKey string
	creators  SessionCreatorFactory
	nower     mytime.Nower
	limiter   *myhttp.ClientLimiter
}

// Use dependency injection to isolate the infrastructure and ease testing.
// An empty publicKey leaves the page without a processor client.
func NewWebService(publicKey string, creators SessionCreatorFactory, nower mytime.Nower, limiter *myhttp.ClientLimiter) *webService {
	logger := mylog.New("donationpage")
	if publicKey == "" {
		logger.Log(context.Background(), "", mylog.SeverityWarn, "STRIPE_PUBLIC_KEY missing: donations are disabled")
	}
	return &webService{
		logger:    logger,
		publicKey: publicKey,
		creators:  creators,
		nower:     nower,
		limiter:   limiter,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	errorWriter := myhttp.NewWriter(s.logger)

	router.HandleFunc("/", s.donationPage()).Methods("GET")
	router.Handle("/donate", myhttp.RateLimited(s.limiter, errorWriter)(s.donate())).Methods("POST")

	return nil
}

//go:embed templates
var templateFolder embed.FS
var (
	donationPageTemplate *template.Template
)

func init() {
	donationPageTemplate = template.Must(template.ParseFS(templateFolder, "templates/donation.html"))
}

func (s *webService) donationPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)

		status, found := statusFromQuery(r)
		if found {
			// Remember the outcome and drop the marker from the address bar.
			http.SetCookie(w, &http.Cookie{
				Name:     statusCookieName,
				Value:    status,
				Path:     "/",
				MaxAge:   60,
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
			http.Redirect(w, r, withoutStatusMarkers(r), http.StatusSeeOther)
			return
		}

		selector := donationform.New(donationform.DefaultPresets, nil, nil)

		cookie, err := r.Cookie(statusCookieName)
		if err == nil {
			http.SetCookie(w, &http.Cookie{
				Name:   statusCookieName,
				Value:  "",
				Path:   "/",
				MaxAge: -1,
			})
			if cookie.Value == statusSuccess {
				s.logger.Log(c, "", mylog.SeverityInfo, "Donor returned from successful checkout")
				selector.Confirm()
			}
		}

		s.render(c, w, selector)
	}
}

func (s *webService) donate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		req, err := parseDonationRequest(r)
		if err != nil {
			errorWriter.WriteError(c, w, 1, myerrors.NewInvalidInputError(err))
			return
		}

		var redirector donationform.Redirector
		if s.publicKey != "" {
			redirector = &hostedCheckoutRedirector{w: w, r: r}
		}

		selector := donationform.New(donationform.DefaultPresets, s.creators(myhttp.ForwardedHeadersFromRequest(r)), redirector)

		if req.Preset > 0 {
			err = selector.SelectPreset(req.Preset)
			if err != nil {
				s.logger.Log(c, "", mylog.SeverityWarn, "Ignoring preset %d: %s", req.Preset, err)
			}
		}
		if req.Custom != "" {
			err = selector.SetCustomAmount(req.Custom)
			if err != nil {
				s.logger.Log(c, "", mylog.SeverityWarn, "Ignoring custom amount %q: %s", req.Custom, err)
			}
		}

		err = selector.Submit(c)
		if err == nil {
			// Redirect to hosted checkout has been written.
			return
		}
		if c.Err() != nil {
			s.logger.Log(c, "", mylog.SeverityInfo, "Donor left before checkout was ready: %s", c.Err())
			return
		}

		s.render(c, w, selector)
	}
}

func (s *webService) render(c context.Context, w http.ResponseWriter, selector *donationform.Selector) {
	state := selector.State()
	data := pageData{
		Presets:  selector.Presets(),
		State:    state,
		ThankYou: state.Phase == donationform.PhaseConfirmed,
		Year:     s.nower.Now().Year(),
	}
	if s.publicKey == "" {
		data.Notice = publicKeyMissingMessage
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	err := donationPageTemplate.Execute(w, data)
	if err != nil {
		errorWriter := myhttp.NewWriter(s.logger)
		errorWriter.WriteError(c, w, 2, myerrors.NewInternalError(err))
		return
	}
}

func parseDonationRequest(r *http.Request) (donationRequest, error) {
	req := donationRequest{}

	err := r.ParseForm()
	if err != nil {
		return req, fmt.Errorf("error parsing form: %s", err)
	}

	err = formcodec.NewDecoder().Decode(&req, r.PostForm)
	if err != nil {
		return req, fmt.Errorf("error decoding form: %s", err)
	}

	return req, nil
}

func statusFromQuery(r *http.Request) (string, bool) {
	query := r.URL.Query()
	if query.Get("success") == "true" {
		return statusSuccess, true
	}
	if query.Get("canceled") == "true" {
		return statusCanceled, true
	}
	return "", false
}

func withoutStatusMarkers(r *http.Request) string {
	query := r.URL.Query()
	query.Del("success")
	query.Del("canceled")

	target := r.URL.Path
	if encoded := query.Encode(); encoded != "" {
		target += "?" + encoded
	}
	return target
}
