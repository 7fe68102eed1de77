package warmup

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dayp-uci/donationsite/lib/mycontext"
	"github.com/dayp-uci/donationsite/lib/myerrors"
	"github.com/dayp-uci/donationsite/lib/myhttp"
	"github.com/dayp-uci/donationsite/lib/mylog"
)

//go:generate mockgen -source=web.go -package warmup -destination readiness_mock.go ReadinessChecker
type ReadinessChecker interface {
	Configured() bool
}

type webService struct {
	logger  mylog.Logger
	checker ReadinessChecker
}

// Use dependency injection to isolate the infrastructure and ease testing
func NewService(checker ReadinessChecker) *webService {
	logger := mylog.New("warmup")
	return &webService{
		logger:  logger,
		checker: checker,
	}
}

func (s *webService) RegisterEndpoints(c context.Context, router *mux.Router) error {
	router.HandleFunc("/_ah/warmup", s.warmupPage()).Methods("GET")

	return nil
}

func (s *webService) warmupPage() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := mycontext.ContextFromHTTPRequest(r)
		errorWriter := myhttp.NewWriter(s.logger)

		if !s.checker.Configured() {
			errorWriter.WriteError(c, w, 1, myerrors.NewUnavailableError(fmt.Errorf("checkout session service not configured")))
			return
		}

		errorWriter.Write(c, w, http.StatusOK, myhttp.SuccessResponse{
			Message: "Successfully processed warmup request",
		})
	}
}
