package myhttp

import (
	"context"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dayp-uci/donationsite/lib/myerrors"
	"github.com/dayp-uci/donationsite/lib/mylog"
)

func TestResponseWriter(t *testing.T) {
	writer := NewWriter(mylog.New("myhttp"))

	t.Run("Error exposes public message only", func(t *testing.T) {
		response := httptest.NewRecorder()

		writer.WriteError(context.TODO(), response, 1, myerrors.NewConfigurationError(fmt.Errorf("STRIPE_SECRET_KEY missing")))

		assert.Equal(t, 500, response.Code)
		assert.Equal(t, "application/json", response.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"error":"Server configuration error. Please contact support."}`, response.Body.String())
	})

	t.Run("Success", func(t *testing.T) {
		response := httptest.NewRecorder()

		writer.Write(context.TODO(), response, 200, SuccessResponse{Message: "ok"})

		assert.Equal(t, 200, response.Code)
		assert.JSONEq(t, `{"Message":"ok"}`, response.Body.String())
	})
}
