package checkoutsession

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v74"
	"go.uber.org/mock/gomock"

	"github.com/dayp-uci/donationsite/lib/myhttp"
	"github.com/dayp-uci/donationsite/lib/mypublisher"
	"github.com/dayp-uci/donationsite/lib/mytime"
	"github.com/dayp-uci/donationsite/lib/myuuid"
	"github.com/dayp-uci/donationsite/services/donationevents"
)

var (
	sessionResp = stripe.CheckoutSession{
		ID:  "cs_test_1",
		URL: "https://checkout.stripe.com/c/pay/cs_test_1",
	}
)

func TestCheckoutSessionEndpoint(t *testing.T) {

	t.Run("Preflight", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		router, _, _, _ := setup(t, ctrl)

		// when
		request, err := http.NewRequest(http.MethodOptions, "/api/create-checkout-session", nil)
		assert.NoError(t, err)
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
		assert.Empty(t, response.Body.String())
		assertCrossOriginAllowed(t, response)
	})

	t.Run("Method not allowed", func(t *testing.T) {
		for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
			ctrl := gomock.NewController(t)

			// setup
			router, _, _, _ := setup(t, ctrl)

			// when
			request, err := http.NewRequest(method, "/api/create-checkout-session", nil)
			assert.NoError(t, err)
			response := httptest.NewRecorder()
			router.ServeHTTP(response, request)

			// then
			assert.Equal(t, 405, response.Code, method)
			assert.JSONEq(t, `{"error":"Method not allowed"}`, response.Body.String())
			assertCrossOriginAllowed(t, response)
		}
	})

	t.Run("Secret key missing", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		uuider := myuuid.NewMockUUIDer(ctrl)
		publisher := mypublisher.NewMockPublisher(ctrl)
		sut := NewWebService(nil, uuider, publisher, nil)
		router := mux.NewRouter()
		assert.NoError(t, sut.RegisterEndpoints(context.TODO(), router))
		assert.False(t, sut.Configured())

		// when
		response := postAmount(router, `{"amount":1000}`, nil)

		// then
		assert.Equal(t, 500, response.Code)
		assert.JSONEq(t, `{"error":"Server configuration error. Please contact support."}`, response.Body.String())
		assertCrossOriginAllowed(t, response)
	})

	t.Run("Invalid amounts never reach the processor", func(t *testing.T) {
		for _, body := range []string{
			`{}`,
			`{"amount":null}`,
			`{"amount":0}`,
			`{"amount":1}`,
			`{"amount":49}`,
			`{"amount":-1000}`,
			`{"amount":"1000"}`,
			`{"amount":10.5}`,
			`not json`,
			``,
		} {
			ctrl := gomock.NewController(t)

			// setup: no expectations, so any processor call fails the test
			router, _, _, _ := setup(t, ctrl)

			// when
			response := postAmount(router, body, nil)

			// then
			assert.Equal(t, 400, response.Code, body)
			assert.JSONEq(t, `{"error":"Invalid amount. Minimum donation is $0.50."}`, response.Body.String())
			assertCrossOriginAllowed(t, response)
		}
	})

	t.Run("Oversized body is rejected", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup: no expectations, so any processor call fails the test
		router, _, _, _ := setup(t, ctrl)

		// given
		body := `{"amount":1000,"comment":"` + strings.Repeat("x", 2048) + `"}`

		// when
		response := postAmount(router, body, nil)

		// then
		assert.Equal(t, 400, response.Code)
		assert.JSONEq(t, `{"error":"Invalid amount. Minimum donation is $0.50."}`, response.Body.String())
	})

	t.Run("Create checkout session", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		router, payer, uuider, publisher := setup(t, ctrl)

		// given
		var captured stripe.CheckoutSessionParams
		uuider.EXPECT().Create().Return("ref_1")
		payer.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).DoAndReturn(
			func(c context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error) {
				captured = params
				return sessionResp, nil
			}).Times(1)
		publisher.EXPECT().Publish(gomock.Any(), donationevents.TopicName, donationevents.CheckoutSessionCreated{
			SessionID:         "cs_test_1",
			ClientReferenceID: "ref_1",
			AmountInCents:     1050,
			Currency:          "usd",
			DonationAmount:    "10.50",
		}).Return(nil)

		// when
		response := postAmount(router, `{"amount":1050}`, map[string]string{
			"Origin":            "https://example.org",
			"X-Forwarded-Proto": "http",
		})

		// then
		assert.Equal(t, 200, response.Code)
		assert.JSONEq(t, `{"sessionId":"cs_test_1","url":"https://checkout.stripe.com/c/pay/cs_test_1"}`, response.Body.String())
		assertCrossOriginAllowed(t, response)

		assert.Equal(t, "https://example.org/?success=true", *captured.SuccessURL)
		assert.Equal(t, "https://example.org/?canceled=true", *captured.CancelURL)
		assert.Equal(t, "payment", *captured.Mode)
		assert.Equal(t, "donate", *captured.SubmitType)
		assert.Len(t, captured.PaymentMethodTypes, 1)
		assert.Equal(t, "card", *captured.PaymentMethodTypes[0])
		assert.Equal(t, "ref_1", *captured.ClientReferenceID)
		assert.Equal(t, map[string]string{"donation_amount": "10.50"}, captured.Metadata)
		assert.Len(t, captured.LineItems, 1)
		lineItem := captured.LineItems[0]
		assert.Equal(t, int64(1), *lineItem.Quantity)
		assert.Equal(t, int64(1050), *lineItem.PriceData.UnitAmount)
		assert.Equal(t, "usd", *lineItem.PriceData.Currency)
		assert.Equal(t, "Donation to Developing Aspiring Young Professionals", *lineItem.PriceData.ProductData.Name)
		assert.Equal(t, "Support UCI students with professional development opportunities", *lineItem.PriceData.ProductData.Description)
	})

	t.Run("Redirects derived from proxy headers", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		router, payer, uuider, publisher := setup(t, ctrl)

		// given
		uuider.EXPECT().Create().Return("ref_2")
		payer.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).DoAndReturn(
			func(c context.Context, params stripe.CheckoutSessionParams) (stripe.CheckoutSession, error) {
				assert.Equal(t, "http://foo.com/?success=true", *params.SuccessURL)
				assert.Equal(t, "http://foo.com/?canceled=true", *params.CancelURL)
				return sessionResp, nil
			})
		publisher.EXPECT().Publish(gomock.Any(), donationevents.TopicName, gomock.Any()).Return(nil)

		// when
		request, err := http.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(`{"amount":50}`))
		assert.NoError(t, err)
		request.Host = "foo.com"
		request.Header.Set("X-Forwarded-Proto", "http")
		response := httptest.NewRecorder()
		router.ServeHTTP(response, request)

		// then
		assert.Equal(t, 200, response.Code)
	})

	t.Run("Processor rejects session", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		router, payer, uuider, _ := setup(t, ctrl)

		// given
		uuider.EXPECT().Create().Return("ref_3")
		payer.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).Return(stripe.CheckoutSession{},
			fmt.Errorf("error creating stripe session: %w", &stripe.Error{Msg: "Invalid API Key provided: sk_test_***"}))

		// when
		response := postAmount(router, `{"amount":1000}`, nil)

		// then
		assert.Equal(t, 500, response.Code)
		assert.JSONEq(t, `{"error":"Invalid API Key provided: sk_test_***"}`, response.Body.String())
	})

	t.Run("Processor unreachable", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		router, payer, uuider, _ := setup(t, ctrl)

		// given
		uuider.EXPECT().Create().Return("ref_4")
		payer.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).Return(stripe.CheckoutSession{},
			fmt.Errorf("dial tcp 10.0.0.1:443: connect: connection refused"))

		// when
		response := postAmount(router, `{"amount":1000}`, nil)

		// then
		assert.Equal(t, 500, response.Code)
		assert.JSONEq(t, `{"error":"An error occurred while creating the checkout session"}`, response.Body.String())
	})

	t.Run("Publishing failure does not fail the donation", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		router, payer, uuider, publisher := setup(t, ctrl)

		// given
		uuider.EXPECT().Create().Return("ref_5")
		payer.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).Return(sessionResp, nil)
		publisher.EXPECT().Publish(gomock.Any(), donationevents.TopicName, gomock.Any()).Return(fmt.Errorf("pubsub down"))

		// when
		response := postAmount(router, `{"amount":2500}`, nil)

		// then
		assert.Equal(t, 200, response.Code)
		assert.JSONEq(t, `{"sessionId":"cs_test_1","url":"https://checkout.stripe.com/c/pay/cs_test_1"}`, response.Body.String())
	})

	t.Run("Identical requests create independent sessions", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		router, payer, uuider, publisher := setup(t, ctrl)

		// given
		uuider.EXPECT().Create().Return("ref_6")
		uuider.EXPECT().Create().Return("ref_7")
		gomock.InOrder(
			payer.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).Return(stripe.CheckoutSession{ID: "cs_test_a"}, nil),
			payer.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).Return(stripe.CheckoutSession{ID: "cs_test_b"}, nil),
		)
		publisher.EXPECT().Publish(gomock.Any(), donationevents.TopicName, gomock.Any()).Return(nil).Times(2)

		// when
		first := postAmount(router, `{"amount":1000}`, nil)
		second := postAmount(router, `{"amount":1000}`, nil)

		// then
		assert.JSONEq(t, `{"sessionId":"cs_test_a"}`, first.Body.String())
		assert.JSONEq(t, `{"sessionId":"cs_test_b"}`, second.Body.String())
	})

	t.Run("Rate limited", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		payer := NewMockPayer(ctrl)
		uuider := myuuid.NewMockUUIDer(ctrl)
		publisher := mypublisher.NewMockPublisher(ctrl)
		sut := NewWebService(payer, uuider, publisher, myhttp.NewLimiter(0.001, 1, mytime.RealNower{}))
		router := mux.NewRouter()
		assert.NoError(t, sut.RegisterEndpoints(context.TODO(), router))

		// given
		uuider.EXPECT().Create().Return("ref_8")
		payer.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).Return(sessionResp, nil)
		publisher.EXPECT().Publish(gomock.Any(), donationevents.TopicName, gomock.Any()).Return(nil)

		// when
		first := postAmount(router, `{"amount":1000}`, nil)
		second := postAmount(router, `{"amount":1000}`, nil)

		// then
		assert.Equal(t, 200, first.Code)
		assert.Equal(t, 429, second.Code)
		assert.JSONEq(t, `{"error":"Too many requests"}`, second.Body.String())
		assertCrossOriginAllowed(t, second)
	})

	t.Run("Rate limit is kept per client", func(t *testing.T) {
		ctrl := gomock.NewController(t)

		// setup
		payer := NewMockPayer(ctrl)
		uuider := myuuid.NewMockUUIDer(ctrl)
		publisher := mypublisher.NewMockPublisher(ctrl)
		sut := NewWebService(payer, uuider, publisher, myhttp.NewLimiter(0.001, 1, mytime.RealNower{}))
		router := mux.NewRouter()
		assert.NoError(t, sut.RegisterEndpoints(context.TODO(), router))

		// given
		uuider.EXPECT().Create().Return("ref_9").Times(2)
		payer.EXPECT().CreateCheckoutSession(gomock.Any(), gomock.Any()).Return(sessionResp, nil).Times(2)
		publisher.EXPECT().Publish(gomock.Any(), donationevents.TopicName, gomock.Any()).Return(nil).Times(2)

		// when
		clientA := map[string]string{"X-Forwarded-For": "203.0.113.7"}
		clientB := map[string]string{"X-Forwarded-For": "198.51.100.4"}
		firstA := postAmount(router, `{"amount":1000}`, clientA)
		secondA := postAmount(router, `{"amount":1000}`, clientA)
		firstB := postAmount(router, `{"amount":1000}`, clientB)

		// then
		assert.Equal(t, 200, firstA.Code)
		assert.Equal(t, 429, secondA.Code)
		assert.Equal(t, 200, firstB.Code)
	})
}

func setup(t *testing.T, ctrl *gomock.Controller) (*mux.Router, *MockPayer, *myuuid.MockUUIDer, *mypublisher.MockPublisher) {
	payer := NewMockPayer(ctrl)
	uuider := myuuid.NewMockUUIDer(ctrl)
	publisher := mypublisher.NewMockPublisher(ctrl)

	sut := NewWebService(payer, uuider, publisher, nil)
	assert.True(t, sut.Configured())

	router := mux.NewRouter()
	err := sut.RegisterEndpoints(context.TODO(), router)
	assert.NoError(t, err)

	return router, payer, uuider, publisher
}

func postAmount(router *mux.Router, body string, headers map[string]string) *httptest.ResponseRecorder {
	request, _ := http.NewRequest(http.MethodPost, "/api/create-checkout-session", strings.NewReader(body))
	request.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		request.Header.Set(k, v)
	}
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func assertCrossOriginAllowed(t *testing.T, response *httptest.ResponseRecorder) {
	assert.Equal(t, "*", response.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "POST, OPTIONS", response.Header().Get("Access-Control-Allow-Methods"))
	assert.Equal(t, "Content-Type", response.Header().Get("Access-Control-Allow-Headers"))
}
