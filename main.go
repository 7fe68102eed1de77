package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/dayp-uci/donationsite/lib/myconfig"
	"github.com/dayp-uci/donationsite/lib/myhttp"
	"github.com/dayp-uci/donationsite/lib/myhttpclient"
	"github.com/dayp-uci/donationsite/lib/mypublisher"
	"github.com/dayp-uci/donationsite/lib/mytime"
	"github.com/dayp-uci/donationsite/lib/myuuid"
	"github.com/dayp-uci/donationsite/services/checkoutsession"
	"github.com/dayp-uci/donationsite/services/donationpage"
	"github.com/dayp-uci/donationsite/services/warmup"
)

func main() {
	c := context.Background()

	cfg := myconfig.MustLoad()
	log.Printf("Configuration: %s", cfg)
	for _, problem := range cfg.Problems() {
		log.Printf("Configuration problem: %s", problem)
	}

	router := mux.NewRouter()

	publisher, publisherCleanup, err := mypublisher.New(c, cfg.GoogleCloudProject, mytime.RealNower{}, myuuid.RealUUIDer{})
	if err != nil {
		log.Fatalf("Error creating event publisher: %s", err)
	}
	defer publisherCleanup()

	var payer checkoutsession.Payer
	if cfg.StripeSecretKey != "" {
		payer = checkoutsession.NewPayer(cfg.StripeSecretKey)
	}
	checkoutSessionService := checkoutsession.NewWebService(payer, myuuid.RealUUIDer{}, publisher,
		myhttp.NewLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, mytime.RealNower{}))
	err = checkoutSessionService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering checkout session service: %s", err)
	}

	creators := donationpage.InProcessSessionCreators(checkoutSessionService)
	if cfg.CheckoutAPIURL != "" {
		creators = donationpage.RemoteSessionCreators(cfg.CheckoutAPIURL, myhttpclient.New())
	}
	donationPageService := donationpage.NewWebService(cfg.StripePublicKey, creators, mytime.RealNower{},
		myhttp.NewLimiter(cfg.RateLimitPerSecond, cfg.RateLimitBurst, mytime.RealNower{}))
	err = donationPageService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering donation page service: %s", err)
	}

	warmupService := warmup.NewService(checkoutSessionService)
	err = warmupService.RegisterEndpoints(c, router)
	if err != nil {
		log.Fatalf("Error registering warmup service: %s", err)
	}

	startWebServerBlocking(router, cfg.Port)
}

func startWebServerBlocking(router *mux.Router, port string) {
	log.Printf("Starting webserver on port %s (try http://localhost:%s)", port, port)
	err := http.ListenAndServe(fmt.Sprintf(":%s", port), router)
	if err != nil {
		log.Fatalf("Error starting webserver on port %s: %s", port, err)
	}
}
