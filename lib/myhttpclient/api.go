package myhttpclient

import (
	"context"
	"net/http"
)

//go:generate mockgen -source=api.go -package myhttpclient -destination httpSender_mock.go HTTPSender
type HTTPSender interface {
	Send(c context.Context, method string, url string, headers http.Header, body []byte) (int, []byte, error)
}

func New() HTTPSender {
	return newJSONHTTPClient(http.DefaultClient)
}
