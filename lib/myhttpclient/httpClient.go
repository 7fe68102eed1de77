package myhttpclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/dayp-uci/donationsite/lib/mylog"
)

// jsonHTTPClient sets no timeout of its own: callers bound requests through
// their context.
type jsonHTTPClient struct {
	client *http.Client
	logger mylog.Logger
}

func newJSONHTTPClient(client *http.Client) HTTPSender {
	return &jsonHTTPClient{
		client: client,
		logger: mylog.New("httpclient"),
	}
}

func (c jsonHTTPClient) Send(ctx context.Context, method string, url string, headers http.Header, body []byte) (int, []byte, error) {
	httpReq, err := http.NewRequestWithContext(ctx, method, url, bytes.NewReader(body))
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error creating http request for %s %s: %w", method, url, err)
	}

	for key, values := range headers {
		for _, v := range values {
			httpReq.Header.Add(key, v)
		}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	c.logger.Log(ctx, "", mylog.SeverityDebug, "HTTP request: %s %s", method, url)

	httpResp, err := c.client.Do(httpReq)
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error sending %s %s: %w", method, url, err)
	}
	defer httpResp.Body.Close()

	respPayload, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return 0, []byte{}, fmt.Errorf("error reading response %s %s: %w", method, url, err)
	}

	c.logger.Log(ctx, "", mylog.SeverityDebug, "HTTP resp: %d", httpResp.StatusCode)

	return httpResp.StatusCode, respPayload, nil
}
