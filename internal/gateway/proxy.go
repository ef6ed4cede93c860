package gateway

import (
	"context"
	"net/http"
)

// forwardedHeaders are the request headers the gateway passes through to the
// backing services. Idempotency-Key must survive the hop or retried order
// submissions lose their dedup guarantee.
var forwardedHeaders = []string{"Content-Type", "Idempotency-Key"}

type ServiceProxy struct {
	baseURL string
	client  *http.Client
}

func NewServiceProxy(baseURL string, client *http.Client) *ServiceProxy {
	return &ServiceProxy{
		baseURL: baseURL,
		client:  client,
	}
}

func (p *ServiceProxy) ForwardRequest(ctx context.Context, r *http.Request, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, r.Method, p.baseURL+path, r.Body)
	if err != nil {
		return nil, err
	}

	if r.URL.RawQuery != "" {
		req.URL.RawQuery = r.URL.RawQuery
	}

	for _, header := range forwardedHeaders {
		if value := r.Header.Get(header); value != "" {
			req.Header.Set(header, value)
		}
	}

	return p.client.Do(req)
}
