package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// HTTPDoer is the interface for executing HTTP requests. Both
// httpclient.Client and httpclient.CircuitBreakerClient satisfy this.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// ProductClient checks product existence against the product service.
type ProductClient struct {
	http    HTTPDoer
	baseURL string
}

// NewProductClient creates a product service client.
func NewProductClient(httpClient HTTPDoer, baseURL string) *ProductClient {
	return &ProductClient{http: httpClient, baseURL: baseURL}
}

// Exists reports whether the product is known to the product service.
func (c *ProductClient) Exists(ctx context.Context, productID string) (bool, error) {
	url := fmt.Sprintf("%s/api/v1/products/%s", c.baseURL, productID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return false, fmt.Errorf("create product request: %w", err)
	}

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return false, fmt.Errorf("call product service: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	default:
		return false, fmt.Errorf("product service returned status %d", resp.StatusCode)
	}
}
