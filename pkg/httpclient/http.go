package httpclient

import (
	"context"
	"net/http"
)

// BaseResponse carries the raw outcome of an HTTP call alongside the decoded result.
type BaseResponse struct {
	StatusCode int
	Body       []byte
	Headers    http.Header
}

// HTTPClient is the transport used by repositories that talk to market-data providers.
type HTTPClient interface {
	Get(ctx context.Context, endpoint string, queryParams map[string]string, headers map[string]string, result interface{}) (*BaseResponse, error)
}
