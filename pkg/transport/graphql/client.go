package graphql

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/saturnines/catalog-export/pkg/pagination"
)

// Client executes GraphQL operations.
type Client struct {
	doer pagination.HTTPDoer
}

// NewClient wraps an HTTPDoer (e.g. *http.Client).
// A nil doer gets an *http.Client with a 30s timeout.
func NewClient(doer pagination.HTTPDoer, opts ...ClientOption) *Client {
	if doer == nil {
		doer = &http.Client{Timeout: 30 * time.Second}
	}
	c := &Client{doer: doer}
	c.ApplyOptions(opts...)
	return c
}

// ExecuteRead sends a request and returns the status code with the fully
// read body. The response body is always closed.
func (c *Client) ExecuteRead(req *http.Request) (int, []byte, error) {
	resp, err := c.doer.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response body: %w", err)
	}
	return resp.StatusCode, body, nil
}
