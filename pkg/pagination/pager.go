package pagination

import (
	"context"
	"net/http"
)

// HTTPDoer can perform HTTP requests.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Pager drives one pagination strategy.
//
// NextRequest returns (nil, nil) once the last page has been consumed.
// UpdateState receives the raw body of the response to the request most
// recently returned by NextRequest.
type Pager interface {
	NextRequest(ctx context.Context) (*http.Request, error)
	UpdateState(body []byte) error
	HasMore() bool
}
