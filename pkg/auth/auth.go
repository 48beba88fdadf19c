package auth

import (
	"fmt"
	"net/http"

	"github.com/saturnines/catalog-export/pkg/errors"
)

// Handler defines the interface for auth handlers
type Handler interface {
	ApplyAuth(req *http.Request) error
}

// APIKeyAuth sends a static token in a named header
// (e.g. X-Shopify-Access-Token).
type APIKeyAuth struct {
	HeaderName string
	Value      string
}

// NewAPIKeyAuth creates a new header token authentication handler
func NewAPIKeyAuth(headerName, value string) *APIKeyAuth {
	return &APIKeyAuth{
		HeaderName: headerName,
		Value:      value,
	}
}

// ApplyAuth sets the token header on the request
func (a *APIKeyAuth) ApplyAuth(req *http.Request) error {
	if a.Value == "" {
		return errors.WrapError(
			fmt.Errorf("API key value is required"),
			errors.ErrAuthentication,
			"apply api key auth",
		)
	}
	if a.HeaderName == "" {
		return errors.WrapError(
			fmt.Errorf("API key auth requires a header name"),
			errors.ErrAuthentication,
			"apply api key auth",
		)
	}

	req.Header.Set(a.HeaderName, a.Value)
	return nil
}

// String returns a string representation of this auth method
func (a *APIKeyAuth) String() string {
	return fmt.Sprintf("APIKeyAuth(header: %s)", a.HeaderName)
}
