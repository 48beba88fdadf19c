package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/saturnines/catalog-export/pkg/auth"
)

// Request is the JSON body posted to a GraphQL endpoint.
type Request struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// Builder constructs GraphQL requests.
type Builder struct {
	Endpoint    string
	Query       string
	Variables   map[string]interface{}
	Headers     map[string]string
	AuthHandler auth.Handler
}

// NewBuilder sets up a GraphQL Builder.
// Endpoint is the full URL of your GraphQL endpoint.
func NewBuilder(
	endpoint, query string,
	variables map[string]interface{},
	headers map[string]string,
	authHandler auth.Handler,
) *Builder {
	return &Builder{
		Endpoint:    endpoint,
		Query:       query,
		Variables:   variables,
		Headers:     headers,
		AuthHandler: authHandler,
	}
}

// Build creates the *http.Request with JSON body.
// Variables that are present with a nil value are sent as JSON null.
func (b *Builder) Build(ctx context.Context) (*http.Request, error) {
	vars := b.Variables
	if vars == nil {
		vars = map[string]interface{}{}
	}
	buf, err := json.Marshal(Request{Query: b.Query, Variables: vars})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.Endpoint, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	for k, v := range b.Headers {
		req.Header.Set(k, v)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if b.AuthHandler != nil {
		if err := b.AuthHandler.ApplyAuth(req); err != nil {
			return nil, err
		}
	}
	return req, nil
}

// Clone returns a copy whose Variables map can be changed independently.
func (b *Builder) Clone() *Builder {
	vars := make(map[string]interface{}, len(b.Variables))
	for k, v := range b.Variables {
		vars[k] = v
	}
	return &Builder{
		Endpoint:    b.Endpoint,
		Query:       b.Query,
		Variables:   vars,
		Headers:     b.Headers,
		AuthHandler: b.AuthHandler,
	}
}
