package graphql

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/saturnines/catalog-export/pkg/errors"
)

// Response is the standard GraphQL response envelope.
type Response struct {
	Data   json.RawMessage `json:"data"`
	Errors []Error         `json:"errors,omitempty"`
}

// Error is one entry of the GraphQL "errors" array.
type Error struct {
	Message    string                 `json:"message"`
	Path       []interface{}          `json:"path,omitempty"`
	Extensions map[string]interface{} `json:"extensions,omitempty"`
}

func (e Error) Error() string {
	if code, ok := e.Extensions["code"].(string); ok && code != "" {
		return fmt.Sprintf("%s (%s)", e.Message, code)
	}
	return e.Message
}

// DecodeResponse parses a GraphQL response body. It only fails when the body
// is not a JSON object; a missing or null "data" is reported by HasData.
func DecodeResponse(body []byte) (*Response, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, errors.WrapError(err, errors.ErrHTTPResponse, "decode GraphQL envelope")
	}
	return &resp, nil
}

// HasData reports whether the response carries a non-null "data" member.
func (r *Response) HasData() bool {
	d := bytes.TrimSpace(r.Data)
	return len(d) > 0 && !bytes.Equal(d, []byte("null"))
}

// ErrorMessages joins the messages of all GraphQL errors.
func (r *Response) ErrorMessages() string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Error())
	}
	return strings.Join(msgs, "; ")
}
