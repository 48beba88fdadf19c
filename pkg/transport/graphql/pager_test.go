package graphql

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/saturnines/catalog-export/pkg/auth"
	"github.com/saturnines/catalog-export/pkg/errors"
)

var (
	testNextPath    = []string{"data", "products", "pageInfo", "endCursor"}
	testHasNextPath = []string{"data", "products", "pageInfo", "hasNextPage"}
)

func decodeRequest(t *testing.T, req *http.Request) Request {
	t.Helper()
	body, err := io.ReadAll(req.Body)
	if err != nil {
		t.Fatalf("read request body: %v", err)
	}
	var out Request
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("decode request body: %v", err)
	}
	return out
}

func newTestPager(t *testing.T) *GraphQLPager {
	t.Helper()
	b := NewBuilder("https://shop.example.com/graphql.json", "query Products { x }",
		map[string]interface{}{"status": "status:draft"}, nil, nil)
	p, err := NewPager(b, "cursor", testNextPath, testHasNextPath)
	if err != nil {
		t.Fatalf("NewPager: %v", err)
	}
	return p
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder("https://shop.example.com/graphql.json", "query Q { a }",
		map[string]interface{}{"cursor": nil, "status": "status:active"},
		map[string]string{"X-Trace": "1"},
		auth.NewAPIKeyAuth("X-Shopify-Access-Token", "tok"))

	req, err := b.Build(context.Background())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if req.Method != http.MethodPost {
		t.Errorf("Expected POST, got %s", req.Method)
	}
	if got := req.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("Expected JSON content type, got %q", got)
	}
	if got := req.Header.Get("X-Trace"); got != "1" {
		t.Errorf("Expected X-Trace header, got %q", got)
	}
	if got := req.Header.Get("X-Shopify-Access-Token"); got != "tok" {
		t.Errorf("Expected token header, got %q", got)
	}

	body := decodeRequest(t, req)
	if body.Query != "query Q { a }" {
		t.Errorf("Unexpected query %q", body.Query)
	}
	cursor, present := body.Variables["cursor"]
	if !present || cursor != nil {
		t.Errorf("Expected cursor to be sent as null, got %v (present=%v)", cursor, present)
	}
	if body.Variables["status"] != "status:active" {
		t.Errorf("Unexpected status variable %v", body.Variables["status"])
	}
}

func TestBuilder_AuthFailure(t *testing.T) {
	b := NewBuilder("https://shop.example.com/graphql.json", "q", nil, nil, auth.NewBearerAuth(""))
	if _, err := b.Build(context.Background()); !errors.Is(err, errors.ErrAuthentication) {
		t.Errorf("Expected ErrAuthentication, got %v", err)
	}
}

func TestBuilder_Options(t *testing.T) {
	b := NewBuilder("https://a.example.com", "q", nil, nil, nil)
	b.ApplyOptions(
		WithHeader("A", "1"),
		WithHeaders(map[string]string{"B": "2"}),
		WithVariable("cursor", nil),
		WithVariables(map[string]interface{}{"status": "status:draft"}),
		WithAuthHandler(auth.NewBearerAuth("t")),
	)

	if b.Headers["A"] != "1" || b.Headers["B"] != "2" {
		t.Errorf("Unexpected headers %v", b.Headers)
	}
	if _, ok := b.Variables["cursor"]; !ok || b.Variables["status"] != "status:draft" {
		t.Errorf("Unexpected variables %v", b.Variables)
	}
	if b.AuthHandler == nil {
		t.Error("Expected auth handler to be set")
	}
}

func TestNewPager_Validation(t *testing.T) {
	b := NewBuilder("https://a.example.com", "q", nil, nil, nil)
	if _, err := NewPager(nil, "cursor", testNextPath, testHasNextPath); err == nil {
		t.Error("Expected error for nil builder")
	}
	if _, err := NewPager(b, "", testNextPath, testHasNextPath); err == nil {
		t.Error("Expected error for empty cursor key")
	}
	if _, err := NewPager(b, "cursor", nil, testHasNextPath); err == nil {
		t.Error("Expected error for empty nextPath")
	}
	if _, err := NewPager(b, "cursor", testNextPath, nil); err == nil {
		t.Error("Expected error for empty hasNextPath")
	}
}

func TestGraphQLPager_CursorFlow(t *testing.T) {
	p := newTestPager(t)
	ctx := context.Background()

	req1, err := p.NextRequest(ctx)
	if err != nil || req1 == nil {
		t.Fatalf("first request: %v, %v", req1, err)
	}
	if v := decodeRequest(t, req1).Variables["cursor"]; v != nil {
		t.Errorf("initial cursor should be null, got %v", v)
	}

	page1 := `{"data":{"products":{"nodes":[],"pageInfo":{"endCursor":"c1","hasNextPage":true}}}}`
	if err := p.UpdateState([]byte(page1)); err != nil {
		t.Fatal(err)
	}
	if !p.HasMore() {
		t.Fatal("expected more pages")
	}

	req2, err := p.NextRequest(ctx)
	if err != nil || req2 == nil {
		t.Fatalf("second request: %v, %v", req2, err)
	}
	body2 := decodeRequest(t, req2)
	if body2.Variables["cursor"] != "c1" {
		t.Errorf("expected cursor c1, got %v", body2.Variables["cursor"])
	}
	if body2.Variables["status"] != "status:draft" {
		t.Errorf("status variable lost, got %v", body2.Variables["status"])
	}

	page2 := `{"data":{"products":{"nodes":[],"pageInfo":{"endCursor":"c2","hasNextPage":false}}}}`
	if err := p.UpdateState([]byte(page2)); err != nil {
		t.Fatal(err)
	}
	req3, err := p.NextRequest(ctx)
	if err != nil || req3 != nil {
		t.Fatalf("expected end of pagination, got %v, %v", req3, err)
	}
	if p.HasMore() {
		t.Error("HasMore should be false after last page")
	}
}

func TestGraphQLPager_MissingPageInfoStops(t *testing.T) {
	p := newTestPager(t)

	if err := p.UpdateState([]byte(`{"errors":[{"message":"Throttled"}]}`)); err != nil {
		t.Fatalf("missing pageInfo should not error, got %v", err)
	}
	req, err := p.NextRequest(context.Background())
	if err != nil || req != nil {
		t.Fatalf("expected no further requests, got %v, %v", req, err)
	}
}

func TestGraphQLPager_HasNextWithoutCursor(t *testing.T) {
	p := newTestPager(t)

	err := p.UpdateState([]byte(`{"data":{"products":{"pageInfo":{"endCursor":null,"hasNextPage":true}}}}`))
	if !errors.Is(err, errors.ErrPagination) {
		t.Fatalf("expected ErrPagination, got %v", err)
	}
	if p.HasMore() {
		t.Error("pager should stop when endCursor is missing")
	}
}

func TestGraphQLPager_InvalidJSON(t *testing.T) {
	p := newTestPager(t)

	if err := p.UpdateState([]byte(`<html>bad gateway</html>`)); !errors.Is(err, errors.ErrHTTPResponse) {
		t.Fatalf("expected ErrHTTPResponse, got %v", err)
	}
	if p.HasMore() {
		t.Error("pager should stop on undecodable body")
	}
}

func TestGraphQLPager_Advance(t *testing.T) {
	p := newTestPager(t)
	ctx := context.Background()

	if p.Cursor() != nil {
		t.Fatalf("expected nil cursor before the first page, got %v", p.Cursor())
	}
	if err := p.Advance(true, "c9"); err != nil {
		t.Fatal(err)
	}
	if p.Cursor() != "c9" {
		t.Fatalf("expected cursor c9, got %v", p.Cursor())
	}
	req, err := p.NextRequest(ctx)
	if err != nil || req == nil {
		t.Fatalf("expected a second request, got %v, %v", req, err)
	}
	if v := decodeRequest(t, req).Variables["cursor"]; v != "c9" {
		t.Errorf("expected cursor c9 in request, got %v", v)
	}

	if err := p.Advance(false, "c10"); err != nil {
		t.Fatal(err)
	}
	if req, _ := p.NextRequest(ctx); req != nil {
		t.Error("expected no request after the last page")
	}
}

func TestGraphQLPager_AdvanceWithoutCursor(t *testing.T) {
	p := newTestPager(t)

	if err := p.Advance(true, ""); !errors.Is(err, errors.ErrPagination) {
		t.Fatalf("expected ErrPagination, got %v", err)
	}
	if p.HasMore() {
		t.Error("pager should stop when endCursor is missing")
	}
}

func TestClient_ExecuteRead(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte(`{"errors":[{"message":"nope"}]}`))
	}))
	defer server.Close()

	client := NewClient(nil, WithTimeout(0), WithHTTPDoer(server.Client()))
	req, _ := NewBuilder(server.URL, "q", nil, nil, nil).Build(context.Background())

	status, body, err := client.ExecuteRead(req)
	if err != nil {
		t.Fatalf("ExecuteRead failed: %v", err)
	}
	if status != http.StatusTeapot {
		t.Errorf("expected 418, got %d", status)
	}
	if string(body) != `{"errors":[{"message":"nope"}]}` {
		t.Errorf("unexpected body %s", body)
	}
}

func TestDecodeResponse(t *testing.T) {
	resp, err := DecodeResponse([]byte(`{"data":null,"errors":[{"message":"Access denied","extensions":{"code":"ACCESS_DENIED"}}]}`))
	if err != nil {
		t.Fatal(err)
	}
	if resp.HasData() {
		t.Error("null data should not count as data")
	}
	if got := resp.ErrorMessages(); got != "Access denied (ACCESS_DENIED)" {
		t.Errorf("unexpected error messages %q", got)
	}

	resp, err = DecodeResponse([]byte(`{"data":{"products":null}}`))
	if err != nil {
		t.Fatal(err)
	}
	if !resp.HasData() {
		t.Error("expected data to be present")
	}

	if _, err := DecodeResponse([]byte(`[1,2,3]`)); !errors.Is(err, errors.ErrHTTPResponse) {
		t.Errorf("expected ErrHTTPResponse for non-object body, got %v", err)
	}
}
