package core

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/saturnines/catalog-export/pkg/config"
	"github.com/saturnines/catalog-export/pkg/transport/graphql"
)

const testToken = "shpat_test"

// fakeShop serves the products query from synthetic partitions. Cursors
// are "c<page>"; each product has one variant.
type fakeShop struct {
	t        *testing.T
	counts   map[string]int
	pageSize int

	// override, when set, may answer request n (1-based) itself.
	override func(n int, w http.ResponseWriter) bool

	mu       sync.Mutex
	requests []graphql.Request
}

func newFakeShop(t *testing.T, counts map[string]int) (*fakeShop, *httptest.Server) {
	t.Helper()
	shop := &fakeShop{t: t, counts: counts, pageSize: config.DefaultPageSize}
	server := httptest.NewServer(shop)
	t.Cleanup(server.Close)
	return shop, server
}

func (s *fakeShop) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if got := r.Header.Get(config.DefaultAccessTokenHeader); got != testToken {
		s.t.Errorf("Expected access token header %q, got %q", testToken, got)
	}

	var req graphql.Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.t.Errorf("decode request: %v", err)
		w.WriteHeader(http.StatusBadRequest)
		return
	}

	s.mu.Lock()
	s.requests = append(s.requests, req)
	n := len(s.requests)
	s.mu.Unlock()

	if s.override != nil && s.override(n, w) {
		return
	}

	page := 0
	if c, ok := req.Variables["cursor"].(string); ok {
		if _, err := fmt.Sscanf(c, "c%d", &page); err != nil {
			s.t.Errorf("unexpected cursor %q", c)
		}
	}
	status := strings.TrimPrefix(fmt.Sprint(req.Variables["status"]), "status:")

	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, s.page(status, page))
}

func (s *fakeShop) page(status string, page int) string {
	total := s.counts[status]
	start := page * s.pageSize
	end := start + s.pageSize
	if end > total {
		end = total
	}

	nodes := make([]string, 0, s.pageSize)
	for i := start; i < end; i++ {
		nodes = append(nodes, productNode(status, i))
	}
	return pageBody(nodes, fmt.Sprintf("c%d", page+1), end < total)
}

func (s *fakeShop) Requests() []graphql.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]graphql.Request(nil), s.requests...)
}

func productID(status string, i int) int {
	base := 1000
	if status == "active" {
		base = 5000
	}
	return base + i
}

func productNode(status string, i int) string {
	id := productID(status, i)
	return fmt.Sprintf(`{"variants":{"nodes":[{"id":"gid://shopify/ProductVariant/%d","inventoryItem":{"id":"gid://shopify/InventoryItem/%d"},"sku":"SKU-%d"}]},"id":"gid://shopify/Product/%d","metafield":{"value":"A|B C"},"status":%q}`,
		id*10, id*100, id, id, strings.ToUpper(status))
}

func pageBody(nodes []string, endCursor string, hasNext bool) string {
	return fmt.Sprintf(`{"data":{"products":{"nodes":[%s],"pageInfo":{"endCursor":%q,"hasNextPage":%t,"hasPreviousPage":false,"startCursor":null}}}}`,
		strings.Join(nodes, ","), endCursor, hasNext)
}

func testConfig(endpoint, dir string) *config.Export {
	cfg := &config.Export{
		Name: "test-export",
		Source: config.Source{
			Endpoint: endpoint,
			Auth: &config.Auth{
				Type:   config.AuthTypeAPIKey,
				APIKey: &config.APIKeyAuth{Value: testToken},
			},
		},
		Output: config.Output{Dir: dir},
	}
	(&config.ExportDefaults{}).SetDefaults(cfg)
	return cfg
}
