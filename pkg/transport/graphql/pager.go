package graphql

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/saturnines/catalog-export/pkg/errors"
	"github.com/saturnines/catalog-export/pkg/pagination"
)

// GraphQLPager drives cursor paging in GraphQL.
//
// The cursor variable starts as JSON null. After each page the end cursor
// becomes the next cursor while hasNextPage is true. UpdateState reads both
// from the body at nextPath and hasNextPath.
type GraphQLPager struct {
	builder     *Builder
	cursorKey   string
	nextPath    []string
	hasNextPath []string

	mu      sync.RWMutex
	hasNext bool
	first   bool
}

var _ pagination.Pager = (*GraphQLPager)(nil)

// NewPager returns a cursor pager for GraphQL.
// The builder is copied; the caller's Variables are never modified.
// Does NOT execute any requests during creation.
func NewPager(
	builder *Builder,
	cursorKey string,
	nextPath, hasNextPath []string,
) (*GraphQLPager, error) {
	if builder == nil {
		return nil, fmt.Errorf("builder cannot be nil")
	}
	if cursorKey == "" {
		return nil, fmt.Errorf("cursorKey cannot be empty")
	}
	if len(nextPath) == 0 {
		return nil, fmt.Errorf("nextPath cannot be empty")
	}
	if len(hasNextPath) == 0 {
		return nil, fmt.Errorf("hasNextPath cannot be empty")
	}

	b := builder.Clone()
	if _, ok := b.Variables[cursorKey]; !ok {
		b.Variables[cursorKey] = nil
	}

	return &GraphQLPager{
		builder:     b,
		cursorKey:   cursorKey,
		nextPath:    nextPath,
		hasNextPath: hasNextPath,
		hasNext:     true,
		first:       true,
	}, nil
}

// NextRequest builds the next *http.Request or returns (nil,nil) when done.
func (p *GraphQLPager) NextRequest(ctx context.Context) (*http.Request, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if !p.first && !p.hasNext {
		return nil, nil
	}

	return p.builder.Clone().Build(ctx)
}

// Advance records the pageInfo of the page just received. Callers that
// already decoded the page use it instead of UpdateState.
//
// hasNext=true without a cursor ends pagination with an ErrPagination
// error, since repeating the request would loop forever.
func (p *GraphQLPager) Advance(hasNext bool, endCursor string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.first = false
	if !hasNext {
		p.hasNext = false
		return nil
	}
	if endCursor == "" {
		p.hasNext = false
		return errors.WrapError(
			fmt.Errorf("hasNextPage is true but endCursor is empty"),
			errors.ErrPagination,
			"update cursor",
		)
	}

	p.builder.Variables[p.cursorKey] = endCursor
	p.hasNext = true
	return nil
}

// UpdateState reads pageInfo from the raw response body and calls Advance.
//
// A body whose has-next value is missing or not a boolean ends pagination
// without an error; the caller decides whether that page was usable.
func (p *GraphQLPager) UpdateState(body []byte) error {
	var data map[string]interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		p.stop()
		return errors.WrapError(err, errors.ErrHTTPResponse, "decode GraphQL response")
	}

	more, _ := traverse(data, p.hasNextPath...).(bool)
	cursor, _ := traverse(data, p.nextPath...).(string)
	return p.Advance(more, cursor)
}

// HasMore returns whether more pages are available.
func (p *GraphQLPager) HasMore() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.first || p.hasNext
}

// Cursor returns the cursor the next request will carry (nil before the
// first page).
func (p *GraphQLPager) Cursor() interface{} {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.builder.Variables[p.cursorKey]
}

func (p *GraphQLPager) stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.first = false
	p.hasNext = false
}

// traverse digs into nested maps via a path of keys.
func traverse(m map[string]interface{}, path ...string) interface{} {
	cur := interface{}(m)
	for _, key := range path {
		if mp, ok := cur.(map[string]interface{}); ok {
			cur = mp[key]
		} else {
			return nil
		}
	}
	return cur
}
