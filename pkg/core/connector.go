package core

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/saturnines/catalog-export/pkg/auth"
	"github.com/saturnines/catalog-export/pkg/catalog"
	"github.com/saturnines/catalog-export/pkg/config"
	"github.com/saturnines/catalog-export/pkg/ctxlog"
	"github.com/saturnines/catalog-export/pkg/errors"
	"github.com/saturnines/catalog-export/pkg/transport/graphql"
)

const (
	cursorVariable = "cursor"
	statusVariable = "status"
)

var (
	endCursorPath   = []string{"data", "products", "pageInfo", "endCursor"}
	hasNextPagePath = []string{"data", "products", "pageInfo", "hasNextPage"}
)

// Connector pages through the products query, one status partition at a
// time. Requests are strictly sequential.
type Connector struct {
	cfg    *config.Export
	client *graphql.Client
	auth   auth.Handler
	query  string
}

// NewConnector builds a Connector from cfg. Defaults are expected to be
// applied already (see config.ExportDefaults).
func NewConnector(cfg *config.Export, opts ...graphql.ClientOption) (*Connector, error) {
	if cfg == nil {
		return nil, errors.WrapError(fmt.Errorf("config is nil"), errors.ErrConfiguration, "create connector")
	}

	h, err := auth.CreateHandler(cfg.Source.Auth)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrConfiguration, "auth handler")
	}

	clientOpts := append([]graphql.ClientOption{graphql.WithTimeout(cfg.Source.Timeout)}, opts...)

	return &Connector{
		cfg:    cfg,
		client: graphql.NewClient(nil, clientOpts...),
		auth:   h,
		query: catalog.ProductsQuery(catalog.QueryOptions{
			PageSize:           cfg.Query.PageSize,
			VariantsPerProduct: cfg.Query.VariantsPerProduct,
			MetafieldNamespace: cfg.Query.Metafield.Namespace,
			MetafieldKey:       cfg.Query.Metafield.Key,
		}),
	}, nil
}

// Fetch runs the loop: build -> send -> decode -> page, until the server
// reports no further page or a page is unusable.
//
// An unusable page (non-2xx status, a body that is not a GraphQL envelope,
// missing data.products, or hasNextPage without an endCursor) ends the loop
// with a partial Result. Only transport failures are returned as errors.
func (c *Connector) Fetch(ctx context.Context, status string) (*Result, error) {
	log := ctxlog.FromContext(ctx).With("status", status)

	b := graphql.NewBuilder(c.cfg.Source.Endpoint, c.query, nil, nil, nil)
	b.ApplyOptions(
		graphql.WithHeaders(c.cfg.Source.Headers),
		graphql.WithAuthHandler(c.auth),
		graphql.WithVariable(cursorVariable, nil),
		graphql.WithVariable(statusVariable, catalog.StatusFilter(status)),
	)

	pager, err := graphql.NewPager(b, cursorVariable, endCursorPath, hasNextPagePath)
	if err != nil {
		return nil, errors.WrapError(err, errors.ErrPagination, "create pager")
	}

	res := &Result{Status: status}
	for {
		req, err := pager.NextRequest(ctx)
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrHTTPRequest, "build products request")
		}
		if req == nil {
			res.Complete = true
			break
		}
		res.Pages++

		code, body, err := c.client.ExecuteRead(req)
		if err != nil {
			return nil, errors.WrapError(err, errors.ErrHTTPRequest, fmt.Sprintf("fetch %s page %d", status, res.Pages))
		}
		if code < http.StatusOK || code >= http.StatusMultipleChoices {
			res.truncate(log, errors.WrapError(
				fmt.Errorf("unexpected status %d", code), errors.ErrHTTPResponse, "products query"), body)
			break
		}

		resp, err := graphql.DecodeResponse(body)
		if err != nil {
			res.truncate(log, err, body)
			break
		}
		if !resp.HasData() {
			res.truncate(log, errors.WrapError(
				fmt.Errorf("no data in response: %s", resp.ErrorMessages()), errors.ErrHTTPResponse, "products query"), body)
			break
		}
		if len(resp.Errors) > 0 {
			log.Warn("GraphQL errors returned with data", "page", res.Pages, "errors", resp.ErrorMessages())
		}

		page, err := catalog.DecodeProductPage(resp.Data)
		if err != nil {
			res.truncate(log, err, body)
			break
		}
		res.Products = append(res.Products, page.Nodes...)

		if err := pager.Advance(page.PageInfo.HasNextPage, page.PageInfo.Cursor()); err != nil {
			res.truncate(log, err, body)
			break
		}
		log.Debug("fetched page",
			"page", res.Pages,
			"products", len(page.Nodes),
			"total", len(res.Products),
			"next_cursor", pager.Cursor(),
		)
	}

	log.Info("fetched partition",
		"products", len(res.Products),
		"pages", res.Pages,
		"complete", res.Complete,
	)
	return res, nil
}

func (r *Result) truncate(log *slog.Logger, err error, body []byte) {
	r.Err = err
	log.Warn("pagination stopped early",
		"page", r.Pages,
		"products", len(r.Products),
		"error", err,
		"body", string(body),
	)
}
