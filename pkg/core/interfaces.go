package core

import (
	"context"

	"github.com/saturnines/catalog-export/pkg/catalog"
)

// Fetcher pages through one status partition of the products connection.
type Fetcher interface {
	Fetch(ctx context.Context, status string) (*Result, error)
}

// Result is everything fetched for one status partition.
//
// Complete is false when pagination stopped on a malformed page; Products
// then holds the pages received before it and Err says why it stopped.
type Result struct {
	Status   string
	Products []catalog.Product
	Pages    int
	Complete bool
	Err      error
}
