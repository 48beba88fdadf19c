package catalog

import "fmt"

// QueryOptions shapes the products query.
type QueryOptions struct {
	PageSize           int
	VariantsPerProduct int
	MetafieldNamespace string
	MetafieldKey       string
}

const productsQuery = `query Products($cursor: String, $status: String) {
    products(
        query: $status
        first: %d
        after: $cursor
    ) {
        nodes {
            variants(first: %d) {
                nodes {
                    id
                    inventoryItem {
                        id
                    }
                    sku
                }
            }
            id
            metafield(namespace: %q, key: %q) {
                value
            }
            status
        }
        pageInfo {
            endCursor
            hasNextPage
            hasPreviousPage
            startCursor
        }
    }
}`

// ProductsQuery renders the paginated products query. It takes two
// variables: $cursor (null for the first page) and $status (see StatusFilter).
func ProductsQuery(opts QueryOptions) string {
	return fmt.Sprintf(productsQuery,
		opts.PageSize,
		opts.VariantsPerProduct,
		opts.MetafieldNamespace,
		opts.MetafieldKey,
	)
}

// StatusFilter turns a status into the search syntax used by the products
// query argument.
func StatusFilter(status string) string {
	return "status:" + status
}
