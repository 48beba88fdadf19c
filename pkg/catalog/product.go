// Package catalog holds the product model returned by the storefront Admin
// GraphQL API and the helpers that decode it.
package catalog

import "encoding/json"

// Product is one node of the products connection.
//
// Raw keeps the node exactly as the server sent it, so snapshots written
// from it preserve field order.
type Product struct {
	ID        string            `json:"id"`
	Status    string            `json:"status"`
	Metafield *Metafield        `json:"metafield"`
	Variants  VariantConnection `json:"variants"`

	Raw json.RawMessage `json:"-"`
}

// Metafield is the namespaced key/value annotation carrying category codes.
type Metafield struct {
	Value string `json:"value"`
}

type VariantConnection struct {
	Nodes []Variant `json:"nodes"`
}

// Variant is a purchasable variant of a Product.
type Variant struct {
	ID            string         `json:"id"`
	SKU           *string        `json:"sku"`
	InventoryItem *InventoryItem `json:"inventoryItem"`
}

type InventoryItem struct {
	ID string `json:"id"`
}

// PageInfo is the Relay-style pagination block.
type PageInfo struct {
	EndCursor       *string `json:"endCursor"`
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	StartCursor     *string `json:"startCursor"`
}

// Cursor returns the end cursor, or "" when it is null.
func (pi PageInfo) Cursor() string {
	if pi.EndCursor == nil {
		return ""
	}
	return *pi.EndCursor
}

// ProductPage is one page of the products connection.
type ProductPage struct {
	Nodes    []Product
	PageInfo PageInfo
}

// Tag returns the metafield value, or "" when the product has none.
func (p Product) Tag() string {
	if p.Metafield == nil {
		return ""
	}
	return p.Metafield.Value
}

// JSON returns the node bytes as received, or a fresh encoding for products
// that were built in memory.
func (p Product) JSON() (json.RawMessage, error) {
	if len(p.Raw) > 0 {
		return p.Raw, nil
	}
	return json.Marshal(p)
}

// SKUOrEmpty returns the SKU, or "" when it is null.
func (v Variant) SKUOrEmpty() string {
	if v.SKU == nil {
		return ""
	}
	return *v.SKU
}

// InventoryItemID returns the inventory item GID, or "" when it is null.
func (v Variant) InventoryItemID() string {
	if v.InventoryItem == nil {
		return ""
	}
	return v.InventoryItem.ID
}
