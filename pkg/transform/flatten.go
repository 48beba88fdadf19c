// Package transform flattens product collections into export rows.
package transform

import (
	"strings"

	"github.com/saturnines/catalog-export/pkg/catalog"
)

// Column names of the export table, in order.
const (
	ColumnMasterID        = "Master ID"
	ColumnVariantID       = "Variant ID"
	ColumnInventoryItemID = "Inventory Item ID"
	ColumnSKU             = "SKU"
	ColumnCatCode         = "CatCode"
)

// ExportRow is one variant projected into flat columns.
type ExportRow struct {
	MasterID        string
	VariantID       string
	InventoryItemID string
	SKU             string
	CatCode         string
}

// Header returns the table header matching Record.
func Header() []string {
	return []string{
		ColumnMasterID,
		ColumnVariantID,
		ColumnInventoryItemID,
		ColumnSKU,
		ColumnCatCode,
	}
}

// Record returns the row's fields in Header order.
func (r ExportRow) Record() []string {
	return []string{r.MasterID, r.VariantID, r.InventoryItemID, r.SKU, r.CatCode}
}

// CatCode normalizes a metafield tag: "|" becomes "," and spaces are dropped.
// "A|B C" -> "A,BC".
func CatCode(tag string) string {
	return strings.ReplaceAll(strings.ReplaceAll(tag, "|", ","), " ", "")
}

// Flatten emits one row per variant, walking collections, products and
// variants in the order given.
func Flatten(collections ...[]catalog.Product) []ExportRow {
	var n int
	for _, products := range collections {
		for _, p := range products {
			n += len(p.Variants.Nodes)
		}
	}

	rows := make([]ExportRow, 0, n)
	for _, products := range collections {
		for _, p := range products {
			rows = append(rows, FlattenProduct(p)...)
		}
	}
	return rows
}

// FlattenProduct emits the rows of a single product.
func FlattenProduct(p catalog.Product) []ExportRow {
	masterID := catalog.TrailingSegment(p.ID)
	catCode := CatCode(p.Tag())

	rows := make([]ExportRow, 0, len(p.Variants.Nodes))
	for _, v := range p.Variants.Nodes {
		rows = append(rows, ExportRow{
			MasterID:        masterID,
			VariantID:       catalog.TrailingSegment(v.ID),
			InventoryItemID: catalog.TrailingSegment(v.InventoryItemID()),
			SKU:             v.SKUOrEmpty(),
			CatCode:         catCode,
		})
	}
	return rows
}
