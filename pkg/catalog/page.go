package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/saturnines/catalog-export/pkg/errors"
)

type productsData struct {
	Products *struct {
		Nodes    json.RawMessage `json:"nodes"`
		PageInfo PageInfo        `json:"pageInfo"`
	} `json:"products"`
}

// DecodeProductPage decodes the "data" member of a products query response.
// It fails with an ErrExtraction error when data.products is missing or null
// or its nodes are not an array.
func DecodeProductPage(data json.RawMessage) (*ProductPage, error) {
	var d productsData
	if err := json.Unmarshal(data, &d); err != nil {
		return nil, errors.WrapError(err, errors.ErrExtraction, "decode products data")
	}
	if d.Products == nil {
		return nil, errors.WrapError(
			fmt.Errorf("data.products is missing"),
			errors.ErrExtraction,
			"decode products data",
		)
	}

	n := bytes.TrimSpace(d.Products.Nodes)
	if len(n) == 0 || bytes.Equal(n, []byte("null")) {
		return nil, errors.WrapError(
			fmt.Errorf("data.products.nodes is missing"),
			errors.ErrExtraction,
			"decode products data",
		)
	}
	var raws []json.RawMessage
	if err := json.Unmarshal(n, &raws); err != nil {
		return nil, errors.WrapError(err, errors.ErrExtraction, "decode products.nodes")
	}

	nodes, err := DecodeProducts(raws)
	if err != nil {
		return nil, err
	}
	return &ProductPage{Nodes: nodes, PageInfo: d.Products.PageInfo}, nil
}

// DecodeProducts decodes product nodes and keeps each node's raw bytes.
func DecodeProducts(raws []json.RawMessage) ([]Product, error) {
	products := make([]Product, 0, len(raws))
	for i, raw := range raws {
		var p Product
		if err := json.Unmarshal(raw, &p); err != nil {
			return nil, errors.WrapError(err, errors.ErrExtraction, fmt.Sprintf("decode product node %d", i))
		}
		p.Raw = append(json.RawMessage(nil), raw...)
		products = append(products, p)
	}
	return products, nil
}
