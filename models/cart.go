package models

import (
	"sort"
	"strings"
)

// Variants is a named-choice map (e.g. {"color": "Black", "size": "M"})
// distinguishing otherwise-identical products.
type Variants map[string]string

// Key returns a canonical serialization of the variant selection.
// Names are sorted so equal maps always serialize identically
// regardless of map iteration order.
func (v Variants) Key() string {
	if len(v) == 0 {
		return ""
	}
	names := make([]string, 0, len(v))
	for name := range v {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for i, name := range names {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(v[name])
	}
	return b.String()
}

// Product is the catalog snapshot a cart line is created from. The cart
// copies presentational fields at add-time and never re-fetches them,
// so later catalog price changes are not reflected in existing lines.
type Product struct {
	ID                    string   `json:"_id"`
	Name                  string   `json:"name"`
	BasePrice             float64  `json:"basePrice"`
	CompareAtPrice        *float64 `json:"compareAtPrice,omitempty"`
	Images                []string `json:"images,omitempty"`
	Slug                  string   `json:"slug,omitempty"`
	MinQuantity           int      `json:"minQuantity,omitempty"`
	MaxQuantity           int      `json:"maxQuantity,omitempty"`
	EstimatedDeliveryDays int      `json:"estimatedDeliveryDays,omitempty"`
}

// CartLine is one distinct product+variant+personalization combination
// in the cart. CartItemID is generated at creation and stable for the
// life of the line.
type CartLine struct {
	CartItemID            string            `json:"cartItemId"`
	ProductID             string            `json:"_id"`
	Name                  string            `json:"name"`
	BasePrice             float64           `json:"basePrice"`
	CompareAtPrice        *float64          `json:"compareAtPrice,omitempty"`
	Images                []string          `json:"images,omitempty"`
	Slug                  string            `json:"slug,omitempty"`
	MinQuantity           int               `json:"minQuantity"`
	MaxQuantity           int               `json:"maxQuantity"`
	EstimatedDeliveryDays int               `json:"estimatedDeliveryDays,omitempty"`
	Quantity              int               `json:"quantity"`
	Variants              Variants          `json:"variants"`
	Personalization       map[string]string `json:"personalization,omitempty"`
}
