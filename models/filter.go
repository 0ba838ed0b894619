package models

import (
	"net/url"
	"strconv"
)

// ProductFilter is the known set of catalog filter parameters. Only
// these fields are forwarded upstream; anything else a caller holds is
// rejected at the boundary by simply not having a field for it.
type ProductFilter struct {
	Category        string
	Search          string
	MinPrice        *float64
	MaxPrice        *float64
	MinDiscount     *float64
	MaxDeliveryDays *int
	MadeInNigeria   *bool
	Occasions       []string
	GiftTypes       []string
	Page            int
	Limit           int
}

// Values encodes the filter as upstream query parameters. Pagination is
// floored to whole numbers and defaulted (page 1, limit 12) so a bad
// caller value never produces an invalid query.
func (f ProductFilter) Values() url.Values {
	params := url.Values{}

	if f.Category != "" {
		params.Set("category", f.Category)
	}
	if f.Search != "" {
		params.Set("search", f.Search)
	}
	if f.MinPrice != nil {
		params.Set("minPrice", strconv.FormatFloat(*f.MinPrice, 'f', -1, 64))
	}
	if f.MaxPrice != nil {
		params.Set("maxPrice", strconv.FormatFloat(*f.MaxPrice, 'f', -1, 64))
	}
	if f.MinDiscount != nil {
		params.Set("minDiscount", strconv.FormatFloat(*f.MinDiscount, 'f', -1, 64))
	}
	if f.MaxDeliveryDays != nil {
		params.Set("maxDeliveryDays", strconv.Itoa(*f.MaxDeliveryDays))
	}
	if f.MadeInNigeria != nil {
		params.Set("madeInNigeria", strconv.FormatBool(*f.MadeInNigeria))
	}
	for _, o := range f.Occasions {
		params.Add("occasions", o)
	}
	for _, g := range f.GiftTypes {
		params.Add("giftTypes", g)
	}

	page := f.Page
	if page < 1 {
		page = 1
	}
	limit := f.Limit
	if limit < 1 {
		limit = 12
	}
	params.Set("page", strconv.Itoa(page))
	params.Set("limit", strconv.Itoa(limit))

	return params
}
