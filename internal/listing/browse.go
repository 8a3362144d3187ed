// Package listing implements the browse page's search, filters and sort
// orders as a pure transform over an in-memory listing set.
package listing

import (
	"sort"
	"strings"

	"github.com/iliyamo/aloft-stays/internal/model"
)

// Sort orders accepted by Select.
const (
	SortDefault   = "default"
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortRating    = "rating"
)

// DefaultMaxPrice is the price slider's initial ceiling.
const DefaultMaxPrice = 5000.0

// Amenities offered as filters on the browse page.
var Amenities = []string{"Wifi", "Pool", "Kitchen", "Air conditioning", "Free parking", "Washer"}

// Query holds the browse filters.  A nil MaxPrice means no ceiling.
type Query struct {
	Text         string
	MaxPrice     *float64
	Amenities    []string
	FavoriteOnly bool
	Sort         string
}

// ParseSort maps a query parameter onto a sort order, falling back to
// SortDefault for anything unknown.
func ParseSort(s string) string {
	switch s {
	case SortPriceAsc, SortPriceDesc, SortRating:
		return s
	default:
		return SortDefault
	}
}

// Select filters and orders listings.  Filters run in a fixed order: text,
// price ceiling, amenities, favourite flag; the sort is stable so equal
// keys keep their input order.  The input slice is not modified.  Search
// text is matched as typed, surrounding spaces included; only an empty
// string disables the text filter.
func Select(listings []model.Property, q Query) []model.Property {
	text := strings.ToLower(q.Text)

	out := make([]model.Property, 0, len(listings))
	for _, p := range listings {
		if text != "" &&
			!strings.Contains(strings.ToLower(p.Title), text) &&
			!strings.Contains(strings.ToLower(p.Location), text) {
			continue
		}
		if q.MaxPrice != nil && p.Price > *q.MaxPrice {
			continue
		}
		if !hasAll(p, q.Amenities) {
			continue
		}
		if q.FavoriteOnly && !p.IsGuestFavorite {
			continue
		}
		out = append(out, p)
	}

	switch ParseSort(q.Sort) {
	case SortPriceAsc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortPriceDesc:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price > out[j].Price })
	case SortRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

func hasAll(p model.Property, want []string) bool {
	for _, a := range want {
		if !p.HasAmenity(a) {
			return false
		}
	}
	return true
}
