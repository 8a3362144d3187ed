package listing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/iliyamo/aloft-stays/internal/model"
)

func ids(ps []model.Property) []uint64 {
	out := make([]uint64, len(ps))
	for i, p := range ps {
		out[i] = p.ID
	}
	return out
}

func fixtures() []model.Property {
	return []model.Property{
		{ID: 1, Title: "Beach House", Location: "Cape Coast", Price: 100, Rating: 4.2, Amenities: []string{"Wifi", "Pool"}},
		{ID: 2, Title: "City Loft", Location: "Accra", Price: 300, Rating: 4.9, Amenities: []string{"Wifi"}, IsGuestFavorite: true},
		{ID: 3, Title: "Hill Villa", Location: "Aburi", Price: 500, Rating: 4.5, Amenities: []string{"Wifi", "Pool", "Kitchen"}},
	}
}

func TestSelectMaxPriceInclusive(t *testing.T) {
	ceiling := 300.0
	got := Select(fixtures(), Query{MaxPrice: &ceiling})
	assert.Equal(t, []uint64{1, 2}, ids(got))
}

func TestSelectNoCeiling(t *testing.T) {
	assert.Len(t, Select(fixtures(), Query{}), 3)
}

func TestSelectText(t *testing.T) {
	assert.Equal(t, []uint64{2}, ids(Select(fixtures(), Query{Text: "accra"})))
	assert.Equal(t, []uint64{3}, ids(Select(fixtures(), Query{Text: "VILLA"})))
	assert.Empty(t, Select(fixtures(), Query{Text: "kumasi"}))
}

func TestSelectTextKeepsSpaces(t *testing.T) {
	assert.Empty(t, Select(fixtures(), Query{Text: " Accra"}))
	assert.Equal(t, []uint64{2}, ids(Select(fixtures(), Query{Text: " loft"})))
	assert.Empty(t, Select(fixtures(), Query{Text: "   "}))
	assert.Len(t, Select(fixtures(), Query{Text: ""}), 3)
}

func TestSelectAmenitiesRequiresAll(t *testing.T) {
	got := Select(fixtures(), Query{Amenities: []string{"Wifi", "Pool"}})
	assert.Equal(t, []uint64{1, 3}, ids(got))

	got = Select(fixtures(), Query{Amenities: []string{"Pool", "Kitchen"}})
	assert.Equal(t, []uint64{3}, ids(got))
}

func TestSelectFavoriteOnly(t *testing.T) {
	assert.Equal(t, []uint64{2}, ids(Select(fixtures(), Query{FavoriteOnly: true})))
}

func TestSelectSortOrders(t *testing.T) {
	in := []model.Property{
		{ID: 1, Price: 300, Rating: 4.0},
		{ID: 2, Price: 100, Rating: 5.0},
		{ID: 3, Price: 500, Rating: 3.0},
	}

	assert.Equal(t, []uint64{1, 2, 3}, ids(Select(in, Query{Sort: SortDefault})))
	assert.Equal(t, []uint64{2, 1, 3}, ids(Select(in, Query{Sort: SortPriceAsc})))
	assert.Equal(t, []uint64{3, 1, 2}, ids(Select(in, Query{Sort: SortPriceDesc})))
	assert.Equal(t, []uint64{2, 1, 3}, ids(Select(in, Query{Sort: SortRating})))
	assert.Equal(t, []uint64{1, 2, 3}, ids(Select(in, Query{Sort: "bogus"})))
}

func TestSelectPriceSortsAreReversed(t *testing.T) {
	asc := ids(Select(fixtures(), Query{Sort: SortPriceAsc}))
	desc := ids(Select(fixtures(), Query{Sort: SortPriceDesc}))

	reversed := make([]uint64, len(desc))
	for i, id := range desc {
		reversed[len(desc)-1-i] = id
	}
	assert.Equal(t, asc, reversed)
}

func TestSelectStableOnTies(t *testing.T) {
	in := []model.Property{{ID: 1, Price: 100}, {ID: 2, Price: 100}, {ID: 3, Price: 50}}
	assert.Equal(t, []uint64{3, 1, 2}, ids(Select(in, Query{Sort: SortPriceAsc})))
}

func TestSelectDoesNotMutateInput(t *testing.T) {
	in := fixtures()
	_ = Select(in, Query{Sort: SortPriceDesc})
	assert.Equal(t, []uint64{1, 2, 3}, ids(in))
}
