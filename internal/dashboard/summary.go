// Package dashboard aggregates a host's listings and bookings into the
// figures shown on the host dashboard.
package dashboard

import (
	"time"

	"github.com/iliyamo/aloft-stays/internal/model"
)

// Listing is one of the host's properties together with its bookings.
type Listing struct {
	Property model.Property  `json:"property"`
	Bookings []model.Booking `json:"bookings"`
}

// Summary holds the dashboard headline figures.
type Summary struct {
	TotalRevenue   float64 `json:"total_revenue"`
	TotalBookings  int     `json:"total_bookings"`
	ActiveListings int     `json:"active_listings"`
	UpcomingStays  int     `json:"upcoming_stays"`
}

// Summarize reduces listings to a Summary.  Revenue and upcoming stays
// only count confirmed bookings; the booking total counts every status.
func Summarize(listings []Listing, now time.Time) Summary {
	s := Summary{ActiveListings: len(listings)}
	for _, l := range listings {
		for _, b := range l.Bookings {
			s.TotalBookings++
			if b.Status != model.BookingConfirmed {
				continue
			}
			s.TotalRevenue += b.TotalPrice
			if b.CheckIn.After(now) {
				s.UpcomingStays++
			}
		}
	}
	return s
}

// Group attaches bookings to the listing they belong to, preserving the
// order of both inputs.  Listings without bookings get an empty slice.
func Group(properties []model.Property, bookings []model.Booking) []Listing {
	byProperty := make(map[uint64][]model.Booking, len(properties))
	for _, b := range bookings {
		byProperty[b.PropertyID] = append(byProperty[b.PropertyID], b)
	}
	out := make([]Listing, 0, len(properties))
	for _, p := range properties {
		bs := byProperty[p.ID]
		if bs == nil {
			bs = []model.Booking{}
		}
		out = append(out, Listing{Property: p, Bookings: bs})
	}
	return out
}
