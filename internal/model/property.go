package model

import "time"

// Property represents a rentable home as stored in the `properties`
// table.  Amenities and Images are stored as JSON arrays; ImageURL is
// the cover photo and always equals Images[0] for listings created
// through the API.
//
// Fields:
//  ID                 – primary key identifier.
//  Title              – listing headline.
//  Location           – free text location (city, region).
//  Description        – long description.
//  Price              – nightly price in the display currency.
//  Rating             – average rating between 0 and 5.
//  Amenities          – amenity labels such as "Wifi" or "Pool".
//  ImageURL           – cover image.
//  Images             – gallery, possibly empty for older rows.
//  IsGuestFavorite    – editorial "guest favourite" flag.
//  HostUserID         – owning host profile, nil for seeded listings.
//  HostSubaccountCode – Paystack subaccount receiving the host share.
//  CreatedAt          – creation timestamp.
type Property struct {
	ID                 uint64    `json:"id"`
	Title              string    `json:"title"`
	Location           string    `json:"location"`
	Description        string    `json:"description"`
	Price              float64   `json:"price"`
	Rating             float64   `json:"rating"`
	Amenities          []string  `json:"amenities"`
	ImageURL           string    `json:"image_url"`
	Images             []string  `json:"images"`
	IsGuestFavorite    bool      `json:"is_guest_favorite"`
	HostUserID         *uint64   `json:"host_user_id,omitempty"`
	HostSubaccountCode *string   `json:"host_subaccount_code,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// Gallery returns the images to display for the property.  Rows without
// a gallery fall back to the cover image.
func (p Property) Gallery() []string {
	if len(p.Images) > 0 {
		return p.Images
	}
	if p.ImageURL == "" {
		return []string{}
	}
	return []string{p.ImageURL}
}

// HasAmenity reports whether the property lists the given amenity.
// Matching is exact, labels are case sensitive.
func (p Property) HasAmenity(name string) bool {
	for _, a := range p.Amenities {
		if a == name {
			return true
		}
	}
	return false
}
