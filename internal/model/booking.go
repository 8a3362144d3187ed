package model

import "time"

// Booking statuses stored in bookings.status.
const (
	BookingConfirmed = "confirmed"
	BookingPending   = "pending"
	BookingCancelled = "cancelled"
)

// Booking records a guest's stay at a property.  CheckIn and CheckOut
// are calendar dates (UTC midnight); CheckOut is exclusive, so a stay
// from the 1st to the 3rd occupies two nights.
//
// Fields:
//  ID               – primary key identifier.
//  PropertyID       – booked property.
//  GuestUserID      – guest profile that paid.
//  GuestName        – display name, the guest's email at booking time.
//  CheckIn          – first night.
//  CheckOut         – departure day.
//  Guests           – party size.
//  TotalPrice       – grand total charged.
//  Status           – confirmed, pending or cancelled.
//  PaymentReference – gateway transaction reference (unique, nullable).
//  CreatedAt        – creation timestamp.
type Booking struct {
	ID               uint64    `json:"id"`
	PropertyID       uint64    `json:"property_id"`
	GuestUserID      uint64    `json:"guest_user_id"`
	GuestName        string    `json:"guest_name"`
	CheckIn          time.Time `json:"check_in"`
	CheckOut         time.Time `json:"check_out"`
	Guests           int       `json:"guests"`
	TotalPrice       float64   `json:"total_price"`
	Status           string    `json:"status"`
	PaymentReference *string   `json:"payment_reference,omitempty"`
	CreatedAt        time.Time `json:"created_at"`
}

// PropertySummary is the subset of a property embedded in trip listings.
type PropertySummary struct {
	ID       uint64 `json:"id"`
	Title    string `json:"title"`
	Location string `json:"location"`
	ImageURL string `json:"image_url"`
}

// Trip pairs a booking with the property it was made for.
type Trip struct {
	Booking
	Property PropertySummary `json:"property"`
}
