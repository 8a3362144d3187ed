// Package queue carries booking.confirmed events over RabbitMQ.  The
// checkout handler publishes one event per confirmed booking; the
// consumer appends an audit line and sends the booking emails.
package queue

import "github.com/iliyamo/aloft-stays/internal/notify"

// BookingConfirmedEvent is published when a booking is confirmed.  It
// contains enough information for the consumer to audit and notify
// without querying the database.
type BookingConfirmedEvent struct {
	BookingID   uint64              `json:"booking_id"`
	PropertyID  uint64              `json:"property_id"`
	GuestUserID uint64              `json:"guest_user_id"`
	ConfirmedAt string              `json:"confirmed_at"`
	Email       notify.BookingEmail `json:"email"`
}
