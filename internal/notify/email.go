// Package notify renders and dispatches booking emails: a confirmation to
// the guest and, when the host is known, a notification to the host.
package notify

import (
	"context"
	"fmt"
	"strings"
)

// BookingEmail is the payload of the booking notification endpoint and of
// the booking.confirmed event.  Dates are YYYY-MM-DD.
type BookingEmail struct {
	GuestEmail       string  `json:"guestEmail" validate:"required,email"`
	HostEmail        string  `json:"hostEmail,omitempty" validate:"omitempty,email"`
	PropertyTitle    string  `json:"propertyTitle" validate:"required"`
	PropertyLocation string  `json:"propertyLocation"`
	CheckIn          string  `json:"checkIn" validate:"required"`
	CheckOut         string  `json:"checkOut" validate:"required"`
	Nights           int     `json:"nights" validate:"gte=0"`
	Guests           int     `json:"guests" validate:"gte=0"`
	GrandTotal       float64 `json:"grandTotal" validate:"gte=0"`
	PaymentReference string  `json:"paymentReference"`
}

// Message is a rendered email ready for a Sender.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a single message.
type Sender interface {
	Send(ctx context.Context, m Message) error
}

// Notifier renders booking emails and hands them to a Sender.
type Notifier struct {
	sender   Sender
	currency string
}

// NewNotifier returns a Notifier that prints amounts in currency.
func NewNotifier(s Sender, currency string) *Notifier {
	if currency == "" {
		currency = "GHS"
	}
	return &Notifier{sender: s, currency: currency}
}

// SendBookingEmails sends the guest confirmation and then, if a host email
// is present, the host notification.  The first failure is returned; the
// host email is not attempted if the guest email fails.
func (n *Notifier) SendBookingEmails(ctx context.Context, e BookingEmail) error {
	guest, err := renderGuest(e, n.currency)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, guest); err != nil {
		return fmt.Errorf("guest email: %w", err)
	}

	if strings.TrimSpace(e.HostEmail) == "" {
		return nil
	}
	host, err := renderHost(e, n.currency)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, host); err != nil {
		return fmt.Errorf("host email: %w", err)
	}
	return nil
}
