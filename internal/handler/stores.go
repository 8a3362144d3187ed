package handler

import (
	"context"
	"io"
	"time"

	"github.com/iliyamo/aloft-stays/internal/booking"
	"github.com/iliyamo/aloft-stays/internal/model"
	"github.com/iliyamo/aloft-stays/internal/notify"
	"github.com/iliyamo/aloft-stays/internal/payment"
	"github.com/iliyamo/aloft-stays/internal/queue"
)

// PropertyStore is implemented by repository.PropertyRepo.
type PropertyStore interface {
	Create(ctx context.Context, p *model.Property) error
	GetByID(ctx context.Context, id uint64) (*model.Property, error)
	ListAll(ctx context.Context) ([]model.Property, error)
	ListByHost(ctx context.Context, hostID uint64) ([]model.Property, error)
}

// BookingStore is implemented by repository.BookingRepo.
type BookingStore interface {
	ConfirmedRanges(ctx context.Context, propertyID uint64) ([]booking.DateRange, error)
	Confirm(ctx context.Context, b *model.Booking) error
	ListByGuest(ctx context.Context, guestID uint64) ([]model.Trip, error)
	ListByProperties(ctx context.Context, propertyIDs []uint64) ([]model.Booking, error)
	CancelForGuest(ctx context.Context, bookingID, guestID uint64, now time.Time) error
}

// UserStore is implemented by repository.UserRepo.
type UserStore interface {
	Create(ctx context.Context, email, password, role string, cost int) (uint64, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	GetByID(ctx context.Context, id uint64) (model.User, error)
	EmailByID(ctx context.Context, id uint64) (string, error)
}

// TokenStore is implemented by repository.TokenRepo.
type TokenStore interface {
	StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error
	ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error)
	RevokeByHash(ctx context.Context, tokenHash string) error
	RevokeAllForUser(ctx context.Context, userID uint64) error
}

// PaymentVerifier looks up a gateway transaction by reference.
type PaymentVerifier interface {
	Verify(ctx context.Context, reference string) (payment.Transaction, error)
}

// EventPublisher publishes booking events to the broker.
type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error
}

// ImageUploader stores an uploaded photo and returns its public URL.
type ImageUploader interface {
	Upload(ctx context.Context, r io.Reader, filename string) (string, error)
}

// BookingNotifier sends the guest and host booking emails.
type BookingNotifier interface {
	SendBookingEmails(ctx context.Context, e notify.BookingEmail) error
}
