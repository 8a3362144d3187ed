// Package mocks holds testify mocks for the handler dependencies.
package mocks

import (
	"context"
	"io"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/aloft-stays/internal/booking"
	"github.com/iliyamo/aloft-stays/internal/model"
	"github.com/iliyamo/aloft-stays/internal/notify"
	"github.com/iliyamo/aloft-stays/internal/payment"
	"github.com/iliyamo/aloft-stays/internal/queue"
)

// MockPropertyStore is a mock implementation of handler.PropertyStore
type MockPropertyStore struct {
	mock.Mock
}

func (m *MockPropertyStore) Create(ctx context.Context, p *model.Property) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockPropertyStore) GetByID(ctx context.Context, id uint64) (*model.Property, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Property), args.Error(1)
}

func (m *MockPropertyStore) ListAll(ctx context.Context) ([]model.Property, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Property), args.Error(1)
}

func (m *MockPropertyStore) ListByHost(ctx context.Context, hostID uint64) ([]model.Property, error) {
	args := m.Called(ctx, hostID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Property), args.Error(1)
}

// MockBookingStore is a mock implementation of handler.BookingStore
type MockBookingStore struct {
	mock.Mock
}

func (m *MockBookingStore) ConfirmedRanges(ctx context.Context, propertyID uint64) ([]booking.DateRange, error) {
	args := m.Called(ctx, propertyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]booking.DateRange), args.Error(1)
}

func (m *MockBookingStore) Confirm(ctx context.Context, b *model.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *MockBookingStore) ListByGuest(ctx context.Context, guestID uint64) ([]model.Trip, error) {
	args := m.Called(ctx, guestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Trip), args.Error(1)
}

func (m *MockBookingStore) ListByProperties(ctx context.Context, propertyIDs []uint64) ([]model.Booking, error) {
	args := m.Called(ctx, propertyIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Booking), args.Error(1)
}

func (m *MockBookingStore) CancelForGuest(ctx context.Context, bookingID, guestID uint64, now time.Time) error {
	args := m.Called(ctx, bookingID, guestID, now)
	return args.Error(0)
}

// MockUserStore is a mock implementation of handler.UserStore
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, email, password, role string, cost int) (uint64, error) {
	args := m.Called(ctx, email, password, role, cost)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (model.User, error) {
	args := m.Called(ctx, email)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uint64) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) EmailByID(ctx context.Context, id uint64) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}

// MockTokenStore is a mock implementation of handler.TokenStore
type MockTokenStore struct {
	mock.Mock
}

func (m *MockTokenStore) StoreRefresh(ctx context.Context, userID uint64, tokenHash string, exp time.Time) error {
	args := m.Called(ctx, userID, tokenHash, exp)
	return args.Error(0)
}

func (m *MockTokenStore) ValidateRefresh(ctx context.Context, tokenHash string) (uint64, error) {
	args := m.Called(ctx, tokenHash)
	return args.Get(0).(uint64), args.Error(1)
}

func (m *MockTokenStore) RevokeByHash(ctx context.Context, tokenHash string) error {
	args := m.Called(ctx, tokenHash)
	return args.Error(0)
}

func (m *MockTokenStore) RevokeAllForUser(ctx context.Context, userID uint64) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

// MockPaymentVerifier is a mock implementation of handler.PaymentVerifier
type MockPaymentVerifier struct {
	mock.Mock
}

func (m *MockPaymentVerifier) Verify(ctx context.Context, reference string) (payment.Transaction, error) {
	args := m.Called(ctx, reference)
	return args.Get(0).(payment.Transaction), args.Error(1)
}

// MockEventPublisher is a mock implementation of handler.EventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) PublishBookingConfirmed(ctx context.Context, ev queue.BookingConfirmedEvent) error {
	args := m.Called(ctx, ev)
	return args.Error(0)
}

// MockImageUploader is a mock implementation of handler.ImageUploader
type MockImageUploader struct {
	mock.Mock
}

func (m *MockImageUploader) Upload(ctx context.Context, r io.Reader, filename string) (string, error) {
	args := m.Called(ctx, r, filename)
	return args.String(0), args.Error(1)
}

// MockBookingNotifier is a mock implementation of handler.BookingNotifier
type MockBookingNotifier struct {
	mock.Mock
}

func (m *MockBookingNotifier) SendBookingEmails(ctx context.Context, e notify.BookingEmail) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
