package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/iliyamo/aloft-stays/internal/booking"
	"github.com/iliyamo/aloft-stays/internal/model"
)

// BookingRepo provides the booking queries used by checkout, trips and the
// host dashboard.  Stay dates are DATE columns interpreted as UTC.
type BookingRepo struct {
	db *sql.DB
}

// NewBookingRepo returns a new BookingRepo bound to the given database.
func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{db: db} }

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

const bookingColumns = `b.id, b.property_id, b.guest_user_id, b.guest_name, b.check_in, b.check_out,
	b.guests, b.total_price, b.status, b.payment_reference, b.created_at`

// ConfirmedRanges returns the date ranges of every confirmed booking for a
// property, ordered by check-in.
func (r *BookingRepo) ConfirmedRanges(ctx context.Context, propertyID uint64) ([]booking.DateRange, error) {
	return confirmedRanges(ctx, r.db, propertyID)
}

func confirmedRanges(ctx context.Context, q querier, propertyID uint64) ([]booking.DateRange, error) {
	rows, err := q.QueryContext(ctx,
		`SELECT check_in, check_out FROM bookings WHERE property_id = ? AND status = ? ORDER BY check_in`,
		propertyID, model.BookingConfirmed)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []booking.DateRange{}
	for rows.Next() {
		var dr booking.DateRange
		if err := rows.Scan(&dr.Start, &dr.End); err != nil {
			return nil, err
		}
		out = append(out, dr)
	}
	return out, rows.Err()
}

// Confirm inserts a confirmed booking after re-checking availability.
// The property row is locked with SELECT ... FOR UPDATE for the duration
// of the transaction, so concurrent confirmations for the same property
// run one after another and the re-check sees every committed booking.
//
// Returns ErrPropertyNotFound, booking.ErrDatesUnavailable when the stay
// overlaps a confirmed booking, or ErrDuplicatePayment when the payment
// reference was already used.  On success b.ID, b.Status and b.CreatedAt
// are filled in.
func (r *BookingRepo) Confirm(ctx context.Context, b *model.Booking) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var locked uint64
	err = tx.QueryRowContext(ctx, `SELECT id FROM properties WHERE id = ? FOR UPDATE`, b.PropertyID).Scan(&locked)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrPropertyNotFound
	}
	if err != nil {
		return fmt.Errorf("lock property: %w", err)
	}

	existing, err := confirmedRanges(ctx, tx, b.PropertyID)
	if err != nil {
		return fmt.Errorf("load booked ranges: %w", err)
	}
	if booking.Overlaps(booking.DateRange{Start: b.CheckIn, End: b.CheckOut}, existing) {
		return booking.ErrDatesUnavailable
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		`INSERT INTO bookings (property_id, guest_user_id, guest_name, check_in, check_out, guests,
			total_price, status, payment_reference, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.PropertyID, b.GuestUserID, b.GuestName, b.CheckIn, b.CheckOut, b.Guests,
		b.TotalPrice, model.BookingConfirmed, b.PaymentReference, now)
	if err != nil {
		if isDuplicateKey(err) {
			return ErrDuplicatePayment
		}
		return fmt.Errorf("insert booking: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true

	b.ID = uint64(id)
	b.Status = model.BookingConfirmed
	b.CreatedAt = now
	return nil
}

// ListByGuest returns the guest's trips with a property summary, newest
// booking first.
func (r *BookingRepo) ListByGuest(ctx context.Context, guestID uint64) ([]model.Trip, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+`, p.id, p.title, p.location, p.image_url
		 FROM bookings b
		 JOIN properties p ON p.id = b.property_id
		 WHERE b.guest_user_id = ?
		 ORDER BY b.created_at DESC, b.id DESC`, guestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []model.Trip{}
	for rows.Next() {
		var (
			t   model.Trip
			ref sql.NullString
		)
		if err := rows.Scan(&t.ID, &t.PropertyID, &t.GuestUserID, &t.GuestName, &t.CheckIn, &t.CheckOut,
			&t.Guests, &t.TotalPrice, &t.Status, &ref, &t.CreatedAt,
			&t.Property.ID, &t.Property.Title, &t.Property.Location, &t.Property.ImageURL); err != nil {
			return nil, err
		}
		t.PaymentReference = nullString(ref)
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListByProperties returns the bookings of the given properties, newest
// first.  An empty id list returns an empty result without querying.
func (r *BookingRepo) ListByProperties(ctx context.Context, propertyIDs []uint64) ([]model.Booking, error) {
	out := []model.Booking{}
	if len(propertyIDs) == 0 {
		return out, nil
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(propertyIDs)), ",")
	args := make([]any, len(propertyIDs))
	for i, id := range propertyIDs {
		args[i] = id
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings b WHERE b.property_id IN (`+placeholders+`)
		 ORDER BY b.created_at DESC, b.id DESC`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var (
			b   model.Booking
			ref sql.NullString
		)
		if err := rows.Scan(&b.ID, &b.PropertyID, &b.GuestUserID, &b.GuestName, &b.CheckIn, &b.CheckOut,
			&b.Guests, &b.TotalPrice, &b.Status, &ref, &b.CreatedAt); err != nil {
			return nil, err
		}
		b.PaymentReference = nullString(ref)
		out = append(out, b)
	}
	return out, rows.Err()
}

// CancelForGuest cancels one of the guest's bookings.  Returns
// ErrBookingNotFound when the booking does not exist, ErrForbidden when it
// belongs to someone else, and ErrConflict when it is already cancelled or
// the stay has started.
func (r *BookingRepo) CancelForGuest(ctx context.Context, bookingID, guestID uint64, now time.Time) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback()
		}
	}()

	var (
		owner   uint64
		status  string
		checkIn time.Time
	)
	err = tx.QueryRowContext(ctx,
		`SELECT guest_user_id, status, check_in FROM bookings WHERE id = ? FOR UPDATE`, bookingID).
		Scan(&owner, &status, &checkIn)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrBookingNotFound
	}
	if err != nil {
		return err
	}
	if owner != guestID {
		return ErrForbidden
	}
	if status == model.BookingCancelled || !checkIn.After(now) {
		return ErrConflict
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE bookings SET status = ? WHERE id = ?`, model.BookingCancelled, bookingID); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	committed = true
	return nil
}

func nullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}
