package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/aloft-stays/internal/booking"
	"github.com/iliyamo/aloft-stays/internal/config"
	"github.com/iliyamo/aloft-stays/internal/model"
	"github.com/iliyamo/aloft-stays/internal/notify"
	"github.com/iliyamo/aloft-stays/internal/payment"
	"github.com/iliyamo/aloft-stays/internal/queue"
	"github.com/iliyamo/aloft-stays/internal/repository"
)

// Messages shown to guests after a charge has been captured.
const (
	msgDatesTaken = "Sorry, these dates were just booked by someone else. Please go back and select different dates."
	msgSaveFailed = "Payment successful, but booking failed to save. Please contact support."
	msgDuplicate  = "This payment has already been used for a booking."
)

const msgPastCheckIn = "check-in cannot be in the past"

const (
	fallbackGuest = "Guest User"
	// confirmTimeout covers the gateway round trip plus the locked insert.
	confirmTimeout = 15 * time.Second
)

// CheckoutHandler prices stays, hands out the payment gateway
// configuration and turns verified payments into confirmed bookings.
type CheckoutHandler struct {
	Properties PropertyStore
	Bookings   BookingStore
	Users      UserStore
	Payments   PaymentVerifier
	Events     EventPublisher
	Payment    config.PaymentConfig
	Log        *logrus.Logger
	Now        func() time.Time
}

func (h *CheckoutHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

type stayReq struct {
	PropertyID uint64 `json:"property_id" validate:"required"`
	CheckIn    string `json:"check_in" validate:"required"`
	CheckOut   string `json:"check_out" validate:"required"`
	Guests     int    `json:"guests" validate:"required,min=1,max=4"`
}

type quoteReq struct {
	stayReq
	Method  string `json:"method" validate:"omitempty,oneof=card momo"`
	Network string `json:"network"`
}

type confirmReq struct {
	stayReq
	Reference string `json:"reference" validate:"required,max=128"`
}

// Quote handles POST /v1/checkout/quote.  It re-checks availability and
// returns the price breakdown with a fresh gateway configuration; the
// 90% host split is only attached when the property has a payout
// subaccount.
func (h *CheckoutHandler) Quote(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req quoteReq
	if err := bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	r, err := booking.ParseRange(req.CheckIn, req.CheckOut)
	if err != nil || !r.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": booking.ErrInvalidRange.Error()})
	}
	if r.Start.Before(today(h.now())) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgPastCheckIn})
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, req.PropertyID)
	if errors.Is(err, repository.ErrPropertyNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
	}
	if err != nil {
		h.Log.WithError(err).WithField("property_id", req.PropertyID).Error("load property failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load property."})
	}
	ranges, err := h.Bookings.ConfirmedRanges(ctx, p.ID)
	if err != nil {
		h.Log.WithError(err).WithField("property_id", p.ID).Error("load booked ranges failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load availability."})
	}
	if booking.Overlaps(r, ranges) {
		return c.JSON(http.StatusConflict, echo.Map{"error": "These dates are not available."})
	}

	email := ""
	if u, err := h.Users.GetByID(ctx, uid); err == nil {
		email = u.Email
	}

	quote := booking.NewQuote(p.Price, r)
	cfg, err := booking.NewPaymentConfig(booking.PaymentRequest{
		Email:          email,
		Quote:          quote,
		PublicKey:      h.Payment.PublicKey,
		Currency:       h.Payment.Currency,
		Method:         req.Method,
		Network:        req.Network,
		SubaccountCode: p.HostSubaccountCode,
		PropertyID:     p.ID,
		Stay:           r,
	})
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"property_id": p.ID,
		"stay":        r,
		"guests":      req.Guests,
		"quote":       quote,
		"payment":     cfg,
	})
}

// Confirm handles POST /v1/checkout/confirm.  The payment is verified with
// the gateway for the exact quoted amount and stay, then the booking is inserted
// under the property lock.  Once the charge is verified every failure is
// logged with the payment reference for manual reconciliation; nothing is
// refunded automatically.  The host lookup and event publish that follow
// a successful insert are best-effort.
func (h *CheckoutHandler) Confirm(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	var req confirmReq
	if err := bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	r, err := booking.ParseRange(req.CheckIn, req.CheckOut)
	if err != nil || !r.Valid() {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": booking.ErrInvalidRange.Error()})
	}
	if r.Start.Before(today(h.now())) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msgPastCheckIn})
	}
	ref := strings.TrimSpace(req.Reference)

	ctx, cancel := context.WithTimeout(c.Request().Context(), confirmTimeout)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, req.PropertyID)
	if errors.Is(err, repository.ErrPropertyNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
	}
	if err != nil {
		h.Log.WithError(err).WithField("property_id", req.PropertyID).Error("load property failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load property."})
	}
	quote := booking.NewQuote(p.Price, r)

	tx, err := h.Payments.Verify(ctx, ref)
	switch {
	case errors.Is(err, payment.ErrGatewayUnavailable):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": "Payment provider is unavailable. Please try again shortly."})
	case err != nil:
		h.Log.WithError(err).WithField("payment_reference", ref).Warn("payment verification failed")
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "Payment could not be verified."})
	case !tx.Paid(quote.AmountMinor, h.Payment.Currency):
		h.Log.WithFields(logrus.Fields{
			"payment_reference": ref,
			"status":            tx.Status,
			"amount":            tx.Amount,
			"expected":          quote.AmountMinor,
		}).Warn("payment does not match quote")
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "Payment was not completed for the expected amount."})
	case !booking.MatchesStay(tx.Metadata, p.ID, r):
		h.Log.WithFields(logrus.Fields{
			"payment_reference": ref,
			"property_id":       p.ID,
			"metadata":          tx.Metadata,
		}).Warn("payment was made for a different stay")
		return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "Payment does not belong to this stay."})
	}

	guestName := fallbackGuest
	if u, err := h.Users.GetByID(ctx, uid); err == nil && u.Email != "" {
		guestName = u.Email
	} else if tx.Email != "" {
		guestName = tx.Email
	}

	b := model.Booking{
		PropertyID:       p.ID,
		GuestUserID:      uid,
		GuestName:        guestName,
		CheckIn:          r.Start,
		CheckOut:         r.End,
		Guests:           req.Guests,
		TotalPrice:       quote.GrandTotal,
		PaymentReference: &ref,
	}
	reconcile := h.Log.WithFields(logrus.Fields{
		"payment_reference": ref,
		"property_id":       p.ID,
		"guest_user_id":     uid,
		"check_in":          req.CheckIn,
		"check_out":         req.CheckOut,
		"amount":            tx.Amount,
	})
	if err := h.Bookings.Confirm(ctx, &b); err != nil {
		switch {
		case errors.Is(err, booking.ErrDatesUnavailable):
			reconcile.Warn("paid booking lost the date race; refund required")
			return c.JSON(http.StatusConflict, echo.Map{
				"error":             msgDatesTaken,
				"refund_required":   true,
				"payment_reference": ref,
			})
		case errors.Is(err, repository.ErrDuplicatePayment):
			return c.JSON(http.StatusConflict, echo.Map{"error": msgDuplicate})
		default:
			reconcile.WithError(err).Error("paid booking failed to save")
			return c.JSON(http.StatusInternalServerError, echo.Map{
				"error":             msgSaveFailed,
				"payment_reference": ref,
			})
		}
	}

	hostEmail := ""
	if p.HostUserID != nil {
		if hostEmail, err = h.Users.EmailByID(ctx, *p.HostUserID); err != nil {
			h.Log.WithError(err).WithField("host_user_id", *p.HostUserID).Warn("host email lookup failed")
			hostEmail = ""
		}
	}
	ev := queue.BookingConfirmedEvent{
		BookingID:   b.ID,
		PropertyID:  p.ID,
		GuestUserID: uid,
		ConfirmedAt: b.CreatedAt.UTC().Format(time.RFC3339),
		Email: notify.BookingEmail{
			GuestEmail:       guestEmailFor(b.GuestName, tx.Email),
			HostEmail:        hostEmail,
			PropertyTitle:    p.Title,
			PropertyLocation: p.Location,
			CheckIn:          req.CheckIn,
			CheckOut:         req.CheckOut,
			Nights:           quote.Nights,
			Guests:           req.Guests,
			GrandTotal:       quote.GrandTotal,
			PaymentReference: ref,
		},
	}
	if h.Events != nil {
		if err := h.Events.PublishBookingConfirmed(ctx, ev); err != nil {
			h.Log.WithError(err).WithField("booking_id", b.ID).Warn("publish booking.confirmed failed")
		}
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"booking": b,
		"quote":   quote,
	})
}

// guestEmailFor picks the address booking emails go to.
func guestEmailFor(guestName, gatewayEmail string) string {
	if strings.Contains(guestName, "@") {
		return guestName
	}
	return gatewayEmail
}
