package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/aloft-stays/internal/model"
	"github.com/iliyamo/aloft-stays/internal/repository"
)

// GuestHandler serves the caller's own trips.
type GuestHandler struct {
	Bookings BookingStore
	Log      *logrus.Logger
	Now      func() time.Time
}

func (h *GuestHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// Trips handles GET /v1/trips.  Bookings come back newest first and are
// split into upcoming (check-in still ahead, not cancelled) and past.
func (h *GuestHandler) Trips(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	trips, err := h.Bookings.ListByGuest(ctx, uid)
	if err != nil {
		h.Log.WithError(err).WithField("guest_user_id", uid).Error("list trips failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load your trips."})
	}

	now := h.now()
	upcoming := make([]model.Trip, 0)
	past := make([]model.Trip, 0)
	for _, t := range trips {
		if t.Status != model.BookingCancelled && t.CheckIn.After(now) {
			upcoming = append(upcoming, t)
		} else {
			past = append(past, t)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"upcoming": upcoming,
		"past":     past,
	})
}

// Cancel handles POST /v1/trips/:id/cancel.
func (h *GuestHandler) Cancel(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid booking id"})
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	err = h.Bookings.CancelForGuest(ctx, id, uid, h.now())
	switch {
	case err == nil:
	case errors.Is(err, repository.ErrBookingNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
	case errors.Is(err, repository.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": "not your booking"})
	case errors.Is(err, repository.ErrConflict):
		return c.JSON(http.StatusConflict, echo.Map{"error": "booking can no longer be cancelled"})
	default:
		h.Log.WithError(err).WithField("booking_id", id).Error("cancel booking failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}

	h.Log.WithFields(logrus.Fields{"booking_id": id, "guest_user_id": uid}).Info("booking cancelled")
	return c.JSON(http.StatusOK, echo.Map{"id": id, "status": model.BookingCancelled})
}
