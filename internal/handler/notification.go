package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/aloft-stays/internal/notify"
)

// NotificationHandler is the stateless booking email endpoint.  It answers
// with {"success": true} or a 500 carrying {"error": ...}, never anything
// else, so callers only need one failure branch.
type NotificationHandler struct {
	Notifier BookingNotifier
	Log      *logrus.Logger
}

// Preflight answers OPTIONS for browser callers.
func (h *NotificationHandler) Preflight(c echo.Context) error {
	setCORS(c)
	return c.String(http.StatusOK, "ok")
}

// SendBookingEmail handles POST /v1/notifications/booking-email.
func (h *NotificationHandler) SendBookingEmail(c echo.Context) error {
	setCORS(c)
	var req notify.BookingEmail
	if err := bindAndValidate(c, &req); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	if err := h.Notifier.SendBookingEmails(c.Request().Context(), req); err != nil {
		h.Log.WithError(err).WithField("payment_reference", req.PaymentReference).Error("booking email failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true})
}

func setCORS(c echo.Context) {
	hdr := c.Response().Header()
	hdr.Set("Access-Control-Allow-Origin", "*")
	hdr.Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
}
