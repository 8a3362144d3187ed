package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/aloft-stays/internal/dashboard"
)

// HostHandler serves the host dashboard.
type HostHandler struct {
	Properties PropertyStore
	Bookings   BookingStore
	Log        *logrus.Logger
	Now        func() time.Time
}

// Dashboard handles GET /v1/host/dashboard: the caller's listings, newest
// first, each with its bookings, plus the aggregate summary.  Figures are
// recomputed on every request.
func (h *HostHandler) Dashboard(c echo.Context) error {
	uid, err := getUserID(c)
	if err != nil {
		return unauthorized(c)
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	props, err := h.Properties.ListByHost(ctx, uid)
	if err != nil {
		h.Log.WithError(err).WithField("host_user_id", uid).Error("list host properties failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load your listings."})
	}
	ids := make([]uint64, 0, len(props))
	for _, p := range props {
		ids = append(ids, p.ID)
	}
	bookings, err := h.Bookings.ListByProperties(ctx, ids)
	if err != nil {
		h.Log.WithError(err).WithField("host_user_id", uid).Error("list host bookings failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load bookings."})
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	listings := dashboard.Group(props, bookings)
	return c.JSON(http.StatusOK, echo.Map{
		"summary":  dashboard.Summarize(listings, now),
		"listings": listings,
	})
}
