// Package handler exposes HTTP handlers for both authenticated and public endpoints.
package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/iliyamo/aloft-stays/internal/booking"
	"github.com/iliyamo/aloft-stays/internal/listing"
	"github.com/iliyamo/aloft-stays/internal/model"
	"github.com/iliyamo/aloft-stays/internal/repository"
)

// PublicHandler serves the unauthenticated browse, detail and availability
// endpoints.  Host payout details are never exposed.
type PublicHandler struct {
	Properties PropertyStore
	Bookings   BookingStore
	Log        *logrus.Logger
}

// PublicProperty is the listing shape returned to anonymous clients.
// Images is the display gallery and falls back to the cover image.
type PublicProperty struct {
	ID              uint64   `json:"id"`
	Title           string   `json:"title"`
	Location        string   `json:"location"`
	Description     string   `json:"description"`
	Price           float64  `json:"price"`
	Rating          float64  `json:"rating"`
	Amenities       []string `json:"amenities"`
	ImageURL        string   `json:"image_url"`
	Images          []string `json:"images"`
	IsGuestFavorite bool     `json:"is_guest_favorite"`
}

func toPublic(p model.Property) PublicProperty {
	amenities := p.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	return PublicProperty{
		ID:              p.ID,
		Title:           p.Title,
		Location:        p.Location,
		Description:     p.Description,
		Price:           p.Price,
		Rating:          p.Rating,
		Amenities:       amenities,
		ImageURL:        p.ImageURL,
		Images:          p.Gallery(),
		IsGuestFavorite: p.IsGuestFavorite,
	}
}

// ListProperties handles GET /v1/properties.
//
// Query parameters: q (title or location substring), max_price, amenities
// (comma separated, all required), favorite (true/false) and sort
// (default, price_asc, price_desc, rating).
func (h *PublicHandler) ListProperties(c echo.Context) error {
	q, err := parseBrowseQuery(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := dbContext(c)
	defer cancel()
	all, err := h.Properties.ListAll(ctx)
	if err != nil {
		h.Log.WithError(err).Error("list properties failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load listings."})
	}

	selected := listing.Select(all, q)
	items := make([]PublicProperty, 0, len(selected))
	for _, p := range selected {
		items = append(items, toPublic(p))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items":     items,
		"count":     len(items),
		"sort":      listing.ParseSort(q.Sort),
		"amenities": listing.Amenities,
	})
}

func parseBrowseQuery(c echo.Context) (listing.Query, error) {
	q := listing.Query{
		Text: c.QueryParam("q"),
		Sort: c.QueryParam("sort"),
	}
	if raw := strings.TrimSpace(c.QueryParam("max_price")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return q, errors.New("max_price must be a non-negative number")
		}
		q.MaxPrice = &v
	}
	for _, a := range strings.Split(c.QueryParam("amenities"), ",") {
		if a = strings.TrimSpace(a); a != "" {
			q.Amenities = append(q.Amenities, a)
		}
	}
	if raw := c.QueryParam("favorite"); raw != "" {
		fav, err := strconv.ParseBool(raw)
		if err != nil {
			return q, errors.New("favorite must be true or false")
		}
		q.FavoriteOnly = fav
	}
	return q, nil
}

// GetProperty handles GET /v1/properties/:id and returns the listing with
// its confirmed booked ranges and the fixed per-stay fees.
func (h *PublicHandler) GetProperty(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}
	ctx, cancel := dbContext(c)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPropertyNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
	}
	if err != nil {
		h.Log.WithError(err).WithField("property_id", id).Error("load property failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load property."})
	}
	ranges, err := h.Bookings.ConfirmedRanges(ctx, id)
	if err != nil {
		h.Log.WithError(err).WithField("property_id", id).Error("load booked ranges failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load availability."})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"property":      toPublic(*p),
		"booked_ranges": ranges,
		"fees": echo.Map{
			"cleaning_fee": booking.CleaningFee,
			"service_fee":  booking.ServiceFee,
		},
	})
}

// Availability handles GET /v1/properties/:id/availability.  An incomplete
// range is never a conflict and quotes zero; a range that ends on or
// before its start is rejected.
func (h *PublicHandler) Availability(c echo.Context) error {
	id, ok := paramID(c, "id")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid property id"})
	}
	r, err := booking.ParseRange(c.QueryParam("check_in"), c.QueryParam("check_out"))
	if err != nil || (r.Complete() && !r.Valid()) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": booking.ErrInvalidRange.Error()})
	}

	ctx, cancel := dbContext(c)
	defer cancel()

	p, err := h.Properties.GetByID(ctx, id)
	if errors.Is(err, repository.ErrPropertyNotFound) {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "property not found"})
	}
	if err != nil {
		h.Log.WithError(err).WithField("property_id", id).Error("load property failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load property."})
	}
	ranges, err := h.Bookings.ConfirmedRanges(ctx, id)
	if err != nil {
		h.Log.WithError(err).WithField("property_id", id).Error("load booked ranges failed")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to load availability."})
	}

	quote := booking.NewQuote(p.Price, r)
	return c.JSON(http.StatusOK, echo.Map{
		"conflict": booking.Overlaps(r, ranges),
		"nights":   quote.Nights,
		"quote":    quote,
	})
}
