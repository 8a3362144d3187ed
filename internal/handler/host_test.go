package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/iliyamo/aloft-stays/internal/handler/mocks"
	"github.com/iliyamo/aloft-stays/internal/logging"
	"github.com/iliyamo/aloft-stays/internal/model"
)

func TestDashboard(t *testing.T) {
	props := new(mocks.MockPropertyStore)
	props.On("ListByHost", mock.Anything, uint64(9)).Return([]model.Property{{ID: 2, Title: "New"}, {ID: 1, Title: "Old"}}, nil)
	bookings := new(mocks.MockBookingStore)
	bookings.On("ListByProperties", mock.Anything, []uint64{2, 1}).Return([]model.Booking{
		{ID: 10, PropertyID: 1, TotalPrice: 300, Status: model.BookingConfirmed, CheckIn: mustDate("2026-06-01")},
		{ID: 11, PropertyID: 1, TotalPrice: 200, Status: model.BookingCancelled, CheckIn: mustDate("2026-06-10")},
		{ID: 12, PropertyID: 2, TotalPrice: 150, Status: model.BookingConfirmed, CheckIn: mustDate("2026-01-10")},
	}, nil)
	h := &HostHandler{Properties: props, Bookings: bookings, Log: logging.Discard(), Now: clock}

	c, rec := newContext(http.MethodGet, "/v1/host/dashboard", "", 9)
	assert.NoError(t, h.Dashboard(c))
	assert.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	summary := body["summary"].(map[string]interface{})
	assert.Equal(t, 450.0, summary["total_revenue"])
	assert.Equal(t, 3.0, summary["total_bookings"])
	assert.Equal(t, 2.0, summary["active_listings"])
	assert.Equal(t, 1.0, summary["upcoming_stays"])

	listings := body["listings"].([]interface{})
	first := listings[0].(map[string]interface{})
	assert.Equal(t, "New", first["property"].(map[string]interface{})["title"])
	assert.Len(t, first["bookings"], 1)
}

func TestDashboardNoListings(t *testing.T) {
	props := new(mocks.MockPropertyStore)
	props.On("ListByHost", mock.Anything, uint64(9)).Return([]model.Property{}, nil)
	bookings := new(mocks.MockBookingStore)
	bookings.On("ListByProperties", mock.Anything, []uint64{}).Return([]model.Booking{}, nil)
	h := &HostHandler{Properties: props, Bookings: bookings, Log: logging.Discard(), Now: clock}

	c, rec := newContext(http.MethodGet, "/v1/host/dashboard", "", 9)
	assert.NoError(t, h.Dashboard(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"summary":{"total_revenue":0,"total_bookings":0,"active_listings":0,"upcoming_stays":0},"listings":[]}`, rec.Body.String())
}

func TestDashboardFailures(t *testing.T) {
	props := new(mocks.MockPropertyStore)
	props.On("ListByHost", mock.Anything, uint64(9)).Return(nil, errors.New("down"))
	h := &HostHandler{Properties: props, Bookings: new(mocks.MockBookingStore), Log: logging.Discard(), Now: clock}

	c, rec := newContext(http.MethodGet, "/v1/host/dashboard", "", 9)
	assert.NoError(t, h.Dashboard(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to load your listings.", errorOf(t, rec))

	props = new(mocks.MockPropertyStore)
	props.On("ListByHost", mock.Anything, uint64(9)).Return([]model.Property{{ID: 1}}, nil)
	bookings := new(mocks.MockBookingStore)
	bookings.On("ListByProperties", mock.Anything, []uint64{1}).Return(nil, errors.New("down"))
	h = &HostHandler{Properties: props, Bookings: bookings, Log: logging.Discard(), Now: clock}

	c, rec = newContext(http.MethodGet, "/v1/host/dashboard", "", 9)
	assert.NoError(t, h.Dashboard(c))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Failed to load bookings.", errorOf(t, rec))
}
