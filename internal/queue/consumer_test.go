package queue

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/aloft-stays/internal/logging"
	"github.com/iliyamo/aloft-stays/internal/notify"
)

type fakeMailer struct {
	got []notify.BookingEmail
	err error
}

func (f *fakeMailer) SendBookingEmails(_ context.Context, e notify.BookingEmail) error {
	f.got = append(f.got, e)
	return f.err
}

func event() []byte {
	b, _ := json.Marshal(BookingConfirmedEvent{
		BookingID:   42,
		PropertyID:  5,
		GuestUserID: 9,
		ConfirmedAt: "2025-07-01T10:00:00Z",
		Email: notify.BookingEmail{
			GuestEmail:       "guest@example.com",
			PropertyTitle:    "Beach House",
			CheckIn:          "2025-07-10",
			CheckOut:         "2025-07-13",
			Guests:           2,
			GrandTotal:       685,
			PaymentReference: "ref_123",
		},
	})
	return b
}

func TestHandleMessageAuditsAndMails(t *testing.T) {
	var audit bytes.Buffer
	m := &fakeMailer{}
	c := &Consumer{log: logging.Discard(), audit: &audit, mailer: m}

	require.NoError(t, c.handleMessage(context.Background(), event()))

	assert.Contains(t, audit.String(), "booking_id=42")
	assert.Contains(t, audit.String(), `property="Beach House"`)
	assert.Contains(t, audit.String(), "total=685.00")
	require.Len(t, m.got, 1)
	assert.Equal(t, "guest@example.com", m.got[0].GuestEmail)
}

func TestHandleMessageMailFailureStillAudits(t *testing.T) {
	var audit bytes.Buffer
	c := &Consumer{log: logging.Discard(), audit: &audit, mailer: &fakeMailer{err: errors.New("down")}}

	err := c.handleMessage(context.Background(), event())

	assert.Error(t, err)
	assert.Contains(t, audit.String(), "ref=ref_123")
}

func TestHandleMessageRejectsGarbage(t *testing.T) {
	var audit bytes.Buffer
	c := &Consumer{log: logging.Discard(), audit: &audit}

	assert.Error(t, c.handleMessage(context.Background(), []byte("not json")))
	assert.Zero(t, audit.Len())
}
