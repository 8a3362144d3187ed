package notify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	sent []Message
	err  error
}

func (r *recordingSender) Send(_ context.Context, m Message) error {
	if r.err != nil {
		return r.err
	}
	r.sent = append(r.sent, m)
	return nil
}

func sample() BookingEmail {
	return BookingEmail{
		GuestEmail:       "guest@example.com",
		HostEmail:        "host@example.com",
		PropertyTitle:    "Beach House",
		PropertyLocation: "Cape Coast",
		CheckIn:          "2025-07-10",
		CheckOut:         "2025-07-13",
		Nights:           3,
		Guests:           2,
		GrandTotal:       685,
		PaymentReference: "ref_123",
	}
}

func TestSendBookingEmailsGuestAndHost(t *testing.T) {
	s := &recordingSender{}

	require.NoError(t, NewNotifier(s, "GHS").SendBookingEmails(context.Background(), sample()))

	require.Len(t, s.sent, 2)
	guest, host := s.sent[0], s.sent[1]

	assert.Equal(t, "guest@example.com", guest.To)
	assert.Equal(t, "Booking Confirmed - Beach House", guest.Subject)
	assert.Contains(t, guest.HTML, "Thu, 10 July 2025")
	assert.Contains(t, guest.HTML, "3 nights")
	assert.Contains(t, guest.HTML, "GHS 685")
	assert.Contains(t, guest.HTML, "Payment ref: ref_123")

	assert.Equal(t, "host@example.com", host.To)
	assert.Equal(t, "New booking for Beach House", host.Subject)
	assert.Contains(t, host.HTML, "Your earnings (90%)")
	assert.Contains(t, host.HTML, "GHS 616.5")
	assert.Contains(t, host.HTML, "guest@example.com")
}

func TestSendBookingEmailsGuestOnly(t *testing.T) {
	s := &recordingSender{}
	e := sample()
	e.HostEmail = ""
	e.Nights = 1

	require.NoError(t, NewNotifier(s, "").SendBookingEmails(context.Background(), e))

	require.Len(t, s.sent, 1)
	assert.Contains(t, s.sent[0].HTML, "1 night<")
}

func TestSendBookingEmailsEscapesHTML(t *testing.T) {
	s := &recordingSender{}
	e := sample()
	e.PropertyTitle = "<script>x</script>"

	require.NoError(t, NewNotifier(s, "GHS").SendBookingEmails(context.Background(), e))
	assert.NotContains(t, s.sent[0].HTML, "<script>")
}

func TestSendBookingEmailsPropagatesFailure(t *testing.T) {
	s := &recordingSender{err: errors.New("smtp down")}
	err := NewNotifier(s, "GHS").SendBookingEmails(context.Background(), sample())
	assert.ErrorContains(t, err, "guest email")
}

func TestLongDate(t *testing.T) {
	assert.Equal(t, "Mon, 2 June 2025", longDate("2025-06-02"))
	assert.Equal(t, "Mon, 2 June 2025", longDate("2025-06-02T00:00:00Z"))
	assert.Equal(t, "soon", longDate("soon"))
}

func TestFormatAmountGroupsThousands(t *testing.T) {
	assert.Equal(t, "1,234.5", formatAmount(1234.5))
}

func TestResendSender(t *testing.T) {
	var got resendPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/emails", r.URL.Path)
		assert.Equal(t, "Bearer re_test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"email_1"}`))
	}))
	defer srv.Close()

	s := NewResendSender("re_test", srv.URL+"/", "Aloft <onboarding@resend.dev>")
	err := s.Send(context.Background(), Message{To: "guest@example.com", Subject: "Hi", HTML: "<p>x</p>"})

	require.NoError(t, err)
	assert.Equal(t, []string{"guest@example.com"}, got.To)
	assert.Equal(t, "Aloft <onboarding@resend.dev>", got.From)
}

func TestResendSenderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"invalid from"}`))
	}))
	defer srv.Close()

	err := NewResendSender("k", srv.URL, "x").Send(context.Background(), Message{To: "a@b.co"})
	assert.ErrorContains(t, err, "422")

	err = NewResendSender("k", srv.URL, "x").Send(context.Background(), Message{To: "nobody"})
	assert.ErrorContains(t, err, "invalid recipient")
}
