package notify

import (
	"bytes"
	"html/template"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/iliyamo/aloft-stays/internal/booking"
)

const layoutHead = `<div style="font-family: -apple-system, sans-serif; max-width: 600px; margin: 0 auto; padding: 32px; color: #111;">`

var guestTmpl = template.Must(template.New("guest").Funcs(funcs).Parse(layoutHead + `
  <h1 style="font-size: 24px; font-weight: 700; margin-bottom: 4px;">You're booked!</h1>
  <p style="color: #555; margin-top: 0;">Your stay at <strong>{{.PropertyTitle}}</strong> is confirmed.</p>
  <div style="background: #f9f9f9; border-radius: 12px; padding: 24px; margin: 24px 0;">
    <table style="width: 100%; border-collapse: collapse; font-size: 14px;">
      <tr><td style="padding: 6px 0; color: #777;">Property</td><td style="font-weight: 600;">{{.PropertyTitle}}</td></tr>
      <tr><td style="padding: 6px 0; color: #777;">Location</td><td>{{.PropertyLocation}}</td></tr>
      <tr><td style="padding: 6px 0; color: #777;">Check-in</td><td style="font-weight: 600;">{{longDate .CheckIn}}</td></tr>
      <tr><td style="padding: 6px 0; color: #777;">Check-out</td><td style="font-weight: 600;">{{longDate .CheckOut}}</td></tr>
      <tr><td style="padding: 6px 0; color: #777;">Duration</td><td>{{nights .Nights}}</td></tr>
      <tr><td style="padding: 6px 0; color: #777;">Guests</td><td>{{.Guests}}</td></tr>
      <tr style="border-top: 1px solid #eee;">
        <td style="padding: 12px 0 6px; font-weight: 700; font-size: 15px;">Total paid</td>
        <td style="font-weight: 700; font-size: 15px;">{{.Currency}} {{amount .GrandTotal}}</td>
      </tr>
    </table>
  </div>
  <p style="font-size: 12px; color: #aaa;">Payment ref: {{.PaymentReference}}</p>
  <p style="font-size: 13px; color: #555;">Need help? Reply to this email and we'll get back to you.</p>
  <p style="font-size: 13px; color: #888; margin-top: 32px;">The Aloft Team</p>
</div>`))

var hostTmpl = template.Must(template.New("host").Funcs(funcs).Parse(layoutHead + `
  <h1 style="font-size: 24px; font-weight: 700; margin-bottom: 4px;">New booking!</h1>
  <p style="color: #555; margin-top: 0;">Someone just booked <strong>{{.PropertyTitle}}</strong>.</p>
  <div style="background: #f9f9f9; border-radius: 12px; padding: 24px; margin: 24px 0;">
    <table style="width: 100%; border-collapse: collapse; font-size: 14px;">
      <tr><td style="padding: 6px 0; color: #777;">Guest</td><td style="font-weight: 600;">{{.GuestEmail}}</td></tr>
      <tr><td style="padding: 6px 0; color: #777;">Check-in</td><td style="font-weight: 600;">{{longDate .CheckIn}}</td></tr>
      <tr><td style="padding: 6px 0; color: #777;">Check-out</td><td style="font-weight: 600;">{{longDate .CheckOut}}</td></tr>
      <tr><td style="padding: 6px 0; color: #777;">Duration</td><td>{{nights .Nights}}</td></tr>
      <tr><td style="padding: 6px 0; color: #777;">Guests</td><td>{{.Guests}}</td></tr>
      <tr style="border-top: 1px solid #eee;">
        <td style="padding: 12px 0 6px; font-weight: 700; font-size: 15px;">Your earnings ({{.HostShare}}%)</td>
        <td style="font-weight: 700; font-size: 15px; color: #16a34a;">{{.Currency}} {{amount .HostEarnings}}</td>
      </tr>
    </table>
  </div>
  <p style="font-size: 12px; color: #aaa;">Payment ref: {{.PaymentReference}}</p>
  <p style="font-size: 13px; color: #888; margin-top: 32px;">The Aloft Team</p>
</div>`))

var funcs = template.FuncMap{
	"longDate": longDate,
	"nights":   nightsLabel,
	"amount":   formatAmount,
}

var printer = message.NewPrinter(language.English)

type view struct {
	BookingEmail
	Currency     string
	HostShare    int
	HostEarnings float64
}

func renderGuest(e BookingEmail, currency string) (Message, error) {
	html, err := render(guestTmpl, view{BookingEmail: e, Currency: currency})
	if err != nil {
		return Message{}, err
	}
	return Message{To: e.GuestEmail, Subject: "Booking Confirmed - " + e.PropertyTitle, HTML: html}, nil
}

func renderHost(e BookingEmail, currency string) (Message, error) {
	html, err := render(hostTmpl, view{
		BookingEmail: e,
		Currency:     currency,
		HostShare:    booking.HostShare,
		HostEarnings: booking.HostEarnings(e.GrandTotal),
	})
	if err != nil {
		return Message{}, err
	}
	return Message{To: e.HostEmail, Subject: "New booking for " + e.PropertyTitle, HTML: html}, nil
}

func render(t *template.Template, v view) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, v); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// longDate formats a YYYY-MM-DD or RFC 3339 date as "Mon, 2 January 2006".
// Unparseable input is printed as given.
func longDate(s string) string {
	for _, layout := range []string{booking.DateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("Mon, 2 January 2006")
		}
	}
	return s
}

func nightsLabel(n int) string {
	if n == 1 {
		return "1 night"
	}
	return printer.Sprintf("%d nights", n)
}

// formatAmount groups thousands and keeps at most two decimals.
func formatAmount(v float64) string {
	return printer.Sprint(number.Decimal(v, number.MaxFractionDigits(2)))
}
