package booking

import "math"

// Fixed per-stay fees, in major currency units.
const (
	CleaningFee = 50.0
	ServiceFee  = 35.0
)

// Quote is the price breakdown shown at checkout.
type Quote struct {
	NightlyPrice float64 `json:"nightly_price"`
	Nights       int     `json:"nights"`
	Subtotal     float64 `json:"subtotal"`
	CleaningFee  float64 `json:"cleaning_fee"`
	ServiceFee   float64 `json:"service_fee"`
	GrandTotal   float64 `json:"grand_total"`
	// AmountMinor is GrandTotal in the smallest currency unit, as sent to
	// the payment gateway.
	AmountMinor int64 `json:"amount_minor"`
}

// NewQuote prices a stay.  Fees are only added when the subtotal is
// positive, so an incomplete range quotes zero.
func NewQuote(nightly float64, r DateRange) Quote {
	q := Quote{
		NightlyPrice: nightly,
		Nights:       r.Nights(),
		CleaningFee:  CleaningFee,
		ServiceFee:   ServiceFee,
	}
	q.Subtotal = float64(q.Nights) * nightly
	if q.Subtotal > 0 {
		q.GrandTotal = q.Subtotal + CleaningFee + ServiceFee
	}
	q.AmountMinor = ToMinor(q.GrandTotal)
	return q
}

// ToMinor converts a major unit amount to minor units, rounding half away
// from zero.
func ToMinor(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// HostEarnings is the host's share of a grand total.
func HostEarnings(grandTotal float64) float64 {
	return grandTotal * float64(HostShare) / 100
}
