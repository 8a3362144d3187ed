// Package booking holds the pure stay logic used at checkout: date range
// parsing, the overlap check that guards against double bookings, the
// price breakdown and the payment gateway configuration.
package booking

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// DateLayout is the wire format of stay dates.
const DateLayout = "2006-01-02"

var (
	// ErrInvalidRange is returned when a stay does not end after it starts
	// or a date cannot be parsed.
	ErrInvalidRange = errors.New("check-out must be after check-in")
	// ErrDatesUnavailable is returned when a stay overlaps a confirmed booking.
	ErrDatesUnavailable = errors.New("dates unavailable")
)

// DateRange is a half-open interval [Start, End).  A zero Start or End
// means the range has not been fully chosen yet.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Complete reports whether both ends are set.
func (r DateRange) Complete() bool {
	return !r.Start.IsZero() && !r.End.IsZero()
}

// Valid reports whether the range is complete and ends after it starts.
func (r DateRange) Valid() bool {
	return r.Complete() && r.End.After(r.Start)
}

// Overlaps reports whether r and o share at least one instant.  Ranges that
// only touch (one ends the day the other starts) do not overlap.
func (r DateRange) Overlaps(o DateRange) bool {
	if !r.Complete() || !o.Complete() {
		return false
	}
	return r.Start.Before(o.End) && r.End.After(o.Start)
}

// Nights is the number of nights in the stay, rounded up to whole days.
// Incomplete or inverted ranges have zero nights.
func (r DateRange) Nights() int {
	if !r.Complete() {
		return 0
	}
	d := r.End.Sub(r.Start)
	if d <= 0 {
		return 0
	}
	n := d / (24 * time.Hour)
	if d%(24*time.Hour) != 0 {
		n++
	}
	return int(n)
}

func (r DateRange) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		CheckIn  string `json:"check_in"`
		CheckOut string `json:"check_out"`
	}{formatDate(r.Start), formatDate(r.End)})
}

// Overlaps reports whether candidate conflicts with any of the existing
// ranges.  An incomplete candidate never conflicts.
func Overlaps(candidate DateRange, existing []DateRange) bool {
	if !candidate.Complete() {
		return false
	}
	for _, e := range existing {
		if candidate.Overlaps(e) {
			return true
		}
	}
	return false
}

// ParseDate parses a YYYY-MM-DD date as UTC midnight.  Blank input yields
// the zero time.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, ErrInvalidRange
	}
	return t, nil
}

// ParseRange parses both ends of a stay.  Either end may be blank, in
// which case the returned range is incomplete.
func ParseRange(checkIn, checkOut string) (DateRange, error) {
	start, err := ParseDate(checkIn)
	if err != nil {
		return DateRange{}, err
	}
	end, err := ParseDate(checkOut)
	if err != nil {
		return DateRange{}, err
	}
	return DateRange{Start: start, End: end}, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
