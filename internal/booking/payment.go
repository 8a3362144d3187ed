package booking

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// HostShare is the percentage of a payment settled to the host's
// subaccount when a split applies.
const HostShare = 90

// DefaultEmail is used when the payer has no email on file.
const DefaultEmail = "user@example.com"

// Payment methods accepted at checkout.
const (
	MethodCard = "card"
	MethodMomo = "momo"
)

// Mobile money networks.
var momoNetworks = map[string]bool{
	"MTN":        true,
	"Telecel":    true,
	"AirtelTigo": true,
}

// Metadata keys tying a charge to the stay it pays for. Confirmation
// compares them against the request before saving a booking.
const (
	MetaPropertyID = "property_id"
	MetaCheckIn    = "check_in"
	MetaCheckOut   = "check_out"
	MetaNetwork    = "network"
)

// ValidNetwork reports whether n is a supported mobile money network.
func ValidNetwork(n string) bool { return momoNetworks[n] }

// Subaccount receives a percentage share of a split payment.
type Subaccount struct {
	Subaccount string `json:"subaccount"`
	Share      int    `json:"share"`
}

// Split describes how a payment is divided between platform and host.
type Split struct {
	Type        string       `json:"type"`
	BearerType  string       `json:"bearer_type"`
	Subaccounts []Subaccount `json:"subaccounts"`
}

// PaymentConfig is handed to the client side gateway SDK to start a
// charge.
type PaymentConfig struct {
	Reference string            `json:"reference"`
	Email     string            `json:"email"`
	Amount    int64             `json:"amount"`
	PublicKey string            `json:"public_key"`
	Currency  string            `json:"currency"`
	Channels  []string          `json:"channels"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Split     *Split            `json:"split,omitempty"`
}

// PaymentRequest carries the inputs of NewPaymentConfig.
type PaymentRequest struct {
	Email          string
	Quote          Quote
	PublicKey      string
	Currency       string
	Method         string
	Network        string
	SubaccountCode *string
	PropertyID     uint64
	Stay           DateRange
}

// NewPaymentConfig builds the gateway configuration for a quote.  A fresh
// reference is generated for every call.  The split is attached only when
// the property has a payout subaccount.
func NewPaymentConfig(req PaymentRequest) (PaymentConfig, error) {
	channels, err := channelsFor(req.Method, req.Network)
	if err != nil {
		return PaymentConfig{}, err
	}
	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = DefaultEmail
	}
	cfg := PaymentConfig{
		Reference: uuid.NewString(),
		Email:     email,
		Amount:    req.Quote.AmountMinor,
		PublicKey: req.PublicKey,
		Currency:  req.Currency,
		Channels:  channels,
	}
	cfg.Metadata = StayMetadata(req.PropertyID, req.Stay)
	if req.Method == MethodMomo {
		cfg.Metadata[MetaNetwork] = req.Network
	}
	if req.SubaccountCode != nil && strings.TrimSpace(*req.SubaccountCode) != "" {
		cfg.Split = &Split{
			Type:       "percentage",
			BearerType: "account",
			Subaccounts: []Subaccount{
				{Subaccount: strings.TrimSpace(*req.SubaccountCode), Share: HostShare},
			},
		}
	}
	return cfg, nil
}

// StayMetadata returns the metadata identifying a stay.
func StayMetadata(propertyID uint64, r DateRange) map[string]string {
	return map[string]string{
		MetaPropertyID: strconv.FormatUint(propertyID, 10),
		MetaCheckIn:    formatDate(r.Start),
		MetaCheckOut:   formatDate(r.End),
	}
}

// MatchesStay reports whether gateway metadata names the same property and
// dates as the stay being confirmed.
func MatchesStay(meta map[string]string, propertyID uint64, r DateRange) bool {
	for k, v := range StayMetadata(propertyID, r) {
		if meta[k] != v {
			return false
		}
	}
	return true
}

func channelsFor(method, network string) ([]string, error) {
	switch method {
	case "", MethodCard:
		return []string{"card"}, nil
	case MethodMomo:
		if !ValidNetwork(network) {
			return nil, fmt.Errorf("unsupported mobile money network %q", network)
		}
		return []string{"mobile_money"}, nil
	default:
		return nil, fmt.Errorf("unsupported payment method %q", method)
	}
}
