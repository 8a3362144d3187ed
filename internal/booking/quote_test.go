package booking

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQuote(t *testing.T) {
	q := NewQuote(200, rng("2025-06-01", "2025-06-04"))

	assert.Equal(t, 3, q.Nights)
	assert.Equal(t, 600.0, q.Subtotal)
	assert.Equal(t, 685.0, q.GrandTotal)
	assert.Equal(t, int64(68500), q.AmountMinor)
}

func TestNewQuoteIncompleteRange(t *testing.T) {
	q := NewQuote(200, DateRange{Start: day("2025-06-01")})

	assert.Zero(t, q.Nights)
	assert.Zero(t, q.GrandTotal)
	assert.Zero(t, q.AmountMinor)
}

func TestToMinorRounds(t *testing.T) {
	assert.Equal(t, int64(1999), ToMinor(19.99))
	assert.Equal(t, int64(7), ToMinor(0.07))
	assert.Equal(t, int64(1), ToMinor(0.005))
}

func TestHostEarnings(t *testing.T) {
	assert.InDelta(t, 616.5, HostEarnings(685), 1e-9)
}

func TestNewPaymentConfigWithSplit(t *testing.T) {
	code := "  ACCT_host123 "
	cfg, err := NewPaymentConfig(PaymentRequest{
		Email:          "guest@example.com",
		Quote:          NewQuote(200, rng("2025-06-01", "2025-06-04")),
		PublicKey:      "pk_test",
		Currency:       "GHS",
		SubaccountCode: &code,
		PropertyID:     7,
		Stay:           rng("2025-06-01", "2025-06-04"),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.Reference)
	assert.Equal(t, int64(68500), cfg.Amount)
	assert.Equal(t, []string{"card"}, cfg.Channels)
	require.NotNil(t, cfg.Split)
	assert.Equal(t, "percentage", cfg.Split.Type)
	assert.Equal(t, "account", cfg.Split.BearerType)
	assert.Equal(t, []Subaccount{{Subaccount: "ACCT_host123", Share: 90}}, cfg.Split.Subaccounts)
	assert.Equal(t, map[string]string{
		MetaPropertyID: "7",
		MetaCheckIn:    "2025-06-01",
		MetaCheckOut:   "2025-06-04",
	}, cfg.Metadata)
}

func TestNewPaymentConfigWithoutSplit(t *testing.T) {
	cfg, err := NewPaymentConfig(PaymentRequest{
		Quote:    NewQuote(100, rng("2025-06-01", "2025-06-02")),
		Currency: "GHS",
		Method:   MethodMomo,
		Network:  "MTN",
	})
	require.NoError(t, err)

	assert.Equal(t, DefaultEmail, cfg.Email)
	assert.Equal(t, []string{"mobile_money"}, cfg.Channels)
	assert.Nil(t, cfg.Split)
	assert.Equal(t, "MTN", cfg.Metadata[MetaNetwork])

	b, err := json.Marshal(cfg)
	require.NoError(t, err)
	var raw map[string]any
	require.NoError(t, json.Unmarshal(b, &raw))
	_, hasSplit := raw["split"]
	assert.False(t, hasSplit)
}

func TestNewPaymentConfigRejectsUnknownNetwork(t *testing.T) {
	_, err := NewPaymentConfig(PaymentRequest{Method: MethodMomo, Network: "Vodafone"})
	assert.Error(t, err)

	_, err = NewPaymentConfig(PaymentRequest{Method: "cash"})
	assert.Error(t, err)
}

func TestReferencesAreUnique(t *testing.T) {
	a, _ := NewPaymentConfig(PaymentRequest{})
	b, _ := NewPaymentConfig(PaymentRequest{})
	assert.NotEqual(t, a.Reference, b.Reference)
}

func TestMatchesStay(t *testing.T) {
	stay := rng("2026-06-01", "2026-06-04")
	meta := StayMetadata(1, stay)

	assert.True(t, MatchesStay(meta, 1, stay))
	assert.False(t, MatchesStay(meta, 2, stay))
	assert.False(t, MatchesStay(meta, 1, rng("2026-06-01", "2026-06-05")))
	assert.False(t, MatchesStay(nil, 1, stay))
}
