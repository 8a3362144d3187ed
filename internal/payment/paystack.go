// Package payment verifies gateway transactions before a booking is
// written.  Charges themselves are started client side with the
// configuration built by the booking package.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/iliyamo/aloft-stays/internal/config"
)

var (
	// ErrTransactionNotFound is returned when the gateway does not know the reference.
	ErrTransactionNotFound = errors.New("transaction not found")
	// ErrGatewayUnavailable is returned while the circuit breaker is open.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")
)

// StatusSuccess is the gateway status of a captured charge.
const StatusSuccess = "success"

// Transaction is the verified state of a charge.  Amount is in minor units.
type Transaction struct {
	Reference string
	Status    string
	Amount    int64
	Currency  string
	Email     string
	PaidAt    time.Time
	Metadata  Metadata
}

// Paid reports whether the charge was captured for exactly amount minor
// units in currency.
func (t Transaction) Paid(amount int64, currency string) bool {
	return t.Status == StatusSuccess && t.Amount == amount && strings.EqualFold(t.Currency, currency)
}

// Metadata is the flat key/value metadata attached to a charge when it was
// started. The gateway echoes it back as an object, as a JSON encoded
// string, or as an empty string when none was sent.
type Metadata map[string]string

// UnmarshalJSON accepts every shape the gateway returns. Non-string values
// are kept in their JSON text form.
func (m *Metadata) UnmarshalJSON(b []byte) error {
	raw := json.RawMessage(b)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if strings.TrimSpace(s) == "" {
			*m = nil
			return nil
		}
		raw = json.RawMessage(s)
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return fmt.Errorf("decode metadata: %w", err)
	}
	out := make(Metadata, len(fields))
	for k, v := range fields {
		var str string
		if err := json.Unmarshal(v, &str); err == nil {
			out[k] = str
			continue
		}
		out[k] = string(v)
	}
	*m = out
	return nil
}

// Client talks to the Paystack REST API.
type Client struct {
	baseURL string
	secret  string
	http    *http.Client
	cb      *gobreaker.CircuitBreaker
}

// NewClient returns a Paystack client.  Consecutive gateway failures open
// the breaker for 30 seconds; unknown references do not count as failures.
func NewClient(cfg config.PaymentConfig, log *logrus.Logger) *Client {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "paystack",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrTransactionNotFound)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.WithFields(logrus.Fields{"breaker": name, "from": from.String(), "to": to.String()}).
				Warn("circuit breaker state changed")
		},
	})
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		secret:  cfg.SecretKey,
		http:    &http.Client{Timeout: cfg.Timeout},
		cb:      cb,
	}
}

type verifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Reference string    `json:"reference"`
		Status    string    `json:"status"`
		Amount    int64     `json:"amount"`
		Currency  string    `json:"currency"`
		PaidAt    time.Time `json:"paid_at"`
		Metadata  Metadata  `json:"metadata"`
		Customer  struct {
			Email string `json:"email"`
		} `json:"customer"`
	} `json:"data"`
}

// Verify fetches the transaction for reference from the gateway.
func (c *Client) Verify(ctx context.Context, reference string) (Transaction, error) {
	out, err := c.cb.Execute(func() (interface{}, error) {
		return c.verify(ctx, reference)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return Transaction{}, ErrGatewayUnavailable
		}
		return Transaction{}, err
	}
	return out.(Transaction), nil
}

func (c *Client) verify(ctx context.Context, reference string) (Transaction, error) {
	endpoint := c.baseURL + "/transaction/verify/" + url.PathEscape(reference)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Transaction{}, err
	}
	req.Header.Set("Authorization", "Bearer "+c.secret)
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return Transaction{}, fmt.Errorf("verify transaction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusBadRequest {
		return Transaction{}, ErrTransactionNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return Transaction{}, fmt.Errorf("verify transaction: gateway returned %d", resp.StatusCode)
	}

	var body verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Transaction{}, fmt.Errorf("decode verify response: %w", err)
	}
	if !body.Status {
		return Transaction{}, ErrTransactionNotFound
	}
	return Transaction{
		Reference: body.Data.Reference,
		Status:    body.Data.Status,
		Amount:    body.Data.Amount,
		Currency:  body.Data.Currency,
		Email:     body.Data.Customer.Email,
		PaidAt:    body.Data.PaidAt,
		Metadata:  body.Data.Metadata,
	}, nil
}
