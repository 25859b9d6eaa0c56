// internal/domain/donation.go
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal" // For precise monetary calculations

	"github.com/saakcy7/kindfund/internal/util"
)

// Amount bounds. Amounts are stored exactly, so both the scale and the number
// of significant digits are capped to keep every record cheap to render.
const (
	MaxAmountExponent = 18
	MinAmountExponent = -18
	MaxAmountDigits   = 38
)

// DonationInput is an unvalidated contribution claim as submitted by a client.
// Amount is kept as text so that it can be parsed exactly into a decimal.
type DonationInput struct {
	Name     string
	Amount   string
	Message  string
	Donor    string
	TxDigest string
}

// Donation represents a recorded contribution. It is never modified after creation.
type Donation struct {
	ID           string          `db:"id" json:"id"`                      // UUID assigned at creation
	Name         string          `db:"name" json:"name"`                  // Contributor display name, caller-supplied
	Amount       decimal.Decimal `db:"amount" json:"amount"`              // Positive amount, NUMERIC in DB
	Message      string          `db:"message" json:"message"`            // Optional message, "" when absent
	Donor        string          `db:"donor" json:"donor"`                // Donor wallet address, unverified
	TxDigest     string          `db:"tx_digest" json:"txDigest"`         // Claimed on-chain transaction digest
	ExplorerLink string          `db:"explorer_link" json:"explorerLink"` // Block explorer URL for TxDigest
	CreatedAt    time.Time       `db:"created_at" json:"timestamp"`       // Insertion wall-clock time (UTC)

	// Seq is the store-assigned insertion sequence, used to order records with equal CreatedAt.
	Seq int64 `db:"seq" json:"-"`
}

// Explorer builds block explorer links for a network.
type Explorer struct {
	BaseURL string
	Network string
}

// NetworkURL returns the explorer root for the network, e.g. https://suiscan.xyz/testnet.
func (e Explorer) NetworkURL() string {
	return fmt.Sprintf("%s/%s", strings.TrimRight(e.BaseURL, "/"), e.Network)
}

// TxLink returns the explorer page for a transaction digest.
func (e Explorer) TxLink(digest string) string {
	return fmt.Sprintf("%s/tx/%s", e.NetworkURL(), digest)
}

// ValidationError describes why a DonationInput was rejected.
// It unwraps to util.ErrMissingField or util.ErrInvalidAmount.
type ValidationError struct {
	Err    error
	Fields []string
}

func (e *ValidationError) Error() string {
	switch e.Err {
	case util.ErrMissingField:
		return "Missing required fields: " + strings.Join(e.Fields, ", ")
	case util.ErrInvalidAmount:
		return "Invalid amount: must be a positive number"
	default:
		return e.Err.Error()
	}
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validate checks the input and returns the parsed amount.
func (in DonationInput) Validate() (decimal.Decimal, error) {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"name", in.Name},
		{"amount", in.Amount},
		{"donor", in.Donor},
		{"txDigest", in.TxDigest},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return decimal.Zero, &ValidationError{Err: util.ErrMissingField, Fields: missing}
	}

	// NewFromString rejects NaN and Inf, so a successful parse is always finite.
	amount, err := decimal.NewFromString(strings.TrimSpace(in.Amount))
	if err != nil || !amount.IsPositive() || !amountInBounds(amount) {
		return decimal.Zero, &ValidationError{Err: util.ErrInvalidAmount, Fields: []string{"amount"}}
	}
	return amount, nil
}

// amountInBounds checks the exponent first, so the coefficient is never expanded
// for inputs like 1e100000000.
func amountInBounds(amount decimal.Decimal) bool {
	exp := amount.Exponent()
	if exp < MinAmountExponent || exp > MaxAmountExponent {
		return false
	}
	return amount.NumDigits() <= MaxAmountDigits
}

// NewDonation validates the input and creates a new Donation.
// CreatedAt is kept to microsecond precision, which is what TIMESTAMPTZ stores.
func NewDonation(in DonationInput, id string, createdAt time.Time, explorer Explorer) (*Donation, error) {
	amount, err := in.Validate()
	if err != nil {
		return nil, err
	}
	return &Donation{
		ID:           id,
		Name:         in.Name,
		Amount:       amount,
		Message:      in.Message,
		Donor:        in.Donor,
		TxDigest:     in.TxDigest,
		ExplorerLink: explorer.TxLink(in.TxDigest),
		CreatedAt:    createdAt.UTC().Truncate(time.Microsecond),
	}, nil
}
