// internal/api/types/response.go
package types

import (
	"github.com/shopspring/decimal"

	"github.com/saakcy7/kindfund/internal/domain"
)

// DonationsResponse is the body of GET /api/donations.
type DonationsResponse struct {
	Donations []domain.Donation `json:"donations"`
	Total     decimal.Decimal   `json:"total"`
	Count     int               `json:"count"`
}

// RecordDonationResponse is the body of a successful POST /api/donations.
type RecordDonationResponse struct {
	Success  bool             `json:"success"`
	Donation *domain.Donation `json:"donation"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}
