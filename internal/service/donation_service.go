// internal/service/donation_service.go
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/saakcy7/kindfund/internal/config"
	"github.com/saakcy7/kindfund/internal/domain"
	"github.com/saakcy7/kindfund/internal/repository"
	"github.com/saakcy7/kindfund/internal/util"
)

// StatusRunning is reported by GetStatus while the service is up.
const StatusRunning = "Donation App Backend Running"

// Status is the informational view served by the health endpoint.
type Status struct {
	Status         string          `json:"status"`
	Network        string          `json:"network"`
	CharityAddress string          `json:"charityAddress"`
	PackageID      string          `json:"packageId"`
	TotalDonations int             `json:"totalDonations"`
	TotalAmount    decimal.Decimal `json:"totalAmount"`
}

// DonationService defines the interface for donation-related business logic.
type DonationService interface {
	RecordDonation(ctx context.Context, in domain.DonationInput) (*domain.Donation, error)
	GetDonations(ctx context.Context) (*repository.LedgerSnapshot, error)
	GetPublicConfig(ctx context.Context) (*domain.ChainConfig, error)
	GetStatus(ctx context.Context) (*Status, error)
}

// Clock returns the current time.
type Clock func() time.Time

// IDGenerator returns a fresh unique donation ID.
type IDGenerator func() string

// donationService implements the DonationService interface.
type donationService struct {
	store    repository.LedgerStore
	chain    config.ChainConfig
	explorer domain.Explorer
	logger   *slog.Logger
	now      Clock       // Injected for deterministic tests
	newID    IDGenerator // Injected for deterministic tests
}

// NewDonationService creates a new instance of DonationService.
// A nil clock defaults to time.Now and a nil generator to random UUIDs.
func NewDonationService(
	store repository.LedgerStore,
	chain config.ChainConfig,
	logger *slog.Logger,
	now Clock,
	newID IDGenerator,
) DonationService {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &donationService{
		store:    store,
		chain:    chain,
		explorer: domain.Explorer{BaseURL: chain.ExplorerBaseURL, Network: chain.Network},
		logger:   logger,
		now:      now,
		newID:    newID,
	}
}

// RecordDonation validates a contribution claim and appends it to the ledger.
// The transaction digest is not checked against the chain.
func (s *donationService) RecordDonation(ctx context.Context, in domain.DonationInput) (*domain.Donation, error) {
	donation, err := domain.NewDonation(in, s.newID(), s.now(), s.explorer)
	if err != nil {
		return nil, err
	}

	if err := s.store.Append(ctx, donation); err != nil {
		return nil, fmt.Errorf("record donation: %w", err)
	}

	s.logger.Info("New donation recorded",
		"id", donation.ID,
		"name", donation.Name,
		"amount", donation.Amount.String(),
		"tx_digest", donation.TxDigest,
		"explorer", donation.ExplorerLink,
	)
	return donation, nil
}

// GetDonations returns the ledger newest first with its exact total.
func (s *donationService) GetDonations(ctx context.Context) (*repository.LedgerSnapshot, error) {
	snapshot, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get donations: %w", err)
	}
	return snapshot, nil
}

// GetPublicConfig returns what a wallet client needs to build a donate call.
func (s *donationService) GetPublicConfig(ctx context.Context) (*domain.ChainConfig, error) {
	if !domain.PackageConfigured(s.chain.PackageID) {
		return nil, util.ErrNotConfigured
	}
	return &domain.ChainConfig{
		CharityAddress: s.chain.CharityAddress,
		PackageID:      s.chain.PackageID,
		MoveFunction:   domain.MoveTarget(s.chain.PackageID, s.chain.MoveModule, s.chain.MoveEntry),
		Network:        s.chain.Network,
		ExplorerURL:    s.explorer.NetworkURL(),
	}, nil
}

// GetStatus reports the service state with the current ledger count and total.
func (s *donationService) GetStatus(ctx context.Context) (*Status, error) {
	snapshot, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("get status: %w", err)
	}

	packageID := s.chain.PackageID
	if packageID == "" {
		packageID = "Not configured"
	}
	return &Status{
		Status:         StatusRunning,
		Network:        s.chain.Network,
		CharityAddress: s.chain.CharityAddress,
		PackageID:      packageID,
		TotalDonations: snapshot.Count,
		TotalAmount:    snapshot.Total,
	}, nil
}
