// internal/service/donation_service_test.go
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/saakcy7/kindfund/internal/config"
	"github.com/saakcy7/kindfund/internal/domain"
	"github.com/saakcy7/kindfund/internal/repository"
	"github.com/saakcy7/kindfund/internal/repository/memory"
	"github.com/saakcy7/kindfund/internal/util"
)

// MockLedgerStore is a mock implementation of repository.LedgerStore.
type MockLedgerStore struct {
	mock.Mock
}

func (m *MockLedgerStore) Append(ctx context.Context, donation *domain.Donation) error {
	args := m.Called(ctx, donation)
	return args.Error(0)
}

func (m *MockLedgerStore) ListAll(ctx context.Context) (*repository.LedgerSnapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repository.LedgerSnapshot), args.Error(1)
}

var fixedNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

func testChain() config.ChainConfig {
	return config.ChainConfig{
		CharityAddress:  "0xCHARITY",
		PackageID:       "0xPKG",
		Network:         "testnet",
		ExplorerBaseURL: "https://suiscan.xyz",
		MoveModule:      "donation",
		MoveEntry:       "donate",
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sequentialIDs() IDGenerator {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("donation-%d", n)
	}
}

func newMemoryService(chain config.ChainConfig) DonationService {
	return NewDonationService(memory.NewLedgerStore(), chain, quietLogger(), func() time.Time { return fixedNow }, sequentialIDs())
}

// TestRecordDonation tests the RecordDonation method of DonationService.
func TestRecordDonation(t *testing.T) {
	t.Run("SuccessfulDonation", func(t *testing.T) {
		ctx := context.Background()
		mockStore := new(MockLedgerStore)
		svc := NewDonationService(mockStore, testChain(), quietLogger(), func() time.Time { return fixedNow }, func() string { return "fixed-id" })

		mockStore.On("Append", ctx, mock.AnythingOfType("*domain.Donation")).Return(nil).Once()

		donation, err := svc.RecordDonation(ctx, domain.DonationInput{
			Name: "Alice", Amount: "10", Donor: "0xAAA", TxDigest: "0x111",
		})

		require.NoError(t, err)
		assert.Equal(t, "fixed-id", donation.ID)
		assert.True(t, decimal.NewFromInt(10).Equal(donation.Amount))
		assert.Equal(t, "", donation.Message)
		assert.Equal(t, fixedNow, donation.CreatedAt)
		assert.Equal(t, "https://suiscan.xyz/testnet/tx/0x111", donation.ExplorerLink)

		// The record handed to the store is the one returned to the caller.
		stored := mockStore.Calls[0].Arguments.Get(1).(*domain.Donation)
		assert.Equal(t, donation, stored)
		mockStore.AssertExpectations(t)
	})

	t.Run("InvalidInputNeverReachesStore", func(t *testing.T) {
		inputs := map[string]domain.DonationInput{
			"EmptyName":      {Name: "", Amount: "10", Donor: "0xAAA", TxDigest: "0x111"},
			"ZeroAmount":     {Name: "Alice", Amount: "0", Donor: "0xAAA", TxDigest: "0x111"},
			"NegativeAmount": {Name: "Alice", Amount: "-5", Donor: "0xAAA", TxDigest: "0x111"},
			"NonNumeric":     {Name: "Alice", Amount: "abc", Donor: "0xAAA", TxDigest: "0x111"},
			"EmptyDonor":     {Name: "Alice", Amount: "10", Donor: "", TxDigest: "0x111"},
			"EmptyTxDigest":  {Name: "Alice", Amount: "10", Donor: "0xAAA", TxDigest: ""},
		}
		for name, in := range inputs {
			t.Run(name, func(t *testing.T) {
				mockStore := new(MockLedgerStore)
				svc := NewDonationService(mockStore, testChain(), quietLogger(), nil, nil)

				donation, err := svc.RecordDonation(context.Background(), in)

				assert.Nil(t, donation)
				assert.True(t, util.IsError(err, util.ErrMissingField) || util.IsError(err, util.ErrInvalidAmount))
				mockStore.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
			})
		}
	})

	t.Run("StoreFailure", func(t *testing.T) {
		ctx := context.Background()
		mockStore := new(MockLedgerStore)
		svc := NewDonationService(mockStore, testChain(), quietLogger(), nil, nil)

		storeErr := fmt.Errorf("disk full: %w", util.ErrStore)
		mockStore.On("Append", ctx, mock.Anything).Return(storeErr).Once()

		donation, err := svc.RecordDonation(ctx, domain.DonationInput{
			Name: "Alice", Amount: "10", Donor: "0xAAA", TxDigest: "0x111",
		})

		assert.Nil(t, donation)
		assert.ErrorIs(t, err, util.ErrStore)
		mockStore.AssertExpectations(t)
	})

	t.Run("InvalidInputLeavesLedgerUnchanged", func(t *testing.T) {
		ctx := context.Background()
		svc := newMemoryService(testChain())
		_, err := svc.RecordDonation(ctx, domain.DonationInput{Name: "Alice", Amount: "10", Donor: "0xAAA", TxDigest: "0x111"})
		require.NoError(t, err)

		before, err := svc.GetDonations(ctx)
		require.NoError(t, err)

		_, err = svc.RecordDonation(ctx, domain.DonationInput{Name: "Bob", Amount: "-5", Donor: "0xBBB", TxDigest: "0x222"})
		require.ErrorIs(t, err, util.ErrInvalidAmount)

		after, err := svc.GetDonations(ctx)
		require.NoError(t, err)
		assert.Equal(t, before.Count, after.Count)
		assert.True(t, before.Total.Equal(after.Total))
	})

	// The same digest submitted twice is stored twice; deduplication is not performed.
	t.Run("DuplicateDigestIsNotDeduplicated", func(t *testing.T) {
		ctx := context.Background()
		svc := newMemoryService(testChain())
		in := domain.DonationInput{Name: "Alice", Amount: "10", Donor: "0xAAA", TxDigest: "0xSAME"}

		first, err := svc.RecordDonation(ctx, in)
		require.NoError(t, err)
		second, err := svc.RecordDonation(ctx, in)
		require.NoError(t, err)
		assert.NotEqual(t, first.ID, second.ID)

		snapshot, err := svc.GetDonations(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, snapshot.Count)
		assert.Equal(t, "20", snapshot.Total.String())
	})
}

func TestGetDonations(t *testing.T) {
	t.Run("TotalsAndOrder", func(t *testing.T) {
		ctx := context.Background()
		svc := newMemoryService(testChain())

		_, err := svc.RecordDonation(ctx, domain.DonationInput{Name: "Alice", Amount: "10", Donor: "0xAAA", TxDigest: "0x111"})
		require.NoError(t, err)
		_, err = svc.RecordDonation(ctx, domain.DonationInput{Name: "Bob", Amount: "5", Donor: "0xBBB", TxDigest: "0x222"})
		require.NoError(t, err)

		snapshot, err := svc.GetDonations(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, snapshot.Count)
		assert.Equal(t, "15", snapshot.Total.String())
		// Equal timestamps from the fixed clock: the later insertion comes first.
		require.Len(t, snapshot.Donations, 2)
		assert.Equal(t, "Bob", snapshot.Donations[0].Name)
		assert.Equal(t, "Alice", snapshot.Donations[1].Name)
	})

	t.Run("StoreFailure", func(t *testing.T) {
		ctx := context.Background()
		mockStore := new(MockLedgerStore)
		svc := NewDonationService(mockStore, testChain(), quietLogger(), nil, nil)
		mockStore.On("ListAll", ctx).Return(nil, errors.New("connection lost")).Once()

		snapshot, err := svc.GetDonations(ctx)
		assert.Nil(t, snapshot)
		assert.Error(t, err)
		mockStore.AssertExpectations(t)
	})

	t.Run("ConcurrentSubmissions", func(t *testing.T) {
		ctx := context.Background()
		svc := NewDonationService(memory.NewLedgerStore(), testChain(), quietLogger(), nil, nil)
		const n = 100

		var wg sync.WaitGroup
		expected := decimal.Zero
		for i := 1; i <= n; i++ {
			amount := decimal.New(int64(i), -1) // 0.1, 0.2, ...
			expected = expected.Add(amount)
			wg.Add(1)
			go func(i int, amount decimal.Decimal) {
				defer wg.Done()
				_, err := svc.RecordDonation(ctx, domain.DonationInput{
					Name:     fmt.Sprintf("donor-%d", i),
					Amount:   amount.String(),
					Donor:    fmt.Sprintf("0x%d", i),
					TxDigest: fmt.Sprintf("0xtx%d", i),
				})
				assert.NoError(t, err)
			}(i, amount)
		}
		wg.Wait()

		snapshot, err := svc.GetDonations(ctx)
		require.NoError(t, err)
		assert.Equal(t, n, snapshot.Count)
		assert.True(t, expected.Equal(snapshot.Total), "total %s, want %s", snapshot.Total, expected)

		digests := make(map[string]struct{}, n)
		for _, d := range snapshot.Donations {
			digests[d.TxDigest] = struct{}{}
		}
		assert.Len(t, digests, n)
	})
}

func TestGetPublicConfig(t *testing.T) {
	t.Run("Configured", func(t *testing.T) {
		svc := newMemoryService(testChain())

		cfg, err := svc.GetPublicConfig(context.Background())
		require.NoError(t, err)
		assert.Equal(t, &domain.ChainConfig{
			CharityAddress: "0xCHARITY",
			PackageID:      "0xPKG",
			MoveFunction:   "0xPKG::donation::donate",
			Network:        "testnet",
			ExplorerURL:    "https://suiscan.xyz/testnet",
		}, cfg)
	})

	for name, packageID := range map[string]string{"Unset": "", "Placeholder": domain.PlaceholderPackageID} {
		t.Run("NotConfigured_"+name, func(t *testing.T) {
			chain := testChain()
			chain.PackageID = packageID
			svc := newMemoryService(chain)

			cfg, err := svc.GetPublicConfig(context.Background())
			assert.Nil(t, cfg)
			assert.ErrorIs(t, err, util.ErrNotConfigured)
		})
	}
}

func TestGetStatus(t *testing.T) {
	ctx := context.Background()
	chain := testChain()
	chain.PackageID = ""
	svc := newMemoryService(chain)

	_, err := svc.RecordDonation(ctx, domain.DonationInput{Name: "Alice", Amount: "2.5", Donor: "0xAAA", TxDigest: "0x111"})
	require.NoError(t, err)

	status, err := svc.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, StatusRunning, status.Status)
	assert.Equal(t, "Not configured", status.PackageID)
	assert.Equal(t, "testnet", status.Network)
	assert.Equal(t, "0xCHARITY", status.CharityAddress)
	assert.Equal(t, 1, status.TotalDonations)
	assert.Equal(t, "2.5", status.TotalAmount.String())
}
