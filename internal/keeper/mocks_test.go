package keeper

import (
	"context"
	"strings"
	"time"

	"aumkeeper/internal/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockPriceRepository struct{ mock.Mock }

func (m *MockPriceRepository) GetLatest(ctx context.Context) (*domain.PriceSnapshot, error) {
	args := m.Called(ctx)
	snapshot, _ := args.Get(0).(*domain.PriceSnapshot)
	return snapshot, args.Error(1)
}

type MockFeeSampler struct{ mock.Mock }

func (m *MockFeeSampler) RecentPriorityFee(ctx context.Context, percentile uint64) (uint64, error) {
	args := m.Called(ctx, percentile)
	return args.Get(0).(uint64), args.Error(1)
}

type MockLedgerClient struct{ mock.Mock }

func (m *MockLedgerClient) GetAccountData(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	args := m.Called(ctx, address)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockLedgerClient) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	args := m.Called(ctx)
	return args.Get(0).(solana.Hash), args.Error(1)
}

func (m *MockLedgerClient) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(solana.Signature), args.Error(1)
}

type MockSubmitter struct{ mock.Mock }

func (m *MockSubmitter) Submit(ctx context.Context, fee uint64, msg domain.PriceBatchMessage, remaining solana.AccountMetaSlice) (solana.Signature, error) {
	args := m.Called(ctx, fee, msg, remaining)
	return args.Get(0).(solana.Signature), args.Error(1)
}

var testBaseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// validSnapshot returns a snapshot whose feeds all carry distinct observation times.
func validSnapshot() *domain.PriceSnapshot {
	return &domain.PriceSnapshot{
		SOLUSD:     decimal.RequireFromString("1450000000000.75"),
		JITOSOLUSD: decimal.RequireFromString("1720000000000"),
		BTCUSD:     decimal.RequireFromString("650000000000000.999"),
		WBTCUSD:    decimal.RequireFromString("649990000000000"),
		BONKUSD:    decimal.RequireFromString("210000.5"),
		USDCUSD:    decimal.RequireFromString("10000000000"),

		SOLUSDAt:     testBaseTime.Add(1 * time.Second),
		JITOSOLUSDAt: testBaseTime.Add(2 * time.Second),
		BTCUSDAt:     testBaseTime.Add(3 * time.Second),
		WBTCUSDAt:    testBaseTime.Add(4 * time.Second),
		BONKUSDAt:    testBaseTime.Add(5 * time.Second),
		USDCUSDAt:    testBaseTime.Add(6 * time.Second),

		Signature:       strings.Repeat("ab", domain.SignatureLen),
		RecoveryID:      1,
		LatestTimestamp: testBaseTime.Add(6 * time.Second),
	}
}
