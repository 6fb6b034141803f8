package adapters

import (
	"context"

	"aumkeeper/internal/domain"

	"github.com/gagliardetto/solana-go"
)

// PriceRepository returns the most recent snapshot, or nil when none was written yet.
type PriceRepository interface {
	GetLatest(ctx context.Context) (*domain.PriceSnapshot, error)
}

type FeeSampler interface {
	RecentPriorityFee(ctx context.Context, percentile uint64) (uint64, error)
}

type LedgerClient interface {
	GetAccountData(ctx context.Context, address solana.PublicKey) ([]byte, error)
	LatestBlockhash(ctx context.Context) (solana.Hash, error)
	// SendTransaction submits without preflight and with zero node-side retries.
	SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error)
}
