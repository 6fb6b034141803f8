package keeper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"aumkeeper/internal/adapters"
	"aumkeeper/internal/adapters/adrena"
	"aumkeeper/internal/domain"

	"github.com/gagliardetto/solana-go"
)

const (
	defaultComputeUnitLimit = 120_000
	defaultBuildTimeout     = 2 * time.Second
)

// Pipeline builds, signs and sends update_pool_aum transactions.
type Pipeline struct {
	ledger       adapters.LedgerClient
	program      *adrena.Program
	payer        solana.PrivateKey
	cuLimit      uint32
	buildTimeout time.Duration
}

type buildResult struct {
	tx  *solana.Transaction
	err error
}

// Instructions returns the compute budget instructions followed by update_pool_aum.
func (p *Pipeline) Instructions(fee uint64, msg *domain.PriceBatchMessage, remaining solana.AccountMetaSlice) ([]solana.Instruction, error) {
	updateIx, err := p.program.UpdatePoolAum(p.payer.PublicKey(), msg, remaining)
	if err != nil {
		return nil, err
	}
	return []solana.Instruction{
		adrena.NewSetComputeUnitPrice(fee),
		adrena.NewSetComputeUnitLimit(p.cuLimit),
		updateIx,
	}, nil
}

// Submit sends one transaction without preflight or RPC retries. A build that
// misses its deadline is abandoned and nothing is sent.
func (p *Pipeline) Submit(ctx context.Context, fee uint64, msg domain.PriceBatchMessage, remaining solana.AccountMetaSlice) (solana.Signature, error) {
	tx, err := p.buildWithDeadline(ctx, fee, &msg, remaining)
	if err != nil {
		return solana.Signature{}, err
	}

	sig, err := p.ledger.SendTransaction(ctx, tx)
	if err != nil {
		return solana.Signature{}, fmt.Errorf("%w: %w", domain.ErrTransactionSubmit, err)
	}
	return sig, nil
}

func (p *Pipeline) buildWithDeadline(ctx context.Context, fee uint64, msg *domain.PriceBatchMessage, remaining solana.AccountMetaSlice) (*solana.Transaction, error) {
	buildCtx, cancel := context.WithTimeout(ctx, p.buildTimeout)
	defer cancel()

	done := make(chan buildResult, 1)
	go func() {
		tx, err := p.build(buildCtx, fee, msg, remaining)
		done <- buildResult{tx: tx, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			if errors.Is(res.err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %w", domain.ErrTransactionBuildTimeout, res.err)
			}
			return nil, fmt.Errorf("%w: %w", domain.ErrTransactionBuild, res.err)
		}
		return res.tx, nil
	case <-buildCtx.Done():
		if errors.Is(buildCtx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: exceeded %s", domain.ErrTransactionBuildTimeout, p.buildTimeout)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrTransactionBuild, buildCtx.Err())
	}
}

func (p *Pipeline) build(ctx context.Context, fee uint64, msg *domain.PriceBatchMessage, remaining solana.AccountMetaSlice) (*solana.Transaction, error) {
	instructions, err := p.Instructions(fee, msg, remaining)
	if err != nil {
		return nil, err
	}

	blockhash, err := p.ledger.LatestBlockhash(ctx)
	if err != nil {
		return nil, err
	}

	payerKey := p.payer.PublicKey()
	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payerKey))
	if err != nil {
		return nil, fmt.Errorf("failed to assemble transaction: %w", err)
	}

	_, err = tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payerKey) {
			return &p.payer
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	return tx, nil
}

func NewPipeline(ledger adapters.LedgerClient, program *adrena.Program, payer solana.PrivateKey, cuLimit uint32, buildTimeout time.Duration) *Pipeline {
	if cuLimit == 0 {
		cuLimit = defaultComputeUnitLimit
	}
	if buildTimeout <= 0 {
		buildTimeout = defaultBuildTimeout
	}
	return &Pipeline{
		ledger:       ledger,
		program:      program,
		payer:        payer,
		cuLimit:      cuLimit,
		buildTimeout: buildTimeout,
	}
}
