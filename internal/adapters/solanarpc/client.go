package solanarpc

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"aumkeeper/internal/domain"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

var ErrNoFeeSamples = errors.New("no priority fee samples returned")

type Client struct {
	rpc        *rpc.Client
	commitment rpc.CommitmentType
}

// prioritizationFee is one sample of the getRecentPrioritizationFees response.
type prioritizationFee struct {
	Slot              uint64 `json:"slot"`
	PrioritizationFee uint64 `json:"prioritizationFee"`
}

func (c *Client) GetAccountData(ctx context.Context, address solana.PublicKey) ([]byte, error) {
	out, err := c.rpc.GetAccountInfoWithOpts(ctx, address, &rpc.GetAccountInfoOpts{
		Encoding:   solana.EncodingBase64,
		Commitment: c.commitment,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get account %s: %w", address, err)
	}
	if out == nil || out.Value == nil || out.Value.Data == nil {
		return nil, fmt.Errorf("account %s not found", address)
	}
	return out.Value.Data.GetBinary(), nil
}

func (c *Client) LatestBlockhash(ctx context.Context) (solana.Hash, error) {
	out, err := c.rpc.GetLatestBlockhash(ctx, c.commitment)
	if err != nil {
		return solana.Hash{}, fmt.Errorf("failed to get latest blockhash: %w: %w", domain.ErrConnectivity, err)
	}
	if out == nil || out.Value == nil {
		return solana.Hash{}, errors.New("empty latest blockhash response")
	}
	return out.Value.Blockhash, nil
}

// SendTransaction skips preflight simulation and asks the node not to rebroadcast.
// A lost transaction is superseded by the next cycle.
func (c *Client) SendTransaction(ctx context.Context, tx *solana.Transaction) (solana.Signature, error) {
	maxRetries := uint(0)
	sig, err := c.rpc.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       true,
		PreflightCommitment: c.commitment,
		MaxRetries:          &maxRetries,
	})
	if err != nil {
		return solana.Signature{}, fmt.Errorf("failed to send transaction: %w", err)
	}
	return sig, nil
}

// RecentPriorityFee returns the mean of the recent prioritization fees sampled at
// percentile (basis points, 2500 = 25th). The percentile parameter is an RPC
// extension supported by Triton-operated nodes.
func (c *Client) RecentPriorityFee(ctx context.Context, percentile uint64) (uint64, error) {
	var samples []prioritizationFee
	params := []interface{}{
		[]string{},
		map[string]interface{}{"percentile": percentile},
	}
	if err := c.rpc.RPCCallForInto(ctx, &samples, "getRecentPrioritizationFees", params); err != nil {
		return 0, fmt.Errorf("failed to get recent prioritization fees: %w", err)
	}
	if len(samples) == 0 {
		return 0, ErrNoFeeSamples
	}

	var sum uint64
	for _, s := range samples {
		sum += s.PrioritizationFee
	}
	return sum / uint64(len(samples)), nil
}

func NewClient(endpoint string, commitment string) (*Client, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to parse rpc endpoint: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("rpc endpoint %q must be an absolute URL", endpoint)
	}
	return &Client{rpc: rpc.New(endpoint), commitment: rpc.CommitmentType(commitment)}, nil
}
