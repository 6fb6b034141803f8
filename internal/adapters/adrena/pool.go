package adrena

import (
	"bytes"
	"errors"
	"fmt"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// MaxCustodies is the fixed size of the pool's custody array.
const MaxCustodies = 8

var (
	poolDiscriminator = anchorDiscriminator("account", "Pool")

	ErrPoolDiscriminator = errors.New("account is not a pool")
)

// Pool is the prefix of the zero-copy Pool account the keeper reads.
// Layout after the discriminator: eight u8 flags/counters, a 32 byte
// LimitedString name, then [Pubkey; MaxCustodies].
type Pool struct {
	Bump                     uint8
	LpTokenBump              uint8
	NbStableCustody          uint8
	Initialized              uint8
	AllowTrade               uint8
	AllowSwap                uint8
	LiquidityState           uint8
	RegisteredCustodiesCount uint8
	Name                     [32]byte
	Custodies                [MaxCustodies]solana.PublicKey
}

func DecodePool(data []byte) (*Pool, error) {
	dec := bin.NewBorshDecoder(data)

	disc, err := dec.ReadNBytes(len(poolDiscriminator))
	if err != nil {
		return nil, fmt.Errorf("failed to read discriminator: %w", err)
	}
	if !bytes.Equal(disc, poolDiscriminator[:]) {
		return nil, ErrPoolDiscriminator
	}

	var pool Pool
	flags := []*uint8{
		&pool.Bump, &pool.LpTokenBump, &pool.NbStableCustody, &pool.Initialized,
		&pool.AllowTrade, &pool.AllowSwap, &pool.LiquidityState, &pool.RegisteredCustodiesCount,
	}
	for _, f := range flags {
		if *f, err = dec.ReadUint8(); err != nil {
			return nil, fmt.Errorf("failed to read pool header: %w", err)
		}
	}

	name, err := dec.ReadNBytes(len(pool.Name))
	if err != nil {
		return nil, fmt.Errorf("failed to read pool name: %w", err)
	}
	copy(pool.Name[:], name)

	for i := range pool.Custodies {
		raw, err := dec.ReadNBytes(solana.PublicKeyLength)
		if err != nil {
			return nil, fmt.Errorf("failed to read custody %d: %w", i, err)
		}
		pool.Custodies[i] = solana.PublicKeyFromBytes(raw)
	}
	return &pool, nil
}

// RemainingAccounts lists every registered custody as a read-only, non-signer account.
func (p *Pool) RemainingAccounts() solana.AccountMetaSlice {
	accounts := make(solana.AccountMetaSlice, 0, MaxCustodies)
	for _, custody := range p.Custodies {
		if custody.IsZero() {
			continue
		}
		accounts = append(accounts, solana.NewAccountMeta(custody, false, false))
	}
	return accounts
}
