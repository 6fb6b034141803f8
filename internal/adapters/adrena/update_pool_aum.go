package adrena

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"aumkeeper/internal/domain"

	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

var updatePoolAumDiscriminator = anchorDiscriminator("global", "update_pool_aum")

// EncodeUpdatePoolAum serializes UpdatePoolAumParams{oracle_prices: Option<ChaosLabsBatchPrices>}
// with Borsh, prefixed by the instruction discriminator. A nil msg encodes None.
func EncodeUpdatePoolAum(msg *domain.PriceBatchMessage) ([]byte, error) {
	buf := new(bytes.Buffer)
	enc := bin.NewBorshEncoder(buf)

	if err := enc.WriteBytes(updatePoolAumDiscriminator[:], false); err != nil {
		return nil, err
	}
	if msg == nil {
		if err := enc.WriteUint8(0); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	}
	if err := enc.WriteUint8(1); err != nil {
		return nil, err
	}

	if err := enc.WriteUint32(uint32(len(msg.Prices)), binary.LittleEndian); err != nil {
		return nil, err
	}
	for _, p := range msg.Prices {
		if err := enc.WriteUint8(uint8(p.FeedID)); err != nil {
			return nil, err
		}
		if err := enc.WriteUint64(p.Price, binary.LittleEndian); err != nil {
			return nil, err
		}
		if err := enc.WriteInt64(p.Timestamp, binary.LittleEndian); err != nil {
			return nil, err
		}
	}
	if err := enc.WriteBytes(msg.Signature[:], false); err != nil {
		return nil, err
	}
	if err := enc.WriteUint8(msg.RecoveryID); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UpdatePoolAum builds the instruction with its static accounts followed by remaining.
func (p *Program) UpdatePoolAum(payer solana.PublicKey, msg *domain.PriceBatchMessage, remaining solana.AccountMetaSlice) (solana.Instruction, error) {
	data, err := EncodeUpdatePoolAum(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode update_pool_aum params: %w", err)
	}

	accounts := solana.AccountMetaSlice{
		solana.NewAccountMeta(payer, true, true),
		solana.NewAccountMeta(p.Cortex, false, false),
		solana.NewAccountMeta(p.Pool, true, false),
		solana.NewAccountMeta(p.Oracle, true, false),
		solana.NewAccountMeta(p.ALPMint, false, false),
	}
	accounts = append(accounts, remaining...)

	return solana.NewInstruction(p.ID, accounts, data), nil
}
