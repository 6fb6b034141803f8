// Package adrena builds instructions for the Adrena perpetuals program and decodes
// the pool account the keeper needs at startup.
package adrena

import (
	"crypto/sha256"
	"fmt"

	"github.com/gagliardetto/solana-go"
)

const oracleSeed = "oracle"

// Program holds the static addresses used by update_pool_aum.
type Program struct {
	ID      solana.PublicKey
	Cortex  solana.PublicKey
	Pool    solana.PublicKey
	ALPMint solana.PublicKey
	Oracle  solana.PublicKey
}

// anchorDiscriminator returns the 8 byte Anchor prefix for "<namespace>:<name>".
func anchorDiscriminator(namespace, name string) [8]byte {
	var d [8]byte
	sum := sha256.Sum256([]byte(namespace + ":" + name))
	copy(d[:], sum[:8])
	return d
}

func parseKey(field, value string) (solana.PublicKey, error) {
	key, err := solana.PublicKeyFromBase58(value)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("invalid %s %q: %w", field, value, err)
	}
	return key, nil
}

func NewProgram(programID, cortex, pool, alpMint string) (*Program, error) {
	var (
		p   Program
		err error
	)
	if p.ID, err = parseKey("program id", programID); err != nil {
		return nil, err
	}
	if p.Cortex, err = parseKey("cortex", cortex); err != nil {
		return nil, err
	}
	if p.Pool, err = parseKey("pool", pool); err != nil {
		return nil, err
	}
	if p.ALPMint, err = parseKey("alp mint", alpMint); err != nil {
		return nil, err
	}
	if p.Oracle, _, err = solana.FindProgramAddress([][]byte{[]byte(oracleSeed)}, p.ID); err != nil {
		return nil, fmt.Errorf("failed to derive oracle pda: %w", err)
	}
	return &p, nil
}
