package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceSnapshot is one row of attested prices as written by the ingester.
type PriceSnapshot struct {
	SOLUSD     decimal.Decimal
	JITOSOLUSD decimal.Decimal
	BTCUSD     decimal.Decimal
	WBTCUSD    decimal.Decimal
	BONKUSD    decimal.Decimal
	USDCUSD    decimal.Decimal

	SOLUSDAt     time.Time
	JITOSOLUSDAt time.Time
	BTCUSDAt     time.Time
	WBTCUSDAt    time.Time
	BONKUSDAt    time.Time
	USDCUSDAt    time.Time

	Signature       string // hex, 64 bytes once decoded
	RecoveryID      int32
	LatestTimestamp time.Time
}

// Price returns the decimal price of the given feed and false for an unknown feed.
func (s *PriceSnapshot) Price(feed FeedID) (decimal.Decimal, bool) {
	switch feed {
	case FeedSOLUSD:
		return s.SOLUSD, true
	case FeedJITOSOLUSD:
		return s.JITOSOLUSD, true
	case FeedBTCUSD:
		return s.BTCUSD, true
	case FeedWBTCUSD:
		return s.WBTCUSD, true
	case FeedBONKUSD:
		return s.BONKUSD, true
	case FeedUSDCUSD:
		return s.USDCUSD, true
	}
	return decimal.Zero, false
}

// ObservedAt returns the observation time of the given feed's own price.
func (s *PriceSnapshot) ObservedAt(feed FeedID) (time.Time, bool) {
	switch feed {
	case FeedSOLUSD:
		return s.SOLUSDAt, true
	case FeedJITOSOLUSD:
		return s.JITOSOLUSDAt, true
	case FeedBTCUSD:
		return s.BTCUSDAt, true
	case FeedWBTCUSD:
		return s.WBTCUSDAt, true
	case FeedBONKUSD:
		return s.BONKUSDAt, true
	case FeedUSDCUSD:
		return s.USDCUSDAt, true
	}
	return time.Time{}, false
}

type PriceEntry struct {
	FeedID    FeedID
	Price     uint64
	Timestamp int64 // unix seconds
}

const SignatureLen = 64

// PriceBatchMessage is the oracle payload carried by the update_pool_aum instruction.
type PriceBatchMessage struct {
	Prices     []PriceEntry
	Signature  [SignatureLen]byte
	RecoveryID uint8
}
