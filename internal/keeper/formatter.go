package keeper

import (
	"encoding/hex"
	"fmt"

	"aumkeeper/internal/domain"

	"github.com/shopspring/decimal"
)

// FormatPrices converts a snapshot into the oracle batch message. Entries follow
// domain.EmissionOrder and carry each feed's own observation time. Any failure
// discards the whole message.
func FormatPrices(s *domain.PriceSnapshot) (domain.PriceBatchMessage, error) {
	sig, err := hex.DecodeString(s.Signature)
	if err != nil {
		return domain.PriceBatchMessage{}, fmt.Errorf("%w: %w", domain.ErrSignatureDecode, err)
	}
	if len(sig) != domain.SignatureLen {
		return domain.PriceBatchMessage{}, fmt.Errorf("%w: signature hex string has incorrect length (%d bytes, want %d)",
			domain.ErrSignatureDecode, len(sig), domain.SignatureLen)
	}

	prices := make([]domain.PriceEntry, 0, len(domain.EmissionOrder))
	for _, feed := range domain.EmissionOrder {
		price, _ := s.Price(feed)
		integer, err := truncateToUint64(feed, price)
		if err != nil {
			return domain.PriceBatchMessage{}, err
		}
		observedAt, _ := s.ObservedAt(feed)
		prices = append(prices, domain.PriceEntry{
			FeedID:    feed,
			Price:     integer,
			Timestamp: observedAt.Unix(),
		})
	}

	msg := domain.PriceBatchMessage{
		Prices:     prices,
		RecoveryID: uint8(s.RecoveryID),
	}
	copy(msg.Signature[:], sig)
	return msg, nil
}

// truncateToUint64 drops the fractional part (12.999 -> 12) and rejects values
// that are negative or wider than 64 bits.
func truncateToUint64(feed domain.FeedID, price decimal.Decimal) (uint64, error) {
	if price.IsNegative() {
		return 0, &domain.PriceConversionError{Feed: feed, Price: price}
	}
	integer := price.BigInt()
	if !integer.IsUint64() {
		return 0, &domain.PriceConversionError{Feed: feed, Price: price}
	}
	return integer.Uint64(), nil
}
