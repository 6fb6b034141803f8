package keeper

import (
	"errors"
	"strings"
	"testing"

	"aumkeeper/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestFormatPrices_FixedOrderAndOwnTimestamps(t *testing.T) {
	s := validSnapshot()

	msg, err := FormatPrices(s)
	require.NoError(t, err)

	require.Equal(t, []domain.PriceEntry{
		{FeedID: domain.FeedJITOSOLUSD, Price: 1720000000000, Timestamp: s.JITOSOLUSDAt.Unix()},
		{FeedID: domain.FeedSOLUSD, Price: 1450000000000, Timestamp: s.SOLUSDAt.Unix()},
		{FeedID: domain.FeedWBTCUSD, Price: 649990000000000, Timestamp: s.WBTCUSDAt.Unix()},
		{FeedID: domain.FeedBTCUSD, Price: 650000000000000, Timestamp: s.BTCUSDAt.Unix()},
		{FeedID: domain.FeedBONKUSD, Price: 210000, Timestamp: s.BONKUSDAt.Unix()},
		{FeedID: domain.FeedUSDCUSD, Price: 10000000000, Timestamp: s.USDCUSDAt.Unix()},
	}, msg.Prices)
	require.Equal(t, uint8(1), msg.RecoveryID)
	for _, b := range msg.Signature {
		require.Equal(t, byte(0xab), b)
	}
}

func TestFormatPrices_TruncatesTowardZero(t *testing.T) {
	s := validSnapshot()
	s.SOLUSD = decimal.RequireFromString("12.999")

	msg, err := FormatPrices(s)
	require.NoError(t, err)
	require.Equal(t, domain.FeedSOLUSD, msg.Prices[1].FeedID)
	require.Equal(t, uint64(12), msg.Prices[1].Price)
}

func TestFormatPrices_MaxUint64Accepted(t *testing.T) {
	s := validSnapshot()
	s.USDCUSD = decimal.RequireFromString("18446744073709551615.9")

	msg, err := FormatPrices(s)
	require.NoError(t, err)
	require.Equal(t, uint64(18446744073709551615), msg.Prices[5].Price)
}

func TestFormatPrices_SignatureErrors(t *testing.T) {
	tests := []struct {
		name string
		sig  string
	}{
		{name: "odd length", sig: strings.Repeat("a", 127)},
		{name: "non hex", sig: strings.Repeat("zz", domain.SignatureLen)},
		{name: "too short", sig: strings.Repeat("ab", 63)},
		{name: "too long", sig: strings.Repeat("ab", 65)},
		{name: "empty", sig: ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := validSnapshot()
			s.Signature = tc.sig

			msg, err := FormatPrices(s)
			require.ErrorIs(t, err, domain.ErrSignatureDecode)
			require.Empty(t, msg.Prices)
		})
	}
}

func TestFormatPrices_UppercaseHexAccepted(t *testing.T) {
	s := validSnapshot()
	s.Signature = strings.Repeat("AB", domain.SignatureLen)

	_, err := FormatPrices(s)
	require.NoError(t, err)
}

func TestFormatPrices_NegativePriceNamesFeed(t *testing.T) {
	s := validSnapshot()
	s.BTCUSD = decimal.RequireFromString("-1")

	msg, err := FormatPrices(s)
	require.ErrorIs(t, err, domain.ErrPriceConversion)
	var convErr *domain.PriceConversionError
	require.True(t, errors.As(err, &convErr))
	require.Equal(t, domain.FeedBTCUSD, convErr.Feed)
	require.Empty(t, msg.Prices)
}

func TestFormatPrices_NegativeFractionRejected(t *testing.T) {
	s := validSnapshot()
	s.BONKUSD = decimal.RequireFromString("-0.5")

	_, err := FormatPrices(s)
	require.ErrorIs(t, err, domain.ErrPriceConversion)
}

func TestFormatPrices_OverflowRejected(t *testing.T) {
	s := validSnapshot()
	s.WBTCUSD = decimal.RequireFromString("18446744073709551616")

	_, err := FormatPrices(s)
	var convErr *domain.PriceConversionError
	require.ErrorAs(t, err, &convErr)
	require.Equal(t, domain.FeedWBTCUSD, convErr.Feed)
}

func TestFormatPrices_RecoveryIDLowByte(t *testing.T) {
	s := validSnapshot()
	s.RecoveryID = 257

	msg, err := FormatPrices(s)
	require.NoError(t, err)
	require.Equal(t, uint8(1), msg.RecoveryID)
}
