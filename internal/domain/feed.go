package domain

// FeedID identifies one of the fixed price series understood by the on-chain oracle.
// The numeric values are a protocol contract and must never be reassigned.
type FeedID uint8

const (
	FeedSOLUSD     FeedID = 0
	FeedJITOSOLUSD FeedID = 1
	FeedBTCUSD     FeedID = 2
	FeedWBTCUSD    FeedID = 3
	FeedBONKUSD    FeedID = 4
	FeedUSDCUSD    FeedID = 5
)

// PriceExponent is the implicit decimal exponent of every integer price in a
// PriceBatchMessage. The ingester stores prices already scaled by 10^10, so the
// keeper only truncates and never rescales.
const PriceExponent = -10

// EmissionOrder is the order in which entries are laid out in a PriceBatchMessage.
// The receiving program validates positionally.
var EmissionOrder = [...]FeedID{
	FeedJITOSOLUSD,
	FeedSOLUSD,
	FeedWBTCUSD,
	FeedBTCUSD,
	FeedBONKUSD,
	FeedUSDCUSD,
}

func (f FeedID) String() string {
	switch f {
	case FeedSOLUSD:
		return "SOLUSD"
	case FeedJITOSOLUSD:
		return "JITOSOLUSD"
	case FeedBTCUSD:
		return "BTCUSD"
	case FeedWBTCUSD:
		return "WBTCUSD"
	case FeedBONKUSD:
		return "BONKUSD"
	case FeedUSDCUSD:
		return "USDCUSD"
	default:
		return "UNKNOWN"
	}
}
