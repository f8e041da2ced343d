package domain

// Side of an executed trade. Hyperliquid encodes bids as "B" and asks as "A".
type Side string

const (
	SideBuy  Side = "B"
	SideSell Side = "A"
)

// Fill is one executed trade event for a vault's account.
// ClosedPnl is present only on position-reducing fills; Fee may be absent on
// older records.
type Fill struct {
	TimestampMs int64
	Side        Side
	Size        float64 // contracts, always positive
	Price       float64
	ClosedPnl   *float64
	Fee         *float64
}

// Notional returns the traded value in quote currency.
func (f Fill) Notional() float64 {
	return f.Size * f.Price
}

// SignedSize returns the size with buys positive and sells negative.
func (f Fill) SignedSize() float64 {
	if f.Side == SideSell {
		return -f.Size
	}
	return f.Size
}
