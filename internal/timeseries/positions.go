package timeseries

import (
	"math"

	"hyperliquid-vault-lab/internal/domain"
)

// sizeEpsilon absorbs float residue when summing signed fill sizes; a net
// position below this is treated as flat.
const sizeEpsilon = 1e-9

// Position is one synthesized open/close interval reconstructed from fills.
// It exists only transiently during aggregation and is never persisted.
type Position struct {
	OpenMs  int64
	CloseMs int64
}

// HoldingHours returns the holding time of the position in hours.
func (p Position) HoldingHours() float64 {
	return float64(p.CloseMs-p.OpenMs) / (60 * 60 * 1000)
}

// ClosedPositions reconstructs position intervals from fills sorted by
// timestamp using side-flip matching on the net signed size: a position
// opens on the fill that takes the net size away from zero and closes on
// the fill that returns it to zero or flips its sign. A flip closes the old
// position and opens the new one at the same fill. A position still open
// after the last fill is discarded.
func ClosedPositions(fills []domain.Fill) []Position {
	var positions []Position

	net := 0.0
	var openMs int64
	open := false

	for _, f := range fills {
		prev := net
		net += f.SignedSize()
		if math.Abs(net) < sizeEpsilon {
			net = 0
		}

		switch {
		case !open && net != 0:
			openMs = f.TimestampMs
			open = true
		case open && net == 0:
			positions = append(positions, Position{OpenMs: openMs, CloseMs: f.TimestampMs})
			open = false
		case open && prev != 0 && (prev < 0) != (net < 0):
			// Sign flip: close the old side, the remainder opens the new one.
			positions = append(positions, Position{OpenMs: openMs, CloseMs: f.TimestampMs})
			openMs = f.TimestampMs
		}
	}

	return positions
}

// TradePnLs returns the closed PnL of every fill that reported one, in fill
// order. Fills without a closed PnL (position-opening fills) are skipped.
func TradePnLs(fills []domain.Fill) []float64 {
	var pnls []float64
	for _, f := range fills {
		if f.ClosedPnl != nil {
			pnls = append(pnls, *f.ClosedPnl)
		}
	}
	return pnls
}
